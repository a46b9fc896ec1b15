package ddg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// ErrEmptyDocument is returned when there is no markup to parse
var ErrEmptyDocument = errors.New("empty document")

// ResultType is the kind of response the Instant Answer API produced
type ResultType string

const (
	TypeAnswer         ResultType = "answer"
	TypeDisambiguation ResultType = "disambiguation"
	TypeCategory       ResultType = "category"
	TypeName           ResultType = "name"
	TypeExclusive      ResultType = "exclusive"
	TypeNothing        ResultType = "nothing"
)

// typeCodes maps the API's single-letter Type element to a ResultType
var typeCodes = map[string]ResultType{
	"A": TypeAnswer,
	"D": TypeDisambiguation,
	"C": TypeCategory,
	"N": TypeName,
	"E": TypeExclusive,
	"":  TypeNothing,
}

// Results is a parsed Instant Answer API document
type Results struct {
	Version  string
	Type     ResultType
	Heading  string
	Answer   *Answer // nil when the document carries no answer text
	Abstract Abstract
	Related  []Topic
}

// Answer is a short factual answer ("instant answer")
type Answer struct {
	Text string
	Type string
}

// Abstract is a prose summary of the subject
type Abstract struct {
	Text   string
	HTML   string
	URL    string
	Source string
}

// Topic is a related topic
type Topic struct {
	Text string
	URL  string
	HTML string
}

type topicXML struct {
	Result   string `xml:"Result"`
	FirstURL string `xml:"FirstURL"`
	Text     string `xml:"Text"`
}

type answerXML struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// ParseResults parses an Instant Answer API XML document. The same parser is
// used for the detail page fetched while resolving a disambiguation.
func ParseResults(data []byte) (*Results, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	r := &Results{Type: TypeNothing}
	var (
		abstractText string
		seenRoot     bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse results: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !seenRoot {
			seenRoot = true
			for _, attr := range se.Attr {
				if attr.Name.Local == "version" {
					r.Version = attr.Value
				}
			}
			continue
		}

		switch se.Name.Local {
		case "RelatedTopics", "RelatedTopicsSection":
			// Descend: related topics may be grouped into named sections.
			continue

		case "RelatedTopic":
			var t topicXML
			if err := dec.DecodeElement(&t, &se); err != nil {
				return nil, fmt.Errorf("parse related topic: %w", err)
			}
			r.Related = append(r.Related, t.topic())

		case "Answer":
			var a answerXML
			if err := dec.DecodeElement(&a, &se); err != nil {
				return nil, fmt.Errorf("parse answer: %w", err)
			}
			if a.Text != "" {
				r.Answer = &Answer{Text: a.Text, Type: a.Type}
			}

		case "Type":
			var code string
			if err := dec.DecodeElement(&code, &se); err != nil {
				return nil, fmt.Errorf("parse type: %w", err)
			}
			if t, ok := typeCodes[code]; ok {
				r.Type = t
			}

		default:
			target := r.textField(se.Name.Local, &abstractText)
			if target == nil {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("parse results: %w", err)
				}
				continue
			}
			if err := dec.DecodeElement(target, &se); err != nil {
				return nil, fmt.Errorf("parse %s: %w", se.Name.Local, err)
			}
		}
	}

	if !seenRoot {
		return nil, ErrEmptyDocument
	}

	r.Abstract.Text = abstractText
	if r.Abstract.Text == "" && r.Abstract.HTML != "" {
		r.Abstract.Text = HTMLText(r.Abstract.HTML)
	}

	return r, nil
}

// textField returns where a simple text element is stored, or nil if the
// element is not one we keep
func (r *Results) textField(name string, abstractText *string) *string {
	switch name {
	case "Heading":
		return &r.Heading
	case "Abstract":
		return &r.Abstract.HTML
	case "AbstractText":
		return abstractText
	case "AbstractURL":
		return &r.Abstract.URL
	case "AbstractSource":
		return &r.Abstract.Source
	}
	return nil
}

func (t topicXML) topic() Topic {
	topic := Topic{Text: t.Text, URL: t.FirstURL, HTML: t.Result}
	if topic.Text == "" && topic.HTML != "" {
		topic.Text = HTMLText(topic.HTML)
	}
	if topic.URL == "" && topic.HTML != "" {
		topic.URL = FirstLink(topic.HTML)
	}
	return topic
}
