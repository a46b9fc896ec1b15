package answer

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ducky/internal/text"
)

// Mode controls how much of an abstract is spoken
type Mode string

const (
	// ModeFull speaks every sentence of the abstract
	ModeFull Mode = "full"
	// ModeBrief speaks only the first sentence
	ModeBrief Mode = "brief"
)

// ParseMode parses a configured mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFull, "":
		return ModeFull, nil
	case ModeBrief:
		return ModeBrief, nil
	default:
		return "", fmt.Errorf("unknown answer mode %q (supported: full, brief)", s)
	}
}

// Synthesizer renders a classified outcome as speakable text
type Synthesizer struct {
	reformatter *text.Reformatter
	mode        Mode
}

// NewSynthesizer creates a new Synthesizer
func NewSynthesizer(reformatter *text.Reformatter, mode Mode) *Synthesizer {
	if mode == "" {
		mode = ModeFull
	}
	return &Synthesizer{reformatter: reformatter, mode: mode}
}

// Mode returns the verbosity mode
func (s *Synthesizer) Mode() Mode { return s.mode }

// WithMode returns a copy of the Synthesizer using mode
func (s *Synthesizer) WithMode(mode Mode) *Synthesizer {
	return NewSynthesizer(s.reformatter, mode)
}

// Synthesize returns the answer for query, or false when there is none
func (s *Synthesizer) Synthesize(query string, o Outcome) (string, bool) {
	switch o := o.(type) {
	case DirectAnswer:
		return query + " is " + o.Text + ".", true

	case Abstract:
		sents := text.SplitSentences(o.Text)
		if len(sents) == 0 {
			return "", false
		}
		spoken := sents[0]
		if s.mode != ModeBrief {
			spoken = strings.Join(sents, ". ")
		}
		if strings.TrimSpace(spoken) == "" {
			return "", false
		}
		return spoken, true

	case RelatedTopic:
		sents := text.SplitSentences(o.Text)
		if len(sents) == 0 || sents[0] == "" {
			return "", false
		}
		return s.reformatter.FormatRelated(sents[0], query), true

	case NoAnswer:
		return "", false
	}

	return "", false
}
