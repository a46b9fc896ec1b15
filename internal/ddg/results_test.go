package ddg

import (
	"errors"
	"testing"
)

const abstractDoc = `<?xml version="1.0" encoding="UTF-8"?>
<DuckDuckGoResponse version="1.0">
  <Heading>Paris</Heading>
  <Type>D</Type>
  <Abstract>&lt;b&gt;Paris&lt;/b&gt; is the capital of France.</Abstract>
  <AbstractText>Paris is the capital and most populous city of France. It is on the Seine.</AbstractText>
  <AbstractSource>Wikipedia</AbstractSource>
  <AbstractURL>https://en.wikipedia.org/wiki/Paris</AbstractURL>
  <Image></Image>
  <Answer type=""></Answer>
  <Definition></Definition>
  <RelatedTopics>
    <RelatedTopic>
      <Result>&lt;a href="https://duckduckgo.com/Paris_Hilton"&gt;Paris Hilton&lt;/a&gt; American media personality</Result>
      <FirstURL>https://duckduckgo.com/Paris_Hilton</FirstURL>
      <Icon><URL></URL></Icon>
      <Text>Paris Hilton American media personality</Text>
    </RelatedTopic>
    <RelatedTopicsSection name="Places">
      <RelatedTopic>
        <Result>&lt;a href="https://duckduckgo.com/Paris,_Texas"&gt;Paris, Texas&lt;/a&gt; A city in Texas</Result>
        <FirstURL></FirstURL>
        <Text></Text>
      </RelatedTopic>
    </RelatedTopicsSection>
  </RelatedTopics>
  <Results></Results>
</DuckDuckGoResponse>`

const answerDoc = `<?xml version="1.0"?>
<DuckDuckGoResponse version="1.0">
  <Type>E</Type>
  <Answer type="calc">4</Answer>
  <AbstractText></AbstractText>
  <Results>
    <Result>
      <Result>&lt;a href="https://example.com/"&gt;Example&lt;/a&gt;</Result>
      <FirstURL>https://example.com/</FirstURL>
      <Text>Example</Text>
    </Result>
  </Results>
</DuckDuckGoResponse>`

func TestParseResults_Abstract(t *testing.T) {
	r, err := ParseResults([]byte(abstractDoc))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}

	if r.Version != "1.0" {
		t.Errorf("expected version 1.0, got %q", r.Version)
	}
	if r.Type != TypeDisambiguation {
		t.Errorf("expected disambiguation, got %s", r.Type)
	}
	if r.Heading != "Paris" {
		t.Errorf("unexpected heading %q", r.Heading)
	}
	if r.Answer != nil {
		t.Errorf("expected nil answer for empty Answer element, got %+v", r.Answer)
	}
	if r.Abstract.Text != "Paris is the capital and most populous city of France. It is on the Seine." {
		t.Errorf("unexpected abstract text %q", r.Abstract.Text)
	}
	if r.Abstract.HTML != "<b>Paris</b> is the capital of France." {
		t.Errorf("unexpected abstract HTML %q", r.Abstract.HTML)
	}
	if r.Abstract.Source != "Wikipedia" || r.Abstract.URL != "https://en.wikipedia.org/wiki/Paris" {
		t.Errorf("unexpected abstract source/url: %+v", r.Abstract)
	}

	if len(r.Related) != 2 {
		t.Fatalf("expected 2 related topics (including sectioned), got %d", len(r.Related))
	}
	if r.Related[0].Text != "Paris Hilton American media personality" {
		t.Errorf("unexpected first related text %q", r.Related[0].Text)
	}
	if r.Related[0].URL != "https://duckduckgo.com/Paris_Hilton" {
		t.Errorf("unexpected first related url %q", r.Related[0].URL)
	}

	// Text and URL recovered from the Result HTML when the plain fields are empty
	if r.Related[1].Text != "Paris, Texas A city in Texas" {
		t.Errorf("unexpected second related text %q", r.Related[1].Text)
	}
	if r.Related[1].URL != "https://duckduckgo.com/Paris,_Texas" {
		t.Errorf("unexpected second related url %q", r.Related[1].URL)
	}
}

func TestParseResults_Answer(t *testing.T) {
	r, err := ParseResults([]byte(answerDoc))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}

	if r.Type != TypeExclusive {
		t.Errorf("expected exclusive, got %s", r.Type)
	}
	if r.Answer == nil || r.Answer.Text != "4" || r.Answer.Type != "calc" {
		t.Errorf("unexpected answer %+v", r.Answer)
	}
	// Result links are skipped, not mistaken for related topics
	if len(r.Related) != 0 {
		t.Errorf("expected no related topics, got %d", len(r.Related))
	}
}

func TestParseResults_AbstractFromHTML(t *testing.T) {
	doc := `<DuckDuckGoResponse><Abstract>&lt;b&gt;Go&lt;/b&gt; is a  programming language.</Abstract></DuckDuckGoResponse>`
	r, err := ParseResults([]byte(doc))
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}
	if r.Abstract.Text != "Go is a programming language." {
		t.Errorf("unexpected abstract text %q", r.Abstract.Text)
	}
	if r.Type != TypeNothing {
		t.Errorf("expected nothing type without Type element, got %s", r.Type)
	}
}

func TestParseResults_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n", `<?xml version="1.0"?>`} {
		_, err := ParseResults([]byte(in))
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("ParseResults(%q) error = %v, want ErrEmptyDocument", in, err)
		}
	}
}

func TestParseResults_Malformed(t *testing.T) {
	_, err := ParseResults([]byte("<DuckDuckGoResponse><Heading>x</DuckDuckGoResponse>"))
	if err == nil {
		t.Fatal("expected error for malformed document")
	}
	if errors.Is(err, ErrEmptyDocument) {
		t.Error("malformed document should not be reported as empty")
	}
}

func TestHTMLText(t *testing.T) {
	tests := map[string]string{
		`<a href="x">Paris</a>, capital of France`: "Paris, capital of France",
		"plain text":                "plain text",
		"<p>one</p><p>two</p>":      "one two",
		"a<script>evil()</script>b": "ab",
	}
	for in, want := range tests {
		if got := HTMLText(in); got != want {
			t.Errorf("HTMLText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFirstLink(t *testing.T) {
	if got := FirstLink(`text <a href=" https://duckduckgo.com/Go ">Go</a> <a href="https://b">b</a>`); got != "https://duckduckgo.com/Go" {
		t.Errorf("unexpected link %q", got)
	}
	if got := FirstLink("no links"); got != "" {
		t.Errorf("expected empty link, got %q", got)
	}
}
