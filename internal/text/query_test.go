package text

import (
	"testing"

	"github.com/ppiankov/ducky/internal/vocab"
)

func TestStripInterrogative(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"what is the capital of France", "capital of France"},
		{"who was albert einstein", "albert einstein"},
		{"whats an aardvark", "aardvark"},
		{"what's a platypus", "platypus"},
		{"when were the beatles formed", "beatles formed"},
		{"who are any of them", "of them"},
		{"tell me about cats", "tell me about cats"},
		{"What is the capital of France", "What is the capital of France"},
		{"", ""},
	}

	s := NewStripper(vocab.Default())
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			if got := s.StripInterrogative(tt.utterance); got != tt.want {
				t.Errorf("StripInterrogative(%q) = %q, want %q", tt.utterance, got, tt.want)
			}
		})
	}
}

// Only one article is consumed: the grammar has a single optional article slot.
func TestStripInterrogative_SingleArticleSlot(t *testing.T) {
	s := NewStripper(vocab.Default())
	if got := s.StripInterrogative("what is the the band"); got != "the band" {
		t.Errorf("expected %q, got %q", "the band", got)
	}
}

// Known heuristic limit: the first matching combination wins even when a
// later, longer combination would strip more of the question.
func TestStripInterrogative_FirstMatchWins(t *testing.T) {
	v := vocab.New("xx", []string{"what"}, []string{" is", " is not"}, []string{"the"}, nil, nil)
	s := NewStripper(v)

	if got := s.StripInterrogative("what is not the answer"); got != "not the answer" {
		t.Errorf("expected first-match result %q, got %q", "not the answer", got)
	}

	prefix, ok := s.MatchPrefix("what is not the answer")
	if !ok || prefix != "what is " {
		t.Errorf("MatchPrefix = %q, %v; want %q, true", prefix, ok, "what is ")
	}
}

func TestRemoveTriggers(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"ask the duck what is the capital of France", "what is the capital of France"},
		{"search duckduckgo for penguins", "for penguins"},
		{"  DuckDuckGo   who was ada lovelace ", "who was ada lovelace"},
		{"research papers", "research papers"},
		{"ducky", ""},
	}

	s := NewStripper(vocab.Default())
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			if got := s.RemoveTriggers(tt.utterance); got != tt.want {
				t.Errorf("RemoveTriggers(%q) = %q, want %q", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestContainsTrigger(t *testing.T) {
	s := NewStripper(vocab.Default())

	tests := map[string]bool{
		"ask the duck what is the moon": true,
		"what is the moon":              false,
		"Ask DuckDuckGo about otters":   true,
		"research papers":               false,
		"":                              false,
	}
	for in, want := range tests {
		if got := s.ContainsTrigger(in); got != want {
			t.Errorf("ContainsTrigger(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStripArticles(t *testing.T) {
	s := NewStripper(vocab.Default())

	tests := map[string]string{
		"the capital of a country": "capital of country",
		"panda bear":               "panda bear",
		"The Who":                  "Who",
		"an":                       "",
	}
	for in, want := range tests {
		if got := s.StripArticles(in); got != want {
			t.Errorf("StripArticles(%q) = %q, want %q", in, got, want)
		}
	}
}
