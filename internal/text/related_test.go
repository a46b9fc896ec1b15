package text

import (
	"testing"

	"github.com/ppiankov/ducky/internal/vocab"
	"go.uber.org/zap"
)

func newTestReformatter() *Reformatter {
	return NewReformatter(vocab.Default(), zap.NewNop())
}

func TestFormatRelated(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		query   string
		want    string
	}{
		{
			name:    "ellipsis removed, no article",
			snippet: "Paris, capital and largest city of France, on the Seine River...",
			query:   "paris",
			want:    "Paris, capital and largest city of France, on the Seine River.",
		},
		{
			name:    "dangling phrase dropped",
			snippet: "Paris, capital of France, and the largest city in...",
			query:   "paris",
			want:    "Paris, capital of France.",
		},
		{
			name:    "trailing gerund and conjunction stripped",
			snippet: "Berlin, capital of Germany known for its vibrant art scene and growing...",
			query:   "berlin",
			want:    "Berlin, capital of Germany known for its vibrant art scene.",
		},
		{
			name:    "split at article",
			snippet: "Python A high-level programming language",
			query:   "python",
			want:    "Python is a high-level programming language.",
		},
		{
			name:    "category reinserted",
			snippet: "Mercury (planet) The smallest planet in the Solar System",
			query:   "mercury",
			want:    "Mercury in planet is the smallest planet in the Solar System.",
		},
		{
			name:    "article too far from subject",
			snippet: "One two three four The end",
			query:   "x",
			want:    "One two three four The end.",
		},
		{
			name:    "split skips the article at word 0",
			snippet: "The Who The English rock band",
			query:   "the who",
			want:    "The Who is the English rock band.",
		},
		{
			name:    "leading article belongs to the name",
			snippet: "The Beatles English rock band",
			query:   "beatles",
			want:    "The Beatles English rock band.",
		},
		{
			name:    "category too far from subject",
			snippet: "A very long lead in before the (thing) appears",
			query:   "ab",
			want:    "A very long lead in before the (thing) appears.",
		},
		{
			name:    "existing terminal punctuation kept",
			snippet: "Who knows?",
			query:   "who",
			want:    "Who knows?",
		},
		{
			name:    "only dots",
			snippet: "...",
			query:   "dots",
			want:    "...",
		},
	}

	r := newTestReformatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.FormatRelated(tt.snippet, tt.query)
			if got != tt.want {
				t.Errorf("FormatRelated(%q, %q) = %q, want %q", tt.snippet, tt.query, got, tt.want)
			}
		})
	}
}

func TestFormatRelated_Idempotent(t *testing.T) {
	r := newTestReformatter()
	inputs := []struct{ snippet, query string }{
		{"Paris, capital and largest city of France, on the Seine River...", "paris"},
		{"Python A high-level programming language", "python"},
		{"Berlin, capital of Germany known for its vibrant art scene and growing...", "berlin"},
	}

	for _, in := range inputs {
		once := r.FormatRelated(in.snippet, in.query)
		twice := r.FormatRelated(once, in.query)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in.snippet, once, twice)
		}
	}
}

func TestFormatRelated_SingleWordWithEllipsis(t *testing.T) {
	r := newTestReformatter()
	// A lone start word must not be stripped to nothing.
	if got := r.FormatRelated("and...", "and"); got != "and." {
		t.Errorf("expected %q, got %q", "and.", got)
	}
}
