package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/ducky/internal/ddg"
	"github.com/ppiankov/ducky/internal/text"
	"github.com/ppiankov/ducky/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearcher struct {
	results     *ddg.Results
	err         error
	detail      *ddg.Results
	detailErr   error
	queries     []string
	detailCalls []string
}

func (f *fakeSearcher) Query(ctx context.Context, query string) (*ddg.Results, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func (f *fakeSearcher) Detail(ctx context.Context, topicURL string) (*ddg.Results, error) {
	f.detailCalls = append(f.detailCalls, topicURL)
	return f.detail, f.detailErr
}

func newSynth(mode Mode) *Synthesizer {
	return NewSynthesizer(text.NewReformatter(vocab.Default(), zap.NewNop()), mode)
}

func TestResolve_EmptyQuery(t *testing.T) {
	s := &fakeSearcher{}
	r := NewResolver(s, zap.NewNop())

	got := r.Resolve(context.Background(), "")

	assert.Equal(t, NoAnswer{Reason: ReasonEmptyQuery}, got)
	assert.Empty(t, s.queries, "empty query must not reach the knowledge service")
}

func TestResolve_TransportFailure(t *testing.T) {
	boom := errors.New("connection reset by peer")
	r := NewResolver(&fakeSearcher{err: boom}, zap.NewNop())

	got := r.Resolve(context.Background(), "1+1")

	na, ok := got.(NoAnswer)
	require.True(t, ok, "expected NoAnswer, got %T", got)
	assert.Equal(t, ReasonTransport, na.Reason)
	assert.ErrorIs(t, na.Err, boom)
}

func TestResolve_DirectAnswer(t *testing.T) {
	s := &fakeSearcher{results: &ddg.Results{
		Type:     ddg.TypeExclusive,
		Answer:   &ddg.Answer{Text: "4"},
		Abstract: ddg.Abstract{Text: "Ignored."},
	}}
	r := NewResolver(s, zap.NewNop())

	got := r.Resolve(context.Background(), "2+2")

	assert.Equal(t, DirectAnswer{Text: "4"}, got)
	assert.Equal(t, []string{"2+2"}, s.queries)
}

func TestResolve_RejectsHashAnswer(t *testing.T) {
	s := &fakeSearcher{results: &ddg.Results{
		Type:     ddg.TypeAnswer,
		Answer:   &ddg.Answer{Text: "HASH123"},
		Abstract: ddg.Abstract{Text: "A meter is the base unit of length. It is used worldwide."},
	}}
	r := NewResolver(s, zap.NewNop())
	synth := newSynth(ModeFull)

	got := r.Resolve(context.Background(), "meter")
	require.IsType(t, Abstract{}, got)

	out, ok := synth.Synthesize("meter", got)
	require.True(t, ok)
	assert.NotContains(t, out, "HASH123")
	assert.Equal(t, "A meter is the base unit of length. It is used worldwide", out)
}

func TestResolve_HashAnswerFallsThroughToRelated(t *testing.T) {
	s := &fakeSearcher{results: &ddg.Results{
		Answer:  &ddg.Answer{Text: "HASH123"},
		Related: []ddg.Topic{{Text: "Python A high-level programming language", URL: "https://duckduckgo.com/Python"}},
	}}
	r := NewResolver(s, zap.NewNop())

	got := r.Resolve(context.Background(), "python")

	assert.Equal(t, RelatedTopic{Text: "Python A high-level programming language", URL: "https://duckduckgo.com/Python"}, got)
}

func TestResolve_DisambiguationResolved(t *testing.T) {
	s := &fakeSearcher{
		results: &ddg.Results{
			Type: ddg.TypeDisambiguation,
			Related: []ddg.Topic{
				{Text: "Mercury (planet) The smallest planet", URL: "https://duckduckgo.com/Mercury_(planet)"},
				{Text: "Mercury (element) A chemical element", URL: "https://duckduckgo.com/Mercury_(element)"},
			},
		},
		detail: &ddg.Results{
			Type:     ddg.TypeAnswer,
			Abstract: ddg.Abstract{Text: "Mercury is the smallest planet in the Solar System. It is closest to the Sun."},
		},
	}
	r := NewResolver(s, zap.NewNop())

	got := r.Resolve(context.Background(), "mercury")

	require.Equal(t, []string{"https://duckduckgo.com/Mercury_(planet)"}, s.detailCalls, "exactly one follow-up on the first link")

	out, ok := newSynth(ModeBrief).Synthesize("mercury", got)
	require.True(t, ok)
	assert.Equal(t, "Mercury is the smallest planet in the Solar System", out)
}

func TestResolve_DisambiguationUnresolved(t *testing.T) {
	s := &fakeSearcher{
		results: &ddg.Results{
			Type:    ddg.TypeDisambiguation,
			Related: []ddg.Topic{{URL: "https://duckduckgo.com/Foo"}},
		},
		detailErr: ddg.ErrEmptyDocument,
	}
	r := NewResolver(s, zap.NewNop())

	got := r.Resolve(context.Background(), "foo")

	assert.Equal(t, NoAnswer{Reason: ReasonUnresolved}, got)
	assert.Len(t, s.detailCalls, 1)
}

func TestResolve_DisambiguationWithoutLinks(t *testing.T) {
	s := &fakeSearcher{results: &ddg.Results{Type: ddg.TypeDisambiguation}}
	r := NewResolver(s, zap.NewNop())

	got := r.Resolve(context.Background(), "foo")

	assert.Equal(t, NoAnswer{Reason: ReasonUnresolved}, got)
	assert.Empty(t, s.detailCalls)
}

func TestClassify_Nothing(t *testing.T) {
	assert.Equal(t, NoAnswer{Reason: ReasonNothingFound}, Classify(&ddg.Results{Type: ddg.TypeNothing}))
	assert.Equal(t, NoAnswer{Reason: ReasonNothingFound}, Classify(nil))
	assert.Equal(t, NoAnswer{Reason: ReasonNothingFound}, Classify(&ddg.Results{Related: []ddg.Topic{{URL: "https://x"}}}))
}

func TestSynthesize(t *testing.T) {
	abstract := Abstract{Text: "Paris is the capital of France. It is on the Seine."}

	tests := []struct {
		name    string
		mode    Mode
		query   string
		outcome Outcome
		want    string
		wantOK  bool
	}{
		{"direct", ModeFull, "2+2", DirectAnswer{Text: "4"}, "2+2 is 4.", true},
		{"abstract full", ModeFull, "paris", abstract, "Paris is the capital of France. It is on the Seine", true},
		{"abstract brief", ModeBrief, "paris", abstract, "Paris is the capital of France", true},
		{"related", ModeFull, "python", RelatedTopic{Text: "Python A high-level programming language. Created by Guido."}, "Python is a high-level programming language.", true},
		{"empty abstract", ModeFull, "x", Abstract{}, "", false},
		{"punctuation-only abstract", ModeFull, "q", Abstract{Text: "."}, "", false},
		{"punctuation-only abstract brief", ModeBrief, "q", Abstract{Text: "."}, "", false},
		{"blank abstract", ModeFull, "q", Abstract{Text: "   "}, "", false},
		{"no answer", ModeFull, "x", NoAnswer{Reason: ReasonNothingFound}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := newSynth(tt.mode).Synthesize(tt.query, tt.outcome)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSynthesize_FullModeKeepsEverySentence(t *testing.T) {
	got, ok := newSynth(ModeFull).Synthesize("q", Abstract{Text: "One. Two. Three."})
	require.True(t, ok)
	assert.Equal(t, 3, len(strings.Split(got, ". ")))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Brief")
	require.NoError(t, err)
	assert.Equal(t, ModeBrief, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeFull, m)

	_, err = ParseMode("verbose")
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "answer", Kind(DirectAnswer{}))
	assert.Equal(t, "abstract", Kind(Abstract{}))
	assert.Equal(t, "related", Kind(RelatedTopic{}))
	assert.Equal(t, "none", Kind(NoAnswer{}))
}
