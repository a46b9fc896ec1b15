// Package skill adapts the answer pipeline to a voice-assistant host: an
// intent handler for utterances that name the service, a common-query
// matcher and a low-priority fallback handler.
package skill

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ppiankov/ducky/internal/answer"
	"github.com/ppiankov/ducky/internal/model"
	"github.com/ppiankov/ducky/internal/pipeline"
	"go.uber.org/zap"
)

// FallbackPriority is the position the fallback handler registers at.
// Lower runs earlier.
const FallbackPriority = 10

// DialogSpecificResponse is spoken before an answer to a question that
// named the service
const DialogSpecificResponse = "ddg.specific.response"

// Speaker is the host's text-to-speech output
type Speaker interface {
	Speak(ctx context.Context, text string) error
	SpeakDialog(ctx context.Context, name string) error
}

// MatchLevel is how confident a common-query match is
type MatchLevel int

const (
	MatchExact MatchLevel = iota
	MatchCategory
	MatchGeneral
)

func (l MatchLevel) String() string {
	switch l {
	case MatchExact:
		return "exact"
	case MatchCategory:
		return "category"
	case MatchGeneral:
		return "general"
	}
	return fmt.Sprintf("MatchLevel(%d)", int(l))
}

// Match is the skill's bid for a common query
type Match struct {
	Phrase string
	Level  MatchLevel
	Answer string
	Report *model.Report
}

// Skill answers questions through a Pipeline and speaks the result
type Skill struct {
	full    *pipeline.Pipeline
	brief   *pipeline.Pipeline
	speaker Speaker
	log     *zap.Logger
}

// New creates a Skill. Common queries are answered in full, the fallback
// handler speaks only the first sentence.
func New(p *pipeline.Pipeline, speaker Speaker, log *zap.Logger) *Skill {
	if log == nil {
		log = zap.NewNop()
	}
	return &Skill{
		full:    p.WithMode(answer.ModeFull),
		brief:   p.WithMode(answer.ModeBrief),
		speaker: speaker,
		log:     log,
	}
}

// HandleIntent answers an utterance that names the service, e.g. "ask the
// duck what is the moon". It reports whether anything was spoken.
func (s *Skill) HandleIntent(ctx context.Context, utterance string) (bool, error) {
	if strings.TrimSpace(utterance) == "" {
		return false, nil
	}

	report := s.full.AskIntent(ctx, utterance)
	if !report.Answered() {
		s.log.Debug("no answer for intent", zap.String("utterance", utterance), zap.String("reason", report.Reason))
		return false, nil
	}

	if err := s.speaker.SpeakDialog(ctx, DialogSpecificResponse); err != nil {
		return false, fmt.Errorf("speak dialog: %w", err)
	}
	if err := s.speaker.Speak(ctx, report.Answer); err != nil {
		return false, fmt.Errorf("speak answer: %w", err)
	}
	return true, nil
}

// MatchQueryPhrase bids on a common query. Only interrogative phrases are
// considered and a match is always at category level. Nothing is spoken.
func (s *Skill) MatchQueryPhrase(ctx context.Context, phrase string) (*Match, bool) {
	if !s.full.IsQuestion(phrase) {
		return nil, false
	}

	report := s.full.Ask(ctx, phrase)
	if !report.Answered() {
		s.log.Debug("no answer for common query", zap.String("phrase", phrase), zap.String("reason", report.Reason))
		return nil, false
	}

	return &Match{
		Phrase: phrase,
		Level:  MatchCategory,
		Answer: report.Answer,
		Report: report,
	}, true
}

// HandleFallback speaks a brief answer to an interrogative utterance no
// other handler took. It reports whether the utterance was handled.
func (s *Skill) HandleFallback(ctx context.Context, utterance string) (bool, error) {
	if !s.brief.IsQuestion(utterance) {
		return false, nil
	}

	report := s.brief.Ask(ctx, utterance)
	if !report.Answered() {
		return false, nil
	}

	if err := s.speaker.Speak(ctx, report.Answer); err != nil {
		return false, fmt.Errorf("speak answer: %w", err)
	}
	return true, nil
}

// Handle routes an utterance the way a host would: the intent handler when
// the service is named, otherwise the common-query match. A question the
// match leaves unanswered is not looked up again in brief mode.
func (s *Skill) Handle(ctx context.Context, utterance string) (bool, error) {
	if s.full.NamesService(utterance) {
		return s.HandleIntent(ctx, utterance)
	}

	m, ok := s.MatchQueryPhrase(ctx, utterance)
	if !ok {
		return false, nil
	}
	if err := s.speaker.Speak(ctx, m.Answer); err != nil {
		return false, fmt.Errorf("speak answer: %w", err)
	}
	return true, nil
}

// Stop is called by the host to interrupt speech. Answers are spoken in one
// shot, so there is nothing to stop.
func (s *Skill) Stop() {}

// DefaultDialogs holds the text of the named dialogs
var DefaultDialogs = map[string]string{
	DialogSpecificResponse: "Here's what DuckDuckGo says.",
}

// WriterSpeaker "speaks" by writing one line per utterance to w
type WriterSpeaker struct {
	mu      sync.Mutex
	w       io.Writer
	dialogs map[string]string
}

// NewWriterSpeaker creates a Speaker writing to w. A nil dialogs map uses
// DefaultDialogs.
func NewWriterSpeaker(w io.Writer, dialogs map[string]string) *WriterSpeaker {
	if dialogs == nil {
		dialogs = DefaultDialogs
	}
	return &WriterSpeaker{w: w, dialogs: dialogs}
}

// Speak writes text
func (ws *WriterSpeaker) Speak(ctx context.Context, text string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	_, err := fmt.Fprintln(ws.w, text)
	return err
}

// SpeakDialog writes the text of the named dialog
func (ws *WriterSpeaker) SpeakDialog(ctx context.Context, name string) error {
	text, ok := ws.dialogs[name]
	if !ok {
		return fmt.Errorf("unknown dialog %q", name)
	}
	return ws.Speak(ctx, text)
}
