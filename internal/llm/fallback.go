package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoFallbackAnswer is returned when the model has nothing speakable to say
var ErrNoFallbackAnswer = errors.New("fallback produced no answer")

// availabilityTimeout bounds the provider availability check, which runs
// detached from the caller's deadline
const availabilityTimeout = 5 * time.Second

// Fallback answers questions the knowledge service could not. It is
// disabled when no provider is configured.
type Fallback struct {
	provider Provider
	config   Config
	log      *zap.Logger

	mu        sync.Mutex
	available bool // only a successful check is remembered
}

// Reply is a speakable fallback answer
type Reply struct {
	Text      string
	Provider  string
	SourceURL string // first link the model cited, dropped from Text
}

// NewFallback creates a fallback answerer from config
func NewFallback(config Config, log *zap.Logger) (*Fallback, error) {
	if log == nil {
		log = zap.NewNop()
	}

	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return &Fallback{provider: provider, config: config, log: log}, nil
}

// IsEnabled reports whether a provider is configured
func (f *Fallback) IsEnabled() bool {
	return f != nil && f.provider != nil
}

// Answer asks the model about question. A disabled fallback returns an
// empty Reply and no error.
func (f *Fallback) Answer(ctx context.Context, question, query string) (Reply, error) {
	if !f.IsEnabled() {
		return Reply{}, nil
	}

	if !f.isAvailable(ctx) {
		return Reply{}, fmt.Errorf("provider %s not available", f.provider.Name())
	}

	resp, err := f.provider.Answer(ctx, AnswerRequest{
		Question:  question,
		Query:     query,
		Model:     f.config.Model,
		MaxTokens: f.config.MaxTokens,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("fallback answer: %w", err)
	}

	f.log.Debug("fallback answered",
		zap.String("provider", f.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed),
	)

	text := spokenText(resp.Text)
	if text == "" || strings.EqualFold(strings.TrimRight(text, "."), "I don't know") {
		return Reply{}, ErrNoFallbackAnswer
	}

	reply := Reply{Text: text, Provider: f.provider.Name()}
	if links := extractURLs(resp.Text); len(links) > 0 {
		reply.SourceURL = links[0]
	}
	return reply, nil
}

// isAvailable checks the provider until it first answers. The check runs
// detached from ctx under its own timeout; a failed check is retried on the
// next question.
func (f *Fallback) isAvailable(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.available {
		return true
	}

	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), availabilityTimeout)
	defer cancel()

	f.available = f.provider.IsAvailable(checkCtx)
	if !f.available {
		f.log.Warn("fallback provider not available", zap.String("provider", f.provider.Name()))
	}
	return f.available
}
