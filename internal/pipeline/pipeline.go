package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/ducky/internal/answer"
	"github.com/ppiankov/ducky/internal/cache"
	"github.com/ppiankov/ducky/internal/ddg"
	"github.com/ppiankov/ducky/internal/llm"
	"github.com/ppiankov/ducky/internal/model"
	"github.com/ppiankov/ducky/internal/text"
	"github.com/ppiankov/ducky/internal/util"
	"github.com/ppiankov/ducky/internal/vocab"
	"github.com/ppiankov/ducky/internal/worker"
	"go.uber.org/zap"
)

// KindFallback marks a report answered by the LLM fallback
const KindFallback = "fallback"

// Pipeline turns utterances into spoken answers
type Pipeline struct {
	stripper *text.Stripper
	resolver *answer.Resolver
	synth    *answer.Synthesizer
	fallback *llm.Fallback // nil or disabled when not configured
	log      *zap.Logger
	newID    func() string
	now      func() time.Time
}

// New assembles a pipeline from its parts
func New(stripper *text.Stripper, resolver *answer.Resolver, synth *answer.Synthesizer, fallback *llm.Fallback, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		stripper: stripper,
		resolver: resolver,
		synth:    synth,
		fallback: fallback,
		log:      log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// NewFromConfig wires the vocabulary, fetcher, knowledge client and
// optional fallback described by cfg
func NewFromConfig(cfg *model.Config, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	v, err := loadVocabulary(cfg.Answer)
	if err != nil {
		return nil, err
	}

	mode, err := answer.ParseMode(cfg.Answer.Mode)
	if err != nil {
		return nil, err
	}

	fetcher := NewFetcher(
		cfg.HTTP.Timeout,
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS,
		cfg.HTTP.HTTPProxy,
		cfg.HTTP.HTTPSProxy,
		cfg.HTTP.NoProxy,
	).
		WithLogger(log.Named("fetch")).
		WithMaxAttempts(cfg.HTTP.MaxAttempts).
		WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))

	if c := cache.New(cfg.Cache); c != nil {
		fetcher.WithCache(c).WithRefresh(cfg.Cache.Refresh)
	}
	if cfg.HTTP.RespectRobots {
		fetcher.WithRobots(util.NewRobotsChecker(fetcher.HTTPClient(), cfg.HTTP.UserAgent, cfg.HTTP.Timeout))
	}

	client := ddg.NewClient(fetcher, ddg.Options{
		BaseURL:      cfg.API.BaseURL,
		AppName:      cfg.API.AppName,
		NoHTML:       cfg.API.NoHTML,
		SkipDisambig: cfg.API.SkipDisambig,
	})

	fallback, err := llm.NewFallback(llm.ConfigFromModel(cfg.Fallback, cfg.HTTP), log.Named("fallback"))
	if err != nil {
		return nil, fmt.Errorf("init fallback: %w", err)
	}

	return New(
		text.NewStripper(v),
		answer.NewResolver(client, log.Named("resolve")),
		answer.NewSynthesizer(text.NewReformatter(v, log.Named("reformat")), mode),
		fallback,
		log,
	), nil
}

func loadVocabulary(cfg model.AnswerConfig) (*vocab.Vocabulary, error) {
	if cfg.VocabularyFile != "" {
		v, err := vocab.Load(cfg.VocabularyFile)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		return v, nil
	}
	v, err := vocab.ForLocale(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return v, nil
}

// WithMode returns a pipeline sharing p's components that synthesizes in mode
func (p *Pipeline) WithMode(mode answer.Mode) *Pipeline {
	cp := *p
	cp.synth = p.synth.WithMode(mode)
	return &cp
}

// Mode returns the synthesis mode
func (p *Pipeline) Mode() answer.Mode {
	return p.synth.Mode()
}

// IsQuestion reports whether utterance starts with a recognised
// interrogative phrase such as "what is the"
func (p *Pipeline) IsQuestion(utterance string) bool {
	_, ok := p.stripper.MatchPrefix(utterance)
	return ok
}

// NamesService reports whether utterance calls the service by name
func (p *Pipeline) NamesService(utterance string) bool {
	return p.stripper.ContainsTrigger(utterance)
}

// Ask answers a question phrased without naming the service. The
// interrogative prefix is stripped and the rest sent as the query.
func (p *Pipeline) Ask(ctx context.Context, utterance string) *model.Report {
	return p.respond(ctx, utterance, bareQuery(p.stripper.StripInterrogative(utterance)))
}

// AskIntent answers an utterance that names the service ("ask the duck
// what is the moon"). Trigger phrases are removed, then the interrogative
// prefix, then any leftover articles.
func (p *Pipeline) AskIntent(ctx context.Context, utterance string) *model.Report {
	query := p.stripper.RemoveTriggers(utterance)
	query = p.stripper.StripInterrogative(query)
	query = p.stripper.StripArticles(query)
	return p.respond(ctx, utterance, bareQuery(query))
}

// bareQuery trims the query and collapses inner runs of whitespace, so a
// whitespace-only remainder becomes the empty query
func bareQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (p *Pipeline) respond(ctx context.Context, utterance, query string) *model.Report {
	start := p.now()
	report := &model.Report{
		RequestID: p.newID(),
		Utterance: utterance,
		Query:     query,
		AskedAt:   start.UTC(),
	}
	log := p.log.With(zap.String("request_id", report.RequestID))

	outcome := p.resolver.Resolve(ctx, query)
	report.Kind = answer.Kind(outcome)

	if spoken, ok := p.synth.Synthesize(query, outcome); ok {
		report.Answer = spoken
		switch o := outcome.(type) {
		case answer.Abstract:
			report.SourceURL = o.URL
		case answer.RelatedTopic:
			report.SourceURL = o.URL
		}
	} else {
		report.Kind = answer.Kind(answer.NoAnswer{})
		if na, isNone := outcome.(answer.NoAnswer); isNone {
			report.Reason = string(na.Reason)
		} else {
			report.Reason = string(answer.ReasonNothingFound)
		}
		p.tryFallback(ctx, log, report)
	}

	report.Duration = p.now().Sub(start)
	log.Debug("answered",
		zap.String("query", query),
		zap.String("kind", report.Kind),
		zap.String("reason", report.Reason),
		zap.Duration("duration", report.Duration),
	)
	return report
}

// tryFallback asks the LLM when the knowledge service had nothing. An empty
// query is never handed off.
func (p *Pipeline) tryFallback(ctx context.Context, log *zap.Logger, report *model.Report) {
	if !p.fallback.IsEnabled() || report.Reason == string(answer.ReasonEmptyQuery) {
		return
	}

	reply, err := p.fallback.Answer(ctx, report.Utterance, report.Query)
	if err != nil {
		log.Info("fallback gave no answer", zap.Error(err))
		return
	}
	if reply.Text == "" {
		return
	}

	report.Kind = KindFallback
	report.Answer = reply.Text
	report.Provider = reply.Provider
	report.SourceURL = reply.SourceURL
}
