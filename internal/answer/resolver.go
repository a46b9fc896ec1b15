package answer

import (
	"context"
	"strings"

	"github.com/ppiankov/ducky/internal/ddg"
	"go.uber.org/zap"
)

// rejectedMarker shows up in some numeric/unit answers instead of a value
const rejectedMarker = "HASH"

// Searcher is the knowledge-service client
type Searcher interface {
	Query(ctx context.Context, query string) (*ddg.Results, error)
	Detail(ctx context.Context, topicURL string) (*ddg.Results, error)
}

// Resolver queries the knowledge service, resolves disambiguation pages and
// classifies the response
type Resolver struct {
	client Searcher
	log    *zap.Logger
}

// NewResolver creates a new Resolver
func NewResolver(client Searcher, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{client: client, log: log}
}

// Resolve looks up bareQuery and classifies the result. It never returns an
// error: failures become a NoAnswer outcome.
func (r *Resolver) Resolve(ctx context.Context, bareQuery string) Outcome {
	if len(bareQuery) == 0 {
		return NoAnswer{Reason: ReasonEmptyQuery}
	}

	results, err := r.client.Query(ctx, bareQuery)
	if err != nil {
		r.log.Warn("knowledge service query failed", zap.String("query", bareQuery), zap.Error(err))
		return NoAnswer{Reason: ReasonTransport, Err: err}
	}

	r.log.Debug("knowledge service response",
		zap.String("query", bareQuery),
		zap.String("type", string(results.Type)),
	)

	if results.Type == ddg.TypeDisambiguation && len(results.Related) > 0 {
		results = r.disambiguate(ctx, results)
	}

	return Classify(results)
}

// disambiguate follows the first related link once. The initial results are
// kept when the follow-up yields nothing usable.
func (r *Resolver) disambiguate(ctx context.Context, results *ddg.Results) *ddg.Results {
	topicURL := results.Related[0].URL
	r.log.Debug("disambiguating", zap.String("url", topicURL))

	detail, err := r.client.Detail(ctx, topicURL)
	if err != nil {
		r.log.Debug("disambiguation left unresolved", zap.String("url", topicURL), zap.Error(err))
		return results
	}
	return detail
}

// Classify picks the best answer in a response: a direct answer, then the
// abstract, then the first related topic
func Classify(results *ddg.Results) Outcome {
	if results == nil {
		return NoAnswer{Reason: ReasonNothingFound}
	}

	if a := results.Answer; a != nil && a.Text != "" && !strings.Contains(a.Text, rejectedMarker) {
		return DirectAnswer{Text: a.Text}
	}

	if results.Abstract.Text != "" {
		return Abstract{
			Text:   results.Abstract.Text,
			URL:    results.Abstract.URL,
			Source: results.Abstract.Source,
		}
	}

	if len(results.Related) > 0 && results.Related[0].Text != "" {
		return RelatedTopic{Text: results.Related[0].Text, URL: results.Related[0].URL}
	}

	if results.Type == ddg.TypeDisambiguation {
		return NoAnswer{Reason: ReasonUnresolved}
	}
	return NoAnswer{Reason: ReasonNothingFound}
}
