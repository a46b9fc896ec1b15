package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/ducky/internal/model"
)

// Asker answers one utterance
type Asker interface {
	Ask(ctx context.Context, utterance string) *model.Report
}

// AskJob answers a single question from a batch
type AskJob struct {
	Index    int
	Question string
	Asker    Asker
	Timeout  time.Duration
}

// Execute executes the ask job
func (j *AskJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	report := j.Asker.Ask(ctx, j.Question)
	return &AskResult{
		Index:    j.Index,
		Question: j.Question,
		Report:   report,
		Error:    ctx.Err(),
	}
}

// AskResult is the outcome of one batch question. Error is set only when the
// question ran out of time; an unanswered question is a normal Report.
type AskResult struct {
	Index    int
	Question string
	Report   *model.Report
	Error    error
}

// GetError returns the error from the ask result
func (r *AskResult) GetError() error {
	return r.Error
}

// BatchProcessor answers many questions concurrently
type BatchProcessor struct {
	asker       Asker
	concurrency int
	timeout     time.Duration
}

// NewBatchProcessor creates a new batch processor. timeout bounds each
// question; zero means no per-question limit.
func NewBatchProcessor(asker Asker, concurrency int, timeout time.Duration) *BatchProcessor {
	return &BatchProcessor{
		asker:       asker,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// ProcessQuestions answers questions concurrently and returns results in
// input order
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []string) []*AskResult {
	if len(questions) == 0 {
		return []*AskResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, q := range questions {
			pool.Submit(&AskJob{
				Index:    i,
				Question: q,
				Asker:    b.asker,
				Timeout:  b.timeout,
			})
		}
		pool.Close()
	}()

	results := make([]*AskResult, 0, len(questions))
	for result := range pool.Results() {
		results = append(results, result.(*AskResult))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ProcessFile reads questions from a file and answers them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AskResult, error) {
	questions, err := ReadQuestionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	return b.ProcessQuestions(ctx, questions), nil
}

// ReadQuestionsFromFile reads questions, one per line. Blank lines and
// lines starting with # are skipped, repeated questions are dropped.
func ReadQuestionsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var questions []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			questions = append(questions, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return questions, nil
}
