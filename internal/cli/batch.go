package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ppiankov/ducky/internal/model"
	"github.com/ppiankov/ducky/internal/pipeline"
	"github.com/ppiankov/ducky/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchTimeout    time.Duration
	questionTimeout time.Duration
	batchOutput     string
	batchIntent     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer many questions from a file in parallel",
	Long: `Batch answers every question in a file concurrently:
- Read questions from input file (one per line, # starts a comment)
- Drop blank lines and repeated questions
- Answer in parallel with configurable worker count
- Print the answers in input order

Example:
  ducky batch questions.txt
  ducky batch questions.txt --concurrency 8 --format json --output answers.json
  ducky batch questions.txt --mode brief --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&questionTimeout, "question-timeout", 30*time.Second, "timeout for each question")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write answers to this file instead of stdout")
	batchCmd.Flags().BoolVar(&batchIntent, "intent", false, "treat questions as naming the service (remove trigger phrases)")
	addAnswerFlags(batchCmd.Flags())
}

// lineAsker answers typed questions from a file
type lineAsker struct {
	p      *pipeline.Pipeline
	intent bool
}

func (a lineAsker) Ask(ctx context.Context, line string) *model.Report {
	utterance := normalizeUtterance(line)
	if a.intent {
		return a.p.AskIntent(ctx, utterance)
	}
	return a.p.Ask(ctx, utterance)
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]

	cfg := *currentConfig()
	applyAnswerFlags(cmd.Flags(), &cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers, _ = cmd.Flags().GetInt("concurrency")
	}

	renderer, err := pipeline.NewRenderer(cfg.Output.Format, cfg.Output.Verbose)
	if err != nil {
		return err
	}

	p, err := pipeline.NewFromConfig(&cfg, logger.Named("pipeline"))
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Ducky Batch Processing\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Mode:         %s\n", p.Mode())
	fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(stderr, "\n")

	processor := worker.NewBatchProcessor(lineAsker{p: p, intent: batchIntent}, cfg.Concurrency.Workers, questionTimeout)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	reports := make([]*model.Report, 0, len(results))
	answered, unanswered, failed := 0, 0, 0
	for _, result := range results {
		switch {
		case result.Error != nil:
			failed++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Question, result.Error)
		case result.Report.Answered():
			answered++
		default:
			unanswered++
		}
		if result.Report != nil {
			reports = append(reports, result.Report)
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if batchOutput != "" {
		var f *os.File
		f, err = os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output file: %w", closeErr)
			}
		}()
		out = f
	}

	if err := renderer.RenderBatch(out, reports); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	// Summary
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:       %d questions\n", len(results))
	fmt.Fprintf(stderr, "  Answered:    %d\n", answered)
	fmt.Fprintf(stderr, "  No answer:   %d\n", unanswered)
	fmt.Fprintf(stderr, "  Failures:    %d\n", failed)
	if batchOutput != "" {
		fmt.Fprintf(stderr, "  Output:      %s\n", batchOutput)
	}
	fmt.Fprintf(stderr, "\n")

	return nil
}
