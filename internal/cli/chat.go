package cli

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/ducky/internal/pipeline"
	"github.com/ppiankov/ducky/internal/skill"
	"github.com/spf13/cobra"
)

var chatTimeout time.Duration

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Answer questions interactively, one per line",
	Long: `Chat reads utterances from standard input and routes each one the way a
voice assistant would:
- utterances naming the service ("ask the duck ...") go to the intent handler
- other questions are answered in full as a common query
- anything else is left unanswered

Type "stop" or send EOF to quit.

Example:
  ducky chat
  echo "ask the duck what is the moon" | ducky chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().DurationVar(&chatTimeout, "timeout", 30*time.Second, "timeout for each utterance")
	addAnswerFlags(chatCmd.Flags())
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := *currentConfig()
	applyAnswerFlags(cmd.Flags(), &cfg)

	p, err := pipeline.NewFromConfig(&cfg, logger.Named("pipeline"))
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	sk := skill.New(p, skill.NewWriterSpeaker(cmd.OutOrStdout(), nil), logger.Named("skill"))
	defer sk.Stop()

	stderr := cmd.ErrOrStderr()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(stderr, "> ")
		if !scanner.Scan() {
			break
		}

		utterance := normalizeUtterance(scanner.Text())
		if utterance == "" {
			continue
		}
		if utterance == "stop" {
			break
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), chatTimeout)
		handled, err := sk.Handle(ctx, utterance)
		cancel()
		if err != nil {
			return err
		}
		if !handled {
			fmt.Fprintln(stderr, "(no answer)")
		}
	}
	fmt.Fprintln(stderr)

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
