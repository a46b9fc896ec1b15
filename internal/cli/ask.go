package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/ducky/internal/model"
	"github.com/ppiankov/ducky/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	askTimeout time.Duration
	askIntent  bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Long: `Ask strips the question phrasing, looks the subject up in the DuckDuckGo
Instant Answer API and prints the answer the way it would be spoken.

Use --intent when the question names the service ("ask the duck what is
the moon"): trigger phrases and articles are removed as well.

Example:
  ducky ask what is the capital of france
  ducky ask "who was ada lovelace" --mode brief
  ducky ask --intent "ask the duck what is the moon" --format json
  ducky ask what is a zorb --fallback ollama --fallback-model llama3.1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().DurationVar(&askTimeout, "timeout", 30*time.Second, "overall timeout for the question")
	askCmd.Flags().BoolVar(&askIntent, "intent", false, "treat the question as naming the service (remove trigger phrases)")
	addAnswerFlags(askCmd.Flags())
}

// addAnswerFlags registers the flags shared by every command that answers
// questions. Only flags the user sets override the loaded configuration.
func addAnswerFlags(fs *pflag.FlagSet) {
	fs.String("mode", "", "answer mode: full or brief")
	fs.String("format", "", "output format: text, json or markdown")
	fs.String("locale", "", "vocabulary locale")
	fs.String("vocabulary", "", "vocabulary YAML file (overrides --locale)")
	fs.String("ua", "", "HTTP User-Agent")
	fs.Bool("no-cache", false, "disable cache (force fresh fetch)")
	fs.Bool("refresh", false, "drop cached responses for these questions and fetch them again")
	fs.Bool("insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	fs.Bool("respect-robots", false, "honor robots.txt on disambiguation follow-ups")
	fs.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	fs.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	fs.String("fallback", "", "LLM fallback provider when nothing is found (openai, anthropic, ollama)")
	fs.String("fallback-model", "", "LLM fallback model name")
}

// applyAnswerFlags copies the flags the user set onto cfg
func applyAnswerFlags(fs *pflag.FlagSet, cfg *model.Config) {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if fs.Changed(name) {
			*dst, _ = fs.GetBool(name)
		}
	}

	str("mode", &cfg.Answer.Mode)
	str("format", &cfg.Output.Format)
	str("locale", &cfg.Answer.Locale)
	str("vocabulary", &cfg.Answer.VocabularyFile)
	str("ua", &cfg.HTTP.UserAgent)
	str("http-proxy", &cfg.HTTP.HTTPProxy)
	str("https-proxy", &cfg.HTTP.HTTPSProxy)
	str("fallback", &cfg.Fallback.Provider)
	str("fallback-model", &cfg.Fallback.Model)
	boolean("insecure", &cfg.HTTP.InsecureTLS)
	boolean("respect-robots", &cfg.HTTP.RespectRobots)
	boolean("refresh", &cfg.Cache.Refresh)

	if fs.Changed("no-cache") {
		noCache, _ := fs.GetBool("no-cache")
		cfg.Cache.Enabled = !noCache
	}

	resolveFallbackCredentials(&cfg.Fallback)
}

// normalizeUtterance lower-cases typed input and drops trailing
// punctuation so it looks like speech-to-text output
func normalizeUtterance(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, "?!. ")
	return strings.ToLower(s)
}

func runAsk(cmd *cobra.Command, args []string) error {
	utterance := normalizeUtterance(strings.Join(args, " "))

	cfg := *currentConfig()
	applyAnswerFlags(cmd.Flags(), &cfg)

	renderer, err := pipeline.NewRenderer(cfg.Output.Format, cfg.Output.Verbose)
	if err != nil {
		return err
	}

	p, err := pipeline.NewFromConfig(&cfg, logger.Named("pipeline"))
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), askTimeout)
	defer cancel()

	var report *model.Report
	if askIntent {
		report = p.AskIntent(ctx, utterance)
	} else {
		report = p.Ask(ctx, utterance)
	}

	if err := renderer.Render(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
