package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/ducky/internal/logging"
	"github.com/ppiankov/ducky/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=..."
var version = "v0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool

	appConfig *model.Config
	logger    = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ducky",
	Short: "Ducky - spoken answers from the DuckDuckGo Instant Answer API",
	Long: `Ducky turns a spoken-style question into a short answer that reads well
out loud.

It strips the question phrasing ("what is the ..."), looks the rest up in
the DuckDuckGo Instant Answer API, follows one disambiguation link if
needed, and rewrites the result into one or more plain sentences.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

// Execute runs the root command
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Ducky.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ducky %s\n", version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ducky/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: ./.env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initApp loads configuration and builds the logger before any subcommand runs
func initApp(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	appConfig = cfg
	logger = log
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

// loadEnvFile loads KEY=value pairs into the environment. An explicit path
// must exist; the default ./.env is optional. Variables already set win.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}
	return nil
}

// envOnlyKeys are omitted from the marshalled defaults when empty
var envOnlyKeys = []string{
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
	"cache.disk_dir",
	"answer.vocabulary_file",
	"fallback.provider",
	"fallback.model",
	"fallback.api_key",
	"fallback.base_url",
}

// loadConfig layers defaults, the config file, DUCKY_* environment
// variables and bound flags, highest last
func loadConfig(path string) (*model.Config, error) {
	// Seed viper with every default so AutomaticEnv can see each key
	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		viper.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".ducky"))
		viper.SetConfigName("config")
	}

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Read in environment variables that match DUCKY_*, e.g. DUCKY_ANSWER_MODE
	viper.SetEnvPrefix("DUCKY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Keys absent from the marshalled defaults need explicit binding
	for _, key := range envOnlyKeys {
		_ = viper.BindEnv(key)
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	resolveFallbackCredentials(&cfg.Fallback)

	return cfg, nil
}

// resolveFallbackCredentials fills the API key and base URL from the
// provider's conventional environment variables when not configured
func resolveFallbackCredentials(cfg *model.LLMConfig) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}

// currentConfig returns the loaded configuration, falling back to defaults
// when the command ran without the root pre-run hook
func currentConfig() *model.Config {
	if appConfig == nil {
		return model.DefaultConfig()
	}
	return appConfig
}
