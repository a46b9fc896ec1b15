package model

import "time"

// Config holds the complete ducky configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	API          APIConfig          `yaml:"api" mapstructure:"api"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Answer       AnswerConfig       `yaml:"answer" mapstructure:"answer"`
	Fallback     LLMConfig          `yaml:"fallback" mapstructure:"fallback"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls outbound requests to the knowledge service
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxAttempts   int           `yaml:"max_attempts" mapstructure:"max_attempts"` // tries per request on transient failures
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// APIConfig holds Instant Answer API request parameters
type APIConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	AppName      string `yaml:"app_name" mapstructure:"app_name"`
	NoHTML       bool   `yaml:"no_html" mapstructure:"no_html"`
	SkipDisambig bool   `yaml:"skip_disambig" mapstructure:"skip_disambig"`
}

// CacheConfig controls response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir,omitempty" mapstructure:"disk_dir"` // empty disables the disk layer
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	Refresh   bool          `yaml:"-" mapstructure:"-"` // set by --refresh for one run
}

// RateLimitingConfig controls per-host request pacing
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// AnswerConfig controls answer synthesis
type AnswerConfig struct {
	Mode           string `yaml:"mode" mapstructure:"mode"` // full or brief
	Locale         string `yaml:"locale" mapstructure:"locale"`
	VocabularyFile string `yaml:"vocabulary_file,omitempty" mapstructure:"vocabulary_file"`
}

// LLMConfig configures the optional LLM fallback answerer
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty" mapstructure:"provider"` // openai, anthropic, ollama or "" (disabled)
	Model     string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls how answers are printed
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // text, json or markdown
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "ducky/0.1 (+https://github.com/ppiankov/ducky)",
			MaxBodyBytes: 1_000_000,
			MaxAttempts:  3,
		},
		API: APIConfig{
			BaseURL: "https://api.duckduckgo.com/",
			AppName: "ducky",
			NoHTML:  true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         3,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Answer: AnswerConfig{
			Mode:   "full",
			Locale: "en-us",
		},
		Fallback: LLMConfig{
			Timeout:   30,
			MaxTokens: 120,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
