package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ducky/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (fallback disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the fallback and HTTP sections of the app config
func ConfigFromModel(fallback model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:   fallback.Provider,
		Model:      fallback.Model,
		APIKey:     fallback.APIKey,
		BaseURL:    fallback.BaseURL,
		Timeout:    fallback.Timeout,
		MaxTokens:  fallback.MaxTokens,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
		NoProxy:    httpCfg.NoProxy,
	}
}
