package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Answer generates a short spoken answer to a question
	Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AnswerRequest contains the input for a fallback answer
type AnswerRequest struct {
	// Question is the utterance as the user said it
	Question string

	// Query is the bare query the knowledge service had nothing for
	Query string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AnswerResponse contains the LLM's answer
type AnswerResponse struct {
	// Text is the raw answer text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama or an OpenAI-compatible gateway)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: defaultMaxTokens,
	}
}

// Spoken answers are a sentence or two
const defaultMaxTokens = 120

const systemPrompt = "You answer questions for a voice assistant. Your reply is read aloud, so answer in one or two short plain sentences. Never use lists, markdown, or links."

// BuildPrompt constructs the default user prompt for a fallback answer
func BuildPrompt(question, query string) string {
	prompt := fmt.Sprintf("Question: %s\n", strings.TrimSpace(question))
	if query != "" && !strings.EqualFold(query, question) {
		prompt += fmt.Sprintf("Topic: %s\n", query)
	}
	prompt += "\nIf you do not know the answer, reply with exactly: I don't know."
	return prompt
}

func resolveModel(req AnswerRequest, config Config, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if config.Model != "" {
		return config.Model
	}
	return fallback
}

func resolveMaxTokens(req AnswerRequest, config Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if config.MaxTokens > 0 {
		return config.MaxTokens
	}
	return defaultMaxTokens
}

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s\)]+`)
	markdownPattern = regexp.MustCompile("[*_`#>]+")
	bulletPattern   = regexp.MustCompile(`(?m)^\s*(?:[-•]|\d+\.)\s+`)
)

// extractURLs extracts all URLs from text
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, url := range matches {
		url = strings.TrimRight(url, ".,;:!?")
		if !seen[url] {
			seen[url] = true
			unique = append(unique, url)
		}
	}

	return unique
}

// spokenText reduces a model reply to something a speaker can read: links,
// markdown and list markers are dropped and whitespace collapsed
func spokenText(raw string) string {
	text := urlPattern.ReplaceAllString(raw, "")
	text = bulletPattern.ReplaceAllString(text, "")
	text = markdownPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "()", "")
	return strings.Join(strings.Fields(text), " ")
}
