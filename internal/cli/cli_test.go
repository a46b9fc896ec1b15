package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/ducky/internal/cache"
	"github.com/ppiankov/ducky/internal/model"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestNormalizeUtterance(t *testing.T) {
	tests := map[string]string{
		"What is the Moon?":         "what is the moon",
		"  who   was Ada Lovelace ": "who was ada lovelace",
		"ask the duck, why?!":       "ask the duck, why",
		"":                          "",
	}
	for in, want := range tests {
		if got := normalizeUtterance(in); got != want {
			t.Errorf("normalizeUtterance(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyAnswerFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addAnswerFlags(fs)

	if err := fs.Parse([]string{"--mode", "brief", "--no-cache", "--refresh", "--fallback", "ollama"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := model.DefaultConfig()
	applyAnswerFlags(fs, cfg)

	if cfg.Answer.Mode != "brief" {
		t.Errorf("Expected mode brief, got %s", cfg.Answer.Mode)
	}
	if cfg.Cache.Enabled {
		t.Error("Expected cache to be disabled")
	}
	if !cfg.Cache.Refresh {
		t.Error("Expected cache refresh to be set")
	}
	if cfg.Fallback.Provider != "ollama" || cfg.Fallback.BaseURL != "http://gpu-box:11434" {
		t.Errorf("Unexpected fallback config: %+v", cfg.Fallback)
	}

	// Unset flags leave the configuration alone
	if cfg.Output.Format != "text" {
		t.Errorf("Expected format to stay text, got %s", cfg.Output.Format)
	}
	if cfg.Answer.Locale != "en-us" {
		t.Errorf("Expected locale to stay en-us, got %s", cfg.Answer.Locale)
	}
}

func TestResolveFallbackCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")

	cfg := model.LLMConfig{Provider: "openai"}
	resolveFallbackCredentials(&cfg)
	if cfg.APIKey != "sk-env" {
		t.Errorf("Expected key from OPENAI_API_KEY, got %q", cfg.APIKey)
	}

	cfg = model.LLMConfig{Provider: "claude", APIKey: "sk-configured"}
	resolveFallbackCredentials(&cfg)
	if cfg.APIKey != "sk-configured" {
		t.Errorf("Configured key should win, got %q", cfg.APIKey)
	}

	cfg = model.LLMConfig{}
	resolveFallbackCredentials(&cfg)
	if cfg.APIKey != "" {
		t.Errorf("Disabled fallback should get no key, got %q", cfg.APIKey)
	}
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
http:
  timeout: 5s
answer:
  mode: brief
fallback:
  provider: openai
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Setenv("DUCKY_OUTPUT_FORMAT", "json")
	t.Setenv("DUCKY_FALLBACK_API_KEY", "sk-from-env")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Answer.Mode != "brief" {
		t.Errorf("Expected mode brief, got %s", cfg.Answer.Mode)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format from env, got %s", cfg.Output.Format)
	}
	if cfg.Fallback.APIKey != "sk-from-env" {
		t.Errorf("Expected API key from env, got %q", cfg.Fallback.APIKey)
	}

	// Untouched sections keep their defaults
	if cfg.Answer.Locale != "en-us" || cfg.HTTP.MaxAttempts != 3 {
		t.Errorf("Expected defaults to survive, got locale %q attempts %d", cfg.Answer.Locale, cfg.HTTP.MaxAttempts)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ducky", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	for _, s := range []string{"# Ducky Configuration File", "base_url: https://api.duckduckgo.com/", "mode: full", "OPENAI_API_KEY"} {
		if !strings.Contains(string(data), s) {
			t.Errorf("Expected config to contain %q", s)
		}
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	disk := cache.NewDiskCache(dir, time.Hour)
	key := cache.Key("https://api.duckduckgo.com/?q=paris")
	if err := disk.Set(key, []byte("<DuckDuckGoResponse/>"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cleared, err := clearCache(model.CacheConfig{Enabled: false, MemoryTTL: time.Minute, DiskDir: dir, DiskTTL: time.Hour})
	if err != nil {
		t.Fatalf("clearCache failed: %v", err)
	}
	if !cleared {
		t.Error("Expected the disk cache to be cleared")
	}
	if _, found := disk.Get(key); found {
		t.Error("Expected cached entry to be gone")
	}

	cleared, err = clearCache(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute})
	if err != nil || cleared {
		t.Errorf("Expected nothing to clear without a disk dir, got %v, %v", cleared, err)
	}
}
