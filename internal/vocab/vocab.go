package vocab

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured
const DefaultLocale = "en-us"

//go:embed locale/*.yaml
var localeFS embed.FS

// file mirrors the on-disk vocabulary layout
type file struct {
	QuestionWords []string `yaml:"question_words"`
	QuestionVerbs []string `yaml:"question_verbs"`
	Articles      []string `yaml:"articles"`
	StartWords    []string `yaml:"start_words"`
	Triggers      []string `yaml:"triggers"`
}

// Vocabulary holds the localized word lists used by the text heuristics.
// A Vocabulary is immutable once built and safe for concurrent use.
type Vocabulary struct {
	locale        string
	questionWords []string
	questionVerbs []string
	articles      []string
	titleArticles []string
	startWords    map[string]struct{}
	triggers      []string
}

// Default returns the embedded vocabulary for DefaultLocale
func Default() *Vocabulary {
	v, err := ForLocale(DefaultLocale)
	if err != nil {
		// The embedded default is part of the binary; failing here is a build defect.
		panic(err)
	}
	return v
}

// ForLocale loads the embedded vocabulary for a locale such as "en-us"
func ForLocale(locale string) (*Vocabulary, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = DefaultLocale
	}

	data, err := localeFS.ReadFile("locale/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unsupported locale %q: %w", locale, err)
	}
	return Parse(locale, data)
}

// Load reads a vocabulary file from disk
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return Parse(strings.TrimSuffix(baseName(path), ".yaml"), data)
}

// Parse builds a Vocabulary from YAML content
func Parse(locale string, data []byte) (*Vocabulary, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(f.QuestionWords) == 0 || len(f.QuestionVerbs) == 0 {
		return nil, fmt.Errorf("parse vocabulary: question_words and question_verbs are required")
	}
	return New(locale, f.QuestionWords, f.QuestionVerbs, f.Articles, f.StartWords, f.Triggers), nil
}

// New builds a Vocabulary from explicit lists. The lists are copied.
func New(locale string, questionWords, questionVerbs, articles, startWords, triggers []string) *Vocabulary {
	v := &Vocabulary{
		locale:        locale,
		questionWords: clone(questionWords),
		questionVerbs: clone(questionVerbs),
		articles:      clone(articles),
		startWords:    make(map[string]struct{}, len(startWords)),
	}

	title := cases.Title(language.Und)
	for _, a := range v.articles {
		v.titleArticles = append(v.titleArticles, title.String(a))
	}
	for _, w := range startWords {
		v.startWords[w] = struct{}{}
	}

	// Longest phrases first so "ask the duck" is removed before "duck"
	v.triggers = clone(triggers)
	sort.Slice(v.triggers, func(i, j int) bool {
		if len(v.triggers[i]) != len(v.triggers[j]) {
			return len(v.triggers[i]) > len(v.triggers[j])
		}
		return v.triggers[i] < v.triggers[j]
	})

	return v
}

// Locale returns the locale the vocabulary was loaded for
func (v *Vocabulary) Locale() string { return v.locale }

// QuestionWords returns the interrogative words in grammar order
func (v *Vocabulary) QuestionWords() []string { return clone(v.questionWords) }

// QuestionVerbs returns the question verbs (with significant leading spaces) in grammar order
func (v *Vocabulary) QuestionVerbs() []string { return clone(v.questionVerbs) }

// Articles returns the articles in lower case
func (v *Vocabulary) Articles() []string { return clone(v.articles) }

// TitleArticles returns the articles in title case ("The", "A", ...)
func (v *Vocabulary) TitleArticles() []string { return clone(v.titleArticles) }

// Triggers returns the trigger phrases sorted longest first
func (v *Vocabulary) Triggers() []string { return clone(v.triggers) }

// IsStartWord reports whether w marks an unfinished trailing clause
func (v *Vocabulary) IsStartWord(w string) bool {
	_, ok := v.startWords[w]
	return ok
}

// IsArticle reports whether w is one of the lower-case articles
func (v *Vocabulary) IsArticle(w string) bool {
	for _, a := range v.articles {
		if a == w {
			return true
		}
	}
	return false
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
