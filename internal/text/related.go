package text

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/ducky/internal/vocab"
	"go.uber.org/zap"
)

const (
	isVerb = " is "
	inWord = "in "
)

var categoryPattern = regexp.MustCompile(`\(([a-z ]+)\)`)

// Reformatter turns related-topic snippets, which are usually noun phrases
// rather than sentences, into a speakable "<name> is <description>." form.
type Reformatter struct {
	vocab *vocab.Vocabulary
	log   *zap.Logger
}

// NewReformatter creates a Reformatter for the given vocabulary
func NewReformatter(v *vocab.Vocabulary, log *zap.Logger) *Reformatter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reformatter{vocab: v, log: log}
}

// FormatRelated rewrites a single-sentence snippet into a grammatical answer
// for query. Every step that finds nothing to do leaves the text unchanged.
func (r *Reformatter) FormatRelated(snippet, query string) string {
	r.log.Debug("formatting related topic", zap.String("snippet", snippet), zap.String("query", query))

	ans := snippet

	if strings.HasSuffix(ans, "..") {
		if trimmed := strings.TrimSpace(strings.TrimRight(ans, ".")); trimmed != "" {
			ans = r.trimTrailingClause(trimmed)
		}
	}

	ans, category := extractCategory(ans, query)
	ans = r.splitSubject(ans, query)

	if category != "" {
		ans = strings.ReplaceAll(ans, "()", inWord+category)
	}

	if ans != "" && !strings.ContainsAny(ans[len(ans)-1:], ".?!") {
		ans += "."
	}
	return ans
}

// trimTrailingClause drops a cut-off final phrase and any dangling
// conjunctions, prepositions or gerunds left behind by truncation.
func (r *Reformatter) trimTrailingClause(ans string) string {
	phrases := strings.Split(ans, ", ")
	if len(phrases) > 1 {
		last := strings.Fields(phrases[len(phrases)-1])
		if len(last) > 0 && r.vocab.IsStartWord(last[0]) {
			if first := strings.Join(phrases[:len(phrases)-1], ", "); first != "" {
				ans = first
			}
		}
	}

	for {
		idx := strings.LastIndex(ans, " ")
		if idx < 0 {
			break
		}
		word := ans[idx+1:]
		if !r.vocab.IsStartWord(word) && !strings.HasSuffix(word, "ing") {
			break
		}
		ans = ans[:idx]
	}

	return ans
}

// extractCategory pulls a lower-case parenthetical such as "(city)" out of
// the text when it sits close to the subject, leaving "()" in its place.
func extractCategory(ans, query string) (string, string) {
	loc := categoryPattern.FindStringSubmatchIndex(ans)
	if loc == nil {
		return ans, ""
	}

	start := utf8.RuneCountInString(ans[:loc[2]])
	if start > 2*utf8.RuneCountInString(query) {
		return ans, ""
	}

	category := ans[loc[2]:loc[3]]
	return strings.ReplaceAll(ans, "("+category+")", "()"), category
}

// splitSubject inserts " is " before the first article that starts the
// description, as long as the article is near enough to the subject.
func (r *Reformatter) splitSubject(ans, query string) string {
	words := strings.Fields(ans)
	limit := 2 * len(strings.Fields(query))

	for _, article := range r.vocab.TitleArticles() {
		idx := indexFrom(words, article, 1)
		if idx < 0 || idx > limit {
			continue
		}

		desc := make([]string, len(words)-idx)
		copy(desc, words[idx:])
		desc[0] = strings.ToLower(desc[0])

		return strings.Join(words[:idx], " ") + isVerb + strings.Join(desc, " ")
	}

	return ans
}

// indexFrom returns the index of the first occurrence of w at or after from.
// A leading article is part of the name ("The Beatles"), so callers start at 1.
func indexFrom(words []string, w string, from int) int {
	for i := from; i < len(words); i++ {
		if words[i] == w {
			return i
		}
	}
	return -1
}
