package text

import (
	"strings"

	"github.com/ppiankov/ducky/internal/vocab"
)

// Stripper recovers the bare query from a spoken question
type Stripper struct {
	vocab    *vocab.Vocabulary
	words    []string
	verbs    []string
	articles []string // "a ", "an ", ..., then "" for no article
	triggers [][]string
}

// NewStripper creates a Stripper for the given vocabulary
func NewStripper(v *vocab.Vocabulary) *Stripper {
	s := &Stripper{
		vocab: v,
		words: v.QuestionWords(),
		verbs: v.QuestionVerbs(),
	}
	for _, a := range v.Articles() {
		s.articles = append(s.articles, a+" ")
	}
	s.articles = append(s.articles, "")

	for _, t := range v.Triggers() {
		if fields := strings.Fields(strings.ToLower(t)); len(fields) > 0 {
			s.triggers = append(s.triggers, fields)
		}
	}
	return s
}

// StripInterrogative removes a leading "<question word><question verb> [article] "
// prefix such as "what is the ". Combinations are tried in vocabulary order
// and the first matching prefix is removed, even when a longer one would
// also match. The utterance is returned unchanged when nothing matches.
func (s *Stripper) StripInterrogative(utterance string) string {
	prefix, ok := s.MatchPrefix(utterance)
	if !ok {
		return utterance
	}
	return utterance[len(prefix):]
}

// MatchPrefix returns the interrogative prefix StripInterrogative would remove
func (s *Stripper) MatchPrefix(utterance string) (string, bool) {
	for _, word := range s.words {
		for _, verb := range s.verbs {
			for _, article := range s.articles {
				prefix := word + verb + " " + article
				if strings.HasPrefix(utterance, prefix) {
					return prefix, true
				}
			}
		}
	}
	return "", false
}

// RemoveTriggers deletes every occurrence of the trigger phrases ("ask the
// duck", "duckduckgo", ...) as whole words, longest phrase first, and
// collapses the remaining whitespace.
func (s *Stripper) RemoveTriggers(utterance string) string {
	tokens := strings.Fields(utterance)
	for _, phrase := range s.triggers {
		tokens = removePhrase(tokens, phrase)
	}
	return strings.Join(tokens, " ")
}

// ContainsTrigger reports whether any trigger phrase occurs in the
// utterance as whole words
func (s *Stripper) ContainsTrigger(utterance string) bool {
	tokens := strings.Fields(utterance)
	for _, phrase := range s.triggers {
		for i := range tokens {
			if hasPhraseAt(tokens, phrase, i) {
				return true
			}
		}
	}
	return false
}

// StripArticles removes standalone articles from the utterance
func (s *Stripper) StripArticles(utterance string) string {
	tokens := strings.Fields(utterance)
	kept := tokens[:0]
	for _, tok := range tokens {
		if !s.vocab.IsArticle(strings.ToLower(tok)) {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func removePhrase(tokens, phrase []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if hasPhraseAt(tokens, phrase, i) {
			i += len(phrase)
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func hasPhraseAt(tokens, phrase []string, at int) bool {
	if at+len(phrase) > len(tokens) {
		return false
	}
	for j, p := range phrase {
		if strings.ToLower(tokens[at+j]) != p {
			return false
		}
	}
	return true
}
