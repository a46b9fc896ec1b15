package text

import (
	"regexp"
	"strings"
)

// mask stands in for a period that must not end a sentence
const mask = "~.~"

const separator = ". "

var (
	// " J." as in "John F. Kennedy"
	initialPattern = regexp.MustCompile(` ([^ .])\.`)

	honorificPattern = regexp.MustCompile(`(^|\s)(Dr|Mr|Mrs|Ms|Prof|St|Mt)\.`)

	// Closing period of a dotted initialism ("U.S.") followed by a new sentence
	initialismEndPattern = regexp.MustCompile(`(~\.~[^ .~])\. (\p{Lu})`)

	// Any other period continuing a dotted initialism
	initialismPattern = regexp.MustCompile(`(~\.~[^ .~])\.`)
)

// SplitSentences turns a block of prose into its sentences, keeping
// initials and common abbreviations intact. The terminal punctuation of
// every sentence is dropped.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}

	text = initialPattern.ReplaceAllString(text, " ${1}"+mask)
	text = strings.ReplaceAll(text, "Inc.", "Inc"+mask)
	text = honorificPattern.ReplaceAllString(text, "${1}${2}"+mask)
	text = maskInitialisms(text)

	for _, c := range []string{"!", "?"} {
		text = strings.ReplaceAll(text, c+" ", separator)
	}

	sents := strings.Split(text, separator)
	for i, s := range sents {
		sents[i] = strings.ReplaceAll(s, mask, ".")
	}

	last := sents[len(sents)-1]
	if n := len(last); n > 0 && strings.ContainsRune(".!?", rune(last[n-1])) {
		sents[len(sents)-1] = last[:n-1]
	}

	return sents
}

// maskInitialisms walks dotted initialisms one letter at a time. When an
// initialism closes a sentence its period is kept and a separator follows.
func maskInitialisms(text string) string {
	for {
		next := initialismEndPattern.ReplaceAllString(text, "${1}"+mask+separator+"${2}")
		next = initialismPattern.ReplaceAllString(next, "${1}"+mask)
		if next == text {
			return text
		}
		text = next
	}
}
