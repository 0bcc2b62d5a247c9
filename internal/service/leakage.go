package service

import (
	"regexp"
	"strings"
)

// leakageStoplist holds common words that are never treated as give-aways
// when they appear in both a multi-word answer and the question text.
var leakageStoplist = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
	"this": {}, "that": {}, "what": {}, "which": {}, "where": {},
	"when": {}, "who": {}, "his": {}, "her": {}, "its": {},
	"their": {}, "have": {}, "has": {}, "was": {}, "were": {},
	"are": {}, "not": {}, "but": {}, "about": {}, "into": {},
}

// LeaksAnswer reports whether the correct answer is discoverable inside
// the question text: as a direct substring, as a whole word, or - for
// multi-word answers - via any significant constituent word. Empty content
// or answer is treated as not leaked.
func LeaksAnswer(content, answer string) bool {
	content = strings.ToLower(strings.TrimSpace(content))
	answer = strings.ToLower(strings.TrimSpace(answer))
	if content == "" || answer == "" {
		return false
	}

	if strings.Contains(content, answer) {
		return true
	}
	if matchesWholeWord(content, answer) {
		return true
	}

	words := strings.Fields(answer)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if _, common := leakageStoplist[w]; common {
			continue
		}
		if matchesWholeWord(content, w) {
			return true
		}
	}
	return false
}

func matchesWholeWord(content, word string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(content)
}
