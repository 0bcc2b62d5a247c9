package service

import (
	"sort"
	"strings"

	"trivia-forge/internal/domain"
)

// UniquenessSet tracks the fingerprints of every accepted candidate in a
// run. A candidate is a duplicate if either of its two fingerprints is
// already present. The set is scoped to one run unless seeded from the
// store at startup.
type UniquenessSet struct {
	fingerprints map[string]struct{}
}

// NewUniquenessSet creates an empty UniquenessSet.
func NewUniquenessSet() *UniquenessSet {
	return &UniquenessSet{fingerprints: make(map[string]struct{})}
}

// IsDuplicate reports whether either fingerprint of the candidate has been
// recorded before. It is a pure function of the candidate and the current
// set contents.
func (u *UniquenessSet) IsDuplicate(c *domain.Candidate) bool {
	if _, ok := u.fingerprints[contentFingerprint(c)]; ok {
		return true
	}
	_, ok := u.fingerprints[answerSetFingerprint(c)]
	return ok
}

// Record inserts both fingerprints of an accepted candidate. Both entries
// land in one call so a half-recorded candidate can never produce a false
// "unique" verdict later.
func (u *UniquenessSet) Record(c *domain.Candidate) {
	u.fingerprints[contentFingerprint(c)] = struct{}{}
	u.fingerprints[answerSetFingerprint(c)] = struct{}{}
}

// Size returns the number of stored fingerprints.
func (u *UniquenessSet) Size() int {
	return len(u.fingerprints)
}

// contentFingerprint is normalized question text plus correct answer.
func contentFingerprint(c *domain.Candidate) string {
	return norm(c.Content) + "-" + norm(c.CorrectAnswer)
}

// answerSetFingerprint is the sorted, normalized set of all four answers.
func answerSetFingerprint(c *domain.Candidate) string {
	answers := make([]string, 0, len(c.IncorrectAnswers)+1)
	answers = append(answers, norm(c.CorrectAnswer))
	for _, a := range c.IncorrectAnswers {
		answers = append(answers, norm(a))
	}
	sort.Strings(answers)
	return strings.Join(answers, "|")
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
