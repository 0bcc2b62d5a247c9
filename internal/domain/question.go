package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies one of the fixed trivia categories.
type Category string

const (
	CategoryScience       Category = "science"
	CategoryTechnology    Category = "technology"
	CategoryHistory       Category = "history"
	CategoryGeography     Category = "geography"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryMusic         Category = "music"
	CategoryLiterature    Category = "literature"
	CategoryArt           Category = "art"
	CategoryNature        Category = "nature"
	CategoryBlockchain    Category = "blockchain"
)

// AllCategories is the canonical enumeration order. Weighted draws and
// deficit calculations iterate in this order so runs are reproducible
// under a fixed random seed.
var AllCategories = []Category{
	CategoryScience,
	CategoryTechnology,
	CategoryHistory,
	CategoryGeography,
	CategorySports,
	CategoryEntertainment,
	CategoryMusic,
	CategoryLiterature,
	CategoryArt,
	CategoryNature,
	CategoryBlockchain,
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown category: %q", s))
}

// Difficulty is the question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties is the canonical enumeration order for weighted draws.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty validates a raw difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllDifficulties {
		if d == known {
			return d, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown difficulty: %q", s))
}

// ValidationStatus is the review state a question is persisted with.
type ValidationStatus string

const (
	StatusApproved  ValidationStatus = "approved"
	StatusReviewing ValidationStatus = "reviewing"
	StatusDraft     ValidationStatus = "draft"
)

// FeedbackItem is one structured validation remark attached to a candidate.
type FeedbackItem struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Candidate is a generated, not-yet-persisted question record.
type Candidate struct {
	Content            string
	Category           Category
	Difficulty         Difficulty
	CorrectAnswer      string
	IncorrectAnswers   []string
	ValidationStatus   ValidationStatus
	ValidationFeedback []FeedbackItem
	AIGenerated        bool
	CreatedAt          time.Time
}

// Validate checks the structural invariants of a candidate: non-empty
// content and answers, exactly 3 incorrect answers, all four answers
// pairwise distinct (case-insensitive).
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return NewInvalidInputError("candidate content is empty")
	}
	if strings.TrimSpace(c.CorrectAnswer) == "" {
		return NewInvalidInputError("candidate correct answer is empty")
	}
	if len(c.IncorrectAnswers) != 3 {
		return NewInvalidInputError(fmt.Sprintf("candidate must have exactly 3 incorrect answers, got %d", len(c.IncorrectAnswers)))
	}
	seen := map[string]struct{}{
		strings.ToLower(strings.TrimSpace(c.CorrectAnswer)): {},
	}
	for _, a := range c.IncorrectAnswers {
		if strings.TrimSpace(a) == "" {
			return NewInvalidInputError("candidate has an empty incorrect answer")
		}
		key := strings.ToLower(strings.TrimSpace(a))
		if _, dup := seen[key]; dup {
			return NewInvalidInputError(fmt.Sprintf("candidate answers are not distinct: %q", a))
		}
		seen[key] = struct{}{}
	}
	if _, err := ParseCategory(string(c.Category)); err != nil {
		return err
	}
	if _, err := ParseDifficulty(string(c.Difficulty)); err != nil {
		return err
	}
	return nil
}
