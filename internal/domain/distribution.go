package domain

import (
	"fmt"
	"math"
)

// Distribution is the target category/difficulty mix for one generation
// run. It is supplied at pipeline start and never mutated afterwards.
type Distribution struct {
	CategoryWeights   map[Category]float64
	DifficultyWeights map[Difficulty]float64
}

const distributionTolerance = 1e-6

// DefaultDistribution returns the stock target mix used when the caller
// does not supply one.
func DefaultDistribution() Distribution {
	return Distribution{
		CategoryWeights: map[Category]float64{
			CategoryScience:       0.12,
			CategoryTechnology:    0.12,
			CategoryHistory:       0.10,
			CategoryGeography:     0.10,
			CategorySports:        0.08,
			CategoryEntertainment: 0.10,
			CategoryMusic:         0.08,
			CategoryLiterature:    0.08,
			CategoryArt:           0.07,
			CategoryNature:        0.07,
			CategoryBlockchain:    0.08,
		},
		DifficultyWeights: map[Difficulty]float64{
			DifficultyEasy:   0.40,
			DifficultyMedium: 0.40,
			DifficultyHard:   0.20,
		},
	}
}

// Validate checks that both weight maps name only known keys and carry
// positive weights summing to 1.0. A distribution may cover a subset of
// the categories; keys it omits are never sampled.
func (d Distribution) Validate() error {
	if err := validateWeights("category", d.CategoryWeights, AllCategories); err != nil {
		return err
	}
	return validateWeights("difficulty", d.DifficultyWeights, AllDifficulties)
}

func validateWeights[K comparable](name string, weights map[K]float64, known []K) error {
	if len(weights) == 0 {
		return NewInvalidInputError(fmt.Sprintf("%s distribution is empty", name))
	}
	valid := make(map[K]struct{}, len(known))
	for _, k := range known {
		valid[k] = struct{}{}
	}
	var sum float64
	for k, w := range weights {
		if _, ok := valid[k]; !ok {
			return NewInvalidInputError(fmt.Sprintf("%s distribution names unknown key %v", name, k))
		}
		if w <= 0 {
			return NewInvalidInputError(fmt.Sprintf("%s distribution weight for %v must be positive, got %f", name, k, w))
		}
		sum += w
	}
	if math.Abs(sum-1.0) > distributionTolerance {
		return NewInvalidInputError(fmt.Sprintf("%s distribution weights must sum to 1.0, got %f", name, sum))
	}
	return nil
}
