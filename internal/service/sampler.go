package service

import (
	"math/rand"

	"trivia-forge/internal/domain"
)

// samplerWarmup is how many accepted items a run samples directly from the
// target distribution before deficit weighting kicks in.
const samplerWarmup = 20

// Sampler draws the next category and difficulty to request. Early in a
// run it samples proportionally to the target distribution; once enough
// items are accepted it boosts under-represented keys and damps keys at or
// ahead of target, so the run's output converges toward the configured mix
// without ever excluding a key.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler. Pass a seeded *rand.Rand for reproducible
// draws in tests.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// PickCategory draws the next category against the run's counters.
func (s *Sampler) PickCategory(dist domain.Distribution, counters *RunCounters) domain.Category {
	return pickAdaptive(s.rng, domain.AllCategories, dist.CategoryWeights, counters.ByCategory, counters.TotalGenerated, counters.TotalAccepted)
}

// PickDifficulty draws the next difficulty against the run's counters.
func (s *Sampler) PickDifficulty(dist domain.Distribution, counters *RunCounters) domain.Difficulty {
	return pickAdaptive(s.rng, domain.AllDifficulties, dist.DifficultyWeights, counters.ByDifficulty, counters.TotalGenerated, counters.TotalAccepted)
}

// pickAdaptive performs one weighted draw. order fixes the enumeration
// sequence; keys absent from targets are never drawn.
func pickAdaptive[K comparable](rng *rand.Rand, order []K, targets map[K]float64, counts map[K]int, totalGenerated, totalAccepted int) K {
	weights := make(map[K]float64, len(targets))
	if totalAccepted < samplerWarmup {
		for k, w := range targets {
			weights[k] = w
		}
	} else {
		for k, target := range targets {
			deficit := target*float64(totalGenerated) - float64(counts[k])
			if deficit > 0 {
				weights[k] = target * (1 + deficit/5)
			} else {
				weights[k] = target * 0.5
			}
		}
	}
	return weightedDraw(rng, order, weights)
}

// weightedDraw draws a uniform value in [0, sum) and subtracts weights in
// enumeration order until it crosses zero.
func weightedDraw[K comparable](rng *rand.Rand, order []K, weights map[K]float64) K {
	var sum float64
	for _, k := range order {
		sum += weights[k]
	}

	var last K
	u := rng.Float64() * sum
	for _, k := range order {
		w, ok := weights[k]
		if !ok {
			continue
		}
		last = k
		u -= w
		if u <= 0 {
			return k
		}
	}
	// Floating point residue: fall back to the final eligible key.
	return last
}
