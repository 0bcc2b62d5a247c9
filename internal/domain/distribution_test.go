package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDistributionIsValid(t *testing.T) {
	dist := DefaultDistribution()
	require.NoError(t, dist.Validate())
	assert.Len(t, dist.CategoryWeights, len(AllCategories))
	assert.Len(t, dist.DifficultyWeights, len(AllDifficulties))
}

func TestDistributionValidate(t *testing.T) {
	twoCategories := Distribution{
		CategoryWeights: map[Category]float64{
			CategoryScience: 0.5,
			CategoryHistory: 0.5,
		},
		DifficultyWeights: DefaultDistribution().DifficultyWeights,
	}
	assert.NoError(t, twoCategories.Validate(), "a subset of categories is allowed")

	badSum := Distribution{
		CategoryWeights: map[Category]float64{
			CategoryScience: 0.5,
			CategoryHistory: 0.4,
		},
		DifficultyWeights: DefaultDistribution().DifficultyWeights,
	}
	assert.Error(t, badSum.Validate())

	negative := Distribution{
		CategoryWeights: map[Category]float64{
			CategoryScience: 1.5,
			CategoryHistory: -0.5,
		},
		DifficultyWeights: DefaultDistribution().DifficultyWeights,
	}
	assert.Error(t, negative.Validate())

	unknownKey := Distribution{
		CategoryWeights: map[Category]float64{
			Category("astrology"): 1.0,
		},
		DifficultyWeights: DefaultDistribution().DifficultyWeights,
	}
	assert.Error(t, unknownKey.Validate())

	emptyDifficulty := Distribution{
		CategoryWeights:   DefaultDistribution().CategoryWeights,
		DifficultyWeights: map[Difficulty]float64{},
	}
	assert.Error(t, emptyDifficulty.Validate())
}
