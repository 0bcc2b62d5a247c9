package service

import (
	"testing"

	"trivia-forge/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRunCounters_CountConservation(t *testing.T) {
	counters := NewRunCounters()

	counters.RecordAccepted(&domain.Candidate{Category: domain.CategoryScience, Difficulty: domain.DifficultyEasy})
	counters.RecordAccepted(&domain.Candidate{Category: domain.CategoryHistory, Difficulty: domain.DifficultyHard})
	counters.RecordRejected(domain.ErrParseError)
	counters.RecordRejected(domain.ErrAnswerInQuestion)
	counters.RecordRejected(domain.ErrAPIError)
	counters.RecordDuplicate()

	assert.Equal(t, 6, counters.TotalGenerated)
	assert.Equal(t, counters.TotalGenerated,
		counters.TotalAccepted+counters.TotalRejected+counters.TotalDuplicates)

	assert.Equal(t, 2, counters.TotalAccepted)
	assert.Equal(t, 3, counters.TotalRejected)
	assert.Equal(t, 1, counters.TotalDuplicates)
	assert.Equal(t, 1, counters.RejectionReasons[domain.ErrParseError])
	assert.Equal(t, 1, counters.RejectionReasons[domain.ErrDuplicate])
	assert.Equal(t, 1, counters.ByCategory[domain.CategoryScience])
	assert.Equal(t, 1, counters.ByDifficulty[domain.DifficultyHard])
}

func TestRunState_SnapshotIsACopy(t *testing.T) {
	state := newRunState("01RUN")
	state.counters.RecordAccepted(&domain.Candidate{Category: domain.CategoryArt, Difficulty: domain.DifficultyMedium})
	state.batches = append(state.batches, domain.BatchSummary{Number: 1, Successes: 1})

	snap := state.snapshot()
	assert.Equal(t, "01RUN", snap.RunID)
	assert.True(t, snap.Running)
	assert.Equal(t, 1, snap.TotalAccepted)
	assert.Len(t, snap.Batches, 1)

	// Mutating the snapshot must not touch the run state.
	snap.ByCategory[domain.CategoryArt] = 99
	snap.Batches[0].Successes = 99
	assert.Equal(t, 1, state.counters.ByCategory[domain.CategoryArt])
	assert.Equal(t, 1, state.batches[0].Successes)
}
