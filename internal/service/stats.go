package service

import (
	"time"

	"trivia-forge/internal/domain"
)

// RunCounters is the mutable, run-scoped tally of pipeline outcomes.
// Counts only ever increase. Duplicates are tracked apart from rejections
// so that accepted + rejected + duplicates == attempted holds at every
// checkpoint, while DUPLICATE still shows up in the per-reason breakdown.
type RunCounters struct {
	TotalGenerated   int
	TotalAccepted    int
	TotalRejected    int
	TotalDuplicates  int
	ByCategory       map[domain.Category]int
	ByDifficulty     map[domain.Difficulty]int
	RejectionReasons map[domain.ErrorCode]int
}

// NewRunCounters creates zeroed counters.
func NewRunCounters() *RunCounters {
	return &RunCounters{
		ByCategory:       make(map[domain.Category]int),
		ByDifficulty:     make(map[domain.Difficulty]int),
		RejectionReasons: make(map[domain.ErrorCode]int),
	}
}

// RecordAccepted tallies one accepted candidate.
func (r *RunCounters) RecordAccepted(c *domain.Candidate) {
	r.TotalGenerated++
	r.TotalAccepted++
	r.ByCategory[c.Category]++
	r.ByDifficulty[c.Difficulty]++
}

// RecordRejected tallies one rejected candidate under its reason.
func (r *RunCounters) RecordRejected(reason domain.ErrorCode) {
	r.TotalGenerated++
	r.TotalRejected++
	r.RejectionReasons[reason]++
}

// RecordDuplicate tallies one duplicate candidate.
func (r *RunCounters) RecordDuplicate() {
	r.TotalGenerated++
	r.TotalDuplicates++
	r.RejectionReasons[domain.ErrDuplicate]++
}

// runState bundles everything one run owns: counters, the uniqueness set,
// and the batch log. It lives on the orchestrator instance, never at
// package scope, so multiple runs can coexist.
type runState struct {
	runID      string
	startedAt  time.Time
	running    bool
	counters   *RunCounters
	uniqueness *UniquenessSet
	batches    []domain.BatchSummary
}

func newRunState(runID string) *runState {
	return &runState{
		runID:      runID,
		startedAt:  time.Now(),
		running:    true,
		counters:   NewRunCounters(),
		uniqueness: NewUniquenessSet(),
	}
}

// snapshot copies the state into a serializable view.
func (s *runState) snapshot() domain.StatsSnapshot {
	snap := domain.StatsSnapshot{
		RunID:            s.runID,
		Running:          s.running,
		TotalAttempted:   s.counters.TotalGenerated,
		TotalAccepted:    s.counters.TotalAccepted,
		TotalRejected:    s.counters.TotalRejected,
		TotalDuplicates:  s.counters.TotalDuplicates,
		ByCategory:       make(map[domain.Category]int, len(s.counters.ByCategory)),
		ByDifficulty:     make(map[domain.Difficulty]int, len(s.counters.ByDifficulty)),
		RejectionReasons: make(map[domain.ErrorCode]int, len(s.counters.RejectionReasons)),
		Batches:          make([]domain.BatchSummary, len(s.batches)),
		StartedAt:        s.startedAt,
	}
	for k, v := range s.counters.ByCategory {
		snap.ByCategory[k] = v
	}
	for k, v := range s.counters.ByDifficulty {
		snap.ByDifficulty[k] = v
	}
	for k, v := range s.counters.RejectionReasons {
		snap.RejectionReasons[k] = v
	}
	copy(snap.Batches, s.batches)
	return snap
}
