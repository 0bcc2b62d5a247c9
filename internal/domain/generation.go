package domain

import (
	"context"
	"time"
)

// FactSource fetches short factual snippets to ground question generation.
// Implementations never return an error: when the underlying provider is
// unavailable they fall back to degraded, category-derived facts so the
// pipeline can keep running.
type FactSource interface {
	FetchFacts(ctx context.Context, category Category) []string
}

// QuestionGenerator produces one candidate question per invocation. It
// performs exactly one provider call and does not retry internally; a
// failed call surfaces as a *DomainError carrying a rejection code.
type QuestionGenerator interface {
	Generate(ctx context.Context, facts []string, category Category, difficulty Difficulty) (*Candidate, error)
}

// QuestionRepository is the narrow persistence boundary the pipeline
// writes accepted questions through.
type QuestionRepository interface {
	// Save inserts an accepted candidate and returns its new ID.
	Save(ctx context.Context, candidate *Candidate) (string, error)
	// CountApproved reports how many approved AI-generated questions the
	// store holds. Used only for end-of-run reporting.
	CountApproved(ctx context.Context) (int, error)
	// ListForDeduplication returns the minimal fields of every stored
	// question, for seeding the uniqueness set across runs.
	ListForDeduplication(ctx context.Context) ([]*Candidate, error)
}

// GenerationRequest parameterizes one generation run.
type GenerationRequest struct {
	TotalQuestions int
	Distribution   Distribution
	BatchSize      int
	TrackStats     bool
}

// RunReport summarizes a completed generation run.
type RunReport struct {
	RunID          string
	Accepted       int
	Rejected       int
	Duplicates     int
	Attempted      int
	StoreApproved  int
	Elapsed        time.Duration
	RejectionCount map[ErrorCode]int
}

// StatsSnapshot is a point-in-time view of a run's counters, safe to
// serialize for checkpoints and the status endpoint.
type StatsSnapshot struct {
	RunID            string             `json:"run_id"`
	Running          bool               `json:"running"`
	TotalAttempted   int                `json:"total_attempted"`
	TotalAccepted    int                `json:"total_accepted"`
	TotalRejected    int                `json:"total_rejected"`
	TotalDuplicates  int                `json:"total_duplicates"`
	ByCategory       map[Category]int   `json:"by_category"`
	ByDifficulty     map[Difficulty]int `json:"by_difficulty"`
	RejectionReasons map[ErrorCode]int  `json:"rejection_reasons"`
	Batches          []BatchSummary     `json:"batches"`
	StartedAt        time.Time          `json:"started_at"`
}

// BatchSummary is the immutable record of one completed batch.
type BatchSummary struct {
	Number       int                `json:"number"`
	Successes    int                `json:"successes"`
	Failures     int                `json:"failures"`
	Duplicates   int                `json:"duplicates"`
	ByCategory   map[Category]int   `json:"by_category"`
	ByDifficulty map[Difficulty]int `json:"by_difficulty"`
	Duration     time.Duration      `json:"duration"`
}

// GenerationService drives a full generation run.
type GenerationService interface {
	// Run executes the batch loop until the target count is reached, the
	// context is cancelled, or Stop is called.
	Run(ctx context.Context, req GenerationRequest) (*RunReport, error)
	// Stop requests a cooperative stop; the in-flight item completes.
	Stop()
	// Snapshot returns the current run statistics.
	Snapshot() StatsSnapshot
}
