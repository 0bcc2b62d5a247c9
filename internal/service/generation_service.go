package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"trivia-forge/internal/cache"
	"trivia-forge/internal/config"
	"trivia-forge/internal/domain"
	"trivia-forge/internal/util"

	"go.uber.org/zap"
)

// Pacing for the generation loop. Item pacing scales with how long the
// provider took; cooldowns back off after provider-level failures.
const (
	minItemPacing  = 2 * time.Second
	maxItemPacing  = 5 * time.Second
	itemCooldown   = 8 * time.Second
	minBatchPacing = 3 * time.Second
	batchCooldown  = 15 * time.Second
)

// itemPacing is the delay after a successful item: half the generation
// time, clamped to [minItemPacing, maxItemPacing].
func itemPacing(generationTime time.Duration) time.Duration {
	d := generationTime / 2
	if d < minItemPacing {
		return minItemPacing
	}
	if d > maxItemPacing {
		return maxItemPacing
	}
	return d
}

// batchPacing is the delay between batches: one extra second per failure,
// never less than minBatchPacing.
func batchPacing(failures int) time.Duration {
	d := time.Duration(failures) * time.Second
	if d < minBatchPacing {
		return minBatchPacing
	}
	return d
}

// generationService implements domain.GenerationService. The pipeline is
// deliberately single-threaded: one candidate is generated, checked, and
// persisted at a time, which protects provider rate limits and keeps the
// uniqueness set and counters race-free. The mutex exists only so the
// status endpoint can read snapshots of an in-flight run.
type generationService struct {
	factSource domain.FactSource
	generator  domain.QuestionGenerator
	fallback   domain.QuestionGenerator
	repo       domain.QuestionRepository
	statsCache domain.Cache // nil disables checkpointing
	cfg        *config.Config
	logger     *zap.Logger

	sampler *Sampler
	sleep   func(ctx context.Context, d time.Duration)

	stopped atomic.Bool
	mu      sync.Mutex
	state   *runState
}

// NewGenerationService creates a new generation orchestrator. All
// collaborators are injected; statsCache may be nil when no checkpoint
// store is configured.
func NewGenerationService(
	factSource domain.FactSource,
	generator domain.QuestionGenerator,
	fallback domain.QuestionGenerator,
	repo domain.QuestionRepository,
	statsCache domain.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) domain.GenerationService {
	return &generationService{
		factSource: factSource,
		generator:  generator,
		fallback:   fallback,
		repo:       repo,
		statsCache: statsCache,
		cfg:        cfg,
		logger:     logger,
		sampler:    NewSampler(rand.New(rand.NewSource(time.Now().UnixNano()))),
		sleep:      sleepWithContext,
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Stop requests a cooperative stop. The in-flight item is allowed to
// complete; the flag is checked at the top of each batch iteration and
// each slot.
func (s *generationService) Stop() {
	s.stopped.Store(true)
}

// Snapshot implements domain.GenerationService.
func (s *generationService) Snapshot() domain.StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return domain.StatsSnapshot{}
	}
	return s.state.snapshot()
}

// Run implements domain.GenerationService.
func (s *generationService) Run(ctx context.Context, req domain.GenerationRequest) (*domain.RunReport, error) {
	if req.TotalQuestions <= 0 {
		return nil, domain.NewInvalidInputError("total questions must be positive")
	}
	dist := req.Distribution
	if dist.CategoryWeights == nil && dist.DifficultyWeights == nil {
		dist = domain.DefaultDistribution()
	}
	if dist.CategoryWeights == nil {
		dist.CategoryWeights = domain.DefaultDistribution().CategoryWeights
	}
	if dist.DifficultyWeights == nil {
		dist.DifficultyWeights = domain.DefaultDistribution().DifficultyWeights
	}
	if err := dist.Validate(); err != nil {
		return nil, err
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = s.cfg.Generation.BatchSize
	}
	if batchSize <= 0 {
		batchSize = 5
	}
	checkpointEvery := s.cfg.Generation.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = 5
	}

	runID := util.NewULID()
	s.stopped.Store(false)
	s.mu.Lock()
	s.state = newRunState(runID)
	s.mu.Unlock()

	s.logger.Info("Starting question generation run",
		zap.String("run_id", runID),
		zap.Int("total_questions", req.TotalQuestions),
		zap.Int("batch_size", batchSize),
		zap.Bool("track_stats", req.TrackStats))

	if s.cfg.Generation.SeedFromStore {
		s.seedUniquenessSet(ctx)
	}

	start := time.Now()
	batchNum := 0
	for !s.shouldStop(ctx) {
		s.mu.Lock()
		accepted := s.state.counters.TotalAccepted
		s.mu.Unlock()
		remaining := req.TotalQuestions - accepted
		if remaining <= 0 {
			break
		}
		size := batchSize
		if remaining < size {
			size = remaining
		}

		batchNum++
		summary, err := s.runBatch(ctx, batchNum, size, dist, req.TotalQuestions)
		if err != nil {
			// Transient whole-batch failures are never fatal to the run.
			s.logger.Error("Batch failed, cooling down before retrying",
				zap.String("run_id", runID),
				zap.Int("batch", batchNum),
				zap.Error(err))
			s.sleep(ctx, batchCooldown)
			continue
		}

		s.mu.Lock()
		s.state.batches = append(s.state.batches, summary)
		accepted = s.state.counters.TotalAccepted
		s.mu.Unlock()

		s.logger.Info("Batch completed",
			zap.String("run_id", runID),
			zap.Int("batch", batchNum),
			zap.Int("successes", summary.Successes),
			zap.Int("failures", summary.Failures),
			zap.Int("duplicates", summary.Duplicates),
			zap.Duration("duration", summary.Duration),
			zap.Int("total_accepted", accepted))

		if req.TrackStats && batchNum%checkpointEvery == 0 {
			s.checkpoint(ctx)
		}

		if accepted < req.TotalQuestions && !s.shouldStop(ctx) {
			s.sleep(ctx, batchPacing(summary.Failures))
		}
	}

	s.mu.Lock()
	s.state.running = false
	snap := s.state.snapshot()
	s.mu.Unlock()

	if req.TrackStats {
		s.checkpoint(ctx)
	}

	report := &domain.RunReport{
		RunID:          runID,
		Accepted:       snap.TotalAccepted,
		Rejected:       snap.TotalRejected,
		Duplicates:     snap.TotalDuplicates,
		Attempted:      snap.TotalAttempted,
		Elapsed:        time.Since(start),
		RejectionCount: snap.RejectionReasons,
	}
	if approved, err := s.repo.CountApproved(ctx); err != nil {
		s.logger.Warn("Failed to count approved questions for the run report", zap.Error(err))
	} else {
		report.StoreApproved = approved
	}

	s.logger.Info("Generation run finished",
		zap.String("run_id", runID),
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", report.Rejected),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("attempted", report.Attempted),
		zap.Int("store_approved", report.StoreApproved),
		zap.Duration("elapsed", report.Elapsed))

	return report, nil
}

func (s *generationService) shouldStop(ctx context.Context) bool {
	return s.stopped.Load() || ctx.Err() != nil
}

// runBatch processes up to size slots. A panic escaping a slot is
// converted into a batch-level error and handled by the outer loop.
func (s *generationService) runBatch(ctx context.Context, number, size int, dist domain.Distribution, target int) (summary domain.BatchSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch %d panicked: %v", number, r)
		}
	}()

	start := time.Now()
	summary = domain.BatchSummary{
		Number:       number,
		ByCategory:   make(map[domain.Category]int),
		ByDifficulty: make(map[domain.Difficulty]int),
	}

	for i := 0; i < size; i++ {
		if s.shouldStop(ctx) {
			break
		}
		s.processSlot(ctx, dist, &summary, target)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// processSlot runs one candidate through the full pipeline: sample,
// fetch facts, generate (with direct fallback), leakage check, duplicate
// check, persist. Every outcome is counted; no failure aborts the run.
func (s *generationService) processSlot(ctx context.Context, dist domain.Distribution, summary *domain.BatchSummary, target int) {
	s.mu.Lock()
	category := s.sampler.PickCategory(dist, s.state.counters)
	difficulty := s.sampler.PickDifficulty(dist, s.state.counters)
	s.mu.Unlock()

	facts := s.factSource.FetchFacts(ctx, category)

	genStart := time.Now()
	candidate, err := s.generator.Generate(ctx, facts, category, difficulty)
	if err != nil && s.fallback != nil {
		s.logger.Warn("Search-augmented generation failed, trying direct fallback",
			zap.String("category", string(category)),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
		candidate, err = s.fallback.Generate(ctx, facts, category, difficulty)
	}
	generationTime := time.Since(genStart)

	if err != nil {
		reason := domain.CodeOf(err)
		s.reject(reason, summary)
		s.logger.Warn("Candidate generation failed",
			zap.String("category", string(category)),
			zap.String("difficulty", string(difficulty)),
			zap.String("reason", string(reason)),
			zap.Error(err))
		if reason == domain.ErrAPIError || reason == domain.ErrTimeout || reason == domain.ErrInternal {
			s.sleep(ctx, itemCooldown)
		}
		return
	}

	if LeaksAnswer(candidate.Content, candidate.CorrectAnswer) {
		s.reject(domain.ErrAnswerInQuestion, summary)
		s.logger.Info("Rejected candidate: correct answer appears in question text",
			zap.String("category", string(category)),
			zap.String("content", candidate.Content))
		return
	}

	s.mu.Lock()
	isDup := s.state.uniqueness.IsDuplicate(candidate)
	s.mu.Unlock()
	if isDup {
		s.mu.Lock()
		s.state.counters.RecordDuplicate()
		s.mu.Unlock()
		summary.Duplicates++
		s.logger.Info("Rejected candidate: duplicate of an accepted question",
			zap.String("category", string(category)),
			zap.String("content", candidate.Content))
		return
	}

	if _, err := s.repo.Save(ctx, candidate); err != nil {
		s.reject(domain.CodeOf(err), summary)
		s.logger.Error("Failed to persist accepted candidate",
			zap.String("category", string(category)),
			zap.Error(err))
		s.sleep(ctx, itemCooldown)
		return
	}

	s.mu.Lock()
	s.state.uniqueness.Record(candidate)
	s.state.counters.RecordAccepted(candidate)
	accepted := s.state.counters.TotalAccepted
	s.mu.Unlock()
	summary.Successes++
	summary.ByCategory[category]++
	summary.ByDifficulty[difficulty]++

	// No pacing after the item that completes the run.
	if accepted < target {
		s.sleep(ctx, itemPacing(generationTime))
	}
}

func (s *generationService) reject(reason domain.ErrorCode, summary *domain.BatchSummary) {
	s.mu.Lock()
	s.state.counters.RecordRejected(reason)
	s.mu.Unlock()
	summary.Failures++
}

// seedUniquenessSet loads fingerprints of previously persisted questions
// so re-runs do not regenerate them. Failures degrade to an unseeded set.
func (s *generationService) seedUniquenessSet(ctx context.Context) {
	existing, err := s.repo.ListForDeduplication(ctx)
	if err != nil {
		s.logger.Warn("Failed to seed uniqueness set from the store, starting empty", zap.Error(err))
		return
	}
	s.mu.Lock()
	for _, c := range existing {
		s.state.uniqueness.Record(c)
	}
	size := s.state.uniqueness.Size()
	s.mu.Unlock()
	s.logger.Info("Seeded uniqueness set from the store",
		zap.Int("questions", len(existing)),
		zap.Int("fingerprints", size))
}

// checkpoint writes the current snapshot to the stats cache. Checkpoint
// failures are logged and never interrupt the run.
func (s *generationService) checkpoint(ctx context.Context) {
	if s.statsCache == nil {
		return
	}
	snap := s.Snapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("Failed to marshal stats snapshot", zap.Error(err))
		return
	}
	key := cache.GenerateCacheKey("generation", "run", snap.RunID, "stats")
	if err := s.statsCache.Set(ctx, key, string(payload), s.cfg.Generation.StatsTTL); err != nil {
		s.logger.Warn("Failed to checkpoint stats snapshot",
			zap.String("key", key),
			zap.Error(err))
	}
}
