package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trivia-forge/internal/config"
	"trivia-forge/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// NewModel constructs the langchaingo model named by the configuration.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		return openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
		}
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

// SearchAugmentedGenerator implements domain.QuestionGenerator by grounding
// the prompt in fetched facts. It performs exactly one model call per
// invocation; retries are the orchestrator's concern.
type SearchAugmentedGenerator struct {
	llm     llms.Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewSearchAugmentedGenerator creates a new SearchAugmentedGenerator.
func NewSearchAugmentedGenerator(llm llms.Model, timeout time.Duration, logger *zap.Logger) domain.QuestionGenerator {
	return &SearchAugmentedGenerator{llm: llm, timeout: timeout, logger: logger}
}

// Generate implements domain.QuestionGenerator.
func (g *SearchAugmentedGenerator) Generate(ctx context.Context, facts []string, category domain.Category, difficulty domain.Difficulty) (*domain.Candidate, error) {
	prompt := buildSearchPrompt(facts, category, difficulty)
	return completeAndParse(ctx, g.llm, prompt, category, difficulty, g.timeout, g.logger)
}

// completeAndParse performs the single model call and maps the response
// onto a validated candidate.
func completeAndParse(ctx context.Context, llm llms.Model, prompt string, category domain.Category, difficulty domain.Difficulty, timeout time.Duration, logger *zap.Logger) (*domain.Candidate, error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	response, err := llms.GenerateFromSinglePrompt(callCtx, llm, prompt, llms.WithTemperature(0.7))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Generation request timed out",
				zap.String("category", string(category)),
				zap.Duration("timeout", timeout))
			return nil, domain.NewGenerationTimeoutError(err)
		}
		logger.Error("Generation request failed",
			zap.String("category", string(category)),
			zap.Error(err))
		return nil, domain.NewGenerationAPIError(err)
	}

	data, err := parseEnvelope(response)
	if err != nil {
		logger.Warn("Failed to parse generation response",
			zap.String("category", string(category)),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
		return nil, err
	}

	candidate := &domain.Candidate{
		Content:          strings.TrimSpace(data.Content),
		Category:         category,
		Difficulty:       difficulty,
		CorrectAnswer:    strings.TrimSpace(data.CorrectAnswer),
		IncorrectAnswers: trimAll(data.IncorrectAnswers),
		ValidationStatus: domain.StatusApproved,
		AIGenerated:      true,
		CreatedAt:        time.Now(),
	}
	if err := candidate.Validate(); err != nil {
		return nil, domain.NewInvalidStructureError(fmt.Sprintf("generated candidate failed validation: %v", err))
	}
	return candidate, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
