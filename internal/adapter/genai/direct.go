package genai

import (
	"context"
	"time"

	"trivia-forge/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// focusAreas supplies suggestive themes per category for the direct path,
// standing in for search facts when the fact source or the search-grounded
// generation is unavailable.
var focusAreas = map[domain.Category]string{
	domain.CategoryScience:       "physics laws, chemical elements, the human body, space exploration, famous experiments",
	domain.CategoryTechnology:    "programming languages, computing pioneers, the internet, consumer electronics, inventions",
	domain.CategoryHistory:       "ancient empires, world wars, revolutions, famous leaders, archaeological discoveries",
	domain.CategoryGeography:     "capitals, rivers and mountains, country borders, flags, world landmarks",
	domain.CategorySports:        "the Olympics, football, basketball, tennis, record-holding athletes",
	domain.CategoryEntertainment: "award-winning films, TV series, directors, actors, animation studios",
	domain.CategoryMusic:         "classical composers, rock bands, music theory, chart records, instruments",
	domain.CategoryLiterature:    "classic novels, poets, Nobel laureates, literary movements, famous first lines",
	domain.CategoryArt:           "renaissance painters, art movements, sculptures, museums, famous forgeries",
	domain.CategoryNature:        "animal behavior, plant biology, ecosystems, weather phenomena, conservation",
	domain.CategoryBlockchain:    "bitcoin origins, consensus mechanisms, notable forks, NFTs, crypto exchanges",
}

// DirectGenerator implements domain.QuestionGenerator without search
// grounding. It exists purely as a degraded-context path, never as a
// correctness fallback for parsing failures.
type DirectGenerator struct {
	llm     llms.Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewDirectGenerator creates a new DirectGenerator.
func NewDirectGenerator(llm llms.Model, timeout time.Duration, logger *zap.Logger) domain.QuestionGenerator {
	return &DirectGenerator{llm: llm, timeout: timeout, logger: logger}
}

// Generate implements domain.QuestionGenerator. The facts argument is
// ignored; focus-area guidance takes its place in the prompt.
func (g *DirectGenerator) Generate(ctx context.Context, _ []string, category domain.Category, difficulty domain.Difficulty) (*domain.Candidate, error) {
	focus, ok := focusAreas[category]
	if !ok {
		focus = "general knowledge in " + string(category)
	}
	prompt := buildDirectPrompt(focus, category, difficulty)
	return completeAndParse(ctx, g.llm, prompt, category, difficulty, g.timeout, g.logger)
}
