package factsource

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"context"

	"trivia-forge/internal/config"
	"trivia-forge/internal/domain"

	"go.uber.org/zap"
)

// queryTemplates maps each category to the search queries it can be
// grounded with. One template is chosen at random per call.
var queryTemplates = map[domain.Category][]string{
	domain.CategoryScience:       {"surprising science facts", "famous scientific discoveries", "physics chemistry biology trivia facts"},
	domain.CategoryTechnology:    {"computer history facts", "famous inventions in technology", "internet and software trivia"},
	domain.CategoryHistory:       {"important historical events facts", "ancient civilizations trivia", "world history surprising facts"},
	domain.CategoryGeography:     {"world geography facts", "countries capitals rivers trivia", "famous landmarks facts"},
	domain.CategorySports:        {"olympic games trivia facts", "world cup football history facts", "famous athletes records"},
	domain.CategoryEntertainment: {"famous movies trivia facts", "television show history facts", "celebrity and cinema trivia"},
	domain.CategoryMusic:         {"music history trivia facts", "famous musicians and bands facts", "classical music surprising facts"},
	domain.CategoryLiterature:    {"classic novels trivia facts", "famous authors and books facts", "poetry and literature history"},
	domain.CategoryArt:           {"famous paintings trivia facts", "art history movements facts", "renowned artists surprising facts"},
	domain.CategoryNature:        {"animal kingdom surprising facts", "plants and ecosystems trivia", "natural wonders of the world facts"},
	domain.CategoryBlockchain:    {"bitcoin and cryptocurrency history facts", "blockchain technology trivia", "famous crypto events facts"},
}

// searchResponse is the wire shape of the search provider's reply.
type searchResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"results"`
}

// SearchFactSource implements domain.FactSource against an HTTP web-search
// provider. Provider failures are logged and swallowed: the adapter always
// returns usable facts, degrading to a static fallback when necessary.
type SearchFactSource struct {
	cfg        config.SearchConfig
	httpClient *http.Client
	rng        *rand.Rand
	logger     *zap.Logger
}

// NewSearchFactSource creates a new SearchFactSource. rng drives template
// selection; pass a seeded source for reproducible runs.
func NewSearchFactSource(cfg config.SearchConfig, rng *rand.Rand, logger *zap.Logger) domain.FactSource {
	return &SearchFactSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rng:        rng,
		logger:     logger,
	}
}

// FetchFacts returns factual snippets for the category. It never fails:
// when the provider is unreachable, unauthenticated, or returns nothing,
// the category-derived fallback facts are returned instead.
func (s *SearchFactSource) FetchFacts(ctx context.Context, category domain.Category) []string {
	if s.cfg.APIKey == "" || s.cfg.BaseURL == "" {
		s.logger.Debug("Search provider not configured, using fallback facts",
			zap.String("category", string(category)))
		return fallbackFacts(category)
	}

	templates := queryTemplates[category]
	if len(templates) == 0 {
		return fallbackFacts(category)
	}
	query := templates[s.rng.Intn(len(templates))]

	facts, err := s.search(ctx, query)
	if err != nil {
		s.logger.Warn("Search provider request failed, using fallback facts",
			zap.String("category", string(category)),
			zap.String("query", query),
			zap.Error(err))
		return fallbackFacts(category)
	}
	if len(facts) == 0 {
		s.logger.Info("Search provider returned no results, using fallback facts",
			zap.String("category", string(category)),
			zap.String("query", query))
		return fallbackFacts(category)
	}
	return facts
}

func (s *SearchFactSource) search(ctx context.Context, query string) ([]string, error) {
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/search?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	var facts []string
	for _, r := range parsed.Results {
		if t := strings.TrimSpace(r.Title); t != "" {
			facts = append(facts, t)
		}
		if d := strings.TrimSpace(r.Description); d != "" {
			facts = append(facts, d)
		}
	}
	return facts, nil
}

// fallbackFacts builds degraded context from the category name alone.
func fallbackFacts(category domain.Category) []string {
	name := string(category)
	return []string{
		fmt.Sprintf("General knowledge about %s", name),
		fmt.Sprintf("Well-known facts and events related to %s", name),
		fmt.Sprintf("Common topics covered in %s trivia", name),
	}
}
