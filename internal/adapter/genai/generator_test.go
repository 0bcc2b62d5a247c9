package genai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trivia-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// fakeModel returns a canned response (or error) and records the prompt.
type fakeModel struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if part, ok := messages[0].Parts[0].(llms.TextContent); ok {
			f.lastPrompt = part.Text
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestSearchAugmentedGenerator_Success(t *testing.T) {
	model := &fakeModel{response: validEnvelope}
	gen := NewSearchAugmentedGenerator(model, time.Minute, zap.NewNop())

	facts := []string{"Saturn has 146 confirmed moons", "Jupiter has 95"}
	candidate, err := gen.Generate(context.Background(), facts, domain.CategoryScience, domain.DifficultyMedium)
	require.NoError(t, err)

	assert.Equal(t, "Which planet has the most moons?", candidate.Content)
	assert.Equal(t, domain.CategoryScience, candidate.Category)
	assert.Equal(t, domain.DifficultyMedium, candidate.Difficulty)
	assert.Equal(t, "Saturn", candidate.CorrectAnswer)
	assert.Len(t, candidate.IncorrectAnswers, 3)
	assert.True(t, candidate.AIGenerated)
	assert.Equal(t, domain.StatusApproved, candidate.ValidationStatus)

	assert.Contains(t, model.lastPrompt, "Saturn has 146 confirmed moons")
	assert.Contains(t, model.lastPrompt, `"science"`)
}

func TestSearchAugmentedGenerator_FactsTruncated(t *testing.T) {
	model := &fakeModel{response: validEnvelope}
	gen := NewSearchAugmentedGenerator(model, time.Minute, zap.NewNop())

	long := strings.Repeat("a very long factual snippet about planets. ", 100)
	_, err := gen.Generate(context.Background(), []string{long}, domain.CategoryScience, domain.DifficultyEasy)
	require.NoError(t, err)
	assert.LessOrEqual(t, strings.Count(model.lastPrompt, "a very long factual snippet"), maxFactChars/40)
}

func TestSearchAugmentedGenerator_APIError(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	gen := NewSearchAugmentedGenerator(model, time.Minute, zap.NewNop())

	_, err := gen.Generate(context.Background(), nil, domain.CategoryHistory, domain.DifficultyHard)
	require.Error(t, err)
	assert.Equal(t, domain.ErrAPIError, domain.CodeOf(err))
}

func TestSearchAugmentedGenerator_Timeout(t *testing.T) {
	model := &fakeModel{err: context.DeadlineExceeded}
	gen := NewSearchAugmentedGenerator(model, time.Millisecond, zap.NewNop())

	_, err := gen.Generate(context.Background(), nil, domain.CategoryHistory, domain.DifficultyHard)
	require.Error(t, err)
	assert.Equal(t, domain.ErrTimeout, domain.CodeOf(err))
}

func TestSearchAugmentedGenerator_InvalidCandidate(t *testing.T) {
	// Correct answer repeated among the incorrect answers.
	model := &fakeModel{response: `{
		"success": true,
		"data": {
			"content": "Which planet has the most moons?",
			"category": "science",
			"difficulty": "medium",
			"correct_answer": "Saturn",
			"incorrect_answers": ["Saturn", "Neptune", "Uranus"]
		}
	}`}
	gen := NewSearchAugmentedGenerator(model, time.Minute, zap.NewNop())

	_, err := gen.Generate(context.Background(), nil, domain.CategoryScience, domain.DifficultyMedium)
	require.Error(t, err)
	assert.Equal(t, domain.ErrInvalidStructure, domain.CodeOf(err))
}

func TestDirectGenerator_UsesFocusAreas(t *testing.T) {
	model := &fakeModel{response: validEnvelope}
	gen := NewDirectGenerator(model, time.Minute, zap.NewNop())

	candidate, err := gen.Generate(context.Background(), []string{"ignored fact"}, domain.CategoryScience, domain.DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, "Saturn", candidate.CorrectAnswer)

	assert.Contains(t, model.lastPrompt, "focus areas")
	assert.Contains(t, model.lastPrompt, "space exploration")
	assert.NotContains(t, model.lastPrompt, "ignored fact")
}
