package genai

import (
	"testing"

	"trivia-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validEnvelope = `{
	"success": true,
	"data": {
		"content": "Which planet has the most moons?",
		"category": "science",
		"difficulty": "medium",
		"correct_answer": "Saturn",
		"incorrect_answers": ["Jupiter", "Neptune", "Uranus"]
	}
}`

func TestParseEnvelope_WholeBody(t *testing.T) {
	data, err := parseEnvelope(validEnvelope)
	require.NoError(t, err)
	assert.Equal(t, "Which planet has the most moons?", data.Content)
	assert.Equal(t, "Saturn", data.CorrectAnswer)
	assert.Len(t, data.IncorrectAnswers, 3)
}

func TestParseEnvelope_FencedBlock(t *testing.T) {
	raw := "Sure! Here is your question:\n```json\n" + validEnvelope + "\n```\nLet me know if you need another."
	data, err := parseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "Saturn", data.CorrectAnswer)
}

func TestParseEnvelope_FencedBlockWithoutLanguage(t *testing.T) {
	raw := "```\n" + validEnvelope + "\n```"
	data, err := parseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "science", data.Category)
}

func TestParseEnvelope_BraceScan(t *testing.T) {
	raw := "The model rambles first {not json here then " + validEnvelope + " trailing words"
	data, err := parseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "medium", data.Difficulty)
}

func TestParseEnvelope_NoJSON(t *testing.T) {
	_, err := parseEnvelope("I cannot produce a question right now.")
	require.Error(t, err)
	assert.Equal(t, domain.ErrNoJSONFound, domain.CodeOf(err))
}

func TestParseEnvelope_UnparseableBraces(t *testing.T) {
	_, err := parseEnvelope(`set x = {1, 2, 3} and y = {4, 5}`)
	require.Error(t, err)
	assert.Equal(t, domain.ErrParseError, domain.CodeOf(err))
}

func TestParseEnvelope_InvalidStructure(t *testing.T) {
	cases := []string{
		`{"success": false, "data": {"content": "q"}}`,
		`{"success": true}`,
		`{"foo": "bar"}`,
	}
	for _, raw := range cases {
		_, err := parseEnvelope(raw)
		require.Error(t, err, raw)
		assert.Equal(t, domain.ErrInvalidStructure, domain.CodeOf(err), raw)
	}
}

func TestParseEnvelope_MissingFields(t *testing.T) {
	raw := `{"success": true, "data": {"content": "q", "category": "science"}}`
	_, err := parseEnvelope(raw)
	require.Error(t, err)
	assert.Equal(t, domain.ErrMissingFields, domain.CodeOf(err))
	assert.Contains(t, err.Error(), "difficulty")
	assert.Contains(t, err.Error(), "correct_answer")
	assert.Contains(t, err.Error(), "incorrect_answers")
	assert.NotContains(t, err.Error(), "content")
}

func TestExtractBraceScan_NestedObject(t *testing.T) {
	raw := `prefix {"outer": {"inner": 1}} suffix`
	blob, ok := extractBraceScan(raw)
	require.True(t, ok)
	assert.JSONEq(t, `{"outer": {"inner": 1}}`, string(blob))
}
