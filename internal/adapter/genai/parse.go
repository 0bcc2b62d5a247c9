package genai

import (
	"encoding/json"
	"regexp"
	"strings"

	"trivia-forge/internal/domain"
)

// extractStrategy tries to locate a valid JSON object inside a raw model
// response. Strategies are pure and independently testable; the first one
// that succeeds wins.
type extractStrategy func(raw string) (json.RawMessage, bool)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractStrategies are attempted in order: whole body, fenced code block,
// brace-delimited scan.
var extractStrategies = []extractStrategy{
	extractWholeBody,
	extractFencedBlock,
	extractBraceScan,
}

func extractWholeBody(raw string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(raw)
	if isJSONObject(trimmed) {
		return json.RawMessage(trimmed), true
	}
	return nil, false
}

func extractFencedBlock(raw string) (json.RawMessage, bool) {
	for _, m := range fencedBlockRe.FindAllStringSubmatch(raw, -1) {
		candidate := strings.TrimSpace(m[1])
		if isJSONObject(candidate) {
			return json.RawMessage(candidate), true
		}
	}
	return nil, false
}

// extractBraceScan walks every '{' in the response and tries each
// balanced brace-delimited substring until one parses.
func extractBraceScan(raw string) (json.RawMessage, bool) {
	for start := 0; start < len(raw); start++ {
		if raw[start] != '{' {
			continue
		}
		depth := 0
		for end := start; end < len(raw); end++ {
			switch raw[end] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					candidate := raw[start : end+1]
					if isJSONObject(candidate) {
						return json.RawMessage(candidate), true
					}
				}
			}
			if depth == 0 && raw[end] == '}' {
				break
			}
		}
	}
	return nil, false
}

func isJSONObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var probe map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &probe) == nil
}

// generationEnvelope is the contract the prompt demands from the model.
type generationEnvelope struct {
	Success bool           `json:"success"`
	Data    *candidateData `json:"data"`
}

type candidateData struct {
	Content          string   `json:"content"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// parseEnvelope extracts and validates the JSON envelope from a raw model
// response. Errors carry the rejection code the orchestrator counts under.
func parseEnvelope(raw string) (*candidateData, error) {
	var extracted json.RawMessage
	found := false
	for _, strategy := range extractStrategies {
		if blob, ok := strategy(raw); ok {
			extracted = blob
			found = true
			break
		}
	}
	if !found {
		if !strings.Contains(raw, "{") {
			return nil, domain.NewNoJSONFoundError("no JSON object found in generation response")
		}
		return nil, domain.NewError(domain.ErrParseError, "generation response contained braces but no parseable JSON object", nil)
	}

	var envelope generationEnvelope
	if err := json.Unmarshal(extracted, &envelope); err != nil {
		return nil, domain.NewError(domain.ErrParseError, "failed to decode generation envelope", err)
	}
	if !envelope.Success || envelope.Data == nil {
		return nil, domain.NewInvalidStructureError("generation response lacks a truthy success flag or a data object")
	}

	var missing []string
	if strings.TrimSpace(envelope.Data.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(envelope.Data.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(envelope.Data.Difficulty) == "" {
		missing = append(missing, "difficulty")
	}
	if strings.TrimSpace(envelope.Data.CorrectAnswer) == "" {
		missing = append(missing, "correct_answer")
	}
	if len(envelope.Data.IncorrectAnswers) == 0 {
		missing = append(missing, "incorrect_answers")
	}
	if len(missing) > 0 {
		return nil, domain.NewMissingFieldsError(missing)
	}

	return envelope.Data, nil
}
