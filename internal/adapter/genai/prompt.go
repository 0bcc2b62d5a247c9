package genai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"trivia-forge/internal/domain"
)

// maxFactChars caps how much joined fact text is embedded in the prompt.
const maxFactChars = 1500

const outputContract = `Respond with a SINGLE JSON object and nothing else, in exactly this shape:
{
  "success": true,
  "data": {
    "content": "the question text",
    "category": "%s",
    "difficulty": "%s",
    "correct_answer": "the correct answer",
    "incorrect_answers": ["wrong 1", "wrong 2", "wrong 3"]
  }
}

Rules:
1. Provide exactly 3 incorrect answers, all plausible and all different from the correct answer.
2. The correct answer must NOT appear anywhere in the question text, not even partially.
3. The question must be answerable without the source material in front of the player.
4. Keep the question under 40 words.`

// buildSearchPrompt embeds fetched facts as grounding context.
func buildSearchPrompt(facts []string, category domain.Category, difficulty domain.Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a trivia question writer. Create one %s trivia question in the category %q.\n\n", difficulty, category)
	b.WriteString("Base the question on these factual snippets:\n")
	b.WriteString(truncateFacts(facts))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, outputContract, category, difficulty)
	return b.String()
}

// buildDirectPrompt uses fixed focus-area guidance instead of search facts.
func buildDirectPrompt(focus string, category domain.Category, difficulty domain.Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a trivia question writer. Create one %s trivia question in the category %q.\n\n", difficulty, category)
	fmt.Fprintf(&b, "Pick a topic from these focus areas: %s.\n\n", focus)
	fmt.Fprintf(&b, outputContract, category, difficulty)
	return b.String()
}

func truncateFacts(facts []string) string {
	joined := strings.Join(facts, "\n")
	if len(joined) <= maxFactChars {
		return joined
	}
	// Cut on a rune boundary so the prompt stays valid UTF-8.
	cut := maxFactChars
	for cut > 0 && !utf8.RuneStart(joined[cut]) {
		cut--
	}
	return joined[:cut]
}
