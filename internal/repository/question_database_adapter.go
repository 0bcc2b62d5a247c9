package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trivia-forge/internal/domain"
	"trivia-forge/internal/repository/models"
	"trivia-forge/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// Save implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Save(ctx context.Context, candidate *domain.Candidate) (string, error) {
	model, err := toModelQuestion(candidate)
	if err != nil {
		return "", err
	}
	model.ID = util.NewULID()
	model.CreatedAt = time.Now()
	model.UpdatedAt = model.CreatedAt

	query := `INSERT INTO questions (
		id, content, category, difficulty, correct_answer,
		incorrect_answers, validation_status, validation_feedback,
		ai_generated, usage_count, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12
	)`

	_, err = a.db.ExecContext(ctx, query,
		model.ID,
		model.Content,
		model.Category,
		model.Difficulty,
		model.CorrectAnswer,
		model.IncorrectAnswers,
		model.ValidationStatus,
		model.ValidationFeedback,
		model.AIGenerated,
		model.UsageCount,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save question: %w", err)
	}

	candidate.CreatedAt = model.CreatedAt
	return model.ID, nil
}

// CountApproved implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) CountApproved(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM questions 
	WHERE ai_generated = 1 
	AND validation_status = :1 
	AND deleted_at IS NULL`

	err := a.db.GetContext(ctx, &count, query, string(domain.StatusApproved))
	if err != nil {
		return 0, fmt.Errorf("failed to count approved questions: %w", err)
	}
	return count, nil
}

// ListForDeduplication implements domain.QuestionRepository. Only the
// fields that feed the fingerprints are selected.
func (a *QuestionDatabaseAdapter) ListForDeduplication(ctx context.Context) ([]*domain.Candidate, error) {
	var modelQuestions []models.Question
	query := `SELECT 
		content "content",
		correct_answer "correct_answer",
		incorrect_answers "incorrect_answers"
	FROM questions 
	WHERE deleted_at IS NULL`

	err := a.db.SelectContext(ctx, &modelQuestions, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for deduplication: %w", err)
	}

	candidates := make([]*domain.Candidate, 0, len(modelQuestions))
	for _, mq := range modelQuestions {
		candidates = append(candidates, &domain.Candidate{
			Content:          mq.Content,
			CorrectAnswer:    mq.CorrectAnswer,
			IncorrectAnswers: []string(mq.IncorrectAnswers),
		})
	}
	return candidates, nil
}

// Helper functions for model conversion
func toModelQuestion(d *domain.Candidate) (*models.Question, error) {
	if d == nil {
		return nil, fmt.Errorf("cannot convert nil candidate to question model")
	}
	feedback, err := json.Marshal(d.ValidationFeedback)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal validation feedback: %w", err)
	}
	aiGenerated := 0
	if d.AIGenerated {
		aiGenerated = 1
	}
	return &models.Question{
		Content:            d.Content,
		Category:           string(d.Category),
		Difficulty:         string(d.Difficulty),
		CorrectAnswer:      d.CorrectAnswer,
		IncorrectAnswers:   models.StringSlice(d.IncorrectAnswers),
		ValidationStatus:   string(d.ValidationStatus),
		ValidationFeedback: string(feedback),
		AIGenerated:        aiGenerated,
	}, nil
}
