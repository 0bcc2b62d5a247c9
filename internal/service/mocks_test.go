package service

import (
	"context"
	"time"

	"trivia-forge/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockFactSource ---
type MockFactSource struct {
	mock.Mock
}

func (m *MockFactSource) FetchFacts(ctx context.Context, category domain.Category) []string {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) Generate(ctx context.Context, facts []string, category domain.Category, difficulty domain.Difficulty) (*domain.Candidate, error) {
	args := m.Called(ctx, facts, category, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Save(ctx context.Context, candidate *domain.Candidate) (string, error) {
	args := m.Called(ctx, candidate)
	return args.String(0), args.Error(1)
}

func (m *MockQuestionRepository) CountApproved(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) ListForDeduplication(ctx context.Context) ([]*domain.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Candidate), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
