package service

import (
	"context"
	"net/http"

	"quiz-scraper/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizSetRepository ---
type MockQuizSetRepository struct {
	mock.Mock
}

func (m *MockQuizSetRepository) CreateQuizSet(ctx context.Context, set *domain.QuizSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockQuizSetRepository) ListQuizSets(ctx context.Context) ([]*domain.QuizSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizSet), args.Error(1)
}

func (m *MockQuizSetRepository) GetQuizSet(ctx context.Context, id string) (*domain.QuizSet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizSet), args.Error(1)
}

func (m *MockQuizSetRepository) RenameQuizSet(ctx context.Context, id, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *MockQuizSetRepository) DeleteQuizSet(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizSetRepository) ListQuestions(ctx context.Context, quizSetID string) ([]*domain.Question, error) {
	args := m.Called(ctx, quizSetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuizSetRepository) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuizSetRepository) ListFavorites(ctx context.Context, quizSetID string) ([]*domain.Question, error) {
	args := m.Called(ctx, quizSetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuizSetRepository) ToggleFavorite(ctx context.Context, questionID string) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockQuizSetRepository) UpdateQuestionOrder(ctx context.Context, quizSetID, questionID string, order int) error {
	args := m.Called(ctx, quizSetID, questionID, order)
	return args.Error(0)
}

func (m *MockQuizSetRepository) UpdateDiscussionComments(ctx context.Context, questionID, comments string) error {
	args := m.Called(ctx, questionID, comments)
	return args.Error(0)
}

func (m *MockQuizSetRepository) SaveFurtherExplanation(ctx context.Context, questionID, explanation string) error {
	args := m.Called(ctx, questionID, explanation)
	return args.Error(0)
}

func (m *MockQuizSetRepository) GetFurtherExplanation(ctx context.Context, questionID string) (string, error) {
	args := m.Called(ctx, questionID)
	return args.String(0), args.Error(1)
}

// --- MockQuestionStore ---
type MockQuestionStore struct {
	mock.Mock
	added []*domain.Question
}

func (m *MockQuestionStore) Add(ctx context.Context, q *domain.Question) (string, error) {
	args := m.Called(ctx, q)
	if args.Error(1) == nil {
		m.added = append(m.added, q)
	}
	return args.String(0), args.Error(1)
}

func (m *MockQuestionStore) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockExtractor ---
type MockExtractor struct {
	mock.Mock
	kind domain.SourceKind
}

func (m *MockExtractor) Kind() domain.SourceKind {
	return m.kind
}

func (m *MockExtractor) Plan(spec domain.SourceSpec) ([]domain.ScrapeUnit, []string) {
	args := m.Called(spec)
	var warnings []string
	if w := args.Get(1); w != nil {
		warnings = w.([]string)
	}
	return args.Get(0).([]domain.ScrapeUnit), warnings
}

func (m *MockExtractor) Extract(ctx context.Context, unit domain.ScrapeUnit, seq *domain.Sequence) ([]*domain.Question, error) {
	args := m.Called(ctx, unit, seq)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case func(context.Context, domain.ScrapeUnit, *domain.Sequence) []*domain.Question:
		return v(ctx, unit, seq), args.Error(1)
	default:
		return v.([]*domain.Question), args.Error(1)
	}
}

// --- MockTransactionManager runs fn directly ---
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// --- MockCommentsFetcher ---
type MockCommentsFetcher struct {
	mock.Mock
}

func (m *MockCommentsFetcher) FetchAll(ctx context.Context, link string) ([]string, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockExplanationProvider ---
type MockExplanationProvider struct {
	mock.Mock
}

func (m *MockExplanationProvider) Explain(ctx context.Context, req domain.ExplanationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// pageFetcher serves canned HTML by URL.
type pageFetcher map[string]string

func (f pageFetcher) Fetch(ctx context.Context, url string, headers http.Header) (int, []byte, error) {
	body, ok := f[url]
	if !ok {
		return http.StatusNotFound, nil, &domain.FetchError{URL: url, Attempts: 1, LastCause: context.DeadlineExceeded}
	}
	return http.StatusOK, []byte(body), nil
}
