package service

import (
	"context"
	"strings"

	"quiz-scraper/internal/domain"

	"go.uber.org/zap"
)

type explanationService struct {
	repo     domain.QuizSetRepository
	provider domain.ExplanationProvider
	logger   *zap.Logger
}

func NewExplanationService(repo domain.QuizSetRepository, provider domain.ExplanationProvider, logger *zap.Logger) domain.ExplanationService {
	return &explanationService{repo: repo, provider: provider, logger: logger}
}

// Explain asks the provider about a stored question. The result is not saved.
func (s *explanationService) Explain(ctx context.Context, questionID string) (string, error) {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return "", err
	}
	if q.Answer == domain.NotFound {
		return "", domain.NewInvalidInputError("Question has no known answer to explain")
	}

	text, err := s.provider.Explain(ctx, domain.ExplanationRequest{
		QuestionText: q.Text,
		Options:      q.Options,
		Answer:       q.Answer,
		Explanation:  q.Explanation,
	})
	if err != nil {
		s.logger.Error("Explanation failed", zap.String("question_id", questionID), zap.Error(err))
		return "", err
	}
	return text, nil
}

func (s *explanationService) Save(ctx context.Context, questionID, explanation string) error {
	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return domain.NewInvalidInputError("explanation must not be empty")
	}
	if _, err := s.repo.GetQuestion(ctx, questionID); err != nil {
		return err
	}
	return s.repo.SaveFurtherExplanation(ctx, questionID, explanation)
}

func (s *explanationService) Get(ctx context.Context, questionID string) (string, error) {
	return s.repo.GetFurtherExplanation(ctx, questionID)
}
