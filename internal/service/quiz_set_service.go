package service

import (
	"context"
	"math/rand/v2"
	"strings"

	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/scraper"

	"go.uber.org/zap"
)

type quizSetService struct {
	repo     domain.QuizSetRepository
	tm       domain.TransactionManager
	comments domain.CommentsFetcher
	logger   *zap.Logger
	shuffle  func(n int, swap func(i, j int))
}

func NewQuizSetService(
	repo domain.QuizSetRepository,
	tm domain.TransactionManager,
	comments domain.CommentsFetcher,
	logger *zap.Logger,
) domain.QuizSetService {
	return &quizSetService{repo: repo, tm: tm, comments: comments, logger: logger, shuffle: rand.Shuffle}
}

func (s *quizSetService) ListQuizSets(ctx context.Context) ([]*domain.QuizSet, error) {
	return s.repo.ListQuizSets(ctx)
}

func (s *quizSetService) RenameQuizSet(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.NewInvalidInputError("title must not be empty")
	}
	return s.repo.RenameQuizSet(ctx, id, title)
}

func (s *quizSetService) DeleteQuizSet(ctx context.Context, id string) error {
	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteQuizSet(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Deleted quiz set", zap.String("quiz_set_id", id))
	return nil
}

func (s *quizSetService) ListQuestions(ctx context.Context, quizSetID string) ([]*domain.Question, error) {
	if _, err := s.repo.GetQuizSet(ctx, quizSetID); err != nil {
		return nil, err
	}
	return s.repo.ListQuestions(ctx, quizSetID)
}

// Details lists the distinct source pages of the set in question order.
func (s *quizSetService) Details(ctx context.Context, quizSetID string) (*domain.QuizSetDetails, error) {
	set, err := s.repo.GetQuizSet(ctx, quizSetID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, quizSetID)
	if err != nil {
		return nil, err
	}

	details := &domain.QuizSetDetails{QuizSet: *set, URLs: []string{}, TotalQuestions: len(questions)}
	seen := make(map[string]bool)
	for _, q := range questions {
		if q.SourceURL == "" || seen[q.SourceURL] {
			continue
		}
		seen[q.SourceURL] = true
		details.URLs = append(details.URLs, q.SourceURL)
	}
	return details, nil
}

func (s *quizSetService) ListFavorites(ctx context.Context, quizSetID string) ([]*domain.Question, error) {
	if _, err := s.repo.GetQuizSet(ctx, quizSetID); err != nil {
		return nil, err
	}
	return s.repo.ListFavorites(ctx, quizSetID)
}

func (s *quizSetService) ToggleFavorite(ctx context.Context, questionID string) (bool, error) {
	var favorite bool
	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.ToggleFavorite(txCtx, questionID); err != nil {
			return err
		}
		q, err := s.repo.GetQuestion(txCtx, questionID)
		if err != nil {
			return err
		}
		favorite = q.Favorite
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorite, nil
}

// ShuffleQuestions reuses the existing order numbers so the set stays gap-free.
func (s *quizSetService) ShuffleQuestions(ctx context.Context, quizSetID string) ([]*domain.Question, error) {
	if _, err := s.repo.GetQuizSet(ctx, quizSetID); err != nil {
		return nil, err
	}

	var shuffled []*domain.Question
	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		questions, err := s.repo.ListQuestions(txCtx, quizSetID)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return domain.NewNotFoundError("No questions found for this quiz set")
		}

		orders := make([]int, len(questions))
		for i, q := range questions {
			orders[i] = q.Order
		}
		s.shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
		for i, q := range questions {
			q.Order = orders[i]
			if err := s.repo.UpdateQuestionOrder(txCtx, quizSetID, q.ID, q.Order); err != nil {
				return err
			}
		}
		shuffled = questions
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Shuffled quiz set", zap.String("quiz_set_id", quizSetID), zap.Int("questions", len(shuffled)))
	return shuffled, nil
}

func (s *quizSetService) DiscussionComments(ctx context.Context, questionID string) (string, error) {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return "", err
	}
	if q.DiscussionComments != "" {
		return q.DiscussionComments, nil
	}
	if q.DiscussionLink == "" || q.DiscussionLink == domain.NotFound {
		return "", domain.NewNotFoundError("Question has no discussion link")
	}

	comments, err := s.comments.FetchAll(ctx, q.DiscussionLink)
	if err != nil {
		return "", domain.NewError(domain.ErrFetchFailed, "Failed to fetch discussion", err)
	}
	joined := scraper.JoinComments(comments)
	if joined == "" {
		return "", nil
	}

	if err := s.repo.UpdateDiscussionComments(ctx, questionID, joined); err != nil {
		s.logger.Warn("Failed to store discussion comments", zap.String("question_id", questionID), zap.Error(err))
	}
	return joined, nil
}
