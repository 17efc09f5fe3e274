package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/repository/models"
	"quiz-scraper/internal/util"

	"go.uber.org/zap"
)

const insertQuestionQuery = `INSERT INTO questions (
		id, quiz_set_id, question_order, question_text, options_json, answer,
		explanation, discussion_link, discussion_comments, source_url, images_json, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12
	)`

// sqlxQuestionStore buffers added questions and inserts them in one transaction on Commit.
type sqlxQuestionStore struct {
	db      DBTX
	tm      domain.TransactionManager
	logger  *zap.Logger
	mu      sync.Mutex
	pending []*domain.Question
}

func NewQuestionStore(db DBTX, tm domain.TransactionManager, logger *zap.Logger) domain.QuestionStore {
	return &sqlxQuestionStore{db: db, tm: tm, logger: logger}
}

// Add assigns the question a ULID and buffers it until the next Commit.
func (s *sqlxQuestionStore) Add(ctx context.Context, q *domain.Question) (string, error) {
	if q == nil {
		return "", domain.NewInvalidInputError("question is nil")
	}
	if q.QuizSetID == "" {
		return "", domain.NewInvalidInputError("question has no quiz set")
	}
	if q.ID == "" {
		q.ID = util.NewULID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.pending = append(s.pending, q)
	s.mu.Unlock()
	return q.ID, nil
}

// Commit inserts every buffered question atomically. The buffer is cleared
// whether or not the commit succeeds.
func (s *sqlxQuestionStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.db)
		for _, q := range pending {
			row := toModelQuestion(q)
			if _, err := exec.ExecContext(txCtx, insertQuestionQuery,
				row.ID,
				row.QuizSetID,
				row.QuestionOrder,
				row.QuestionText,
				row.Options,
				row.Answer,
				row.Explanation,
				row.DiscussionLink,
				row.DiscussionComments,
				row.SourceURL,
				row.Images,
				row.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert question %d: %w", q.Order, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Committed questions", zap.Int("count", len(pending)), zap.String("quiz_set_id", pending[0].QuizSetID))
	return nil
}

func toModelQuestion(q *domain.Question) *models.Question {
	images := make(models.ImageAssets, 0, len(q.Images))
	for _, img := range q.Images {
		images = append(images, models.ImageAsset(img))
	}
	return &models.Question{
		ID:                 q.ID,
		QuizSetID:          q.QuizSetID,
		QuestionOrder:      q.Order,
		QuestionText:       q.Text,
		Options:            models.StringSlice(q.Options),
		Answer:             q.Answer,
		Explanation:        util.StringToNullString(q.Explanation),
		DiscussionLink:     util.StringToNullString(q.DiscussionLink),
		DiscussionComments: util.StringToNullString(q.DiscussionComments),
		SourceURL:          util.StringToNullString(q.SourceURL),
		Images:             images,
		CreatedAt:          q.CreatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	images := make([]domain.ImageAsset, 0, len(m.Images))
	for _, img := range m.Images {
		images = append(images, domain.ImageAsset(img))
	}
	return &domain.Question{
		ID:                 m.ID,
		QuizSetID:          m.QuizSetID,
		Order:              m.QuestionOrder,
		Text:               m.QuestionText,
		Options:            []string(m.Options),
		Answer:             m.Answer,
		Explanation:        m.Explanation.String,
		DiscussionLink:     m.DiscussionLink.String,
		DiscussionComments: m.DiscussionComments.String,
		SourceURL:          m.SourceURL.String,
		Images:             images,
		Favorite:           m.Favorite != 0,
		CreatedAt:          m.CreatedAt,
	}
}
