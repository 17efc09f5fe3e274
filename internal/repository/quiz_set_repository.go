package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/repository/models"
	"quiz-scraper/internal/util"

	"github.com/google/uuid"
)

const questionColumns = `id "id",
		quiz_set_id "quiz_set_id",
		question_order "question_order",
		question_text "question_text",
		options_json "options_json",
		answer "answer",
		explanation "explanation",
		discussion_link "discussion_link",
		discussion_comments "discussion_comments",
		source_url "source_url",
		images_json "images_json",
		favorite "favorite",
		created_at "created_at"`

// QuizSetDatabaseAdapter implements domain.QuizSetRepository with sqlx.
// Every method runs on the transaction in ctx when there is one.
type QuizSetDatabaseAdapter struct {
	db DBTX
}

func NewQuizSetDatabaseAdapter(db DBTX) domain.QuizSetRepository {
	return &QuizSetDatabaseAdapter{db: db}
}

// CreateQuizSet assigns a UUID when set.ID is empty.
func (a *QuizSetDatabaseAdapter) CreateQuizSet(ctx context.Context, set *domain.QuizSet) error {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now()
	}
	query := `INSERT INTO quiz_sets (id, title, created_at) VALUES (:1, :2, :3)`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, set.ID, set.Title, set.CreatedAt); err != nil {
		return fmt.Errorf("failed to create quiz set: %w", err)
	}
	return nil
}

func (a *QuizSetDatabaseAdapter) ListQuizSets(ctx context.Context) ([]*domain.QuizSet, error) {
	var rows []models.QuizSet
	query := `SELECT id "id", title "title", created_at "created_at"
	FROM quiz_sets
	ORDER BY created_at DESC`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list quiz sets: %w", err)
	}
	sets := make([]*domain.QuizSet, 0, len(rows))
	for i := range rows {
		sets = append(sets, toDomainQuizSet(&rows[i]))
	}
	return sets, nil
}

func (a *QuizSetDatabaseAdapter) GetQuizSet(ctx context.Context, id string) (*domain.QuizSet, error) {
	var row models.QuizSet
	query := `SELECT id "id", title "title", created_at "created_at"
	FROM quiz_sets
	WHERE id = :1`
	err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewQuizSetNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz set %s: %w", id, err)
	}
	return toDomainQuizSet(&row), nil
}

func (a *QuizSetDatabaseAdapter) RenameQuizSet(ctx context.Context, id, title string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, `UPDATE quiz_sets SET title = :1 WHERE id = :2`, title, id)
	if err != nil {
		return fmt.Errorf("failed to rename quiz set %s: %w", id, err)
	}
	return requireAffected(res, domain.NewQuizSetNotFoundError(id))
}

// DeleteQuizSet removes the set with its questions and their further explanations.
func (a *QuizSetDatabaseAdapter) DeleteQuizSet(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, a.db)
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM further_explanations WHERE question_id IN (SELECT id FROM questions WHERE quiz_set_id = :1)`, id); err != nil {
		return fmt.Errorf("failed to delete further explanations of quiz set %s: %w", id, err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM questions WHERE quiz_set_id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete questions of quiz set %s: %w", id, err)
	}
	res, err := exec.ExecContext(ctx, `DELETE FROM quiz_sets WHERE id = :1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz set %s: %w", id, err)
	}
	return requireAffected(res, domain.NewQuizSetNotFoundError(id))
}

// ListQuestions returns the set's questions in batch order.
func (a *QuizSetDatabaseAdapter) ListQuestions(ctx context.Context, quizSetID string) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + `
	FROM questions
	WHERE quiz_set_id = :1
	ORDER BY question_order ASC`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, quizSetID); err != nil {
		return nil, fmt.Errorf("failed to list questions of quiz set %s: %w", quizSetID, err)
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (a *QuizSetDatabaseAdapter) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	var row models.Question
	query := `SELECT ` + questionColumns + `
	FROM questions
	WHERE id = :1`
	err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question %s: %w", id, err)
	}
	return toDomainQuestion(&row), nil
}

// ListFavorites returns the set's favorite questions in batch order.
func (a *QuizSetDatabaseAdapter) ListFavorites(ctx context.Context, quizSetID string) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + `
	FROM questions
	WHERE quiz_set_id = :1 AND favorite = 1
	ORDER BY question_order ASC`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, quizSetID); err != nil {
		return nil, fmt.Errorf("failed to list favorites of quiz set %s: %w", quizSetID, err)
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (a *QuizSetDatabaseAdapter) ToggleFavorite(ctx context.Context, questionID string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx,
		`UPDATE questions SET favorite = 1 - favorite WHERE id = :1`, questionID)
	if err != nil {
		return fmt.Errorf("failed to toggle favorite of question %s: %w", questionID, err)
	}
	return requireAffected(res, domain.NewQuestionNotFoundError(questionID))
}

// UpdateQuestionOrder moves one question of the set to a new position.
func (a *QuizSetDatabaseAdapter) UpdateQuestionOrder(ctx context.Context, quizSetID, questionID string, order int) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx,
		`UPDATE questions SET question_order = :1 WHERE id = :2 AND quiz_set_id = :3`, order, questionID, quizSetID)
	if err != nil {
		return fmt.Errorf("failed to reorder question %s: %w", questionID, err)
	}
	return requireAffected(res, domain.NewQuestionNotFoundError(questionID))
}

func (a *QuizSetDatabaseAdapter) UpdateDiscussionComments(ctx context.Context, questionID, comments string) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx,
		`UPDATE questions SET discussion_comments = :1 WHERE id = :2`,
		util.StringToNullString(comments), questionID)
	if err != nil {
		return fmt.Errorf("failed to update discussion comments of question %s: %w", questionID, err)
	}
	return requireAffected(res, domain.NewQuestionNotFoundError(questionID))
}

func (a *QuizSetDatabaseAdapter) SaveFurtherExplanation(ctx context.Context, questionID, explanation string) error {
	query := `INSERT INTO further_explanations (id, question_id, explanation, created_at) VALUES (:1, :2, :3, :4)`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, util.NewULID(), questionID, explanation, time.Now()); err != nil {
		return fmt.Errorf("failed to save further explanation of question %s: %w", questionID, err)
	}
	return nil
}

// GetFurtherExplanation returns the most recently saved explanation.
func (a *QuizSetDatabaseAdapter) GetFurtherExplanation(ctx context.Context, questionID string) (string, error) {
	var row models.FurtherExplanation
	query := `SELECT id "id", question_id "question_id", explanation "explanation", created_at "created_at"
	FROM further_explanations
	WHERE question_id = :1
	ORDER BY created_at DESC
	FETCH FIRST 1 ROWS ONLY`
	err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NewNotFoundError("Further explanation not found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get further explanation of question %s: %w", questionID, err)
	}
	return row.Explanation, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func toDomainQuizSet(m *models.QuizSet) *domain.QuizSet {
	return &domain.QuizSet{ID: m.ID, Title: m.Title, CreatedAt: m.CreatedAt}
}
