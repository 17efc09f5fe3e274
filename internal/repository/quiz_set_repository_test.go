package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"quiz-scraper/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionColumnNames = []string{
	"id", "quiz_set_id", "question_order", "question_text", "options_json", "answer",
	"explanation", "discussion_link", "discussion_comments", "source_url", "images_json", "favorite", "created_at",
}

func assertDomainCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestQuizSetDatabaseAdapter_CreateQuizSet(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)

	set := &domain.QuizSet{Title: "Trains"}
	mock.ExpectExec("INSERT INTO quiz_sets").
		WithArgs(sqlmock.AnyArg(), "Trains", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateQuizSet(context.Background(), set))
	_, err := uuid.Parse(set.ID)
	assert.NoError(t, err)
	assert.False(t, set.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_GetQuizSet(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	mock.ExpectQuery("SELECT .* FROM quiz_sets WHERE id = :1").
		WithArgs("qs-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).AddRow("qs-1", "Trains", now))
	set, err := repo.GetQuizSet(ctx, "qs-1")
	require.NoError(t, err)
	assert.Equal(t, &domain.QuizSet{ID: "qs-1", Title: "Trains", CreatedAt: now}, set)

	mock.ExpectQuery("SELECT .* FROM quiz_sets WHERE id = :1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetQuizSet(ctx, "missing")
	assertDomainCode(t, err, domain.ErrQuizSetNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_ListQuizSets(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	now := time.Now().Truncate(time.Second)

	mock.ExpectQuery("SELECT .* FROM quiz_sets ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).
			AddRow("qs-2", "Newer", now).
			AddRow("qs-1", "Older", now.Add(-time.Hour)))

	sets, err := repo.ListQuizSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "qs-2", sets[0].ID)
	assert.Equal(t, "Older", sets[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_RenameQuizSet(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE quiz_sets SET title").WithArgs("Renamed", "qs-1").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.RenameQuizSet(ctx, "qs-1", "Renamed"))

	mock.ExpectExec("UPDATE quiz_sets SET title").WithArgs("Renamed", "missing").WillReturnResult(sqlmock.NewResult(0, 0))
	assertDomainCode(t, repo.RenameQuizSet(ctx, "missing", "Renamed"), domain.ErrQuizSetNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_DeleteQuizSet(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM further_explanations").WithArgs("qs-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM questions").WithArgs("qs-1").WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec("DELETE FROM quiz_sets").WithArgs("qs-1").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteQuizSet(ctx, "qs-1"))

	mock.ExpectExec("DELETE FROM further_explanations").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM questions").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM quiz_sets").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))
	assertDomainCode(t, repo.DeleteQuizSet(ctx, "missing"), domain.ErrQuizSetNotFound)

	mock.ExpectExec("DELETE FROM further_explanations").WithArgs("qs-2").WillReturnError(errors.New("ORA-02292"))
	assert.ErrorContains(t, repo.DeleteQuizSet(ctx, "qs-2"), "ORA-02292")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_ListQuestions(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	now := time.Now().Truncate(time.Second)

	mock.ExpectQuery("SELECT .* FROM questions WHERE quiz_set_id = :1 ORDER BY question_order ASC").
		WithArgs("qs-1").
		WillReturnRows(sqlmock.NewRows(questionColumnNames).
			AddRow("q1", "qs-1", 1, "<p>Q1</p>", `["a","b"]`, "Option B", "because", "https://www.indiabix.com/d-1", "Ravi: one", "https://www.indiabix.com/1", "[]", 1, now).
			AddRow("q2", "qs-1", 2, "<p>Q2</p>", `["c","d"]`, "not found", nil, nil, nil, nil, nil, 0, now))

	questions, err := repo.ListQuestions(context.Background(), "qs-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, &domain.Question{
		ID:                 "q1",
		QuizSetID:          "qs-1",
		Order:              1,
		Text:               "<p>Q1</p>",
		Options:            []string{"a", "b"},
		Answer:             "Option B",
		Explanation:        "because",
		DiscussionLink:     "https://www.indiabix.com/d-1",
		DiscussionComments: "Ravi: one",
		SourceURL:          "https://www.indiabix.com/1",
		Images:             []domain.ImageAsset{},
		Favorite:           true,
		CreatedAt:          now,
	}, questions[0])
	assert.Equal(t, 2, questions[1].Order)
	assert.False(t, questions[1].Favorite)
	assert.Empty(t, questions[1].Explanation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_GetQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT .* FROM questions WHERE id = :1").
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(questionColumnNames).
			AddRow("q1", "qs-1", 3, "<p>Q</p>", `["a","b"]`, "Option A", nil, "https://www.indiabix.com/d-1", nil, nil, nil, 0, time.Now()))
	q, err := repo.GetQuestion(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 3, q.Order)
	assert.Equal(t, "https://www.indiabix.com/d-1", q.DiscussionLink)

	mock.ExpectQuery("SELECT .* FROM questions WHERE id = :1").WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetQuestion(ctx, "nope")
	assertDomainCode(t, err, domain.ErrQuestionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_Favorites(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT .* FROM questions WHERE quiz_set_id = :1 AND favorite = 1 ORDER BY question_order ASC").
		WithArgs("qs-1").
		WillReturnRows(sqlmock.NewRows(questionColumnNames).
			AddRow("q2", "qs-1", 2, "<p>Q2</p>", `["c","d"]`, "Option C", nil, nil, nil, nil, nil, 1, time.Now()))
	favorites, err := repo.ListFavorites(ctx, "qs-1")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "q2", favorites[0].ID)
	assert.True(t, favorites[0].Favorite)

	mock.ExpectExec("UPDATE questions SET favorite = 1 - favorite WHERE id = :1").
		WithArgs("q2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.ToggleFavorite(ctx, "q2"))

	mock.ExpectExec("UPDATE questions SET favorite").WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	assertDomainCode(t, repo.ToggleFavorite(ctx, "nope"), domain.ErrQuestionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_UpdateQuestionOrder(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE questions SET question_order = :1 WHERE id = :2 AND quiz_set_id = :3").
		WithArgs(4, "q1", "qs-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateQuestionOrder(ctx, "qs-1", "q1", 4))

	mock.ExpectExec("UPDATE questions SET question_order").
		WithArgs(1, "q9", "qs-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assertDomainCode(t, repo.UpdateQuestionOrder(ctx, "qs-1", "q9", 1), domain.ErrQuestionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_UpdateDiscussionComments(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE questions SET discussion_comments").WithArgs("Ravi: one", "q1").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateDiscussionComments(ctx, "q1", "Ravi: one"))

	mock.ExpectExec("UPDATE questions SET discussion_comments").WithArgs(nil, "nope").WillReturnResult(sqlmock.NewResult(0, 0))
	assertDomainCode(t, repo.UpdateDiscussionComments(ctx, "nope", ""), domain.ErrQuestionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_FurtherExplanation(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuizSetDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO further_explanations").
		WithArgs(sqlmock.AnyArg(), "q1", "Distance over time.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveFurtherExplanation(ctx, "q1", "Distance over time."))

	mock.ExpectQuery("SELECT .* FROM further_explanations WHERE question_id = :1 ORDER BY created_at DESC FETCH FIRST 1 ROWS ONLY").
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "question_id", "explanation", "created_at"}).
			AddRow("e1", "q1", "Distance over time.", time.Now()))
	got, err := repo.GetFurtherExplanation(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "Distance over time.", got)

	mock.ExpectQuery("SELECT .* FROM further_explanations").WithArgs("q2").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetFurtherExplanation(ctx, "q2")
	assertDomainCode(t, err, domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
