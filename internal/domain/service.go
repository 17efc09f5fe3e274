package domain

import (
	"context"
	"net/http"
)

// Fetcher retrieves a page body, retrying transient failures.
// On exhaustion it returns a *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers http.Header) (status int, body []byte, err error)
}

// RenderedAnswer is an answer element as the browser rendered it.
type RenderedAnswer struct {
	Text            string `json:"text"`
	Style           string `json:"style"`
	BackgroundColor string `json:"backgroundColor"`
}

// RenderedQuestion is one `.question` element after the answers were revealed.
type RenderedQuestion struct {
	Text    string           `json:"text"`
	Answers []RenderedAnswer `json:"answers"`
}

// BrowserSession drives one headless browser for a single page.
type BrowserSession interface {
	RenderQuiz(ctx context.Context, url string) ([]RenderedQuestion, error)
	Close() error
}

// BrowserLauncher opens a fresh BrowserSession.
type BrowserLauncher interface {
	Launch(ctx context.Context) (BrowserSession, error)
}

// CommentsFetcher collects every comment of a paginated discussion thread.
type CommentsFetcher interface {
	FetchAll(ctx context.Context, link string) ([]string, error)
}

// Extractor turns source pages of one kind into questions.
type Extractor interface {
	Kind() SourceKind
	// Plan splits a spec into units. Warnings are informational.
	Plan(spec SourceSpec) (units []ScrapeUnit, warnings []string)
	// Extract parses one unit. seq is advanced once per emitted question.
	Extract(ctx context.Context, unit ScrapeUnit, seq *Sequence) ([]*Question, error)
}

// QuestionStore buffers questions and persists them on Commit.
type QuestionStore interface {
	Add(ctx context.Context, q *Question) (string, error)
	Commit(ctx context.Context) error
}

// QuizSetRepository reads and writes quiz sets and their questions.
type QuizSetRepository interface {
	CreateQuizSet(ctx context.Context, set *QuizSet) error
	ListQuizSets(ctx context.Context) ([]*QuizSet, error)
	GetQuizSet(ctx context.Context, id string) (*QuizSet, error)
	RenameQuizSet(ctx context.Context, id, title string) error
	DeleteQuizSet(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, quizSetID string) ([]*Question, error)
	GetQuestion(ctx context.Context, id string) (*Question, error)
	ListFavorites(ctx context.Context, quizSetID string) ([]*Question, error)
	ToggleFavorite(ctx context.Context, questionID string) error
	UpdateQuestionOrder(ctx context.Context, quizSetID, questionID string, order int) error
	UpdateDiscussionComments(ctx context.Context, questionID, comments string) error
	SaveFurtherExplanation(ctx context.Context, questionID, explanation string) error
	GetFurtherExplanation(ctx context.Context, questionID string) (string, error)
}

// ExplanationRequest is the question context handed to an ExplanationProvider.
type ExplanationRequest struct {
	QuestionText string
	Options      []string
	Answer       string
	Explanation  string
}

// ExplanationProvider produces a plain-language explanation of an answer.
type ExplanationProvider interface {
	Explain(ctx context.Context, req ExplanationRequest) (string, error)
}

// TransactionManager runs fn inside a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ScrapeService runs a scrape batch into a new quiz set.
type ScrapeService interface {
	// Run returns the partial result together with a *PersistenceError when a
	// commit fails. Every other failure is recorded in the unit reports.
	Run(ctx context.Context, title string, entries []any) (*BatchResult, error)
}

// QuizSetService manages stored quiz sets and their questions.
type QuizSetService interface {
	ListQuizSets(ctx context.Context) ([]*QuizSet, error)
	RenameQuizSet(ctx context.Context, id, title string) error
	DeleteQuizSet(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, quizSetID string) ([]*Question, error)
	Details(ctx context.Context, quizSetID string) (*QuizSetDetails, error)
	ListFavorites(ctx context.Context, quizSetID string) ([]*Question, error)
	// ToggleFavorite flips the question's favorite flag and returns the new value.
	ToggleFavorite(ctx context.Context, questionID string) (bool, error)
	// ShuffleQuestions permutes the set's questions over the order numbers they already hold.
	ShuffleQuestions(ctx context.Context, quizSetID string) ([]*Question, error)
	// DiscussionComments returns stored comments, fetching and storing them on first use.
	DiscussionComments(ctx context.Context, questionID string) (string, error)
}

// ExplanationService produces and stores further explanations of questions.
type ExplanationService interface {
	Explain(ctx context.Context, questionID string) (string, error)
	Save(ctx context.Context, questionID, explanation string) error
	Get(ctx context.Context, questionID string) (string, error)
}
