package dto

import (
	"time"

	"quiz-scraper/internal/domain"
)

// StartScrapingRequest is the body of POST /api/startScraping. Each entry of
// URLs is either a bare URL string or an object with base_url and range fields.
type StartScrapingRequest struct {
	Title string `json:"title"`
	URLs  []any  `json:"urls"`
}

// StartScrapingResponse reports a finished (or aborted) batch.
type StartScrapingResponse struct {
	Message            string              `json:"message"`
	QuizSetID          string              `json:"quiz_set_id"`
	QuestionsPersisted int                 `json:"questions_persisted"`
	Units              []domain.UnitReport `json:"units"`
	Error              string              `json:"error,omitempty"`
}

type QuizSetResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type RenameQuizSetRequest struct {
	Title string `json:"title"`
}

type QuestionResponse struct {
	ID                 string              `json:"id"`
	QuizSetID          string              `json:"quiz_set_id"`
	Order              int                 `json:"order"`
	Text               string              `json:"text"`
	Options            []string            `json:"options"`
	Answer             string              `json:"answer"`
	Explanation        string              `json:"explanation"`
	DiscussionLink     string              `json:"discussion_link"`
	DiscussionComments string              `json:"discussion_comments,omitempty"`
	SourceURL          string              `json:"url"`
	Favorite           bool                `json:"favorite"`
	Images             []domain.ImageAsset `json:"images,omitempty"`
}

type QuizSetDetailsResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	URLs           []string  `json:"urls"`
	TotalQuestions int       `json:"total_questions"`
}

type FavoriteResponse struct {
	QuestionID string `json:"question_id"`
	Favorite   bool   `json:"favorite"`
}

type DiscussionResponse struct {
	QuestionID string `json:"question_id"`
	Comments   string `json:"comments"`
}

type ExplanationRequest struct {
	Explanation string `json:"explanation"`
}

type ExplanationResponse struct {
	QuestionID  string `json:"question_id"`
	Explanation string `json:"explanation"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewStartScrapingResponse(result *domain.BatchResult, message string) StartScrapingResponse {
	resp := StartScrapingResponse{Message: message, Units: []domain.UnitReport{}}
	if result == nil {
		return resp
	}
	resp.QuizSetID = result.QuizSetID
	resp.QuestionsPersisted = result.QuestionsPersisted
	if result.Units != nil {
		resp.Units = result.Units
	}
	return resp
}

func NewQuizSetResponses(sets []*domain.QuizSet) []QuizSetResponse {
	out := make([]QuizSetResponse, 0, len(sets))
	for _, s := range sets {
		out = append(out, QuizSetResponse{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt})
	}
	return out
}

func NewQuestionResponses(questions []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		out = append(out, QuestionResponse{
			ID:                 q.ID,
			QuizSetID:          q.QuizSetID,
			Order:              q.Order,
			Text:               q.Text,
			Options:            options,
			Answer:             q.Answer,
			Explanation:        q.Explanation,
			DiscussionLink:     q.DiscussionLink,
			DiscussionComments: q.DiscussionComments,
			SourceURL:          q.SourceURL,
			Favorite:           q.Favorite,
			Images:             q.Images,
		})
	}
	return out
}

func NewQuizSetDetailsResponse(d *domain.QuizSetDetails) QuizSetDetailsResponse {
	urls := d.URLs
	if urls == nil {
		urls = []string{}
	}
	return QuizSetDetailsResponse{
		ID:             d.ID,
		Title:          d.Title,
		CreatedAt:      d.CreatedAt,
		URLs:           urls,
		TotalQuestions: d.TotalQuestions,
	}
}
