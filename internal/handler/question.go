package handler

import (
	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler serves per-question discussion and explanation data.
type QuestionHandler struct {
	quizSets     domain.QuizSetService
	explanations domain.ExplanationService
}

func NewQuestionHandler(quizSets domain.QuizSetService, explanations domain.ExplanationService) *QuestionHandler {
	return &QuestionHandler{quizSets: quizSets, explanations: explanations}
}

// Discussion handles GET /api/questions/:id/discussion
func (h *QuestionHandler) Discussion(c *fiber.Ctx) error {
	id := c.Params("id")
	comments, err := h.quizSets.DiscussionComments(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.DiscussionResponse{QuestionID: id, Comments: comments})
}

// ToggleFavorite handles POST /api/questions/:id/favorite
func (h *QuestionHandler) ToggleFavorite(c *fiber.Ctx) error {
	id := c.Params("id")
	favorite, err := h.quizSets.ToggleFavorite(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FavoriteResponse{QuestionID: id, Favorite: favorite})
}

// Explain handles POST /api/questions/:id/explanation
func (h *QuestionHandler) Explain(c *fiber.Ctx) error {
	id := c.Params("id")
	text, err := h.explanations.Explain(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.ExplanationResponse{QuestionID: id, Explanation: text})
}

// SaveExplanation handles PUT /api/questions/:id/explanation
func (h *QuestionHandler) SaveExplanation(c *fiber.Ctx) error {
	var req dto.ExplanationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with an explanation")
	}
	if err := h.explanations.Save(c.UserContext(), c.Params("id"), req.Explanation); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Explanation saved"})
}

// GetExplanation handles GET /api/questions/:id/explanation
func (h *QuestionHandler) GetExplanation(c *fiber.Ctx) error {
	id := c.Params("id")
	text, err := h.explanations.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.ExplanationResponse{QuestionID: id, Explanation: text})
}
