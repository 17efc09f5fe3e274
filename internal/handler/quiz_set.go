package handler

import (
	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// QuizSetHandler handles stored quiz sets and their questions.
type QuizSetHandler struct {
	service domain.QuizSetService
}

func NewQuizSetHandler(service domain.QuizSetService) *QuizSetHandler {
	return &QuizSetHandler{service: service}
}

// ListQuizSets handles GET /api/quizSets
func (h *QuizSetHandler) ListQuizSets(c *fiber.Ctx) error {
	sets, err := h.service.ListQuizSets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizSetResponses(sets))
}

// RenameQuizSet handles PUT /api/quizSets/:id
func (h *QuizSetHandler) RenameQuizSet(c *fiber.Ctx) error {
	var req dto.RenameQuizSetRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with a title")
	}
	if err := h.service.RenameQuizSet(c.UserContext(), c.Params("id"), req.Title); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz set title updated successfully"})
}

// DeleteQuizSet handles DELETE /api/quizSets/:id
func (h *QuizSetHandler) DeleteQuizSet(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteQuizSet(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz set " + id + " deleted successfully"})
}

// ListQuestions handles GET /api/quizSets/:id/questions
func (h *QuizSetHandler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponses(questions))
}

// Details handles GET /api/quizSets/:id
func (h *QuizSetHandler) Details(c *fiber.Ctx) error {
	details, err := h.service.Details(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizSetDetailsResponse(details))
}

// ListFavorites handles GET /api/quizSets/:id/favorites
func (h *QuizSetHandler) ListFavorites(c *fiber.Ctx) error {
	questions, err := h.service.ListFavorites(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponses(questions))
}

// ShuffleQuestions handles POST /api/quizSets/:id/shuffle
func (h *QuizSetHandler) ShuffleQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ShuffleQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponses(questions))
}
