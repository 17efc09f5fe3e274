package handler

import (
	"errors"

	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/dto"
	"quiz-scraper/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ScrapeHandler starts scrape batches.
type ScrapeHandler struct {
	service domain.ScrapeService
}

func NewScrapeHandler(service domain.ScrapeService) *ScrapeHandler {
	return &ScrapeHandler{service: service}
}

// StartScraping handles POST /api/startScraping. The batch runs to completion
// before the response is written.
func (h *ScrapeHandler) StartScraping(c *fiber.Ctx) error {
	var req dto.StartScrapingRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with title and urls")
	}
	if len(req.URLs) == 0 {
		return domain.NewInvalidInputError("urls must not be empty")
	}

	result, err := h.service.Run(c.UserContext(), req.Title, req.URLs)
	if err != nil {
		var persistErr *domain.PersistenceError
		if result == nil || !errors.As(err, &persistErr) {
			return err
		}
		logger.Get().Error("Scrape batch aborted",
			zap.String("quiz_set_id", result.QuizSetID),
			zap.Error(err))
		resp := dto.NewStartScrapingResponse(result, "Scraping stopped after a storage failure.")
		resp.Error = string(domain.ErrPersistenceFailed)
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	return c.JSON(dto.NewStartScrapingResponse(result, "Scraping completed."))
}
