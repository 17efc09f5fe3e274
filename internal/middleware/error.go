package middleware

import (
	"errors"
	"net/http"

	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			status := mapDomainErrorToHTTPStatus(domainErr.Code)
			fields := []zap.Field{
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.Int("status", status),
				zap.Error(domainErr.Err),
			}
			if status >= http.StatusInternalServerError {
				log.Error(domainErr.Message, fields...)
			} else {
				log.Warn(domainErr.Message, fields...)
			}
			return c.Status(status).JSON(ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Status:  status,
			})
		}

		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) {
			log.Error("Persistence failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Code:    string(domain.ErrPersistenceFailed),
				Message: "Failed to store scraped questions",
				Status:  http.StatusInternalServerError,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.ErrInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain error codes to HTTP status codes
func mapDomainErrorToHTTPStatus(code domain.ErrorCode) int {
	switch code {
	case domain.ErrNotFound, domain.ErrQuizSetNotFound, domain.ErrQuestionNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrFetchFailed, domain.ErrParseFailed:
		return http.StatusBadGateway
	case domain.ErrLLMServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
