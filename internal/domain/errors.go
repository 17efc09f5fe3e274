package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Scraping pipeline errors
	ErrFetchFailed       ErrorCode = "FETCH_FAILED"
	ErrParseFailed       ErrorCode = "PARSE_FAILED"
	ErrPersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrQuizSetNotFound   ErrorCode = "QUIZ_SET_NOT_FOUND"
	ErrQuestionNotFound  ErrorCode = "QUESTION_NOT_FOUND"
	ErrLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewQuizSetNotFoundError(quizSetID string) *DomainError {
	return NewError(ErrQuizSetNotFound, fmt.Sprintf("Quiz set not found with ID: %s", quizSetID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(ErrQuestionNotFound, fmt.Sprintf("Question not found with ID: %s", questionID), nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", err)
}

// FetchError is returned once every retry attempt for a URL has failed.
// The unit that needed the page is skipped; the batch continues.
type FetchError struct {
	URL       string
	Attempts  int
	LastCause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.LastCause)
}

func (e *FetchError) Unwrap() error {
	return e.LastCause
}

// ParseError marks a single question block that could not be extracted.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}

// PersistenceError wraps a failed store commit. It ends the batch.
type PersistenceError struct {
	Unit string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Unit, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
