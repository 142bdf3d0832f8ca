// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/models"
	"go.uber.org/zap"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	// UploadedPreview lets the page keep showing an upload the model could not score.
	UploadedPreview *models.TablePreview `json:"uploadedPreview,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field, reason string) *APIError {
	msg := fmt.Sprintf("validation failed for field: %s", field)
	if reason != "" {
		msg += " (" + reason + ")"
	}
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: msg,
		Field:   field,
	}
}

// NewPredictionError creates a 422 error for a record the model could not score
func NewPredictionError(cause error) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "PREDICTION_FAILED",
		Message: "Prediction failed: " + cause.Error(),
	}
}

// NewBatchError creates a 422 error for an upload that could not be processed.
// uploaded is nil when the file itself could not be read.
func NewBatchError(cause error, uploaded *models.TablePreview) *APIError {
	return &APIError{
		Status:          http.StatusUnprocessableEntity,
		Code:            "BATCH_FAILED",
		Message:         "Error processing file: " + cause.Error(),
		UploadedPreview: uploaded,
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewErrorHandler returns the echo error handler.
// Details of unexpected errors are only sent to clients when exposeDetails is set.
func NewErrorHandler(logger *zap.Logger, exposeDetails bool) echo.HTTPErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &apiErr):
			apiErr = withoutDetails(apiErr, exposeDetails)
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			if exposeDetails {
				apiErr.Details = err.Error()
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr)
	}
}

func withoutDetails(e *APIError, exposeDetails bool) *APIError {
	if exposeDetails || e.Details == "" || e.Status < http.StatusInternalServerError {
		return e
	}
	stripped := *e
	stripped.Details = ""
	return &stripped
}
