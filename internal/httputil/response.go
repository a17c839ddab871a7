// Package httputil provides the response helpers of the simulated secret service API.
// Bodies follow the remote wire shape: {"data": ..., "warnings": [...]} on success and
// {"errors": [...]} on failure.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// DataResponse represents a successful response carrying data.
type DataResponse struct {
	RequestID string         `json:"request_id,omitempty"`
	Data      map[string]any `json:"data"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// StatusCode maps a domain error to the HTTP status the remote service reports for it.
// Rejected, unsupported and conflicting operations are all reported as 400.
func StatusCode(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrInvalidInput),
		apperrors.Is(err, apperrors.ErrConflict),
		apperrors.Is(err, apperrors.ErrRejected),
		apperrors.Is(err, apperrors.ErrUnsupported):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleErrorGin maps domain errors to HTTP status codes and writes an errors body.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := StatusCode(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		// For unknown/internal errors, don't expose details to the client
		message = "internal error"
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Warn("request failed",
			slog.Int("status_code", statusCode),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(statusCode, ErrorResponse{Errors: []string{message}})
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed bodies or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Errors: []string{err.Error()}})
}

// WriteData writes a data response. A nil data map with no warnings is written as
// 204 No Content, which clients read as "nothing to return".
func WriteData(c *gin.Context, statusCode int, data map[string]any, warnings []string) {
	if data == nil && len(warnings) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(statusCode, DataResponse{
		RequestID: requestid.Get(c),
		Data:      data,
		Warnings:  warnings,
	})
}
