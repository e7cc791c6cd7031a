// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"places_service/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
// Detail is either a human-readable string or a structured payload.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// Error sends an error response with the given status code and detail.
func Error(c *gin.Context, status int, detail interface{}) {
	c.JSON(status, ErrorResponse{Detail: detail})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// If the error is a typed *apperr.Error, it uses the error's Kind to determine
// the HTTP status code and prefers its Details over its Message as the body.
// Otherwise, it defaults to 500 Internal Server Error.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		var detail interface{} = domainErr.Message
		if domainErr.Details != nil {
			detail = domainErr.Details
		}
		Error(c, domainErr.HTTPStatus(), detail)
		return true
	}

	Error(c, http.StatusInternalServerError, "internal server error")
	return true
}
