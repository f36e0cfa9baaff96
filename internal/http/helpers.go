package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglist/internal/forms"
	"github.com/mrlokans/readinglist/internal/library"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidBatch     = "INVALID_BATCH"
	CodeMalformedFixture = "MALFORMED_FIXTURE"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUnavailable      = "UNAVAILABLE"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
// Use the specific helpers (respondBadRequest, respondNotFound, etc.) when possible.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondValidationError sends a 400 with one message per offending field.
func respondValidationError(c *gin.Context, verr *forms.ValidationError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid book",
		Code:    CodeValidationFailed,
		Details: verr.Fields,
	})
}

// respondCommandError maps a failed library command to a response.
func respondCommandError(c *gin.Context, err error, context string) {
	var batchErr *library.BatchError
	switch {
	case errors.Is(err, library.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.As(err, &batchErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "fixture rejected, nothing was loaded",
			Code:    CodeInvalidBatch,
			Details: batchErr.Problems,
		})
	default:
		if verr, ok := forms.AsValidationError(err); ok {
			respondValidationError(c, verr)
			return
		}
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseLimitQuery reads an optional positive "limit" query parameter.
// Returns def when absent, or responds with a 400 error and returns 0, false.
func parseLimitQuery(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respondBadRequest(c, "invalid limit")
		return 0, false
	}
	return limit, true
}

// parseModeParam reads the bulk load mode from the query string or form.
func parseModeParam(c *gin.Context) (library.LoadMode, bool) {
	raw := c.Query("mode")
	if raw == "" {
		raw = c.PostForm("mode")
	}
	mode, ok := library.ParseLoadMode(raw)
	if !ok {
		respondBadRequest(c, "mode must be merge or replace")
		return "", false
	}
	return mode, true
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
