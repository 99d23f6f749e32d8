package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/service"
	"udacitrivia/pkg/logger"
	"udacitrivia/pkg/validator"
)

var errorMessages = map[int]string{
	http.StatusBadRequest:          "Bad request, please check your request",
	http.StatusNotFound:            "Not Found, Item not found",
	http.StatusMethodNotAllowed:    "Method not Allowed, please check your request",
	http.StatusConflict:            "Conflict, item already exists",
	http.StatusUnprocessableEntity: "Cannot process, please check your payload (request)",
	http.StatusInternalServerError: "Internal server error",
}

// respondError writes the JSON error envelope. An empty message falls back to
// the default text for the status.
func respondError(c *gin.Context, status int, message string) {
	if message == "" {
		message = errorMessages[status]
		if message == "" {
			message = http.StatusText(status)
		}
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   status,
	})
}

// statusForError maps service errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrPageOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, service.ErrQuestionExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrEmptySearchTerm):
		return http.StatusBadRequest
	case validator.IsValidationError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func handleServiceError(c *gin.Context, err error, msg string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).WithError(err).Error(msg)
		respondError(c, status, "")
		return
	}

	message := ""
	if status == http.StatusUnprocessableEntity {
		message = validator.Messages(err)[0]
	} else if !errors.Is(err, service.ErrPageOutOfRange) {
		message = capitalize(err.Error())
	}
	respondError(c, status, message)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// NoRoute answers unknown API paths with the JSON envelope.
func NoRoute(c *gin.Context) {
	respondError(c, http.StatusNotFound, "")
}

// NoMethod answers known paths hit with the wrong method.
func NoMethod(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, "")
}
