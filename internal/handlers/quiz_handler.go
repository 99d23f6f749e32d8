package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/models"
	"udacitrivia/internal/service"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Next returns the next quiz question; question is null when the round is over.
func (h *QuizHandler) Next(c *gin.Context) {
	var req models.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "")
		return
	}

	question, err := h.quizService.Next(req)
	if err != nil {
		handleServiceError(c, err, "Failed to pick quiz question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"question": question,
	})
}
