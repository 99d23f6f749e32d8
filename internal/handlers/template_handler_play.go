package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/models"
	"udacitrivia/internal/service"
)

const (
	playStageChoose   = "choose"
	playStageQuestion = "question"
	playStageResult   = "result"
	playStageFinished = "finished"
)

// playState is the quiz progress carried between requests in hidden form
// fields.
type playState struct {
	CategoryID uint
	Previous   []uint
	Score      int
}

func (s playState) encodedPrevious() string {
	parts := make([]string, len(s.Previous))
	for i, id := range s.Previous {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func (h *TemplateHandler) RenderPlay(c *gin.Context) {
	h.renderPlay(c, http.StatusOK, playStageChoose, playState{}, gin.H{})
}

// SubmitPlay advances the quiz: "start" and "next" pick a new question,
// "answer" grades the guess for question_id.
func (h *TemplateHandler) SubmitPlay(c *gin.Context) {
	state, ok := parsePlayState(c)
	if !ok {
		h.renderError(c, http.StatusBadRequest, "Invalid quiz state")
		return
	}

	switch c.PostForm("action") {
	case "start":
		state.Previous = nil
		state.Score = 0
		h.nextQuizQuestion(c, state)
	case "next":
		h.nextQuizQuestion(c, state)
	case "answer":
		h.gradeQuizAnswer(c, state)
	default:
		h.renderError(c, http.StatusBadRequest, "Unknown quiz action")
	}
}

func (h *TemplateHandler) nextQuizQuestion(c *gin.Context, state playState) {
	question, err := h.quizService.Next(models.QuizRequest{
		PreviousQuestions: state.Previous,
		QuizCategory:      models.QuizCategory{ID: state.CategoryID},
	})
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	if question == nil {
		h.renderPlay(c, http.StatusOK, playStageFinished, state, gin.H{})
		return
	}

	h.renderPlay(c, http.StatusOK, playStageQuestion, state, gin.H{"Question": question})
}

func (h *TemplateHandler) gradeQuizAnswer(c *gin.Context, state playState) {
	if len(state.Previous) >= service.QuestionsPerPlay {
		h.renderError(c, http.StatusBadRequest, "Quiz already finished")
		return
	}

	id, err := strconv.ParseUint(c.PostForm("question_id"), 10, 32)
	if err != nil {
		h.renderError(c, http.StatusBadRequest, "Invalid question id")
		return
	}

	for _, previous := range state.Previous {
		if previous == uint(id) {
			h.renderError(c, http.StatusBadRequest, "Question already answered")
			return
		}
	}

	question, err := h.questionService.GetByID(uint(id))
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	correct := service.EvaluateGuess(c.PostForm("guess"), question.Answer)
	state.Previous = append(state.Previous, question.ID)
	if correct {
		state.Score++
	}

	h.renderPlay(c, http.StatusOK, playStageResult, state, gin.H{
		"Question": question,
		"Correct":  correct,
	})
}

func (h *TemplateHandler) renderPlay(c *gin.Context, status int, stage string, state playState, data gin.H) {
	if stage == playStageChoose {
		categoryList, err := h.categoryService.GetAll()
		if err != nil {
			h.renderError(c, http.StatusInternalServerError, "Failed to load categories")
			return
		}
		data["CategoryList"] = categoryList
	}

	data["Stage"] = stage
	data["CategoryID"] = state.CategoryID
	data["Previous"] = state.encodedPrevious()
	data["Score"] = state.Score

	h.renderTemplate(c, status, "play.html", "Play", data)
}

func parsePlayState(c *gin.Context) (playState, bool) {
	var state playState

	if raw := c.PostForm("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return state, false
		}
		state.CategoryID = uint(id)
	}

	if raw := strings.TrimSpace(c.PostForm("previous")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				return state, false
			}
			state.Previous = append(state.Previous, uint(id))
		}
		if len(state.Previous) > service.QuestionsPerPlay {
			return state, false
		}
	}

	if raw := c.PostForm("score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil || score < 0 || score > len(state.Previous) {
			return state, false
		}
		state.Score = score
	}

	return state, true
}
