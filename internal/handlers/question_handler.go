package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/models"
	"udacitrivia/internal/service"
)

type QuestionHandler struct {
	questionService *service.QuestionService
	categoryService *service.CategoryService
}

func NewQuestionHandler(questionService *service.QuestionService, categoryService *service.CategoryService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		categoryService: categoryService,
	}
}

func (h *QuestionHandler) GetAll(c *gin.Context) {
	page, ok := parsePageQuery(c)
	if !ok {
		return
	}

	result, err := h.questionService.List(page)
	if err != nil {
		handleServiceError(c, err, "Failed to list questions")
		return
	}

	categories, err := h.categoryService.Map()
	if err != nil {
		handleServiceError(c, err, "Failed to load categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Questions fetched successfully",
		"questions":        result.Questions,
		"questions_count":  result.Total,
		"total_questions":  result.Total,
		"current_category": nil,
		"categories":       categories,
	})
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.Delete(id); err != nil {
		handleServiceError(c, err, "Failed to delete question")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Question deleted successfully",
		"deleted": id,
	})
}

// Post creates a question, or searches when the body carries searchTerm.
func (h *QuestionHandler) Post(c *gin.Context) {
	var req models.QuestionsPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "")
		return
	}

	if req.IsSearch() {
		h.search(c, *req.SearchTerm)
		return
	}

	question, err := h.questionService.Create(req.CreateRequest())
	if err != nil {
		handleServiceError(c, err, "Failed to create question")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Question added successfully",
		"created":  question.ID,
		"question": question,
	})
}

func (h *QuestionHandler) search(c *gin.Context, term string) {
	questions, err := h.questionService.Search(term)
	if err != nil {
		handleServiceError(c, err, "Failed to search questions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"questions":        questions,
		"total_questions":  len(questions),
		"current_category": nil,
	})
}
