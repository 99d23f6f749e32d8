package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	questionService *service.QuestionService
}

func NewCategoryHandler(categoryService *service.CategoryService, questionService *service.QuestionService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		questionService: questionService,
	}
}

func (h *CategoryHandler) GetAll(c *gin.Context) {
	categories, err := h.categoryService.Map()
	if err != nil {
		handleServiceError(c, err, "Failed to load categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Categories fetched successfully",
		"categories":       categories,
		"categories_count": len(categories),
	})
}

func (h *CategoryHandler) GetQuestions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, ok := parsePageQuery(c)
	if !ok {
		return
	}

	result, category, err := h.questionService.ListByCategory(id, page)
	if err != nil {
		handleServiceError(c, err, "Failed to load category questions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Questions fetched successfully",
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": category.Type,
	})
}
