package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/models"
	"udacitrivia/internal/service"
	"udacitrivia/pkg/validator"
)

type pageLink struct {
	Number int
	URL    string
	Active bool
}

// RenderIndex renders the question list. It filters by ?category= or
// ?search= and pages with ?page=.
func (h *TemplateHandler) RenderIndex(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	categoryList, err := h.categoryService.GetAll()
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	categories := make(map[uint]string, len(categoryList))
	for _, category := range categoryList {
		categories[category.ID] = category.Type
	}

	data := gin.H{
		"CategoryList": categoryList,
		"Categories":   categories,
		"CategoryID":   uint(0),
		"Search":       "",
		"ReturnPath":   returnPath(c.Request.URL),
		"Questions":    []models.Question{},
		"Total":        int64(0),
	}

	switch {
	case strings.TrimSpace(c.Query("search")) != "":
		term := strings.TrimSpace(c.Query("search"))
		questions, err := h.questionService.Search(term)
		if err != nil {
			h.renderError(c, http.StatusInternalServerError, "Search failed")
			return
		}
		data["Search"] = term
		data["Questions"] = questions
		data["Total"] = int64(len(questions))

	case c.Query("category") != "":
		id, err := strconv.ParseUint(c.Query("category"), 10, 32)
		if err != nil {
			h.renderError(c, http.StatusBadRequest, "Invalid category")
			return
		}
		result, category, err := h.questionService.ListByCategory(uint(id), page)
		if err != nil {
			h.renderServiceError(c, err)
			return
		}
		data["CategoryID"] = category.ID
		data["CurrentCategory"] = category.Type
		data["Questions"] = result.Questions
		data["Total"] = result.Total
		data["Pages"] = paginate(c.Request.URL, result)

	default:
		result, err := h.questionService.List(page)
		if errors.Is(err, service.ErrPageOutOfRange) {
			if page > 1 {
				c.Redirect(http.StatusSeeOther, "/")
				return
			}
			// an empty database still renders an empty list
			break
		}
		if err != nil {
			h.renderServiceError(c, err)
			return
		}
		data["Questions"] = result.Questions
		data["Total"] = result.Total
		data["Pages"] = paginate(c.Request.URL, result)
	}

	if c.Query("deleted") != "" {
		data["Notice"] = "Question deleted."
	}

	h.renderTemplate(c, http.StatusOK, "index.html", "List", data)
}

// DeleteQuestion handles the delete form on the list page and sends the
// browser back to the list it came from.
func (h *TemplateHandler) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.renderError(c, http.StatusBadRequest, "Invalid question id")
		return
	}

	if err := h.questionService.Delete(uint(id)); err != nil {
		h.renderServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, withQuery(safeReturnPath(c.PostForm("return")), "deleted", strconv.FormatUint(id, 10)))
}

type addForm struct {
	Question   string
	Answer     string
	Difficulty int
	Category   uint
}

func (h *TemplateHandler) RenderAdd(c *gin.Context) {
	data := gin.H{
		"Form": addForm{Difficulty: 1, Category: 1},
	}
	if created := c.Query("created"); created != "" {
		data["Created"] = created
	}
	h.renderAddForm(c, http.StatusOK, data)
}

func (h *TemplateHandler) SubmitAdd(c *gin.Context) {
	difficulty, _ := strconv.Atoi(c.PostForm("difficulty"))
	category, _ := strconv.ParseUint(c.PostForm("category"), 10, 32)

	req := models.CreateQuestionRequest{
		Question:   c.PostForm("question"),
		Answer:     c.PostForm("answer"),
		Difficulty: difficulty,
		Category:   uint(category),
	}

	question, err := h.questionService.Create(req)
	if err == nil {
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/add?created=%d", question.ID))
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.renderError(c, status, "Failed to add question")
		return
	}

	var messages []string
	switch {
	case validator.IsValidationError(err):
		messages = validator.Messages(err)
	default:
		messages = []string{capitalize(err.Error())}
	}

	h.renderAddForm(c, http.StatusUnprocessableEntity, gin.H{
		"Errors": messages,
		"Form": addForm{
			Question:   req.Question,
			Answer:     req.Answer,
			Difficulty: req.Difficulty,
			Category:   req.Category,
		},
	})
}

func (h *TemplateHandler) renderAddForm(c *gin.Context, status int, data gin.H) {
	categoryList, err := h.categoryService.GetAll()
	if err != nil {
		h.renderError(c, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	data["CategoryList"] = categoryList
	h.renderTemplate(c, status, "add.html", "Add", data)
}

func (h *TemplateHandler) renderServiceError(c *gin.Context, err error) {
	status := statusForError(err)
	message := capitalize(err.Error())
	if status == http.StatusInternalServerError {
		message = "Something went wrong"
	}
	h.renderError(c, status, message)
}

func paginate(current *url.URL, result *models.QuestionPage) []pageLink {
	total := result.TotalPages()
	if total <= 1 {
		return nil
	}

	links := make([]pageLink, 0, total)
	for i := 1; i <= total; i++ {
		links = append(links, pageLink{
			Number: i,
			URL:    withQuery(returnPath(current), "page", strconv.Itoa(i)),
			Active: i == result.Page,
		})
	}
	return links
}

func returnPath(u *url.URL) string {
	query := u.Query()
	query.Del("deleted")
	if encoded := query.Encode(); encoded != "" {
		return u.Path + "?" + encoded
	}
	return u.Path
}

// safeReturnPath only lets local paths through, so the delete form cannot be
// used as an open redirect.
func safeReturnPath(value string) string {
	if !strings.HasPrefix(value, "/") || strings.HasPrefix(value, "//") || strings.Contains(value, `\`) {
		return "/"
	}
	return value
}

func withQuery(target, key, value string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	query := parsed.Query()
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
