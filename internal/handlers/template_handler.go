package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/config"
	"udacitrivia/internal/service"
	"udacitrivia/pkg/logger"
	"udacitrivia/pkg/navigation"
)

const baseLayout = "base.html"

// TemplateHandler renders the server-side pages. Every page is wrapped in
// base.html, which carries the navigation header.
type TemplateHandler struct {
	questionService *service.QuestionService
	categoryService *service.CategoryService
	quizService     *service.QuizService
	templates       *template.Template
	config          *config.Config
	header          navigation.Header
	origins         *navigation.OriginResolver
}

func NewTemplateHandler(questionService *service.QuestionService, categoryService *service.CategoryService, quizService *service.QuizService, cfg *config.Config, templates *template.Template, header navigation.Header, origins *navigation.OriginResolver) (*TemplateHandler, error) {
	if templates == nil {
		return nil, fmt.Errorf("templates are required")
	}

	return &TemplateHandler{
		questionService: questionService,
		categoryService: categoryService,
		quizService:     quizService,
		templates:       templates,
		config:          cfg,
		header:          header,
		origins:         origins,
	}, nil
}

func (h *TemplateHandler) siteName() string {
	if h.config != nil && h.config.SiteName != "" {
		return h.config.SiteName
	}
	return h.header.Title().Label
}

func (h *TemplateHandler) renderTemplate(c *gin.Context, status int, content, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = fmt.Sprintf("%s - %s", title, h.siteName())
	data["Navigation"] = h.header.View(h.origins.Origin(c.Request))

	contentTmpl := h.templates.Lookup(content)
	if contentTmpl == nil {
		logger.Error(nil, "Content template not found", map[string]interface{}{"template": content})
		c.String(http.StatusInternalServerError, "Template not found")
		return
	}

	buf, err := executeTemplate(contentTmpl, data)
	if err != nil {
		logger.Error(err, "Failed to render content", map[string]interface{}{"template": content})
		c.String(http.StatusInternalServerError, "Failed to render content")
		return
	}

	data["Content"] = template.HTML(buf)

	layoutTmpl := h.templates.Lookup(baseLayout)
	if layoutTmpl == nil {
		logger.Error(nil, "Layout template not found", map[string]interface{}{"template": baseLayout})
		c.String(http.StatusInternalServerError, "Template not found")
		return
	}

	output, err := executeTemplate(layoutTmpl, data)
	if err != nil {
		logger.Error(err, "Failed to render layout", map[string]interface{}{"template": baseLayout})
		c.String(http.StatusInternalServerError, "Failed to render layout")
		return
	}

	c.Data(status, "text/html; charset=utf-8", output)
}

func (h *TemplateHandler) renderError(c *gin.Context, status int, message string) {
	h.renderTemplate(c, status, "error.html", http.StatusText(status), gin.H{
		"StatusCode": status,
		"Message":    message,
	})
	c.Abort()
}

// NoRoute renders the HTML 404 page.
func (h *TemplateHandler) NoRoute(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "The requested page could not be found")
}

func executeTemplate(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
