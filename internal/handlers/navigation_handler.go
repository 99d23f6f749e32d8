package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"udacitrivia/pkg/navigation"
)

type NavigationHandler struct {
	header  navigation.Header
	origins *navigation.OriginResolver
}

func NewNavigationHandler(header navigation.Header, origins *navigation.OriginResolver) *NavigationHandler {
	return &NavigationHandler{header: header, origins: origins}
}

// Navigate clicks the header element named by :label and redirects the
// browser to its target.
func (h *NavigationHandler) Navigate(c *gin.Context) {
	nav := navigation.RedirectNavigator{Writer: c.Writer, Request: c.Request}

	err := h.header.Click(c.Param("label"), h.origins.Origin(c.Request), nav)
	if errors.Is(err, navigation.ErrUnknownItem) {
		c.String(http.StatusNotFound, "unknown navigation item")
	}
}

// List exposes the header elements and their resolved targets.
func (h *NavigationHandler) List(c *gin.Context) {
	view := h.header.View(h.origins.Origin(c.Request))

	items := make([]gin.H, 0, len(view.Items))
	for _, link := range view.Items {
		items = append(items, navigationJSON(link))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"title":   navigationJSON(view.Title),
		"items":   items,
	})
}

func navigationJSON(link navigation.Link) gin.H {
	return gin.H{
		"label":  link.Label,
		"path":   link.Path,
		"class":  link.Class,
		"target": link.Href,
	}
}
