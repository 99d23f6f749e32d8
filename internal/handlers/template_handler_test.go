package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"udacitrivia/internal/config"
	"udacitrivia/pkg/navigation"
	"udacitrivia/pkg/utils"
	"udacitrivia/web"
)

var (
	titlePattern   = regexp.MustCompile(`<h1><a href="([^"]*)">([^<]*)</a></h1>`)
	navItemPattern = regexp.MustCompile(`<h2 class="nav-item"><a href="([^"]*)">([^<]*)</a></h2>`)
)

func newBareTemplateHandler(t *testing.T) *TemplateHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	templates, err := utils.LoadTemplates(web.Templates())
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	handler, err := NewTemplateHandler(nil, nil, nil, &config.Config{SiteName: "Udacitrivia"}, templates, navigation.NewHeader(), nil)
	if err != nil {
		t.Fatalf("NewTemplateHandler returned error: %v", err)
	}
	return handler
}

func TestNewTemplateHandlerRequiresTemplates(t *testing.T) {
	if _, err := NewTemplateHandler(nil, nil, nil, nil, nil, navigation.NewHeader(), nil); err == nil {
		t.Fatalf("expected error without templates")
	}
}

func TestRenderedHeaderMarkup(t *testing.T) {
	handler := newBareTemplateHandler(t)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "http://localhost:3000/missing", nil)

	handler.NoRoute(ctx)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}

	body := recorder.Body.String()
	if strings.Count(body, `class="App-header"`) != 1 {
		t.Fatalf("expected one header container, body: %s", body)
	}

	titles := titlePattern.FindAllStringSubmatch(body, -1)
	if len(titles) != 1 {
		t.Fatalf("expected exactly one title element, got %d", len(titles))
	}
	if titles[0][1] != "http://localhost:3000" || titles[0][2] != "Udacitrivia" {
		t.Fatalf("unexpected title %v", titles[0][1:])
	}

	items := navItemPattern.FindAllStringSubmatch(body, -1)
	expected := [][2]string{
		{"http://localhost:3000", "List"},
		{"http://localhost:3000/add", "Add"},
		{"http://localhost:3000/play", "Play"},
	}
	if len(items) != len(expected) {
		t.Fatalf("expected %d nav items, got %d", len(expected), len(items))
	}
	for i, item := range items {
		if item[1] != expected[i][0] || item[2] != expected[i][1] {
			t.Fatalf("item %d: expected %v, got %v", i, expected[i], item[1:])
		}
	}
}

func TestRenderedPageTitle(t *testing.T) {
	handler := newBareTemplateHandler(t)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/missing", nil)

	handler.NoRoute(ctx)

	if !strings.Contains(recorder.Body.String(), "<title>Not Found - Udacitrivia</title>") {
		t.Fatalf("expected page title in body: %s", recorder.Body.String())
	}
}

func TestSafeReturnPath(t *testing.T) {
	cases := map[string]string{
		"/?page=2":          "/?page=2",
		"":                  "/",
		"//evil.example":    "/",
		"https://evil.test": "/",
		`/\evil`:            "/",
	}
	for input, expected := range cases {
		if got := safeReturnPath(input); got != expected {
			t.Errorf("safeReturnPath(%q): expected %q, got %q", input, expected, got)
		}
	}
}
