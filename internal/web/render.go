package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/home"
	"github.com/movers-solution/movers/internal/navigation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var assetFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func staticFS() http.FileSystem {
	sub, err := fs.Sub(assetFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Banner kinds
const (
	bannerRetry = "retry"
	bannerError = "error"
)

type banner struct {
	Kind    string
	Message string
}

// formValues echoes submitted fields back into a re-rendered form.
// Passwords are never echoed.
type formValues struct {
	Username string
	Email    string
	Role     string
}

// pageData is the data every template receives
type pageData struct {
	Title   string
	Path    string
	Nav     navigation.View
	Banner  *banner
	Home    home.Content
	Route   access.Route
	Form    formValues
	Message string
	Version string
}

func (s *Server) page(c *gin.Context, title string) pageData {
	return pageData{
		Title:   title,
		Path:    c.Request.URL.Path,
		Nav:     currentView(c),
		Version: s.version,
	}
}

func (s *Server) renderError(c *gin.Context, status int, title, message string) {
	data := s.page(c, title)
	data.Message = message
	c.HTML(status, "error.html", data)
}
