package ui

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"surveystat/domain/survey"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templateFuncs = template.FuncMap{
	"fixed3":   func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) },
	"percent":  func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	"response": survey.FormatResponse,
	"verdictClass": func(r *survey.NormalityResult) string {
		if r != nil && r.Normal {
			return "verdict-normal"
		}
		return "verdict-not-normal"
	},
}

// parseTemplates loads every page template from the embedded filesystem
func parseTemplates() (*template.Template, error) {
	templatesFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}
	return template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "*.html")
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written page behind
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("[Template] %s failed: %v", templateName, err)
		c.String(http.StatusInternalServerError, "template rendering failed")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
