package report

import (
	"bytes"
	"fmt"
	"strings"

	gmd "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"surveystat/domain/survey"
)

// Format selects how a report is delivered
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "markdown" (also "md" or empty) and "html"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// ContentType returns the HTTP content type of the format
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// ToHTML renders a Markdown report as a standalone HTML page
func ToHTML(source []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return gmd.ToHTML(source, p, renderer)
}

// RenderAlpha renders the reliability report in the requested format
func RenderAlpha(r *survey.AlphaReport, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewMarkdownWriter(&buf).WriteAlpha(r); err != nil {
		return nil, err
	}
	return finish(buf.Bytes(), "Cronbach's Alpha Report: "+r.Filename, format), nil
}

// RenderNormality renders the normality report in the requested format
func RenderNormality(r *survey.NormalityReport, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewMarkdownWriter(&buf).WriteNormality(r); err != nil {
		return nil, err
	}
	return finish(buf.Bytes(), "Normality Test: "+r.Filename, format), nil
}

func finish(md []byte, title string, format Format) []byte {
	if format == FormatHTML {
		return ToHTML(md, title)
	}
	return md
}
