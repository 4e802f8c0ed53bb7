package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/ShiroyamaY/tms/internal/domain/notifications"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var funcs = map[string]interface{}{
	"inc": func(i int) int { return i + 1 },
}

// templateRenderer renders the embedded email templates. Every NAME.html has a NAME.txt sibling
// used as the plain-text alternative.
type templateRenderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewTemplateRenderer parses the embedded email templates
func NewTemplateRenderer() (notifications.Renderer, error) {
	html, err := htmltemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	text, err := texttemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	return &templateRenderer{html: html, text: text}, nil
}

func (r *templateRenderer) Render(name string, data interface{}) (string, string, error) {
	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, name, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", name, err)
	}

	textName := strings.TrimSuffix(name, ".html") + ".txt"
	if err := r.text.ExecuteTemplate(&text, textName, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", textName, err)
	}
	return html.String(), strings.TrimSpace(text.String()), nil
}
