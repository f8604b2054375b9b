package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"
)

// Template names understood by Renderer.
const (
	TemplateIndex  = "index.html"
	TemplateDetail = "detail.html"
	TemplateList   = "list.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes a named page for a payload.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// TemplateRenderer renders the embedded html/template pages.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"price": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
}

// NewTemplateRenderer parses every page together with the shared layout.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{TemplateIndex, TemplateDetail, TemplateList} {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &TemplateRenderer{pages: pages}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
