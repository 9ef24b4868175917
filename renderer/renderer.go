package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/bluechip"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates holds the markdown templates, by file name.
var templates, _ = fs.Sub(templatesFS, "templates")

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"join": strings.Join,
}

// RenderView renders the valuation of a portfolio to a markdown string.
func RenderView(v *bluechip.View) string {
	d := NewDashboard(v)
	if d.Empty {
		return renderTemplate("view", "view_empty.md", nil, d)
	}
	partials := map[string]string{
		"view_summary":   "view_summary.md",
		"view_positions": "view_positions.md",
		"view_charts":    "view_charts.md",
	}
	return renderTemplate("view", "view.md", partials, d)
}

// RenderPositions renders the positions as stored, with their index.
func RenderPositions(s bluechip.State) string {
	return renderTemplate("positions", "positions.md", nil, NewPositionList(s))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
