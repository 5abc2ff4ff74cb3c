package api

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		"coord": func(f *float64) string {
			if f == nil {
				return "N/A"
			}
			return fmt.Sprintf("%.4f", *f)
		},
		"orNA": func(s string) string {
			if s == "" {
				return "N/A"
			}
			return s
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
