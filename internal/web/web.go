// Package web holds the embedded HTML views. Rendering is deliberately thin:
// templates range and print, all decisions happen in handlers and services.
package web

import (
	"embed"
	"html/template"
	"time"

	dom "github.com/faithingod1/parish-record/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded views for gin's SetHTMLTemplate.
func Templates() *template.Template {
	t := template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.Format(dom.DateFormat) },
	})
	return template.Must(t.ParseFS(files, "templates/*.html"))
}
