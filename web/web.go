// Package web embeds the server-rendered page templates.
package web

import (
	"embed"
	"html/template"
	"time"

	"smartapp-notes/smartapp/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04"
)

// Funcs are the helpers available to every page. Reminders are shown in loc.
func Funcs(loc *time.Location) template.FuncMap {
	if loc == nil {
		loc = time.UTC
	}
	return template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(dateLayout)
		},
		"localtime": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(loc).Format(datetimeLayout)
		},
		"created": func(t time.Time) string {
			return t.In(loc).Format(datetimeLayout)
		},
		"activities": func() []models.Activity { return models.Activities },
	}
}

// Templates parses every page. Each page is addressed by its file name, e.g. "dashboard.html".
func Templates(loc *time.Location) (*template.Template, error) {
	return template.New("").Funcs(Funcs(loc)).ParseFS(templateFS, "templates/*.html")
}
