// Package web holds the server-rendered page templates.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Funcs are the helpers available to every page template.
var Funcs = template.FuncMap{
	"date": func(t interface{}) string {
		switch v := t.(type) {
		case time.Time:
			return v.Format("Jan 2, 2006")
		case *time.Time:
			if v == nil {
				return ""
			}
			return v.Format("Jan 2, 2006")
		}
		return ""
	},
	"year": func() int { return time.Now().Year() },
}

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(Funcs).ParseFS(templatesFS, "templates/*.html")
}
