package site

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed styles.css
var stylesCSS []byte

// parseTemplates loads the embedded page templates. The T function routes
// every fixed label through the configured translator.
func parseTemplates(translate func(string) string) (*template.Template, error) {
	funcs := template.FuncMap{"T": translate}
	return template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}
