package adapter

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl
var reportTemplateFS embed.FS

var loadReportTemplates = sync.OnceValues(func() (*template.Template, error) {
	funcs := template.FuncMap{
		"pad": func(width int, s string) string { return fmt.Sprintf("%*s", width, s) },
	}
	return template.New("reports").Funcs(funcs).ParseFS(reportTemplateFS, "templates/*.tmpl")
})

// executeFormatterTemplate renders the named template without trailing newlines.
func executeFormatterTemplate(name string, data any) (string, error) {
	tmpl, err := loadReportTemplates()
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	if err := tmpl.ExecuteTemplate(&builder, name, data); err != nil {
		return "", fmt.Errorf("render %s report: %w", name, err)
	}
	return strings.TrimRight(builder.String(), "\n"), nil
}
