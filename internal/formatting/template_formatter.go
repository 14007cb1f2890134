package formatting

import (
	"errors"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateFormatter executes a Go template over the generic form of the result. The
// sprig function library is available.
type TemplateFormatter struct {
	tmpl *template.Template
}

// NewTemplateFormatter parses text. An empty template is rejected.
func NewTemplateFormatter(text string) (*TemplateFormatter, error) {
	if text == "" {
		return nil, errors.New("template output requires --template")
	}
	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &TemplateFormatter{tmpl: tmpl}, nil
}

// Format implements Formatter.
func (f *TemplateFormatter) Format(w io.Writer, data any) error {
	generic, err := Generic(data)
	if err != nil {
		return err
	}
	if err := f.tmpl.Execute(w, generic); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
