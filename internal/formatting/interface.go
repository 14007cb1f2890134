// Package formatting renders command results in the output formats offered by the CLI
// and the interactive shell.
package formatting

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatText      OutputFormat = "text"      // Raw strings and lines, YAML otherwise
	FormatJSON      OutputFormat = "json"      // JSON output
	FormatYAML      OutputFormat = "yaml"      // YAML output
	FormatTable     OutputFormat = "table"     // Rich table output
	FormatProtoJSON OutputFormat = "protojson" // Canonical google.protobuf.Struct JSON
	FormatTemplate  OutputFormat = "template"  // Go template with sprig functions
)

// Formats lists every supported output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatTable, FormatProtoJSON, FormatTemplate}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (OutputFormat, error) {
	for _, f := range Formats() {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown output format %q (valid: %s)", name, strings.Join(names, ", "))
}

// Options configures the formatter behavior
type Options struct {
	Format    OutputFormat
	Quiet     bool   // Compact output, no decorations
	NoHeaders bool   // Suppress the table header row
	Template  string // Template text for FormatTemplate
}

// Formatter writes one result to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// New creates the formatter for options.Format.
func New(options Options) (Formatter, error) {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatTable:
		return NewTableFormatter(options), nil
	case FormatProtoJSON:
		return &ProtoJSONFormatter{options: options}, nil
	case FormatTemplate:
		return NewTemplateFormatter(options.Template)
	case FormatText, "":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", options.Format)
	}
}
