package formatting

import (
	"fmt"
	"io"
)

// TextFormatter prints strings and string lists verbatim and falls back to YAML for
// structured results.
type TextFormatter struct{}

// Format implements Formatter.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch d := data.(type) {
	case string:
		_, err := fmt.Fprintln(w, d)
		return err
	case []string:
		for _, line := range d {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return (&YAMLFormatter{}).Format(w, data)
	}
}
