package formatting

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	strs "github.com/wazuh/ossec-hids/pkg/strings"
)

// maxCellWidth bounds a rendered cell, ellipsis included.
const maxCellWidth = 100

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{options: options}
}

// Format renders objects as KEY/VALUE rows and arrays as one row per item.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	generic, err := Generic(data)
	if err != nil {
		return err
	}

	switch v := generic.(type) {
	case map[string]any:
		return f.formatObjectData(w, v)
	case []any:
		return f.formatArrayData(w, v)
	default:
		_, err := fmt.Fprintln(w, compact(v))
		return err
	}
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if f.options.Quiet {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleRounded)
	}
	return t
}

func (f *TableFormatter) appendHeader(t table.Writer, columns []string) {
	if f.options.NoHeaders {
		return
	}
	row := make(table.Row, 0, len(columns))
	for _, c := range columns {
		row = append(row, text.FgHiCyan.Sprint(c))
	}
	t.AppendHeader(row)
}

// formatObjectData formats object data as key-value pairs
func (f *TableFormatter) formatObjectData(w io.Writer, data map[string]any) error {
	t := f.createTable(w)
	f.appendHeader(t, []string{"KEY", "VALUE"})

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(key), truncate(compact(data[key]))})
	}

	t.Render()
	return nil
}

// formatArrayData formats arrays of objects with one column per key and arrays of
// scalars in a single VALUE column.
func (f *TableFormatter) formatArrayData(w io.Writer, data []any) error {
	if len(data) == 0 {
		_, err := fmt.Fprintf(w, "%s\n", text.FgYellow.Sprint("No items found"))
		return err
	}

	t := f.createTable(w)
	columns := objectColumns(data)
	if columns == nil {
		f.appendHeader(t, []string{"VALUE"})
		for _, item := range data {
			t.AppendRow(table.Row{truncate(compact(item))})
		}
	} else {
		f.appendHeader(t, upper(columns))
		for _, item := range data {
			obj := item.(map[string]any)
			row := make(table.Row, 0, len(columns))
			for _, c := range columns {
				row = append(row, truncate(compact(obj[c])))
			}
			t.AppendRow(row)
		}
	}
	t.Render()

	if !f.options.Quiet {
		_, err := fmt.Fprintf(w, "\nTotal: %d\n", len(data))
		return err
	}
	return nil
}

// objectColumns returns the sorted union of keys when every item is an object, nil otherwise.
func objectColumns(data []any) []string {
	seen := make(map[string]bool)
	for _, item := range data {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		for k := range obj {
			seen[k] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns
}

func upper(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = text.FormatUpper.Apply(c)
	}
	return out
}

func truncate(s string) string {
	return strs.SingleLine(s, maxCellWidth)
}
