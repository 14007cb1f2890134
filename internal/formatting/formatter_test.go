package formatting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazuh/ossec-hids/internal/normalize"
)

func sampleDocument() *normalize.Document {
	return normalize.NewDocument(normalize.Mapping{
		"global": normalize.MappingValue(normalize.Mapping{
			"jsonout_output": normalize.Scalar("yes"),
			"white_list":     normalize.Sequence(normalize.Scalar("127.0.0.1"), normalize.Scalar("::1")),
		}),
	})
}

func format(t *testing.T, options Options, data any) string {
	t.Helper()
	f, err := New(options)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, data))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "valid: text, json, yaml, table, protojson, template")
}

func TestJSONFormatter(t *testing.T) {
	out := format(t, Options{Format: FormatJSON, Quiet: true}, sampleDocument())
	assert.Equal(t, `{"global":{"jsonout_output":"yes","white_list":["127.0.0.1","::1"]}}`+"\n", out)

	out = format(t, Options{Format: FormatJSON}, sampleDocument())
	assert.Contains(t, out, "\n  \"global\": {\n")
}

func TestYAMLFormatter(t *testing.T) {
	out := format(t, Options{Format: FormatYAML}, sampleDocument())
	assert.True(t, strings.HasPrefix(out, "global:\n"))
	assert.Contains(t, out, "  jsonout_output: \"yes\"\n")
	assert.Contains(t, out, "    - 127.0.0.1\n")
}

func TestTextFormatter(t *testing.T) {
	assert.Equal(t, "<agent_config/>\n", format(t, Options{}, "<agent_config/>"))
	assert.Equal(t, "a\nb\n", format(t, Options{Format: FormatText}, []string{"a", "b"}))
	assert.Contains(t, format(t, Options{Format: FormatText}, sampleDocument()), "jsonout_output")
}

func TestTableFormatter(t *testing.T) {
	out := format(t, Options{Format: FormatTable}, sampleDocument())
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "global")
	assert.Contains(t, out, `"jsonout_output":"yes"`)

	rows := []map[string]string{
		{"filename": "bin/bash", "name": "Trojan"},
		{"filename": "bin/ls", "name": "Other"},
	}
	out = format(t, Options{Format: FormatTable, NoHeaders: true}, rows)
	assert.NotContains(t, out, "FILENAME")
	assert.Contains(t, out, "bin/ls")
	assert.Contains(t, out, "Total: 2")

	out = format(t, Options{Format: FormatTable}, []string{"restart-ossec0"})
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "restart-ossec0")

	out = format(t, Options{Format: FormatTable}, []string{})
	assert.Contains(t, out, "No items found")
}

func TestTableFormatter_QuietKeepsOptions(t *testing.T) {
	f, err := New(Options{Format: FormatTable, Quiet: true})
	require.NoError(t, err)
	require.IsType(t, &TableFormatter{}, f)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, []string{"restart-ossec0", "host-deny0"}))
	assert.Contains(t, buf.String(), "host-deny0")
	assert.NotContains(t, buf.String(), "Total:")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 150)
	assert.Len(t, truncate(long), maxCellWidth)
	assert.Equal(t, "short", truncate("short"))
}

func TestProtoJSONFormatter(t *testing.T) {
	out := format(t, Options{Format: FormatProtoJSON, Quiet: true}, sampleDocument())
	assert.Contains(t, out, `"jsonout_output"`)
	assert.Contains(t, out, `"::1"`)

	s, err := sampleDocument().ToStruct()
	require.NoError(t, err)
	assert.Contains(t, format(t, Options{Format: FormatProtoJSON}, s), "white_list")
}

func TestTemplateFormatter(t *testing.T) {
	out := format(t, Options{Format: FormatTemplate, Template: `{{ .global.white_list | join "," | upper }}`}, sampleDocument())
	assert.Equal(t, "127.0.0.1,::1\n", out)

	_, err := New(Options{Format: FormatTemplate})
	assert.Error(t, err)

	_, err = New(Options{Format: FormatTemplate, Template: "{{ .x"})
	assert.Error(t, err)
}
