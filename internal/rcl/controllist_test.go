package rcl

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazuh/ossec-hids/internal/conferr"
)

func TestParseControlList_Example(t *testing.T) {
	input := "[Check A]{CIS: 1.1} [any] [ref1]\nc:exists /etc/passwd\n$myvar=5\n[Check B][][]\nc:exists /etc/shadow\n"

	got, err := ParseControlList(strings.NewReader(input))
	require.NoError(t, err)

	want := &ControlList{
		Vars: map[string]string{"myvar": "5"},
		Controls: []ControlItem{
			{Name: "Check A", CIS: []string{"1.1"}, Condition: "any", Reference: "ref1", Checks: []string{"c:exists /etc/passwd"}},
			{Name: "Check B", Checks: []string{"c:exists /etc/shadow"}},
		},
	}
	assert.Equal(t, want, got)
	assert.JSONEq(t, `{"name":"Check B","checks":["c:exists /etc/shadow"]}`, mustJSON(t, got.Controls[1]))
}

func TestParseControlList_PolicyFile(t *testing.T) {
	input := `# OSSEC Linux Audit - (C) 2007 Trend Micro
#
$php_ini=/etc/php.ini,/var/www/conf/php.ini;
$web_dirs=/var/www,/var/htdocs;

# PHP checks
[PHP - Register globals are enabled {PCI_DSS: 2.2.4}] [any] [https://www.owasp.org]
f:$php_ini -> r:^register_globals = On;

[CIS - Debian Linux - 1.4 - Robust partition scheme - /tmp {CIS: 1.4} {PCI_DSS: 2.2.4}] [any] [https://benchmarks.cisecurity.org/tools2/linux/CIS_Debian_Benchmark_v1.0.pdf]
f:/etc/fstab -> !r:/tmp;
   d:$web_dirs -> .php$ -> r:^\s*eval(;
`
	got, err := ParseControlList(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"php_ini":  "/etc/php.ini,/var/www/conf/php.ini;",
		"web_dirs": "/var/www,/var/htdocs;",
	}, got.Vars)

	require.Len(t, got.Controls, 2)
	php := got.Controls[0]
	assert.Equal(t, "PHP - Register globals are enabled", php.Name)
	assert.Equal(t, []string{"2.2.4"}, php.PCI)
	assert.Nil(t, php.CIS)
	assert.Equal(t, "https://www.owasp.org", php.Reference)
	assert.Equal(t, []string{"f:$php_ini -> r:^register_globals = On;"}, php.Checks)

	cis := got.Controls[1]
	assert.Equal(t, "CIS - Debian Linux - 1.4 - Robust partition scheme - /tmp", cis.Name)
	assert.Equal(t, []string{"1.4"}, cis.CIS)
	assert.Equal(t, []string{"2.2.4"}, cis.PCI)
	assert.Len(t, cis.Checks, 2)
	assert.Equal(t, `d:$web_dirs -> .php$ -> r:^\s*eval(;`, cis.Checks[1])
}

func TestParseControlList_EdgeCases(t *testing.T) {
	t.Run("final item without trailing newline", func(t *testing.T) {
		got, err := ParseControlList(strings.NewReader("[Only][all][]\nf:/etc/hosts"))
		require.NoError(t, err)
		require.Len(t, got.Controls, 1)
		assert.Equal(t, []string{"f:/etc/hosts"}, got.Controls[0].Checks)
		assert.Equal(t, "all", got.Controls[0].Condition)
	})

	t.Run("checks before any title are ignored", func(t *testing.T) {
		got, err := ParseControlList(strings.NewReader("f:/etc/hosts\n$v=1\n"))
		require.NoError(t, err)
		assert.Empty(t, got.Controls)
		assert.Equal(t, "1", got.Vars["v"])
	})

	t.Run("title without checks", func(t *testing.T) {
		got, err := ParseControlList(strings.NewReader("[A][any][]\n[B][any][]\r\n"))
		require.NoError(t, err)
		require.Len(t, got.Controls, 2)
		assert.NotNil(t, got.Controls[0].Checks)
		assert.Empty(t, got.Controls[0].Checks)
	})

	t.Run("commented title", func(t *testing.T) {
		got, err := ParseControlList(strings.NewReader("  # [A][any][]\n"))
		require.NoError(t, err)
		assert.Empty(t, got.Controls)
	})

	t.Run("tag naming both frameworks goes to CIS", func(t *testing.T) {
		got, err := ParseControlList(strings.NewReader("[X {CIS_PCI: 9}][any][]\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"9"}, got.Controls[0].CIS)
		assert.Nil(t, got.Controls[0].PCI)
	})

	t.Run("tag naming neither framework is dropped", func(t *testing.T) {
		got, err := ParseControlList(strings.NewReader("[X {HIPAA: 164.312}][any][]\n"))
		require.NoError(t, err)
		assert.Equal(t, "X", got.Controls[0].Name)
		assert.Nil(t, got.Controls[0].CIS)
		assert.Nil(t, got.Controls[0].PCI)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := ParseControlList(strings.NewReader(""))
		require.NoError(t, err)
		assert.NotNil(t, got.Controls)
		assert.Empty(t, got.Vars)
	})
}

func TestParseControlList_ReadFailure(t *testing.T) {
	got, err := ParseControlList(iotest.ErrReader(errors.New("device gone")))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, conferr.CodeMalformedSource, conferr.CodeOf(err))
}
