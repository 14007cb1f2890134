package shell

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/internal/formatting"
	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/normalize"
)

type fakeSource struct {
	loads    int
	requests []manager.AgentConfRequest
}

func (f *fakeSource) Document() (*normalize.Document, []normalize.Warning, error) {
	f.loads++
	doc := normalize.NewDocument(normalize.Mapping{
		"global": normalize.MappingValue(normalize.Mapping{"jsonout_output": normalize.Scalar("yes")}),
		"localfile": normalize.Sequence(
			normalize.MappingValue(normalize.Mapping{"location": normalize.Scalar("/var/log/a")}),
		),
	})
	return doc, []normalize.Warning{{Section: "cluster", Message: "There are multiple cluster sections in configuration. Using only last section."}}, nil
}

func (f *fakeSource) AgentConf(req manager.AgentConfRequest) (*manager.Page, error) {
	f.requests = append(f.requests, req)
	if req.Group != "default" {
		return nil, conferr.New(conferr.CodeUnknownGroup, conferr.KindNotFound, req.Group)
	}
	return &manager.Page{TotalItems: 0, Items: []normalize.FilterGroup{}}, nil
}

func (f *fakeSource) Groups() ([]string, error) {
	return []string{"default"}, nil
}

func newShell(t *testing.T) (*Shell, *fakeSource, *bytes.Buffer) {
	t.Helper()
	src := &fakeSource{}
	var out bytes.Buffer
	s, err := New(src, &out, formatting.Options{Format: formatting.FormatJSON, Quiet: true})
	require.NoError(t, err)
	return s, src, &out
}

func TestShell_Get(t *testing.T) {
	s, src, out := newShell(t)
	ctx := context.Background()

	done, err := s.Execute(ctx, "get global jsonout_output")
	require.NoError(t, err)
	assert.False(t, done)
	assert.Contains(t, out.String(), "warning: There are multiple cluster sections")
	assert.Contains(t, out.String(), `"yes"`)

	out.Reset()
	_, err = s.Execute(ctx, "GET localfile location")
	require.NoError(t, err)
	assert.Equal(t, `["/var/log/a"]`+"\n", out.String())
	assert.Equal(t, 1, src.loads)

	_, err = s.Execute(ctx, "get syscheck")
	assert.Equal(t, conferr.CodeSectionNotPresent, conferr.CodeOf(err))

	_, err = s.Execute(ctx, "get a b c")
	assert.ErrorContains(t, err, "usage")
}

func TestShell_Reload(t *testing.T) {
	s, src, out := newShell(t)
	ctx := context.Background()

	_, err := s.Execute(ctx, "sections")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"policy":"duplicate"`)

	_, err = s.Execute(ctx, "reload")
	require.NoError(t, err)
	assert.Equal(t, 2, src.loads)
	assert.Contains(t, out.String(), "Reloaded 2 sections")
}

func TestShell_Agent(t *testing.T) {
	s, src, out := newShell(t)
	ctx := context.Background()

	_, err := s.Execute(ctx, "agent default 1 10")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"totalItems":0`)
	assert.Equal(t, manager.AgentConfRequest{Group: "default", Offset: 1, Limit: 10}, src.requests[0])

	_, err = s.Execute(ctx, "agent missing")
	assert.Equal(t, conferr.CodeUnknownGroup, conferr.CodeOf(err))

	_, err = s.Execute(ctx, "agent default x")
	assert.ErrorContains(t, err, "invalid offset")

	_, err = s.Execute(ctx, "agent")
	assert.Error(t, err)
}

func TestShell_FormatAndHelp(t *testing.T) {
	s, _, out := newShell(t)
	ctx := context.Background()

	_, err := s.Execute(ctx, "format yaml")
	require.NoError(t, err)
	_, err = s.Execute(ctx, "groups")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "- default\n")

	_, err = s.Execute(ctx, "format xml")
	assert.Error(t, err)

	out.Reset()
	_, err = s.Execute(ctx, "?")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "agent <group> [offset] [limit]")

	out.Reset()
	_, err = s.Execute(ctx, "help quit")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Exit the shell")
}

func TestShell_ExitAndUnknown(t *testing.T) {
	s, _, _ := newShell(t)
	ctx := context.Background()

	done, err := s.Execute(ctx, "   ")
	assert.NoError(t, err)
	assert.False(t, done)

	_, err = s.Execute(ctx, "frobnicate")
	assert.ErrorContains(t, err, "unknown command: frobnicate")

	done, err = s.Execute(ctx, "quit")
	assert.NoError(t, err)
	assert.True(t, done)
}

func TestNew_RejectsTemplate(t *testing.T) {
	_, err := New(&fakeSource{}, &bytes.Buffer{}, formatting.Options{Format: formatting.FormatTemplate, Template: "{{.}}"})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("exit", exitCommand{})

	_, ok := r.Get("q")
	assert.True(t, ok)
	_, ok = r.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"exit"}, r.List())
}
