package activeresponse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazuh/ossec-hids/internal/conferr"
)

type sent struct {
	queue   Queue
	agentID string
	message string
}

type fakeSender struct {
	sent []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, queue Queue, agentID, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sent{queue, agentID, message})
	return "Command sent.", nil
}

type fakeStatus map[string]string

func (f fakeStatus) Status(_ context.Context, id string) (string, error) {
	s, ok := f[id]
	if !ok {
		return "", errors.New("agent does not exist")
	}
	return s, nil
}

func newRunner(t *testing.T) (*Runner, *fakeSender) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ar.conf")
	require.NoError(t, os.WriteFile(path, []byte(
		"restart-ossec0 - restart-ossec.sh - 0\nfirewall-drop600 - firewall-drop.sh - 600\n"), 0o640))

	sender := &fakeSender{}
	return &Runner{
		ARConfPath: path,
		Sender:     sender,
		Agents:     fakeStatus{"001": "Active", "002": "Disconnected"},
	}, sender
}

func TestShellEscape(t *testing.T) {
	assert.Equal(t, `srcip\:1.2.3.4`, ShellEscape("srcip:1.2.3.4"))
	assert.Equal(t, `a\;b\|c\&\&d`, ShellEscape("a;b|c&&d"))
	assert.Equal(t, `\$\(rm -rf \*\)`, ShellEscape("$(rm -rf *)"))
	assert.Equal(t, "tab\\\there", ShellEscape("tab\there"))
	assert.Equal(t, `plain-text_1.2/3`, ShellEscape("plain-text_1.2/3"))
}

func TestBuildMessage(t *testing.T) {
	assert.Equal(t, "restart-ossec0 - -", BuildMessage("restart-ossec0", nil, false))
	assert.Equal(t, "!custom.sh - -", BuildMessage("custom.sh", nil, true))
	assert.Equal(t, `firewall-drop600 - 10.0.0.1 user\!`, BuildMessage("firewall-drop600", []string{"-", "10.0.0.1", "user!"}, false))
}

func TestRunner_Run(t *testing.T) {
	runner, sender := newRunner(t)
	ctx := context.Background()

	ack, err := runner.Run(ctx, Request{AgentID: "001", Command: "restart-ossec0"})
	require.NoError(t, err)
	assert.Equal(t, "Command sent.", ack)

	_, err = runner.Run(ctx, Request{AgentID: "all", Command: "script.sh", Arguments: []string{"x"}, Custom: true})
	require.NoError(t, err)

	assert.Equal(t, []sent{
		{QueueAgent, "001", "restart-ossec0 - -"},
		{QueueExec, ManagerAgentID, "!script.sh x"},
	}, sender.sent)
}

func TestRunner_Errors(t *testing.T) {
	runner, _ := newRunner(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		code int
	}{
		{"missing command", Request{AgentID: "001"}, conferr.CodeARCommandRequired},
		{"missing agent", Request{Command: "restart-ossec0"}, conferr.CodeARAgentRequired},
		{"unknown command", Request{AgentID: "001", Command: "nope"}, conferr.CodeARAgentRequired},
		{"inactive agent", Request{AgentID: "002", Command: "restart-ossec0"}, conferr.CodeARAgentNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Run(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, conferr.CodeOf(err))
		})
	}

	_, err := runner.Run(ctx, Request{AgentID: "404", Command: "restart-ossec0"})
	assert.ErrorContains(t, err, "agent does not exist")
}

func TestRunner_SendFailure(t *testing.T) {
	runner, sender := newRunner(t)
	sender.err = errors.New("queue closed")

	_, err := runner.Run(context.Background(), Request{AgentID: "000", Command: "restart-ossec0"})
	assert.ErrorContains(t, err, "queue closed")
}

func TestCommands_MissingFile(t *testing.T) {
	_, err := Commands(filepath.Join(t.TempDir(), "ar.conf"))
	assert.Equal(t, conferr.CodeFileNotFound, conferr.CodeOf(err))
}
