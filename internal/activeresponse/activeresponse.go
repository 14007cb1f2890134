// Package activeresponse builds active response messages and hands them to the
// transport. Delivery and agent bookkeeping live elsewhere and are reached through the
// Sender and AgentStatus interfaces.
package activeresponse

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/internal/rcl"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

const subsystem = "ActiveResponse"

// Queue identifies where a message is delivered.
type Queue string

const (
	// QueueExec runs the command on the manager itself.
	QueueExec Queue = "exec"
	// QueueAgent forwards the command to a remote agent.
	QueueAgent Queue = "ar"
)

// ManagerAgentID is the identifier of the local manager.
const ManagerAgentID = "000"

// Sender delivers a message to one agent and returns the transport's acknowledgement.
type Sender interface {
	Send(ctx context.Context, queue Queue, agentID, message string) (string, error)
}

// AgentStatus reports the connection status of an agent ("active", "disconnected", ...).
type AgentStatus interface {
	Status(ctx context.Context, agentID string) (string, error)
}

// Request describes one active response invocation. A Custom command names a script
// rather than an ar.conf entry.
type Request struct {
	AgentID   string
	Command   string
	Arguments []string
	Custom    bool
}

var shellEscaper = strings.NewReplacer(
	`"`, `\"`, `'`, `\'`, "\t", "\\\t", `;`, `\;`, "`", "\\`", `>`, `\>`, `<`, `\<`,
	`|`, `\|`, `#`, `\#`, `*`, `\*`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
	`&`, `\&`, `$`, `\$`, `!`, `\!`, `:`, `\:`, `(`, `\(`, `)`, `\)`,
)

// ShellEscape backslash-escapes every shell metacharacter in s.
func ShellEscape(s string) string {
	return shellEscaper.Replace(s)
}

// BuildMessage renders the queue message for a command: the command name (prefixed
// with "!" for custom scripts) followed by the escaped arguments, or " - -" when there
// are none.
func BuildMessage(command string, arguments []string, custom bool) string {
	var b strings.Builder
	if custom {
		b.WriteString("!")
	}
	b.WriteString(command)

	if len(arguments) == 0 {
		b.WriteString(" - -")
		return b.String()
	}
	for _, arg := range arguments {
		b.WriteString(" ")
		b.WriteString(ShellEscape(arg))
	}
	return b.String()
}

// Commands lists the command names declared in the ar.conf file at path.
func Commands(path string) ([]string, error) {
	lines, err := rcl.ParseLinesFile(path)
	if err != nil {
		return nil, err
	}
	return rcl.Commands(lines), nil
}

// Runner validates requests and dispatches them.
type Runner struct {
	ARConfPath string
	Sender     Sender
	Agents     AgentStatus
}

// Run validates req, builds its message and sends it. The manager ("000") and the
// broadcast target ("all") go to the exec queue; any other agent must be active.
func (r *Runner) Run(ctx context.Context, req Request) (string, error) {
	if req.Command == "" {
		return "", conferr.New(conferr.CodeARCommandRequired, conferr.KindInvalidArgument, "")
	}
	if req.AgentID == "" {
		return "", conferr.New(conferr.CodeARAgentRequired, conferr.KindInvalidArgument, "")
	}

	if !req.Custom {
		commands, err := Commands(r.ARConfPath)
		if err != nil {
			return "", err
		}
		if !slices.Contains(commands, req.Command) {
			return "", conferr.Newf(conferr.CodeARAgentRequired, conferr.KindInvalidArgument, "unknown command %q", req.Command)
		}
	}

	message := BuildMessage(req.Command, req.Arguments, req.Custom)

	if req.AgentID == ManagerAgentID || req.AgentID == "all" {
		logging.Info(subsystem, "Sending %q to the exec queue", message)
		return r.send(ctx, QueueExec, ManagerAgentID, message)
	}

	status, err := r.Agents.Status(ctx, req.AgentID)
	if err != nil {
		return "", fmt.Errorf("failed to get status of agent %s: %w", req.AgentID, err)
	}
	if !strings.EqualFold(status, "active") {
		return "", conferr.Newf(conferr.CodeARAgentNotActive, conferr.KindInvalidArgument, "agent %s is %s", req.AgentID, status)
	}

	logging.Info(subsystem, "Sending %q to agent %s", message, req.AgentID)
	return r.send(ctx, QueueAgent, req.AgentID, message)
}

func (r *Runner) send(ctx context.Context, queue Queue, agentID, message string) (string, error) {
	ack, err := r.Sender.Send(ctx, queue, agentID, message)
	if err != nil {
		return "", fmt.Errorf("failed to send active response to %s: %w", agentID, err)
	}
	return ack, nil
}
