package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/activeresponse"
)

var (
	arAgent  string
	arCustom bool
	arStatus string
)

// arMessage is what `ar message` would deliver.
type arMessage struct {
	Queue   string `json:"queue" yaml:"queue"`
	AgentID string `json:"agentId" yaml:"agentId"`
	Message string `json:"message" yaml:"message"`
}

// previewSender captures the message instead of writing it to a queue.
type previewSender struct {
	sent *arMessage
}

func (p *previewSender) Send(_ context.Context, queue activeresponse.Queue, agentID, message string) (string, error) {
	p.sent = &arMessage{Queue: string(queue), AgentID: agentID, Message: message}
	return message, nil
}

// fixedStatus reports the same status for every agent.
type fixedStatus string

func (s fixedStatus) Status(context.Context, string) (string, error) {
	return string(s), nil
}

var arCmd = &cobra.Command{
	Use:   "ar",
	Short: "Inspect active response commands",
}

var arListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the commands declared in ar.conf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		commands, err := activeresponse.Commands(cfg.Paths.ARConfPath())
		if err != nil {
			return err
		}
		return printResult(cmd, commands)
	},
}

var arMessageCmd = &cobra.Command{
	Use:   "message COMMAND [ARGUMENT...]",
	Short: "Build the queue message for an active response without sending it",
	Long: `Build the message an active response request would put on the exec or ar queue.

The command must be declared in ar.conf unless --custom is given. Requests for an
agent other than the manager ("000") or "all" are checked against --status.

Examples:
  ossec-conf ar message restart-ossec0 --agent 001
  ossec-conf ar message --agent all firewall-drop0 - 10.0.0.1
  ossec-conf ar message my-script.sh arg1 --custom --agent 000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runARMessage,
}

func init() {
	rootCmd.AddCommand(arCmd)
	arCmd.AddCommand(arListCmd, arMessageCmd)

	arMessageCmd.Flags().StringVar(&arAgent, "agent", activeresponse.ManagerAgentID, "Target agent ID, or all")
	arMessageCmd.Flags().BoolVar(&arCustom, "custom", false, "Run a custom script instead of an ar.conf command")
	arMessageCmd.Flags().StringVar(&arStatus, "status", "active", "Assumed status of the target agent")
}

func runARMessage(cmd *cobra.Command, args []string) error {
	sender := &previewSender{}
	runner := &activeresponse.Runner{
		ARConfPath: cfg.Paths.ARConfPath(),
		Sender:     sender,
		Agents:     fixedStatus(arStatus),
	}
	if _, err := runner.Run(cmd.Context(), activeresponse.Request{
		AgentID:   arAgent,
		Command:   args[0],
		Arguments: args[1:],
		Custom:    arCustom,
	}); err != nil {
		return err
	}
	return printResult(cmd, sender.sent)
}
