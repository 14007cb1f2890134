package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/metrics"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

var uploadName string

var uploadCmd = &cobra.Command{
	Use:   "upload GROUP FILE",
	Short: "Validate a new agent configuration and install it for a group",
	Long: `Upload replaces a group's agent.conf. The new file is re-indented, staged in the
tmp directory, checked for XML syntax and by the validator binary before it is moved
into place. Use "-" as FILE to read from standard input.

Examples:
  ossec-conf upload default ./agent.conf
  cat agent.conf | ossec-conf upload webservers -`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: uploadCompletion,
	RunE:              runUpload,
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Run the validator binary against a file without installing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(uploadCmd, validateCmd)
	uploadCmd.Flags().StringVar(&uploadName, "name", manager.AgentConfFileName, "Destination file name inside the group directory")
}

func uploadCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return groupCompletion(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveDefault
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// withSpinner runs fn behind a progress indicator on stderr unless output is quiet.
func withSpinner(cmd *cobra.Command, suffix string, fn func() error) error {
	if rootQuiet {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + suffix
	s.Start()
	err := fn()
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("Failed") + "\n"
	}
	s.Stop()
	return err
}

func runUpload(cmd *cobra.Command, args []string) error {
	group, file := args[0], args[1]
	content, err := readInput(cmd, file)
	if err != nil {
		return err
	}

	recorder := newRecorder()
	var opts []manager.Option
	if recorder != nil {
		opts = append(opts, manager.WithRecorder(recorder))
	}
	m := newManager(opts...)

	var msg string
	err = withSpinner(cmd, "Validating configuration...", func() error {
		var uerr error
		msg, uerr = m.UploadGroupFile(cmd.Context(), group, content, uploadName)
		return uerr
	})
	writeTextfile(recorder)
	if err != nil {
		return err
	}
	return printResult(cmd, msg)
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := newValidator()
	err := withSpinner(cmd, "Running validator...", func() error {
		return v.Validate(cmd.Context(), args[0])
	})
	if err != nil {
		return err
	}
	return printResult(cmd, fmt.Sprintf("%s: configuration is valid", args[0]))
}

func writeTextfile(recorder *metrics.Recorder) {
	if recorder == nil {
		return
	}
	if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logging.Error("CLI", err, "Failed to write metrics to %s", cfg.Metrics.Textfile)
	}
}
