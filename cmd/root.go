package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/internal/config"
	"github.com/wazuh/ossec-hids/internal/formatting"
	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/metrics"
	"github.com/wazuh/ossec-hids/internal/validator"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates an unknown section, field, file or group.
	ExitCodeNotFound = 2
	// ExitCodeInvalidSource indicates a malformed source or a validator rejection.
	ExitCodeInvalidSource = 3
)

// versionTemplate is the output of `ossec-conf --version`; the version command prints the same line.
const versionTemplate = `{{printf "ossec-conf version %s\n" .Version}}`

// Flags shared by every command.
var (
	rootConfigPath string
	rootOssecPath  string
	rootOutput     string
	rootTemplate   string
	rootLogLevel   string
	rootQuiet      bool
	rootNoHeaders  bool
)

// cfg and cfgDir are set once per invocation by the root PersistentPreRunE.
var (
	cfg    config.Config
	cfgDir string
)

// rootCmd represents the base command for the ossec-conf application.
var rootCmd = &cobra.Command{
	Use:   "ossec-conf",
	Short: "Inspect, normalize and update OSSEC/Wazuh configuration files",
	Long: `ossec-conf reads the manager's ossec.conf, the agent group agent.conf files
and the line-oriented policy files (rootcheck control lists, rootkit databases, ar.conf)
and renders them as structured documents.

It can also stage and validate new group configurations, watch the installation for
changes and explore the configuration interactively.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if conferr.IsNotFoundClass(err) {
		return ExitCodeNotFound
	}
	if conferr.IsKind(err, conferr.KindMalformedSource) || conferr.IsKind(err, conferr.KindValidationRejected) {
		return ExitCodeInvalidSource
	}
	return ExitCodeError
}

// loadRuntime loads the configuration directory and initializes logging. Flags win over
// the file.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	path := rootConfigPath
	if path == "" {
		var err error
		if path, err = config.GetDefaultConfigPath(); err != nil {
			return err
		}
	}

	// Log to stderr at the configured level before the file is read.
	level, err := logging.ParseLevel(rootLogLevel)
	if err != nil {
		return err
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())

	loaded, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if rootOssecPath != "" {
		loaded.Paths.OssecPath = rootOssecPath
	}
	if rootLogLevel == "" {
		if level, err = logging.ParseLevel(loaded.Log.Level); err != nil {
			return err
		}
	}
	logging.InitForCLIWithFormat(level, logging.Format(loaded.Log.Format), cmd.ErrOrStderr())

	cfg = loaded
	cfgDir = path
	return nil
}

func newValidator() *validator.BinaryValidator {
	return validator.NewBinaryValidator(cfg.BinaryPath(), cfg.Validator.Timeout())
}

// newManager builds a Manager over the loaded installation paths.
func newManager(opts ...manager.Option) *manager.Manager {
	return manager.New(cfg.Paths, newValidator(), opts...)
}

// newRecorder returns a metrics recorder when a textfile is configured.
func newRecorder() *metrics.Recorder {
	if cfg.Metrics.Textfile == "" {
		return nil
	}
	return metrics.NewRecorder()
}

// snapshotStorage keeps watcher snapshots next to the configuration file.
func snapshotStorage() *config.Storage {
	return config.NewStorageWithPath(cfgDir)
}

func formatOptions() (formatting.Options, error) {
	format, err := formatting.ParseFormat(rootOutput)
	if err != nil {
		return formatting.Options{}, err
	}
	return formatting.Options{
		Format:    format,
		Quiet:     rootQuiet,
		NoHeaders: rootNoHeaders,
		Template:  rootTemplate,
	}, nil
}

// printResult renders data on the command's output in the selected format.
func printResult(cmd *cobra.Command, data any) error {
	options, err := formatOptions()
	if err != nil {
		return err
	}
	f, err := formatting.New(options)
	if err != nil {
		return err
	}
	return f.Format(cmd.OutOrStdout(), data)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "", "Configuration directory (default ~/.config/ossec-conf)")
	rootCmd.PersistentFlags().StringVar(&rootOssecPath, "ossec-path", "", "Installation prefix, overrides paths.ossecPath")
	rootCmd.PersistentFlags().StringVarP(&rootOutput, "output", "o", string(formatting.FormatJSON), "Output format (text, json, yaml, table, protojson, template)")
	rootCmd.PersistentFlags().StringVar(&rootTemplate, "template", "", "Go template used with --output template (sprig functions available)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides log.level")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Compact output without decorations")
	rootCmd.PersistentFlags().BoolVar(&rootNoHeaders, "no-headers", false, "Omit table headers")

	rootCmd.SetVersionTemplate(versionTemplate)
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
