package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Explore the configuration interactively",
	Long: `Start an interactive prompt over the installation.

Commands: sections, get [section] [field], agent <group> [offset] [limit], groups,
reload, format [name], help, exit. TAB completes commands, sections and groups.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		options, err := formatOptions()
		if err != nil {
			return err
		}
		s, err := shell.New(newManager(), cmd.OutOrStdout(), options)
		if err != nil {
			return err
		}
		return s.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
