package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/config"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the snapshots kept by watch",
	Long: `With watch.snapshots enabled, watch stores the last normalized result of
ossec.conf ("ossec-conf") and of every group ("group-<name>") in the configuration
directory.`,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := snapshotStorage().List(config.SnapshotKind)
		if err != nil {
			return err
		}
		return printResult(cmd, names)
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := snapshotStorage().Load(config.SnapshotKind, args[0])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var snapshotRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"delete"},
	Short:   "Remove a stored snapshot",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotStorage().Delete(config.SnapshotKind, args[0])
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotListCmd, snapshotShowCmd, snapshotRemoveCmd)
}
