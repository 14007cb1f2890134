package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/normalize"
	"github.com/wazuh/ossec-hids/internal/rcl"
	"github.com/wazuh/ossec-hids/internal/xmlsource"
)

// parseCmd normalizes files outside of an installation.
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Normalize a file given by path",
	Long: `Parse and normalize a single file without reading the installation.

Examples:
  ossec-conf parse xml ./ossec.conf -o yaml
  ossec-conf parse agent-conf ./shared/default/agent.conf
  ossec-conf parse rcl ./cis_rhel7_linux_rcl.txt -o table
  ossec-conf parse rootkit-trojans ./rootkit_trojans.txt`,
}

func newParseCmd(use, short string, parse func(path string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parse(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
}

func parseManagerXML(path string) (any, error) {
	root, err := xmlsource.LoadFile(path)
	if err != nil {
		return nil, err
	}
	doc, _, err := normalize.Transform(root)
	return doc, err
}

func parseAgentXML(path string) (any, error) {
	root, err := xmlsource.LoadFile(path)
	if err != nil {
		return nil, err
	}
	groups, _, err := normalize.TransformMultiFilter(root)
	return groups, err
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.AddCommand(
		newParseCmd("xml", "Normalize an ossec.conf style document", parseManagerXML),
		newParseCmd("agent-conf", "Normalize an agent.conf into filter groups", parseAgentXML),
		newParseCmd("rcl", "Parse a rootcheck control list", func(path string) (any, error) {
			return rcl.ParseControlListFile(path)
		}),
		newParseCmd("rootkit-files", "Parse a rootkit files database", func(path string) (any, error) {
			return rcl.ParseRootkitFilesFile(path)
		}),
		newParseCmd("rootkit-trojans", "Parse a rootkit trojans database", func(path string) (any, error) {
			return rcl.ParseRootkitTrojansFile(path)
		}),
	)
}
