package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/config"
	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/normalize"
)

// sectionInfo is one row of `list sections`.
type sectionInfo struct {
	Section     string   `json:"section" yaml:"section"`
	Policy      string   `json:"policy" yaml:"policy"`
	ListOptions []string `json:"listOptions,omitempty" yaml:"listOptions,omitempty"`
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known sections or agent groups",
	Long: `List resources known to ossec-conf.

Available resource types:
  sections  - The section descriptor table: merge policy and list-valued options
  groups    - Agent groups found in the shared directory

Examples:
  ossec-conf list sections -o table
  ossec-conf list groups`,
}

var listSectionsCmd = &cobra.Command{
	Use:     "sections",
	Aliases: []string{"section"},
	Short:   "List the section descriptor table",
	Args:    cobra.NoArgs,
	RunE:    runListSections,
}

var listGroupsCmd = &cobra.Command{
	Use:     "groups",
	Aliases: []string{"group"},
	Short:   "List agent groups",
	Args:    cobra.NoArgs,
	RunE:    runListGroups,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listSectionsCmd, listGroupsCmd)
}

func runListSections(cmd *cobra.Command, _ []string) error {
	names := normalize.SectionNames()
	rows := make([]sectionInfo, 0, len(names))
	for _, name := range names {
		d := normalize.Lookup(name)
		rows = append(rows, sectionInfo{Section: name, Policy: d.Policy.String(), ListOptions: d.ListOptions})
	}
	return printResult(cmd, rows)
}

func runListGroups(cmd *cobra.Command, _ []string) error {
	groups, err := newManager().Groups()
	if err != nil {
		return err
	}
	return printResult(cmd, groups)
}

// sectionCompletions completes the declared section names.
func sectionCompletions() []string {
	return normalize.SectionNames()
}

// groupCompletion completes group names. Completion runs without the root pre-run, so
// the configuration is read here with logging left untouched.
func groupCompletion(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	path := rootConfigPath
	if path == "" {
		var err error
		if path, err = config.GetDefaultConfigPath(); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if rootOssecPath != "" {
		loaded.Paths.OssecPath = rootOssecPath
	}

	groups, err := manager.New(loaded.Paths, nil).Groups()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for _, g := range groups {
		if strings.HasPrefix(g, toComplete) {
			completions = append(completions, g)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
