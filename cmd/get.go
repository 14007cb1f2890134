package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wazuh/ossec-hids/internal/manager"
)

var (
	getAgentGroup      string
	getAgentFile       string
	getAgentOffset     int
	getAgentLimit      int
	getAgentRaw        bool
	getAgentMultiGroup bool
	getAgentAll        bool

	getFileGroup string
	getFileType  string
	getFileRaw   bool

	getOptionMin int
	getOptionMax int
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read normalized configuration from the installation",
	Long: `Read a configuration file from the installation and print its normalized form.

Examples:
  ossec-conf get conf
  ossec-conf get conf syscheck frequency
  ossec-conf get agent-conf --group default --limit 10 -o yaml
  ossec-conf get agent-conf --all
  ossec-conf get file cis_debian_linux_rcl.txt --group default -o table
  ossec-conf get internal-option syscheck sleep --min 0 --max 64`,
}

var getConfCmd = &cobra.Command{
	Use:   "conf [section] [field]",
	Short: "Print the normalized ossec.conf, one section or one field",
	Args:  cobra.MaximumNArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return sectionCompletions(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runGetConf,
}

var getAgentConfCmd = &cobra.Command{
	Use:   "agent-conf",
	Short: "Print a page of a group's agent.conf filter groups",
	Args:  cobra.NoArgs,
	RunE:  runGetAgentConf,
}

var getFileCmd = &cobra.Command{
	Use:   "file NAME",
	Short: "Print a shared configuration file in the form matching its type",
	Long: `Print a file from the shared directory (or a group's directory with --group).

The file is parsed by name unless --type selects one of: conf, rcl,
rootkit_files, rootkit_trojans.`,
	Args: cobra.ExactArgs(1),
	RunE: runGetFile,
}

var getInternalOptionCmd = &cobra.Command{
	Use:   "internal-option HIGH LOW",
	Short: "Print an internal option, honoring local_internal_options.conf",
	Args:  cobra.ExactArgs(2),
	RunE:  runGetInternalOption,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.AddCommand(getConfCmd, getAgentConfCmd, getFileCmd, getInternalOptionCmd)

	getAgentConfCmd.Flags().StringVarP(&getAgentGroup, "group", "g", "default", "Agent group")
	getAgentConfCmd.Flags().StringVar(&getAgentFile, "file", manager.AgentConfFileName, "File name inside the group directory")
	getAgentConfCmd.Flags().IntVar(&getAgentOffset, "offset", 0, "First filter group to return")
	getAgentConfCmd.Flags().IntVar(&getAgentLimit, "limit", manager.DefaultLimit, "Maximum filter groups to return (0 for all)")
	getAgentConfCmd.Flags().BoolVar(&getAgentRaw, "raw", false, "Print the file as stored, newlines removed")
	getAgentConfCmd.Flags().BoolVar(&getAgentMultiGroup, "multigroup", false, "Read from the multigroups directory")
	getAgentConfCmd.Flags().BoolVar(&getAgentAll, "all", false, "Print the filter groups of every group, keyed by group")
	getAgentConfCmd.MarkFlagsMutuallyExclusive("all", "raw")
	getAgentConfCmd.MarkFlagsMutuallyExclusive("all", "multigroup")
	_ = getAgentConfCmd.RegisterFlagCompletionFunc("group", groupCompletion)

	getFileCmd.Flags().StringVarP(&getFileGroup, "group", "g", "", "Agent group")
	getFileCmd.Flags().StringVar(&getFileType, "type", "", "Force a file type (conf, rcl, rootkit_files, rootkit_trojans)")
	getFileCmd.Flags().BoolVar(&getFileRaw, "raw", false, "Print agent.conf as stored instead of normalized")
	_ = getFileCmd.RegisterFlagCompletionFunc("group", groupCompletion)
	_ = getFileCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return manager.FileTypes(), cobra.ShellCompDirectiveNoFileComp
	})

	getInternalOptionCmd.Flags().IntVar(&getOptionMin, "min", 0, "Minimum accepted value; with --max the option must be an integer")
	getInternalOptionCmd.Flags().IntVar(&getOptionMax, "max", 0, "Maximum accepted value")
}

func runGetConf(cmd *cobra.Command, args []string) error {
	var section, field string
	if len(args) > 0 {
		section = args[0]
	}
	if len(args) > 1 {
		field = args[1]
	}

	m := newManager()
	if section == "" {
		doc, _, err := m.Document()
		if err != nil {
			return err
		}
		return printResult(cmd, doc)
	}
	v, err := m.OssecConf(section, field)
	if err != nil {
		return err
	}
	return printResult(cmd, v)
}

func runGetAgentConf(cmd *cobra.Command, _ []string) error {
	m := newManager()
	if getAgentAll {
		all, err := m.AllGroupConfs(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd, all)
	}
	if getAgentRaw {
		xml, err := m.AgentConfXML(getAgentGroup)
		if err != nil {
			return err
		}
		return printResult(cmd, xml)
	}

	req := manager.AgentConfRequest{
		Group:    getAgentGroup,
		Filename: getAgentFile,
		Offset:   getAgentOffset,
		Limit:    getAgentLimit,
	}
	var (
		page *manager.Page
		err  error
	)
	if getAgentMultiGroup {
		page, err = m.AgentConfMultiGroup(req)
	} else {
		page, err = m.AgentConf(req)
	}
	if err != nil {
		return err
	}
	return printResult(cmd, page)
}

func runGetFile(cmd *cobra.Command, args []string) error {
	result, err := newManager().FileConf(manager.FileRequest{
		Filename: args[0],
		Group:    getFileGroup,
		Type:     getFileType,
		RawXML:   getFileRaw,
	})
	if err != nil {
		return err
	}
	return printResult(cmd, result)
}

func runGetInternalOption(cmd *cobra.Command, args []string) error {
	m := newManager()
	if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
		n, err := m.InternalOptionInt(args[0], args[1], getOptionMin, getOptionMax)
		if err != nil {
			return err
		}
		return printResult(cmd, n)
	}
	v, err := m.InternalOption(args[0], args[1])
	if err != nil {
		return err
	}
	return printResult(cmd, v)
}
