package normalize

import "sort"

// Policy governs how repeated occurrences of one section are combined.
type Policy int

const (
	// PolicyDuplicate keeps every occurrence as an independent entry.
	PolicyDuplicate Policy = iota
	// PolicyMerge folds every occurrence into one mapping.
	PolicyMerge
	// PolicyLast keeps only the last occurrence.
	PolicyLast
)

// String makes Policy satisfy the fmt.Stringer interface.
func (p Policy) String() string {
	switch p {
	case PolicyDuplicate:
		return "duplicate"
	case PolicyMerge:
		return "merge"
	case PolicyLast:
		return "last"
	default:
		return "unknown"
	}
}

// Descriptor is the static merge behavior of one section.
type Descriptor struct {
	Policy      Policy
	ListOptions []string
}

// IsListOption reports whether option must always be stored as a sequence.
func (d Descriptor) IsListOption(option string) bool {
	for _, name := range d.ListOptions {
		if name == option {
			return true
		}
	}
	return false
}

// Section names with special-cased option readers.
const (
	SectionProfileList   = "open-scap"
	SectionIntegrity     = "syscheck"
	OptionIntegrityPaths = "directories"
	SectionCluster       = "cluster"
	OptionNodeList       = "nodes"
	SectionLabels        = "labels"
	OptionLabel          = "label"
	moduleWrapperTag     = "wodle"
	moduleNameAttribute  = "name"
	managerConfigTag     = "ossec_config"
	agentConfigTag       = "agent_config"
	syntheticItemKey     = "item"
	profilesKey          = "profiles"
	integrityPathKey     = "path"
	labelValueKey        = "value"
)

// sections is the descriptor table. Any name missing here falls through to
// defaultDescriptor in Lookup.
var sections = map[string]Descriptor{
	"active-response": {Policy: PolicyDuplicate},
	"command":         {Policy: PolicyDuplicate},
	"agentless":       {Policy: PolicyDuplicate},
	"localfile":       {Policy: PolicyDuplicate},
	"remote":          {Policy: PolicyDuplicate},
	"syslog_output":   {Policy: PolicyDuplicate},
	"integration":     {Policy: PolicyDuplicate},
	SectionLabels:     {Policy: PolicyDuplicate, ListOptions: []string{OptionLabel}},

	"alerts":           {Policy: PolicyMerge},
	"client":           {Policy: PolicyMerge},
	"database_output":  {Policy: PolicyMerge},
	"email_alerts":     {Policy: PolicyMerge},
	"reports":          {Policy: PolicyMerge},
	"global":           {Policy: PolicyMerge, ListOptions: []string{"white_list"}},
	SectionProfileList: {Policy: PolicyMerge, ListOptions: []string{"content"}},
	"cis-cat":          {Policy: PolicyMerge},
	"syscollector":     {Policy: PolicyMerge},
	"rootcheck": {Policy: PolicyMerge, ListOptions: []string{
		"rootkit_files", "rootkit_trojans", "windows_audit", "system_audit", "windows_apps", "windows_malware",
	}},
	"ruleset": {Policy: PolicyMerge, ListOptions: []string{
		"include", "rule", "rule_dir", "decoder", "decoder_dir", "list", "rule_exclude", "decoder_exclude",
	}},
	SectionIntegrity:         {Policy: PolicyMerge, ListOptions: []string{OptionIntegrityPaths, "ignore", "nodiff"}},
	"auth":                   {Policy: PolicyMerge},
	"vulnerability-detector": {Policy: PolicyMerge, ListOptions: []string{"feed"}},
	"osquery":                {Policy: PolicyMerge},

	SectionCluster: {Policy: PolicyLast, ListOptions: []string{OptionNodeList}},
}

var defaultDescriptor = Descriptor{Policy: PolicyDuplicate}

// Lookup returns the descriptor for a section name. Unknown sections are Duplicate
// with no list options.
func Lookup(name string) Descriptor {
	if d, ok := sections[name]; ok {
		return d
	}
	return defaultDescriptor
}

// Known reports whether name is declared in the descriptor table.
func Known(name string) bool {
	_, ok := sections[name]
	return ok
}

// SectionNames returns every declared section name, sorted.
func SectionNames() []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
