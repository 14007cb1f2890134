package manager

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/internal/metrics"
	"github.com/wazuh/ossec-hids/internal/normalize"
	"github.com/wazuh/ossec-hids/internal/xmlsource"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

// AgentConfRequest selects a page of a group's agent configuration.
type AgentConfRequest struct {
	Group    string
	Filename string // defaults to agent.conf
	Offset   int
	Limit    int // 0 means no limit
}

// Page is a window over the filter groups of an agent configuration.
type Page struct {
	TotalItems int                     `json:"totalItems" yaml:"totalItems"`
	Items      []normalize.FilterGroup `json:"items" yaml:"items"`
}

// Groups lists the agent groups: the subdirectories of the shared directory.
func (m *Manager) Groups() ([]string, error) {
	entries, err := os.ReadDir(m.paths.SharedPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, conferr.New(conferr.CodeFileNotFound, conferr.KindNotFound, m.paths.SharedPath())
		}
		return nil, conferr.Wrap(conferr.CodeFileNotFound, conferr.KindIO, err)
	}

	groups := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			groups = append(groups, entry.Name())
		}
	}
	sort.Strings(groups)
	return groups, nil
}

// GroupExists reports whether name is a valid, existing group.
func (m *Manager) GroupExists(name string) bool {
	if !validGroupName(name) {
		return false
	}
	info, err := os.Stat(filepath.Join(m.paths.SharedPath(), name))
	return err == nil && info.IsDir()
}

func validGroupName(name string) bool {
	return groupName.MatchString(name) && name != "." && name != ".."
}

func (m *Manager) requireGroup(name string) error {
	if !m.GroupExists(name) {
		return conferr.New(conferr.CodeUnknownGroup, conferr.KindNotFound, name)
	}
	return nil
}

// AgentConf normalizes a group's agent configuration and returns the requested page.
func (m *Manager) AgentConf(req AgentConfRequest) (*Page, error) {
	if err := m.requireGroup(req.Group); err != nil {
		return nil, err
	}
	return m.agentConfPage(filepath.Join(m.paths.SharedPath(), req.Group), req)
}

// AgentConfMultiGroup is AgentConf for a merged multi-group directory.
func (m *Manager) AgentConfMultiGroup(req AgentConfRequest) (*Page, error) {
	if !validGroupName(req.Group) {
		return nil, conferr.New(conferr.CodeUnknownGroup, conferr.KindNotFound, req.Group)
	}
	return m.agentConfPage(filepath.Join(m.paths.MultiGroupsPath(), req.Group), req)
}

// AgentConfXML returns a group's agent.conf as raw XML with every newline removed.
func (m *Manager) AgentConfXML(group string) (string, error) {
	if err := m.requireGroup(group); err != nil {
		return "", err
	}
	path := filepath.Join(m.paths.SharedPath(), group, AgentConfFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", conferr.New(conferr.CodeFileNotFound, conferr.KindNotFound, path)
		}
		return "", conferr.Wrap(conferr.CodeMalformedSource, conferr.KindMalformedSource, err)
	}
	return strings.ReplaceAll(string(data), "\n", ""), nil
}

func (m *Manager) agentConfPage(dir string, req AgentConfRequest) (*Page, error) {
	filename := req.Filename
	if filename == "" {
		filename = AgentConfFileName
	}
	if filepath.Base(filename) != filename {
		return nil, conferr.Newf(conferr.CodeFileNotFound, conferr.KindInvalidArgument, "%s is not a plain file name", filename)
	}

	groups, err := m.loadFilterGroups(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}
	items, err := cut(groups, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}
	return &Page{TotalItems: len(groups), Items: items}, nil
}

func (m *Manager) loadFilterGroups(path string) ([]normalize.FilterGroup, error) {
	logging.Debug(subsystem, "Loading %s", path)

	root, err := xmlsource.LoadFile(path)
	if err != nil {
		m.observeTransform(metrics.TargetGroup, 0, err)
		return nil, err
	}
	groups, warnings, err := normalize.TransformMultiFilter(root)
	if err != nil {
		m.observeTransform(metrics.TargetGroup, 0, err)
		return nil, err
	}
	m.observeTransform(metrics.TargetGroup, len(groups), nil)
	m.observeWarnings(warnings)
	return groups, nil
}

// AllGroupConfs loads the agent.conf of every group concurrently. Groups without an
// agent.conf are left out; any other failure cancels the remaining loads.
func (m *Manager) AllGroupConfs(ctx context.Context) (map[string][]normalize.FilterGroup, error) {
	groups, err := m.Groups()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	out := make(map[string][]normalize.FilterGroup, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, group := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			filterGroups, err := m.loadFilterGroups(filepath.Join(m.paths.SharedPath(), group, AgentConfFileName))
			if err != nil {
				if conferr.IsKind(err, conferr.KindNotFound) {
					return nil
				}
				return err
			}
			mu.Lock()
			out[group] = filterGroups
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// cut returns the [offset, offset+limit) window of items. A zero limit returns
// everything from offset on.
func cut[T any](items []T, offset, limit int) ([]T, error) {
	if offset < 0 {
		return nil, conferr.Newf(conferr.CodeInvalidOffset, conferr.KindInvalidArgument, "%d", offset)
	}
	if limit < 0 {
		return nil, conferr.Newf(conferr.CodeInvalidLimit, conferr.KindInvalidArgument, "%d", limit)
	}
	if offset >= len(items) {
		return []T{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}
