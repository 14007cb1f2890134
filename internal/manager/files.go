package manager

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/internal/rcl"
)

// File types accepted by FileConf.
const (
	TypeConf           = "conf"
	TypeRootkitFiles   = "rootkit_files"
	TypeRootkitTrojans = "rootkit_trojans"
	TypeRCL            = "rcl"
)

const (
	arConfFileName         = "ar.conf"
	rootkitFilesFileName   = "rootkit_files.txt"
	rootkitTrojansFileName = "rootkit_trojans.txt"
)

// FileRequest names a file of the shared directory or of one group.
type FileRequest struct {
	Filename string
	Group    string
	Type     string // empty selects the parser from Filename
	RawXML   bool   // agent.conf only
}

type fileParser func(m *Manager, req FileRequest, path string) (any, error)

var fileTypes = map[string]fileParser{
	TypeConf: func(m *Manager, req FileRequest, path string) (any, error) {
		return m.agentConfPage(filepath.Dir(path), AgentConfRequest{Group: req.Group, Filename: filepath.Base(path)})
	},
	TypeRootkitFiles: func(_ *Manager, _ FileRequest, path string) (any, error) {
		return rcl.ParseRootkitFilesFile(path)
	},
	TypeRootkitTrojans: func(_ *Manager, _ FileRequest, path string) (any, error) {
		return rcl.ParseRootkitTrojansFile(path)
	},
	TypeRCL: func(_ *Manager, _ FileRequest, path string) (any, error) {
		return rcl.ParseControlListFile(path)
	},
}

// FileTypes lists the names accepted in FileRequest.Type.
func FileTypes() []string {
	names := make([]string, 0, len(fileTypes))
	for name := range fileTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileConf parses a shared or group file. With an explicit Type the parser is chosen
// by type, otherwise by file name; unknown names are read as control lists. ar.conf
// always lives in the shared directory.
func (m *Manager) FileConf(req FileRequest) (any, error) {
	path, err := m.filePath(req)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, conferr.New(conferr.CodeFileNotFound, conferr.KindNotFound, path)
	}

	if req.Type != "" {
		parse, ok := fileTypes[req.Type]
		if !ok {
			return nil, conferr.Newf(conferr.CodeInvalidType, conferr.KindInvalidType,
				"%s. Valid types: %s", req.Type, strings.Join(FileTypes(), ", "))
		}
		return parse(m, req, path)
	}

	switch req.Filename {
	case AgentConfFileName:
		if req.RawXML {
			return m.AgentConfXML(req.Group)
		}
		return fileTypes[TypeConf](m, req, path)
	case rootkitFilesFileName:
		return rcl.ParseRootkitFilesFile(path)
	case rootkitTrojansFileName:
		return rcl.ParseRootkitTrojansFile(path)
	case arConfFileName:
		return rcl.ParseLinesFile(path)
	default:
		return rcl.ParseControlListFile(path)
	}
}

func (m *Manager) filePath(req FileRequest) (string, error) {
	if req.Filename == "" || filepath.Base(req.Filename) != req.Filename {
		return "", conferr.Newf(conferr.CodeFileNotFound, conferr.KindInvalidArgument, "%q is not a plain file name", req.Filename)
	}
	if req.Group == "" || req.Filename == arConfFileName {
		if req.Group != "" {
			if err := m.requireGroup(req.Group); err != nil {
				return "", err
			}
		}
		return filepath.Join(m.paths.SharedPath(), req.Filename), nil
	}
	if err := m.requireGroup(req.Group); err != nil {
		return "", err
	}
	return filepath.Join(m.paths.SharedPath(), req.Group, req.Filename), nil
}
