// Package rcl parses the line-oriented rootcheck databases: control lists
// (system_audit / windows_audit policies), rootkit files, rootkit trojans and the
// active-response command list.
package rcl

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/wazuh/ossec-hids/internal/conferr"
)

// ParseControlListFile parses the control list stored at path.
func ParseControlListFile(path string) (*ControlList, error) {
	var out *ControlList
	err := withFile(path, func(r io.Reader) (err error) {
		out, err = ParseControlList(r)
		return err
	})
	return out, err
}

// ParseRootkitFilesFile parses the rootkit files database stored at path.
func ParseRootkitFilesFile(path string) ([]RootkitFile, error) {
	var out []RootkitFile
	err := withFile(path, func(r io.Reader) (err error) {
		out, err = ParseRootkitFiles(r)
		return err
	})
	return out, err
}

// ParseRootkitTrojansFile parses the rootkit trojans database stored at path.
func ParseRootkitTrojansFile(path string) ([]RootkitTrojan, error) {
	var out []RootkitTrojan
	err := withFile(path, func(r io.Reader) (err error) {
		out, err = ParseRootkitTrojans(r)
		return err
	})
	return out, err
}

// ParseLinesFile returns the trimmed lines of the file at path.
func ParseLinesFile(path string) ([]string, error) {
	var out []string
	err := withFile(path, func(r io.Reader) (err error) {
		out, err = ParseLines(r)
		return err
	})
	return out, err
}

func withFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return conferr.New(conferr.CodeFileNotFound, conferr.KindNotFound, path)
		}
		return conferr.Wrap(conferr.CodeMalformedSource, conferr.KindMalformedSource, err)
	}
	defer f.Close()
	return fn(f)
}
