package rcl

import (
	"io"
	"regexp"
	"strings"
)

var (
	// file_name ! Name ::Link to it
	rootkitFileLine = regexp.MustCompile(`^\s*(.+)\s+!\s*(.+)\s*::\s*(.+)`)
	// file_name !string_to_search!Description
	rootkitTrojanLine = regexp.MustCompile(`^\s*(.+)\s+!\s*(.+)\s*!\s*(.+)`)
)

// RootkitFile is one entry of the rootkit files database.
type RootkitFile struct {
	Filename string `json:"filename" yaml:"filename"`
	Name     string `json:"name" yaml:"name"`
	Link     string `json:"link" yaml:"link"`
}

// RootkitTrojan is one entry of the trojaned binaries database.
type RootkitTrojan struct {
	Filename    string `json:"filename" yaml:"filename"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ParseRootkitFiles reads "file ! name ::link" records, skipping comments and any line
// that does not match.
func ParseRootkitFiles(r io.Reader) ([]RootkitFile, error) {
	out := []RootkitFile{}
	err := scanRecords(r, rootkitFileLine, func(m []string) {
		out = append(out, RootkitFile{
			Filename: strings.TrimSpace(m[1]),
			Name:     strings.TrimSpace(m[2]),
			Link:     strings.TrimSpace(m[3]),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseRootkitTrojans reads "file !pattern!description" records.
func ParseRootkitTrojans(r io.Reader) ([]RootkitTrojan, error) {
	out := []RootkitTrojan{}
	err := scanRecords(r, rootkitTrojanLine, func(m []string) {
		out = append(out, RootkitTrojan{
			Filename:    strings.TrimSpace(m[1]),
			Name:        strings.TrimSpace(m[2]),
			Description: strings.TrimSpace(m[3]),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanRecords(r io.Reader, record *regexp.Regexp, emit func([]string)) error {
	return scanLines(r, func(line string) {
		if commentLine.MatchString(line) {
			return
		}
		if m := record.FindStringSubmatch(line); m != nil {
			emit(m)
		}
	})
}
