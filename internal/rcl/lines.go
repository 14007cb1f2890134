package rcl

import (
	"bufio"
	"io"
	"strings"

	"github.com/wazuh/ossec-hids/internal/conferr"
)

const maxLineLength = 1024 * 1024

// arCommandSeparator splits an ar.conf line into its fields.
const arCommandSeparator = " - "

// ParseLines returns every line of r with surrounding whitespace removed. Blank lines
// are kept so callers can page through the file as-is.
func ParseLines(r io.Reader) ([]string, error) {
	lines := []string{}
	err := scanLines(r, func(line string) {
		lines = append(lines, strings.TrimSpace(line))
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Commands extracts the command names from ar.conf lines: the first " - " separated
// field of every non-blank line.
func Commands(lines []string) []string {
	commands := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		name, _, _ := strings.Cut(line, arCommandSeparator)
		commands = append(commands, name)
	}
	return commands
}

func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		fn(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return conferr.Wrap(conferr.CodeMalformedSource, conferr.KindMalformedSource, err)
	}
	return nil
}
