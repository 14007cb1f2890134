package manager

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/wazuh/ossec-hids/internal/conferr"
)

// InternalOption returns the raw value of high.low. local_internal_options.conf
// takes precedence over internal_options.conf; the global file must exist.
func (m *Manager) InternalOption(high, low string) (string, error) {
	globalPath := m.paths.InternalOptionsPath()
	if _, err := os.Stat(globalPath); err != nil {
		return "", conferr.New(conferr.CodeInternalOptionsAbsent, conferr.KindNotFound, globalPath)
	}

	key := high + "." + low
	local, err := readOptionsFile(m.paths.LocalInternalOptionsPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", conferr.Wrap(conferr.CodeMalformedSource, conferr.KindIO, err)
	}
	if v, ok := local[strings.ToLower(key)]; ok {
		return v, nil
	}

	global, err := readOptionsFile(globalPath)
	if err != nil {
		return "", conferr.Wrap(conferr.CodeMalformedSource, conferr.KindIO, err)
	}
	v, ok := global[strings.ToLower(key)]
	if !ok {
		return "", conferr.New(conferr.CodeInternalOptionUnknown, conferr.KindNotFound, key)
	}
	return v, nil
}

// InternalOptionInt returns high.low as an integer within [min, max].
func (m *Manager) InternalOptionInt(high, low string, min, max int) (int, error) {
	raw, err := m.InternalOption(high, low)
	if err != nil {
		return 0, err
	}
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, conferr.Newf(conferr.CodeOptionNotDigit, conferr.KindInvalidArgument,
			"Option: %s.%s. Value: %s", high, low, raw)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, conferr.Newf(conferr.CodeOptionOutOfLimits, conferr.KindInvalidArgument,
			"Max value: %d. Min value: %d. Found: %s.", max, min, raw)
	}
	return n, nil
}

// readOptionsFile reads key=value or key: value pairs. Keys are lower-cased, later
// entries win, # and ; start comment lines and section headers are ignored.
func readOptionsFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	options := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' || line[0] == '[' {
			continue
		}
		i := strings.IndexAny(line, "=:")
		if i <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:i]))
		options[key] = strings.TrimSpace(line[i+1:])
	}
	return options, scanner.Err()
}
