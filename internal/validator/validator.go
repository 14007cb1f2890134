// Package validator runs the external agent configuration checker against a staged
// file and turns its log output into a user-facing error.
package validator

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

const subsystem = "Validator"

// execCommandContext is a variable to allow mocking in tests
var execCommandContext = exec.CommandContext

// 2019/01/08 14:51:09 verify-agent-conf: ERROR: (1230): Invalid element in the configuration: 'agent_conf'.
var errorLine = regexp.MustCompile(`\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} verify-agent-conf: ERROR: \(\d+\): ([\w /_\-.' :]+)`)

// Validator checks a configuration file on disk.
type Validator interface {
	Validate(ctx context.Context, path string) error
}

// BinaryValidator runs "<Path> -f <file>". A non-zero exit is a rejection; anything that
// prevents the binary from completing is a validator failure.
type BinaryValidator struct {
	Path    string
	Timeout time.Duration
}

// NewBinaryValidator creates a validator for the binary at path.
func NewBinaryValidator(path string, timeout time.Duration) *BinaryValidator {
	return &BinaryValidator{Path: path, Timeout: timeout}
}

// Validate implements Validator.
func (v *BinaryValidator) Validate(ctx context.Context, path string) error {
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	logging.Debug(subsystem, "Running %s -f %s", v.Path, path)
	cmd := execCommandContext(ctx, v.Path, "-f", path)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return conferr.Wrap(conferr.CodeValidatorFailed, conferr.KindValidatorFailed,
			fmt.Errorf("%s: %w", v.Path, ctxErr))
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		messages := ExtractMessages(string(output))
		logging.Info(subsystem, "%s rejected %s with %d error(s)", v.Path, path, len(messages))
		return &conferr.Error{
			Code:   conferr.CodeValidationRejected,
			Kind:   conferr.KindValidationRejected,
			Detail: strings.Join(messages, " "),
			Err:    err,
		}
	}

	return conferr.Wrap(conferr.CodeValidatorFailed, conferr.KindValidatorFailed, err)
}

// ExtractMessages pulls the message of every "verify-agent-conf: ERROR" line out of the
// validator's raw output, in order.
func ExtractMessages(output string) []string {
	matches := errorLine.FindAllStringSubmatch(output, -1)
	messages := make([]string, 0, len(matches))
	for _, m := range matches {
		messages = append(messages, m[1])
	}
	return messages
}
