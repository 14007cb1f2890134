// Package conferr defines the error taxonomy surfaced by ossec-conf.
//
// Every user-visible failure carries a stable numeric code, a symbolic Kind and a
// human-readable detail built from the triggering condition (file path, section name
// or extracted validator message). Callers classify failures with errors.As or IsKind
// rather than by matching strings.
package conferr

import (
	"errors"
	"fmt"
)

// Kind identifies the high level class of a failure.
type Kind string

const (
	// KindMalformedSource indicates unparsable XML or unreadable line-oriented text.
	KindMalformedSource Kind = "malformed_source"
	// KindUnknownSection indicates a query for a section absent from both the document
	// and the section descriptor table.
	KindUnknownSection Kind = "unknown_section"
	// KindSectionNotPresent indicates a query for a known section that the document
	// does not contain.
	KindSectionNotPresent Kind = "section_not_present"
	// KindUnknownField indicates a query for a field absent from a resolved section.
	KindUnknownField Kind = "unknown_field"
	// KindValidationRejected indicates the external validator reported structural errors.
	KindValidationRejected Kind = "validation_rejected"
	// KindValidatorFailed indicates the external validator could not be run at all.
	KindValidatorFailed Kind = "validator_failed"
	// KindNotFound indicates a missing file, directory or group.
	KindNotFound Kind = "not_found"
	// KindInvalidType indicates an unsupported file type was requested.
	KindInvalidType Kind = "invalid_type"
	// KindInvalidArgument indicates a caller supplied an unusable argument.
	KindInvalidArgument Kind = "invalid_argument"
	// KindIO indicates a filesystem operation failed.
	KindIO Kind = "io"
)

// Stable numeric codes.
const (
	CodeFileNotFound          = 1006
	CodeMoveFailed            = 1017
	CodeMalformedSource       = 1101
	CodeUnknownSection        = 1102
	CodeUnknownField          = 1103
	CodeInvalidType           = 1104
	CodeSectionNotPresent     = 1106
	CodeInternalOptionsAbsent = 1107
	CodeInternalOptionUnknown = 1108
	CodeOptionNotDigit        = 1109
	CodeOptionOutOfLimits     = 1110
	CodeOnlyAgentConf         = 1111
	CodeEmptyFile             = 1112
	CodeXMLSyntax             = 1113
	CodeValidationRejected    = 1114
	CodeInvalidOffset         = 1400
	CodeInvalidLimit          = 1401
	CodeARAgentRequired       = 1650
	CodeARAgentNotActive      = 1651
	CodeARCommandRequired     = 1652
	CodeUnknownGroup          = 1710
	CodeValidatorFailed       = 1743
)

var codeMessages = map[int]string{
	CodeFileNotFound:          "File or directory does not exist",
	CodeMoveFailed:            "Error moving file into place",
	CodeMalformedSource:       "Error reading configuration source",
	CodeUnknownSection:        "Invalid section",
	CodeUnknownField:          "Invalid field in section",
	CodeInvalidType:           "Invalid file type",
	CodeSectionNotPresent:     "Requested section not present in configuration",
	CodeInternalOptionsAbsent: "Internal options file not found",
	CodeInternalOptionUnknown: "Value not found in internal options",
	CodeOptionNotDigit:        "Option must be a digit",
	CodeOptionOutOfLimits:     "Option value is out of the limits",
	CodeOnlyAgentConf:         "Remote group file updates are only available for agent.conf",
	CodeEmptyFile:             "Empty files are not supported",
	CodeXMLSyntax:             "XML syntax error",
	CodeValidationRejected:    "Configuration syntax error",
	CodeInvalidOffset:         "Invalid offset",
	CodeInvalidLimit:          "Invalid limit",
	CodeARAgentRequired:       "Active response: agent ID not specified or command unknown",
	CodeARAgentNotActive:      "Active response: agent is not active",
	CodeARCommandRequired:     "Active response: command not specified",
	CodeUnknownGroup:          "The group does not exist",
	CodeValidatorFailed:       "Error running configuration validator",
}

// Error wraps an underlying failure with a stable code, a Kind and a detail string.
type Error struct {
	Code   int
	Kind   Kind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := Message(e.Code)
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return fmt.Sprintf("error %d: %s", e.Code, msg)
}

// Unwrap allows errors.Is/As to reach the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message returns the fixed human-readable text for a code.
func Message(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}

// New creates an error with the given code, kind and detail.
func New(code int, kind Kind, detail string) error {
	return &Error{Code: code, Kind: kind, Detail: detail}
}

// Newf is New with a formatted detail.
func Newf(code int, kind Kind, format string, args ...any) error {
	return &Error{Code: code, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an error that keeps err reachable through Unwrap. The detail defaults
// to err's message.
func Wrap(code int, kind Kind, err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Code: code, Kind: kind, Detail: detail, Err: err}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// CodeOf returns the code of the first *Error in err's chain, or 0.
func CodeOf(err error) int {
	if e, ok := As(err); ok {
		return e.Code
	}
	return 0
}

// IsNotFoundClass reports whether err denotes a missing key, file or group.
func IsNotFoundClass(err error) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	switch e.Kind {
	case KindNotFound, KindUnknownSection, KindSectionNotPresent, KindUnknownField:
		return true
	}
	return false
}
