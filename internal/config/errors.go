package config

import (
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigNotFound   = "CONFIG_NOT_FOUND"
	ErrCodeConfigParse      = "CONFIG_PARSE"
	ErrCodeConfigFormat     = "CONFIG_FORMAT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotLoggedIn      = "NOT_LOGGED_IN"
	ErrCodeCredentials      = "CREDENTIALS_INVALID"
)

// UserError is an error meant to be shown to the person running the CLI,
// with an optional hint on how to fix it.
type UserError struct {
	Code       string
	Message    string
	Context    string // file path, flag or field the error refers to
	Suggestion string
	Underlying error
}

func (e *UserError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is matches another *UserError with the same code.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format renders the code, message, location and suggestion on separate lines.
func (e *UserError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	return b.String()
}

// ErrorList collects validation failures so all of them are reported at once.
type ErrorList struct {
	errors []*UserError
}

// AddValidation records a failed field check.
func (l *ErrorList) AddValidation(field, message, suggestion string) {
	l.errors = append(l.errors, &UserError{
		Code:       ErrCodeValidationFailed,
		Message:    fmt.Sprintf("%s: %s", field, message),
		Context:    field,
		Suggestion: suggestion,
	})
}

// Len returns the number of recorded errors.
func (l *ErrorList) Len() int {
	return len(l.errors)
}

// Errors returns a copy of the recorded errors.
func (l *ErrorList) Errors() []*UserError {
	return append([]*UserError(nil), l.errors...)
}

func (l *ErrorList) Error() string {
	switch len(l.errors) {
	case 0:
		return ""
	case 1:
		return l.errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d configuration errors:", len(l.errors))
	for i, err := range l.errors {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, err.Error())
	}
	return b.String()
}

// AsError returns l, or nil when nothing was recorded.
func (l *ErrorList) AsError() error {
	if len(l.errors) == 0 {
		return nil
	}
	return l
}

// NewConfigNotFoundError reports an explicitly requested config file that
// does not exist.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigNotFound,
		Message:    "configuration file not found",
		Context:    path,
		Suggestion: "Check the --config path, or omit it to use ~/.companion/config.yaml.",
	}
}

// NewConfigParseError reports a config file that could not be decoded.
func NewConfigParseError(path string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    "failed to parse configuration file",
		Context:    path,
		Suggestion: "Check the file syntax. YAML needs consistent indentation; TOML needs quoted strings.",
		Underlying: err,
	}
}

// NewConfigFormatError reports an unsupported config file extension.
func NewConfigFormatError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigFormat,
		Message:    "unsupported configuration format",
		Context:    path,
		Suggestion: "Use a .yaml, .yml or .toml file.",
	}
}

// NewNotLoggedInError reports a missing or incomplete auth session.
func NewNotLoggedInError(profile string) *UserError {
	return &UserError{
		Code:       ErrCodeNotLoggedIn,
		Message:    "no signed-in session",
		Context:    "profile " + profile,
		Suggestion: "Sign in with the companion app first, or pick another profile with --profile.",
	}
}
