package config

import "fmt"

// ErrorCode classifies a ConfigError.
type ErrorCode string

const (
	CodeMissing    ErrorCode = "missing"
	CodeUnreadable ErrorCode = "unreadable"
	CodeMalformed  ErrorCode = "malformed"
	CodeInvalid    ErrorCode = "invalid"
)

// ConfigError reports a configuration file that cannot be used.
type ConfigError struct {
	Code    ErrorCode
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: config %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("config %s: %s", e.Code, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
