package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/pow/internal/config"
	"github.com/roach88/pow/internal/graphs"
	"github.com/roach88/pow/internal/loader"
	"github.com/roach88/pow/internal/rdf"
	"github.com/roach88/pow/internal/repo"
	"github.com/roach88/pow/internal/workspace"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (load aborted, commit rejected, etc.)
	ExitCommandError = 2 // Command error (bad arguments, missing workspace, invalid config)
)

// ExitError represents an error with a specific exit code.
// The message has already been reported to the user when it is returned
// from a command.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Unreported is set when writing the error output failed, so the caller
	// still has to print it.
	Unreported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Error codes reported in CLI output.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeConfig        = "E002" // Missing or invalid pow.conf
	ErrCodeRepository    = "E003" // Repository operation failed
	ErrCodeLoad          = "E004" // Graph files could not be loaded
	ErrCodeSerialization = "E005" // Graph files could not be written
	ErrCodeDataSource    = "E006" // Loader result rejected
	ErrCodeGraph         = "E007" // Graph could not be fetched
	ErrCodeUsage         = "E008" // Bad argument
)

// classify maps an error to its CLI error code and exit code.
func classify(err error) (string, int) {
	var (
		configErr *config.ConfigError
		repoErr   *repo.RepositoryError
		loadErr   *graphs.LoadError
		indexErr  *graphs.IndexParseError
		serErr    *graphs.SerializationError
		lf        *loader.LoadFailure
		graphErr  *workspace.UnreadableGraphError
		syntaxErr *rdf.SyntaxError
		unknownTr *workspace.UnknownTranslatorError
	)
	switch {
	case errors.As(err, &configErr):
		return ErrCodeConfig, ExitCommandError
	case errors.As(err, &unknownTr):
		return ErrCodeUsage, ExitCommandError
	case errors.Is(err, workspace.ErrPowDirExists):
		return ErrCodeUsage, ExitCommandError
	case errors.As(err, &loadErr), errors.As(err, &indexErr):
		return ErrCodeLoad, ExitFailure
	case errors.As(err, &serErr):
		return ErrCodeSerialization, ExitFailure
	case errors.As(err, &lf):
		return ErrCodeDataSource, ExitFailure
	case errors.As(err, &graphErr), errors.Is(err, workspace.ErrNoAccessorFinder), errors.As(err, &syntaxErr):
		return ErrCodeGraph, ExitFailure
	case errors.As(err, &repoErr):
		return ErrCodeRepository, ExitFailure
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// fail reports err through the formatter and returns the matching
// ExitError.
func fail(f *OutputFormatter, message string, err error) error {
	code, exit := classify(err)
	return report(f, code, fmt.Sprintf("%s: %v", message, err), WrapExitError(exit, code+": "+message, err))
}

// report writes message through f and returns exitErr. A failed write is
// joined into exitErr, which is then marked unreported.
func report(f *OutputFormatter, code, message string, exitErr *ExitError) *ExitError {
	if werr := f.Error(code, message, nil); werr != nil {
		exitErr.Unreported = true
		exitErr.Err = errors.Join(exitErr.Err, fmt.Errorf("write error output: %w", werr))
	}
	return exitErr
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// JSON reports whether output is JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Println.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format. Text errors go to
// ErrWriter so they never mix with command output.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	if _, err := fmt.Fprintf(w, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		if _, err := fmt.Fprintf(w, "Details: %v\n", details); err != nil {
			return err
		}
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
