package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure or a stored schedule that no longer verifies
	ExitCommandError = 2 // Command error (invalid input, unreadable config, store not found, etc.)
)

// Response codes reported in error output.
const (
	CodeInvalidInput    = "E001" // Rejected build input (lord, fraction, horizon, longitude, instant)
	CodeConfig          = "E002" // Config file or flag could not be read
	CodeInterpretations = "E003" // Interpretation table could not be loaded
	CodeStore           = "E004" // Database could not be opened, read or written
	CodeNotFound        = "E005" // No stored schedule matches the ID
	CodeScenario        = "E006" // Scenario loading or execution failed
	CodeInternal        = "E099" // Anything else
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code     int    // Exit code (use ExitFailure or ExitCommandError)
	Response string // Response code, "E001" etc.
	Message  string // Error message
	Err      error  // Underlying error (optional)
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
func NewExitError(code int, response, message string) *ExitError {
	return &ExitError{Code: code, Response: response, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, response, message string, err error) *ExitError {
	return &ExitError{Code: code, Response: response, Message: message, Err: err}
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

// GetResponseCode extracts the response code from an error.
// Returns CodeInternal if the error is not an ExitError.
func GetResponseCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Response != "" {
		return exitErr.Response
	}
	return CodeInternal
}

// textRenderer is implemented by payloads with a human-readable form.
type textRenderer interface {
	RenderText(w io.Writer) error
}

// OutputFormatter handles JSON vs text output for CLI commands.
// Diagnostics go through slog, never through the formatter.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool // print error details in text mode
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

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	if r, ok := data.(textRenderer); ok {
		return r.RenderText(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// ReportError writes err through the formatter, using its response code.
// Details carry the input error code when err wraps one.
func (f *OutputFormatter) ReportError(err error) {
	_ = f.Error(GetResponseCode(err), err.Error(), errorDetails(err))
}
