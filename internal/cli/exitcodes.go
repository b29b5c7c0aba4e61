package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/rtftplint/internal/configloader"
	"github.com/yaklabco/rtftplint/pkg/fsutil"
	"github.com/yaklabco/rtftplint/pkg/runner"
)

// Exit codes for rtftplint.
const (
	// ExitSuccess indicates every template is well formed.
	ExitSuccess = 0

	// ExitInvalidTemplates indicates at least one template is invalid or unreadable.
	ExitInvalidTemplates = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrInvalidTemplates is returned when validation found failing templates.
// The failures have already been reported, so callers should not log it.
var ErrInvalidTemplates = errors.New("invalid templates found")

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func usageError(format string, args ...any) error {
	return withExitCode(ExitInvalidUsage, fmt.Errorf(format, args...))
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	var validationErr *configloader.ValidationError

	switch {
	case errors.Is(err, ErrInvalidTemplates):
		return ExitInvalidTemplates
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, runner.ErrUnsupportedFile):
		return ExitInvalidUsage
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
