package cli

import (
	"errors"

	"github.com/yaklabco/mdsync/pkg/runner"
)

// Exit codes for mdsync.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitUnresolved indicates a strict run left blocks unresolved, or a
	// lookup found nothing.
	ExitUnresolved = 1

	// ExitFailure indicates any other failure.
	ExitFailure = 2

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates files could not be read or written.
	ExitIOError = 74
)

// ErrFilesFailed is returned when some files could not be processed.
var ErrFilesFailed = errors.New("some files could not be processed")

// ExitCodeFromResult determines the exit code of a span run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}
	if strict && result.HasUnresolved() {
		return ExitUnresolved
	}
	if result.HasErrors() {
		return ExitIOError
	}
	return ExitSuccess
}

// ExitCodeForError maps a command error to the process exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUnresolvedBlocks), errors.Is(err, ErrNoMatch):
		return ExitUnresolved
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrFilesFailed):
		return ExitIOError
	default:
		return ExitFailure
	}
}

// IsSignal reports whether err only selects the exit code and needs no
// log line.
func IsSignal(err error) bool {
	return errors.Is(err, ErrUnresolvedBlocks) || errors.Is(err, ErrNoMatch)
}
