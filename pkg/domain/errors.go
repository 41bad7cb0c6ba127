package domain

import "errors"

// Error taxonomy. Every failure of an invocation wraps exactly one of these.
var (
	// ErrUsage is returned when the process was invoked with bad arguments.
	ErrUsage = errors.New("usage error")

	// ErrParse is returned when the request body is not a valid JSON value.
	ErrParse = errors.New("parse error")

	// ErrLoad is returned when the plugin path is invalid or the unit fails to initialize.
	ErrLoad = errors.New("load error")

	// ErrContract is returned when the loaded unit exposes no callable handle.
	ErrContract = errors.New("contract error")

	// ErrHandler is returned when the entry point raised during execution.
	ErrHandler = errors.New("handler error")

	// ErrInternal wraps failures of the bridge itself (including recovered panics).
	ErrInternal = errors.New("internal error")
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1 // execution-phase failure (load, contract, handler, internal)
	ExitUsage   = 2 // pre-execution failure (arguments, malformed input)
)

// ExitCode maps an invocation error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage), errors.Is(err, ErrParse):
		return ExitUsage
	default:
		return ExitFailure
	}
}
