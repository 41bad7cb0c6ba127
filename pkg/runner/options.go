package runner

import (
	"io"
	"log/slog"

	"github.com/aretw0/botbridge"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInput sets where the request body is read from (default: os.Stdin).
func WithInput(r io.Reader) Option {
	return func(rn *Runner) {
		rn.Input = r
	}
}

// WithOutput sets where the response line is written (default: os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(rn *Runner) {
		rn.Output = w
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rn *Runner) {
		rn.Logger = logger
	}
}

// WithBridge configures the bridge used for Loading and Invoking.
func WithBridge(b *botbridge.Bridge) Option {
	return func(rn *Runner) {
		rn.bridge = b
	}
}
