package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/botbridge"
	"github.com/aretw0/botbridge/internal/logging"
	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/google/uuid"
)

// Runner drives one invocation through the stdin/stdout protocol.
type Runner struct {
	// Input is the request body stream. Defaults to os.Stdin.
	Input io.Reader

	// Output receives the response line. Defaults to os.Stdout.
	Output io.Writer

	// Logger is used for diagnostics. It must not write to Output.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	bridge *botbridge.Bridge
}

// New creates a Runner. Without WithBridge it uses botbridge.New with the
// runner's logger.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Input == nil {
		r.Input = os.Stdin
	}
	if r.Output == nil {
		r.Output = os.Stdout
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.bridge == nil {
		r.bridge = botbridge.New(botbridge.WithLogger(r.Logger))
	}
	return r
}

// Run executes one invocation. args are the positional arguments; the first
// one is the plugin path. It returns the process exit code and has always
// written exactly one response line to Output when it returns.
func (r *Runner) Run(ctx context.Context, args []string) int {
	handler := NewJSONHandler(r.Input, r.Output)
	logger := r.Logger.With("invocation", uuid.NewString())

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		err := fmt.Errorf("%w: plugin path argument required", domain.ErrUsage)
		logger.Warn("invalid invocation", "error", err)
		return r.emit(handler, logger, domain.Failure(err), domain.ExitCode(err))
	}
	path := args[0]
	logger = logger.With("plugin", path)

	// ReadingInput
	if handler.Interactive() {
		logger.Warn("reading update from a terminal, end input with Ctrl-D")
	}
	update, err := handler.ReadUpdate()
	if err != nil {
		logger.Warn("rejected request body", "error", err)
		return r.emit(handler, logger, domain.Failure(err), domain.ExitCode(err))
	}

	// Loading + Invoking
	actions, err := r.invoke(ctx, path, update)
	if err != nil {
		logger.Warn("invocation failed", "error", err)
		return r.emit(handler, logger, domain.Failure(err), domain.ExitCode(err))
	}

	logger.Info("invocation succeeded", "actions", len(actions))
	return r.emit(handler, logger, domain.Success(actions), domain.ExitOK)
}

// Fail writes the failure envelope for err without loading anything and
// returns the exit code for it. It is used for errors found before Run, such
// as bad command line flags.
func (r *Runner) Fail(err error) int {
	return r.emit(NewJSONHandler(r.Input, r.Output), r.Logger, domain.Failure(err), domain.ExitCode(err))
}

// invoke is the fault boundary: nothing raised below it escapes as a panic.
func (r *Runner) invoke(ctx context.Context, path string, update domain.Update) (actions domain.ActionList, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			actions = nil
			err = fmt.Errorf("%w: %v", domain.ErrInternal, rec)
		}
	}()
	return r.bridge.Invoke(ctx, path, update)
}

// emit is the Emitting state. A response that cannot be encoded is replaced
// by an internal failure so the line written is always a valid envelope.
func (r *Runner) emit(handler *JSONHandler, logger *slog.Logger, resp domain.Response, code int) int {
	line, err := resp.Encode()
	if err != nil {
		logger.Error("failed to encode response", "error", err)
		resp = domain.Failure(fmt.Errorf("%w: failed to encode response: %v", domain.ErrInternal, err))
		code = domain.ExitFailure
		if line, err = resp.Encode(); err != nil {
			line = []byte(`{"ok":false,"error":"internal error"}`)
		}
	}

	if err := handler.WriteLine(line); err != nil {
		logger.Error("failed to write response", "error", err)
		if code == domain.ExitOK {
			code = domain.ExitFailure
		}
	}
	return code
}
