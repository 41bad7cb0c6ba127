package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/botbridge/internal/logging"
	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/aretw0/botbridge/pkg/plugin"
	"github.com/aretw0/botbridge/pkg/recorder"
)

// Adapter calls an entry point with the call shape its declaration accepts and
// folds the return value into the recorder.
type Adapter struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) AdapterOption {
	return func(a *Adapter) {
		a.hooks = hooks
	}
}

// NewAdapter creates an Adapter.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	return a
}

// WantsAPI reports whether the two-argument shape handle(update, api) is used.
// The decision is taken from the declaration alone, before calling, so an
// error raised inside the handler can never be mistaken for an arity mismatch.
func WantsAPI(sig plugin.Signature) bool {
	return sig.Accepts(2)
}

// Invoke calls h exactly once and records its output into rec.
// Actions the handler records directly come first; the implicit reply derived
// from its return value, if any, is appended after them.
func (a *Adapter) Invoke(ctx context.Context, name string, h plugin.Handler, update domain.Update, rec *recorder.Recorder) error {
	sig := h.Signature()
	withAPI := WantsAPI(sig)

	if a.hooks.OnInvoke != nil {
		a.hooks.OnInvoke(ctx, &domain.InvokeEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventInvoke, Plugin: name},
			WithAPI:   withAPI,
		})
	}

	var api recorder.API
	if withAPI {
		api = rec
	}

	a.logger.Debug("calling entry point",
		"params", sig.Params,
		"variadic", sig.Variadic,
		"with_api", withAPI,
	)

	ret, err := h.Call(ctx, update, api)
	if err != nil {
		return err
	}

	if text, ok := ImplicitReply(ret); ok {
		rec.Send(text)
		a.logger.Debug("implicit reply recorded", "length", len(text))
	}
	return nil
}
