package botbridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/botbridge/internal/logging"
	"github.com/aretw0/botbridge/internal/runtime"
	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/aretw0/botbridge/pkg/plugin"
	"github.com/aretw0/botbridge/pkg/recorder"
)

// Bridge is the high-level entry point of the library.
// It loads one plugin unit per call, invokes its entry point and returns the
// normalized action list. A Bridge holds no per-invocation state and can be
// reused; every Invoke gets a fresh execution context.
type Bridge struct {
	loader  plugin.Loader
	adapter *runtime.Adapter
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Bridge.
type Option func(*Bridge)

// WithLoader injects a custom plugin.Loader, bypassing the default Lua loader.
func WithLoader(l plugin.Loader) Option {
	return func(b *Bridge) {
		b.loader = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bridge) {
		b.hooks = hooks
	}
}

// New initializes a Bridge. Without WithLoader it loads Lua units and sends
// their print() output to stderr.
func New(opts ...Option) *Bridge {
	b := &Bridge{}
	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.loader == nil {
		b.loader = plugin.NewLuaLoader(plugin.WithLogger(b.logger))
	}

	b.adapter = runtime.NewAdapter(
		runtime.WithLogger(b.logger),
		runtime.WithLifecycleHooks(b.hooks),
	)
	return b
}

// Invoke loads the unit at path, calls its entry point with update and returns
// the actions it produced, in emission order.
//
// Errors wrap domain.ErrLoad, domain.ErrContract or domain.ErrHandler.
func (b *Bridge) Invoke(ctx context.Context, path string, update domain.Update) (domain.ActionList, error) {
	start := time.Now()
	actions, err := b.invoke(ctx, path, update)

	if b.hooks.OnComplete != nil {
		b.hooks.OnComplete(ctx, &domain.CompleteEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventComplete, Plugin: path},
			Duration:  time.Since(start),
			Actions:   len(actions),
			Err:       err,
		})
	}
	return actions, err
}

func (b *Bridge) invoke(ctx context.Context, path string, update domain.Update) (domain.ActionList, error) {
	loadStart := time.Now()
	unit, err := b.loader.Load(ctx, path)
	if b.hooks.OnLoad != nil {
		ev := &domain.LoadEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLoad, Plugin: path},
			Duration:  time.Since(loadStart),
			Err:       err,
		}
		if unit != nil {
			ev.Dir = unit.Dir()
		}
		b.hooks.OnLoad(ctx, ev)
	}
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	logger := b.logger.With("unit", unit.Name())

	handler, err := unit.Lookup(plugin.EntryPoint)
	if err != nil {
		return nil, err
	}

	rec := recorder.New()
	if err := b.adapter.Invoke(ctx, unit.Name(), handler, update, rec); err != nil {
		logger.Debug("entry point failed", "error", err, "recorded", rec.Len())
		return nil, err
	}

	actions := rec.Actions()
	if b.hooks.OnAction != nil {
		for _, action := range actions {
			b.hooks.OnAction(ctx, &domain.ActionEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAction, Plugin: path},
				Action:    action,
			})
		}
	}
	logger.Debug("invocation finished", "actions", len(actions))
	return actions, nil
}
