package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/botbridge/internal/logging"
	"github.com/aretw0/botbridge/internal/luaconv"
	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/aretw0/botbridge/pkg/recorder"
	lua "github.com/yuin/gopher-lua"
)

// LuaLoader loads Lua 5.1 source units, one interpreter state per unit.
type LuaLoader struct {
	printWriter io.Writer
	logger      *slog.Logger
}

// LuaOption configures a LuaLoader.
type LuaOption func(*LuaLoader)

// WithPrintWriter sets where the unit's print() and io.write() output goes
// (default: stderr).
// Stdout is reserved for the response envelope.
func WithPrintWriter(w io.Writer) LuaOption {
	return func(l *LuaLoader) {
		l.printWriter = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) LuaOption {
	return func(l *LuaLoader) {
		l.logger = logger
	}
}

// NewLuaLoader creates a loader for Lua units.
func NewLuaLoader(opts ...LuaOption) *LuaLoader {
	l := &LuaLoader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.printWriter == nil {
		l.printWriter = os.Stderr
	}
	if l.logger == nil {
		l.logger = logging.NewNop()
	}
	return l
}

var _ Loader = (*LuaLoader)(nil)

// Load resolves path, creates a fresh interpreter state whose package.path
// starts with the unit's directory, and runs the unit's top-level chunk.
// If the chunk returns a table, that table is the unit's namespace; otherwise
// the global table is.
func (l *LuaLoader) Load(ctx context.Context, path string) (Unit, error) {
	target, err := Resolve(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	L := lua.NewState()
	L.SetContext(ctx)
	prependPackagePath(L, target.Dir)
	L.SetGlobal("print", L.NewFunction(l.print))
	redirectStdout(L, l.printWriter)

	fn, err := L.LoadFile(target.Path)
	if err != nil {
		L.Close()
		l.logger.Debug("plugin compile failed", "path", target.Path, "error", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrLoad, describe(err))
	}

	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		L.Close()
		l.logger.Debug("plugin initialization failed", "path", target.Path, "error", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrLoad, describe(err))
	}
	ret := L.Get(-1)
	L.Pop(1)

	namespace := L.G.Global
	if tbl, ok := ret.(*lua.LTable); ok {
		namespace = tbl
	}

	l.logger.Debug("plugin loaded",
		"path", target.Path,
		"dir", target.Dir,
		"module", namespace != L.G.Global,
		"duration", time.Since(start),
	)

	return &luaUnit{
		state:     L,
		namespace: namespace,
		target:    target,
	}, nil
}

func (l *LuaLoader) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, luaconv.ToString(L, L.Get(i)))
	}
	fmt.Fprintln(l.printWriter, strings.Join(parts, "\t"))
	return 0
}

// prependPackagePath makes require() look in dir first. The change lives in
// this state's package table only.
func prependPackagePath(L *lua.LState, dir string) {
	pkg, ok := L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	local := filepath.Join(dir, "?.lua") + ";" + filepath.Join(dir, "?", "init.lua")
	if current := lua.LVAsString(pkg.RawGetString("path")); current != "" {
		local += ";" + current
	}
	pkg.RawSetString("path", lua.LString(local))
}

// describe extracts the Lua error message without the Go-side stack trace.
func describe(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return apiErr.Object.String()
	}
	return err.Error()
}

type luaUnit struct {
	state     *lua.LState
	namespace *lua.LTable
	target    Target
}

func (u *luaUnit) Lookup(name string) (Handler, error) {
	v := u.state.GetField(u.namespace, name)
	switch fn := v.(type) {
	case *lua.LFunction:
		return &luaHandler{state: u.state, fn: fn}, nil
	case *lua.LNilType:
		return nil, fmt.Errorf("%w: plugin must define callable %s(update[, api])", domain.ErrContract, name)
	default:
		return nil, fmt.Errorf("%w: %s is a %s, not a function", domain.ErrContract, name, v.Type())
	}
}

func (u *luaUnit) Name() string {
	return u.target.Name()
}

func (u *luaUnit) Dir() string {
	return u.target.Dir
}

func (u *luaUnit) Close() error {
	u.state.Close()
	return nil
}

type luaHandler struct {
	state *lua.LState
	fn    *lua.LFunction
}

// Signature reads the declared parameter count from the compiled prototype.
// Go functions carry no prototype and are treated as variadic.
func (h *luaHandler) Signature() Signature {
	if h.fn.IsG || h.fn.Proto == nil {
		return Signature{Variadic: true}
	}
	return Signature{
		Params:   int(h.fn.Proto.NumParameters),
		Variadic: h.fn.Proto.IsVarArg != 0,
	}
}

func (h *luaHandler) Call(ctx context.Context, update domain.Update, api recorder.API) (any, error) {
	L := h.state
	L.SetContext(ctx)

	args := []lua.LValue{luaconv.ToLua(L, update.Value())}
	if api != nil {
		args = append(args, newAPITable(L, api))
	}

	if err := L.CallByParam(lua.P{Fn: h.fn, NRet: 1, Protect: true}, args...); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrHandler, describe(err))
	}
	ret := L.Get(-1)
	L.Pop(1)
	return luaconv.FromLua(ret), nil
}
