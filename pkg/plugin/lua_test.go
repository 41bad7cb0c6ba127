package plugin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/aretw0/botbridge/pkg/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLua(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func loadHandler(t *testing.T, path string) (Unit, Handler) {
	t.Helper()
	unit, err := NewLuaLoader().Load(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { unit.Close() })

	h, err := unit.Lookup(EntryPoint)
	require.NoError(t, err)
	return unit, h
}

func TestLuaLoader_GlobalEntryPoint(t *testing.T) {
	_, h := loadHandler(t, "testdata/echo")

	ret, err := h.Call(context.Background(), domain.NewUpdate(map[string]any{"text": "ping"}), nil)
	require.NoError(t, err)
	assert.Equal(t, "echo: ping", ret)
}

func TestLuaLoader_ProjectWithSiblingModules(t *testing.T) {
	unit, h := loadHandler(t, "testdata/project")
	assert.Equal(t, "greeter", unit.Name())
	assert.True(t, h.Signature().Accepts(2))

	rec := recorder.New()
	ret, err := h.Call(context.Background(), domain.NewUpdate(map[string]any{"from": "ana"}), rec)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"reply": "done"}, ret)
	assert.Equal(t, domain.ActionList{{Type: domain.ActionSend, Text: "*hello, ana*"}}, rec.Actions())
}

func TestLuaLoader_ReturnedTableIsNamespace(t *testing.T) {
	path := writeLua(t, t.TempDir(), "mod.lua", `
function handle(update) return "global" end
return { handle = function(update) return "module" end }
`)
	_, h := loadHandler(t, path)

	ret, err := h.Call(context.Background(), domain.EmptyUpdate(), nil)
	require.NoError(t, err)
	assert.Equal(t, "module", ret)
}

func TestLuaLoader_Signature(t *testing.T) {
	tests := []struct {
		src  string
		want Signature
	}{
		{`function handle() end`, Signature{Params: 0}},
		{`function handle(update) end`, Signature{Params: 1}},
		{`function handle(update, api) end`, Signature{Params: 2}},
		{`function handle(update, api, extra) end`, Signature{Params: 3}},
		{`function handle(...) end`, Signature{Variadic: true}},
		{`function handle(update, ...) end`, Signature{Params: 1, Variadic: true}},
		{`handle = print`, Signature{Variadic: true}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, h := loadHandler(t, writeLua(t, t.TempDir(), "p.lua", tt.src))
			assert.Equal(t, tt.want, h.Signature())
		})
	}
}

func TestLuaLoader_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "missing.lua"), "missing.lua"},
		{"syntax", writeLua(t, dir, "syntax.lua", "function handle(update"), "syntax.lua"},
		{"raises", writeLua(t, dir, "raises.lua", `error("cannot start")`), "cannot start"},
		{"bad require", writeLua(t, dir, "req.lua", `require("does_not_exist")`), "does_not_exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLuaLoader().Load(context.Background(), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrLoad)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLuaUnit_LookupErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"absent", `local x = 1`, "plugin must define callable handle(update[, api])"},
		{"not callable", `handle = 5`, "handle is a number, not a function"},
		{"absent from module table", `function handle() end return {}`, "plugin must define callable handle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := NewLuaLoader().Load(context.Background(), writeLua(t, dir, tt.name+".lua", tt.src))
			require.NoError(t, err)
			defer unit.Close()

			_, err = unit.Lookup(EntryPoint)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrContract)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLuaHandler_RaisedErrorWrapsHandler(t *testing.T) {
	_, h := loadHandler(t, writeLua(t, t.TempDir(), "p.lua", `function handle(update) error("bad input") end`))

	_, err := h.Call(context.Background(), domain.EmptyUpdate(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHandler)
	assert.Contains(t, err.Error(), "bad input")
}

func TestLuaHandler_ContextCancel(t *testing.T) {
	_, h := loadHandler(t, writeLua(t, t.TempDir(), "p.lua", `function handle(update) while true do end end`))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.Call(ctx, domain.EmptyUpdate(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHandler)
}

func TestLuaLoader_PrintGoesToWriter(t *testing.T) {
	var buf bytes.Buffer
	path := writeLua(t, t.TempDir(), "p.lua", `
print("loaded", 1)
function handle(update) print("handled", update.n, nil) end
`)
	unit, err := NewLuaLoader(WithPrintWriter(&buf)).Load(context.Background(), path)
	require.NoError(t, err)
	defer unit.Close()

	h, err := unit.Lookup(EntryPoint)
	require.NoError(t, err)
	_, err = h.Call(context.Background(), domain.NewUpdate(map[string]any{"n": float64(2)}), nil)
	require.NoError(t, err)

	assert.Equal(t, "loaded\t1\nhandled\t2\tnil\n", buf.String())
}

func TestLuaLoader_IsolatedModulePaths(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeLua(t, first, "helper.lua", `return "first"`)
	writeLua(t, second, "helper.lua", `return "second"`)
	src := `
local helper = require("helper")
function handle(update) return helper .. " " .. package.path end
`
	_, h1 := loadHandler(t, writeLua(t, first, "main.lua", src))
	_, h2 := loadHandler(t, writeLua(t, second, "main.lua", src))

	ret1, err := h1.Call(context.Background(), domain.EmptyUpdate(), nil)
	require.NoError(t, err)
	ret2, err := h2.Call(context.Background(), domain.EmptyUpdate(), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ret1.(string), "first "+filepath.Join(first, "?.lua")))
	assert.True(t, strings.HasPrefix(ret2.(string), "second "+filepath.Join(second, "?.lua")))
	assert.NotContains(t, ret2, first)
}

func TestLuaLoader_StateNotShared(t *testing.T) {
	path := writeLua(t, t.TempDir(), "p.lua", `
counter = (counter or 0) + 1
function handle(update) return counter end
`)
	for i := 0; i < 2; i++ {
		_, h := loadHandler(t, path)
		ret, err := h.Call(context.Background(), domain.EmptyUpdate(), nil)
		require.NoError(t, err)
		assert.Equal(t, float64(1), ret)
	}
}

func TestAPI_Binding(t *testing.T) {
	_, h := loadHandler(t, writeLua(t, t.TempDir(), "p.lua", `
function handle(update, api)
  api.send("plain")
  api:send("method")
  api.send_dm(update.user, "dm", { reply_markup = { force_reply = true } })
  api:send_group(-100, 12.5)
  api.send("no markup", {})
end
`))

	rec := recorder.New()
	_, err := h.Call(context.Background(), domain.NewUpdate(map[string]any{"user": float64(7)}), rec)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionList{
		{Type: domain.ActionSend, Text: "plain"},
		{Type: domain.ActionSend, Text: "method"},
		{Type: domain.ActionSendDM, UserID: "7", Text: "dm", ReplyMarkup: map[string]any{"force_reply": true}},
		{Type: domain.ActionSendGroup, GroupID: "-100", Text: "12.5"},
		{Type: domain.ActionSend, Text: "no markup"},
	}, rec.Actions())
}

func TestAPI_BadArguments(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing text", `api.send()`},
		{"missing dm text", `api.send_dm(1)`},
		{"options not a table", `api.send("x", 5)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "function handle(update, api) " + tt.body + " end"
			_, h := loadHandler(t, writeLua(t, t.TempDir(), "p.lua", src))

			rec := recorder.New()
			_, err := h.Call(context.Background(), domain.EmptyUpdate(), rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrHandler)
			assert.Zero(t, rec.Len())
		})
	}
}

func TestLuaLoader_IOWriteGoesToWriter(t *testing.T) {
	var buf bytes.Buffer
	path := writeLua(t, t.TempDir(), "p.lua", `
io.write("a", 1, "\n")
function handle(update)
  io.stdout:write("b\n"):write("c\n")
  io.output():write("d\n")
  io.output(io.stdout)
  io.write(tostring(io.stdout), "\n")
  local ok, err = io.close()
  return err
end
`)
	unit, err := NewLuaLoader(WithPrintWriter(&buf)).Load(context.Background(), path)
	require.NoError(t, err)
	defer unit.Close()

	h, err := unit.Lookup(EntryPoint)
	require.NoError(t, err)
	ret, err := h.Call(context.Background(), domain.EmptyUpdate(), nil)
	require.NoError(t, err)

	assert.Equal(t, "a1\nb\nc\nd\nfile (stdout)\n", buf.String())
	assert.Equal(t, "cannot close standard file", ret)
}

func TestLuaLoader_IOOutputToFile(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	path := writeLua(t, dir, "p.lua", `
function handle(update)
  io.output("`+filepath.ToSlash(out)+`")
  io.write("to file")
  io.close()
  io.output(io.stdout)
  io.write("back")
end
`)
	unit, err := NewLuaLoader(WithPrintWriter(&buf)).Load(context.Background(), path)
	require.NoError(t, err)
	defer unit.Close()

	h, err := unit.Lookup(EntryPoint)
	require.NoError(t, err)
	_, err = h.Call(context.Background(), domain.EmptyUpdate(), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "to file", string(data))
	assert.Equal(t, "back", buf.String())
}
