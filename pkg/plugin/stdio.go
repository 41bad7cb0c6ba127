package plugin

import (
	"io"

	"github.com/aretw0/botbridge/pkg/recorder"
	lua "github.com/yuin/gopher-lua"
)

// stdoutRedirect rebinds the parts of the io library that reach the process's
// stdout (io.write, io.stdout and the default output file) to w.
// Files opened explicitly by the plugin keep working through io.output(f).
type stdoutRedirect struct {
	w       io.Writer
	stdout  *lua.LTable
	current lua.LValue
	output  lua.LValue
	closer  lua.LValue
}

func redirectStdout(L *lua.LState, w io.Writer) {
	lib, ok := L.GetGlobal("io").(*lua.LTable)
	if !ok {
		return
	}
	r := &stdoutRedirect{
		w:      w,
		output: lib.RawGetString("output"),
		closer: lib.RawGetString("close"),
	}

	methods := L.NewTable()
	L.SetFuncs(methods, map[string]lua.LGFunction{
		"write":   r.fileWrite,
		"flush":   r.self,
		"setvbuf": r.self,
		"close":   r.close,
	})
	meta := L.NewTable()
	meta.RawSetString("__index", methods)
	meta.RawSetString("__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("file (stdout)"))
		return 1
	}))
	r.stdout = L.NewTable()
	L.SetMetatable(r.stdout, meta)
	r.current = r.stdout

	lib.RawSetString("stdout", r.stdout)
	lib.RawSetString("write", L.NewFunction(r.write))
	lib.RawSetString("output", L.NewFunction(r.setOutput))
	lib.RawSetString("close", L.NewFunction(r.closeFile))
}

// emit writes arguments from index first on, the way io.write accepts them.
func (r *stdoutRedirect) emit(L *lua.LState, first int) {
	for i := first; i <= L.GetTop(); i++ {
		switch v := L.Get(i).(type) {
		case lua.LString:
			io.WriteString(r.w, string(v))
		case lua.LNumber:
			io.WriteString(r.w, recorder.FormatNumber(float64(v)))
		default:
			L.ArgError(i, "string expected, got "+v.Type().String())
		}
	}
}

func (r *stdoutRedirect) write(L *lua.LState) int {
	if r.current == r.stdout {
		r.emit(L, 1)
		L.Push(r.stdout)
		return 1
	}
	args := []lua.LValue{r.current}
	for i := 1; i <= L.GetTop(); i++ {
		args = append(args, L.Get(i))
	}
	L.CallByParam(lua.P{Fn: L.GetField(r.current, "write"), NRet: 1}, args...)
	return 1
}

func (r *stdoutRedirect) fileWrite(L *lua.LState) int {
	r.emit(L, 2)
	L.Push(r.stdout)
	return 1
}

func (r *stdoutRedirect) self(L *lua.LState) int {
	L.Push(r.stdout)
	return 1
}

func (r *stdoutRedirect) close(L *lua.LState) int {
	L.Push(lua.LNil)
	L.Push(lua.LString("cannot close standard file"))
	return 2
}

func (r *stdoutRedirect) setOutput(L *lua.LState) int {
	if L.GetTop() == 0 || L.Get(1) == lua.LNil {
		L.Push(r.current)
		return 1
	}
	if L.Get(1) == r.stdout {
		r.current = r.stdout
		L.Push(r.current)
		return 1
	}
	L.CallByParam(lua.P{Fn: r.output, NRet: 1}, L.Get(1))
	r.current = L.Get(-1)
	return 1
}

func (r *stdoutRedirect) closeFile(L *lua.LState) int {
	file := L.Get(1)
	if L.GetTop() == 0 || file == lua.LNil {
		file = r.current
	}
	if file == r.stdout {
		return r.close(L)
	}
	top := L.GetTop()
	L.CallByParam(lua.P{Fn: r.closer, NRet: lua.MultRet}, file)
	return L.GetTop() - top
}
