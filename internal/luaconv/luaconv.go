// Package luaconv converts values between decoded JSON trees and Lua values.
package luaconv

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/aretw0/botbridge/pkg/recorder"
	lua "github.com/yuin/gopher-lua"
)

// ToLua converts a decoded JSON tree into Lua values owned by L.
// Objects and arrays become tables; arrays are 1-based. A JSON null inside an
// array leaves a hole, which is how Lua represents it.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case float64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return lua.LString(val.String())
		}
		return lua.LNumber(f)
	case map[string]any:
		tbl := L.CreateTable(0, len(val))
		for k, item := range val {
			tbl.RawSetString(k, ToLua(L, item))
		}
		return tbl
	case []any:
		tbl := L.CreateTable(len(val), 0)
		for i, item := range val {
			tbl.RawSetInt(i+1, ToLua(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// FromLua converts a Lua value into a JSON-compatible Go value.
// Tables whose keys are exactly 1..n become []any, other tables become
// map[string]any (non-string keys are stringified). Functions, userdata,
// threads and cyclic references become nil.
func FromLua(v lua.LValue) any {
	return fromLua(v, map[*lua.LTable]bool{})
}

func fromLua(v lua.LValue, seen map[*lua.LTable]bool) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LTable:
		if seen[val] {
			return nil
		}
		seen[val] = true
		defer delete(seen, val)
		return tableToGo(val, seen)
	default:
		return nil
	}
}

func tableToGo(tbl *lua.LTable, seen map[*lua.LTable]bool) any {
	isArray := true
	maxIndex := 0
	count := 0
	tbl.ForEach(func(k, _ lua.LValue) {
		count++
		if !isArray {
			return
		}
		n, ok := k.(lua.LNumber)
		if !ok || float64(n) < 1 || float64(n) != math.Trunc(float64(n)) {
			isArray = false
			return
		}
		if int(n) > maxIndex {
			maxIndex = int(n)
		}
	})

	if count == 0 {
		return map[string]any{}
	}

	if isArray && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			result = append(result, fromLua(tbl.RawGetInt(i), seen))
		}
		return result
	}

	output := make(map[string]any, count)
	tbl.ForEach(func(k, item lua.LValue) {
		switch key := k.(type) {
		case lua.LString:
			output[string(key)] = fromLua(item, seen)
		case lua.LNumber:
			output[recorder.FormatNumber(float64(key))] = fromLua(item, seen)
		}
	})
	return output
}

// ToString renders a Lua value the way Lua's tostring does, honouring __tostring
// metamethods, except that numbers use recorder.FormatNumber.
func ToString(L *lua.LState, v lua.LValue) string {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return recorder.FormatNumber(float64(val))
	default:
		return L.ToStringMeta(v).String()
	}
}
