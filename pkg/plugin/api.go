package plugin

import (
	"github.com/aretw0/botbridge/internal/luaconv"
	"github.com/aretw0/botbridge/pkg/recorder"
	lua "github.com/yuin/gopher-lua"
)

// apiBinding exposes a recorder.API to Lua as a table of functions:
//
//	api.send(text [, opts])
//	api.send_dm(user_id, text [, opts])
//	api.send_group(group_id, text [, opts])
//
// Method syntax (api:send(...)) is accepted as well. opts is an optional table;
// its reply_markup field is attached to the action.
type apiBinding struct {
	api  recorder.API
	self *lua.LTable
}

func newAPITable(L *lua.LState, api recorder.API) *lua.LTable {
	tbl := L.NewTable()
	b := &apiBinding{api: api, self: tbl}
	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"send":       b.send,
		"send_dm":    b.sendDM,
		"send_group": b.sendGroup,
	})
	return tbl
}

// base returns the index of the first real argument, skipping the receiver
// when the function was called with method syntax.
func (b *apiBinding) base(L *lua.LState) int {
	if L.GetTop() > 0 && L.Get(1) == b.self {
		return 2
	}
	return 1
}

func (b *apiBinding) send(L *lua.LState) int {
	i := b.base(L)
	text := luaconv.ToString(L, L.CheckAny(i))
	b.api.Send(text, b.options(L, i+1)...)
	return 0
}

func (b *apiBinding) sendDM(L *lua.LState) int {
	i := b.base(L)
	userID := luaconv.ToString(L, L.CheckAny(i))
	text := luaconv.ToString(L, L.CheckAny(i+1))
	b.api.SendDM(userID, text, b.options(L, i+2)...)
	return 0
}

func (b *apiBinding) sendGroup(L *lua.LState) int {
	i := b.base(L)
	groupID := luaconv.ToString(L, L.CheckAny(i))
	text := luaconv.ToString(L, L.CheckAny(i+1))
	b.api.SendGroup(groupID, text, b.options(L, i+2)...)
	return 0
}

func (b *apiBinding) options(L *lua.LState, n int) []recorder.ActionOption {
	switch opts := L.Get(n).(type) {
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		markup := L.GetField(opts, "reply_markup")
		if markup == lua.LNil {
			return nil
		}
		return []recorder.ActionOption{recorder.WithReplyMarkup(luaconv.FromLua(markup))}
	default:
		L.ArgError(n, "options table expected")
		return nil
	}
}
