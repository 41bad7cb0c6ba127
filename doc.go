/*
Package botbridge runs third-party bot plugins on behalf of a chat platform.

A plugin is a Lua unit that defines an entry point named handle. The bridge loads
the unit into its own interpreter state, calls handle with one inbound update and
collects the side effects the plugin asked for as an ordered action list. The
platform decides what to do with the actions; the bridge never delivers anything.

# Plugin contract

A plugin declares one of two call shapes:

	function handle(update, api)
		api.send("hello " .. update.from_username)
		api.send_dm(update.from_user_id, "psst")
		api.send_group("g-1", "hi all", { reply_markup = { inline_keyboard = {} } })
	end

	function handle(update)
		return { reply = "pong" } -- or simply: return "pong"
	end

The shape is chosen from handle's declared parameters before it is called, so
an error raised inside handle is always reported as such. A returned string, or
a returned table's reply (then text) field, becomes one trailing send action.

Sibling modules in the plugin's directory can be loaded with require. Given a
directory instead of a file, the bridge loads main.lua, or the main file named
by a plugin.yaml manifest.

# Usage

	bridge := botbridge.New(botbridge.WithLogger(logger))
	actions, err := bridge.Invoke(ctx, "./bots/echo.lua", update)
	if err != nil {
		// errors.Is(err, domain.ErrLoad | domain.ErrContract | domain.ErrHandler)
	}

The botbridge command (cmd/botbridge) wraps this in the one-shot stdin/stdout
protocol: one JSON update in, one JSON envelope line out, exit code 0, 1 or 2.
*/
package botbridge
