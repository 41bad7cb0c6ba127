/*
Package runner implements the one-shot stdin/stdout protocol around a Bridge.

A Run walks a fixed sequence of states and never branches back:

	ReadingInput -> Loading -> Invoking -> Emitting -> Done

Every failure, including a panic inside the bridge, is turned into the failure
envelope; the process never ends without writing exactly one response line.

# Exit codes

  - 0: the plugin ran and the actions were emitted.
  - 1: loading, the entry point lookup or the plugin itself failed.
  - 2: the invocation was wrong (missing plugin path) or the body was not JSON.

# Usage

	r := runner.New(
		runner.WithBridge(botbridge.New()),
		runner.WithLogger(logger),
	)
	os.Exit(r.Run(ctx, os.Args[1:]))
*/
package runner
