// Package plugin loads plugin units and exposes their entry point as a Handler.
//
// A unit is loaded into its own execution context; nothing it defines or
// changes is visible to units loaded later, even within the same process.
package plugin

import (
	"context"

	"github.com/aretw0/botbridge/pkg/domain"
	"github.com/aretw0/botbridge/pkg/recorder"
)

// EntryPoint is the name of the function every unit must expose.
const EntryPoint = "handle"

// Loader resolves a path to a fully initialized unit.
type Loader interface {
	// Load runs the unit's top-level code. Failures wrap domain.ErrLoad.
	Load(ctx context.Context, path string) (Unit, error)
}

// Unit is a loaded plugin namespace.
type Unit interface {
	// Lookup returns the named entry point. Failures wrap domain.ErrContract.
	Lookup(name string) (Handler, error)
	// Name is the manifest name, or the file name without extension.
	Name() string
	// Dir is the directory sibling imports resolve against.
	Dir() string
	// Close releases the execution context.
	Close() error
}

// Handler is the capability a unit's entry point offers.
type Handler interface {
	// Signature reports the declared parameters of the entry point.
	Signature() Signature
	// Call invokes the entry point with the update, and with api when it is non-nil.
	// Errors raised by the entry point wrap domain.ErrHandler.
	Call(ctx context.Context, update domain.Update, api recorder.API) (any, error)
}

// Signature describes the declared parameter list of an entry point.
type Signature struct {
	Params   int
	Variadic bool
}

// Accepts reports whether n positional arguments fit the declared parameters.
func (s Signature) Accepts(n int) bool {
	return s.Variadic || s.Params >= n
}
