package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Update is the inbound event handed to a plugin.
// It wraps an arbitrary decoded JSON tree (map[string]any, []any, string, float64, bool or nil)
// that the bridge passes through without interpreting.
type Update struct {
	value any
}

// NewUpdate wraps an already decoded value.
func NewUpdate(v any) Update {
	return Update{value: v}
}

// EmptyUpdate returns the update used for an empty request body: an empty mapping.
func EmptyUpdate() Update {
	return Update{value: map[string]any{}}
}

// Value returns the wrapped tree.
func (u Update) Value() any {
	return u.value
}

// MarshalJSON encodes the wrapped tree.
func (u Update) MarshalJSON() ([]byte, error) {
	return encodeJSON(u.value)
}

// ParseUpdate decodes a request body.
// A blank body yields EmptyUpdate. Anything else must be exactly one JSON value,
// optionally surrounded by whitespace.
func ParseUpdate(data []byte) (Update, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return EmptyUpdate(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return Update{}, fmt.Errorf("%w: invalid update json: %v", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Update{}, fmt.Errorf("%w: invalid update json: unexpected data after top-level value", ErrParse)
	}
	return NewUpdate(v), nil
}
