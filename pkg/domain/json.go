package domain

import (
	"bytes"
	"encoding/json"
)

// encodeJSON marshals v without HTML escaping and without the trailing newline
// json.Encoder appends. Non-ASCII text is written as-is.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
