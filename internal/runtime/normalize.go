package runtime

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// replyShape is the part of a returned mapping that can produce a reply.
type replyShape struct {
	Reply any `mapstructure:"reply"`
	Text  any `mapstructure:"text"`
}

// ImplicitReply derives the text of the implicit send action from a handler's
// return value.
//
//   - a non-blank string is the reply itself;
//   - a mapping picks its "reply" field when that field is truthy, otherwise
//     its "text" field, and yields the picked value if it is a non-blank string;
//   - anything else yields nothing.
//
// Keys match exactly. Blank means empty after trimming whitespace; the
// returned text is untrimmed.
func ImplicitReply(ret any) (string, bool) {
	switch v := ret.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v, true
		}
	case map[string]any:
		shape, err := decodeReply(v)
		if err != nil {
			return "", false
		}
		picked := shape.Text
		if truthy(shape.Reply) {
			picked = shape.Reply
		}
		if s, ok := picked.(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func decodeReply(m map[string]any) (replyShape, error) {
	var shape replyShape
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &shape,
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err != nil {
		return shape, err
	}
	return shape, dec.Decode(m)
}

// truthy reports whether v counts as set: nil, false, zero, the empty
// string and empty containers do not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case map[string]any:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}
