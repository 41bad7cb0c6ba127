package recorder

import (
	"fmt"
	"math"
	"strconv"
)

// Stringify converts an arbitrary value into the string form stored on an action.
// Integral floats are printed without a fractional part so that ids decoded from
// JSON numbers ("user_id": 42) round-trip as "42".
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	case float64:
		return FormatNumber(val)
	case float32:
		return FormatNumber(float64(val))
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// FormatNumber renders a float the way a scripting language prints numbers:
// integers without a decimal point, everything else in shortest form.
func FormatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', 14, 64)
}
