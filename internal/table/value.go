package table

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"
)

// NullSentinel is the rendering of a null cell.
const NullSentinel = "NULL"

// Kind is the runtime kind of a single cell value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindTime
	// KindOther covers nested or otherwise unhashable values.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindTime:
		return "datetime"
	case KindOther:
		return "other"
	}
	return ""
}

// KindOf classifies v. A float NaN is null.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case int, int32, int64:
		return KindInt
	case float32:
		if math.IsNaN(float64(x)) {
			return KindNull
		}
		return KindFloat
	case float64:
		if math.IsNaN(x) {
			return KindNull
		}
		return KindFloat
	case bool:
		return KindBool
	case string:
		return KindString
	case time.Time:
		if x.IsZero() {
			return KindNull
		}
		return KindTime
	}
	return KindOther
}

// KindName names the runtime kind of v for mixed-type diagnostics. Nested
// values are named by their Go type.
func KindName(v any) string {
	if k := KindOf(v); k != KindOther {
		return k.String()
	}
	return fmt.Sprintf("%T", v)
}

// IsNull reports whether v is a missing value.
func IsNull(v any) bool { return KindOf(v) == KindNull }

// Float converts numeric cells to float64.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		if math.IsNaN(float64(x)) {
			return 0, false
		}
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	}
	return 0, false
}

// Format renders a cell for display and examples.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return NullSentinel
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return FormatTime(x)
	}
	if IsNull(v) {
		return NullSentinel
	}
	return fmt.Sprint(v)
}

// numberKey renders a numeric cell exactly. Integers and integral floats
// share the plain decimal form at any magnitude.
func numberKey(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	f, _ := Float(v)
	if f == 0 {
		return "0"
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return new(big.Float).SetFloat64(f).Text('f', 0)
}

// FormatTime renders t as ISO-8601.
func FormatTime(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format(time.RFC3339Nano)
	}
	return t.Format(time.RFC3339)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return NullSentinel
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Key returns an equality key for v. Values of different kinds never share a
// key, except int and float cells of equal value. The second result is false
// when v cannot be compared for equality (nested values).
func Key(v any) (string, bool) {
	switch KindOf(v) {
	case KindNull:
		return "z:", true
	case KindInt, KindFloat:
		return "n:" + numberKey(v), true
	case KindBool:
		return "b:" + strconv.FormatBool(v.(bool)), true
	case KindString:
		return "s:" + v.(string), true
	case KindTime:
		return "t:" + v.(time.Time).UTC().Format(time.RFC3339Nano), true
	}
	return "", false
}
