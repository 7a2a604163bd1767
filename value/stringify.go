package value

import (
	"strconv"
	"strings"
	"time"
)

// Stringify renders v as the text that appears when it is interpolated into
// a joined string, or printed for diagnostics.
func (v Value) Stringify() string {
	switch v.kind {
	case KindNull:
		return "<null>"
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return v.d.String()
	case KindString:
		return v.s
	case KindGuid:
		return v.g.String()
	case KindDate:
		return v.t.Format(time.RFC3339)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.Stringify()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		keys := v.obj.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			val, _ := v.obj.Get(k)
			parts[i] = k + "=" + val.Stringify()
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}
