package evaluator

import (
	"sort"
	"strconv"
	"strings"
)

// Stringify renders a value for printing. Object properties come out in
// sorted key order so output is deterministic.
func Stringify(v Value) string {
	var buf strings.Builder
	writeValue(&buf, v, make(map[*Object]bool))
	return buf.String()
}

func writeValue(buf *strings.Builder, v Value, seen map[*Object]bool) {
	switch val := v.(type) {
	case Undefined:
		buf.WriteString("undefined")
	case Int:
		buf.WriteString(strconv.FormatInt(val.Value, 10))
	case Str:
		buf.WriteString(val.Value)
	case *Object:
		writeObject(buf, val, seen)
	default:
		buf.WriteString("unknown")
	}
}

func writeObject(buf *strings.Builder, obj *Object, seen map[*Object]bool) {
	if obj.Invocable() {
		buf.WriteString("function ")
		buf.WriteString(obj.Name())
		return
	}
	// The global environment references itself; cycles print as ...
	if seen[obj] {
		buf.WriteString("...")
		return
	}
	seen[obj] = true
	defer delete(seen, obj)

	keys := make([]string, 0, len(obj.props))
	for key := range obj.props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buf.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(" ")
		buf.WriteString(key)
		buf.WriteString(": ")
		writeValue(buf, obj.props[key], seen)
	}
	buf.WriteString(" }")
}
