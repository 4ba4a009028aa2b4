package utils

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// OrderedMapToString formats an ordered map into a single bracketed string, keeping insertion order.
// Example: {foo: 1, bar: true} => "[foo=1 bar=true]".
func OrderedMapToString(m orderedmap.OrderedMap[string, any]) string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for el := m.Front(); el != nil; el = el.Next() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(el.Key)
		sb.WriteByte('=')
		sb.WriteString(fmt.Sprint(el.Value))
	}
	sb.WriteByte(']')
	return sb.String()
}
