package utils

import (
	"testing"

	"github.com/elliotchance/orderedmap/v2"
)

func TestOrderedMapToString(t *testing.T) {
	m := orderedmap.NewOrderedMap[string, any]()
	if got := OrderedMapToString(*m); got != "[]" {
		t.Fatalf("expected [] for an empty map, got %q", got)
	}

	m.Set("type", "Text")
	m.Set("limit", 30)
	m.Set("count", 31)
	if got := OrderedMapToString(*m); got != "[type=Text limit=30 count=31]" {
		t.Fatalf("unexpected result %q", got)
	}
}
