package views

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction of a sort
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection defaults to ascending
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// Sort returns a stably sorted copy of items. Strings compare with the
// locale's collation, numbers and dates numerically. Missing values sort as
// "" or 0. An unknown key returns the items in their original order.
func Sort[T any](items []T, schema Schema[T], key string, dir Direction, locale string) []T {
	field, ok := schema.Field(key)
	if !ok {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	cmp := comparer(field.Kind, locale)
	keys := make([]any, len(items))
	for i, item := range items {
		keys[i] = field.Value(item)
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		c := cmp(keys[idx[a]], keys[idx[b]])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	return sorted
}

func comparer(kind Kind, locale string) func(a, b any) int {
	switch kind {
	case KindNumber:
		return func(a, b any) int { return compareFloat(asFloat(a), asFloat(b)) }
	case KindDate:
		return func(a, b any) int { return compareFloat(asUnix(a), asUnix(b)) }
	case KindBool:
		return func(a, b any) int { return compareFloat(asBoolNum(a), asBoolNum(b)) }
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	col := collate.New(tag, collate.IgnoreCase)
	return func(a, b any) int { return col.CompareString(asString(a), asString(b)) }
}

func compareFloat(a, b float64) int {
	switch d := a - b; {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []string:
		if len(s) > 0 {
			return s[0]
		}
	}
	return ""
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func asUnix(v any) float64 {
	t, ok := v.(time.Time)
	if !ok {
		return 0
	}
	return float64(t.UnixMilli())
}

func asBoolNum(v any) float64 {
	if b, _ := v.(bool); b {
		return 1
	}
	return 0
}
