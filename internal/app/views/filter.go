package views

import (
	"strconv"
	"strings"
	"time"
)

// Criteria is an AND of a free-text search and per-field equality tests.
// Equality keys that are not schema fields are ignored.
type Criteria struct {
	Search string
	Equals map[string]string
}

// IsEmpty reports whether the criteria match everything
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Search) == "" && len(c.Equals) == 0
}

// Filter returns the items matching every criterion, in their original order.
// A missing field never matches.
func Filter[T any](items []T, schema Schema[T], criteria Criteria) []T {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	type test struct {
		field Field[T]
		want  string
	}
	tests := make([]test, 0, len(criteria.Equals))
	for name, want := range criteria.Equals {
		if f, ok := schema.Field(name); ok && want != "" {
			tests = append(tests, test{field: f, want: want})
		}
	}

	var searchFields []Field[T]
	if search != "" {
		for _, name := range schema.Search {
			if f, ok := schema.Field(name); ok {
				searchFields = append(searchFields, f)
			}
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if search != "" && !matchesSearch(item, searchFields, search) {
			continue
		}
		matched := true
		for _, tt := range tests {
			if !equals(tt.field.Value(item), tt.want) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch[T any](item T, fields []Field[T], needle string) bool {
	for _, f := range fields {
		if s, ok := f.Value(item).(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// equals compares a field value against a query-string value
func equals(value any, want string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.EqualFold(v, want)
	case []string:
		for _, id := range v {
			if id == want {
				return true
			}
		}
		return false
	case bool:
		b, err := strconv.ParseBool(want)
		return err == nil && b == v
	case float64:
		n, err := strconv.ParseFloat(want, 64)
		return err == nil && n == v
	case time.Time:
		if d, err := time.Parse("2006-01-02", want); err == nil {
			y1, m1, d1 := v.Date()
			y2, m2, d2 := d.Date()
			return y1 == y2 && m1 == m2 && d1 == d2
		}
		return false
	}
	return false
}
