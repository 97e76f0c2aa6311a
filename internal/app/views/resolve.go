package views

import "github.com/yigit/campusdesk/internal/app/models"

// Placeholder is shown when a reference cannot be resolved
const Placeholder = "N/A"

// Index maps ids to records for reference resolution
type Index[T models.Entity] map[string]T

// NewIndex builds an index over items; later duplicates win.
func NewIndex[T models.Entity](items []T) Index[T] {
	idx := make(Index[T], len(items))
	for _, item := range items {
		if id := item.GetID(); id != "" {
			idx[id] = item
		}
	}
	return idx
}

// Resolve returns the referenced record, preferring the populated object.
// A null reference or an id missing from idx resolves to false.
func Resolve[T models.Entity](ref models.Ref[T], idx Index[T]) (T, bool) {
	if ref.Obj != nil {
		return *ref.Obj, true
	}
	if ref.ID != "" && idx != nil {
		if v, ok := idx[ref.ID]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// DisplayName resolves ref and renders it with name, falling back to the placeholder.
func DisplayName[T models.Entity](ref models.Ref[T], idx Index[T], name func(T) string) string {
	v, ok := Resolve(ref, idx)
	if !ok {
		return Placeholder
	}
	if s := name(v); s != "" {
		return s
	}
	return Placeholder
}

// DisplayNames renders every element of a reference list
func DisplayNames[T models.Entity](refs models.RefList[T], idx Index[T], name func(T) string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, DisplayName(r, idx, name))
	}
	return out
}

// Name renderers for the entities that are referenced elsewhere
var (
	CourseName     = func(c models.Course) string { return c.CourseName }
	ModuleName     = func(m models.Module) string { return m.ModuleName }
	DepartmentName = func(d models.Department) string { return d.Name }
	UserName       = func(u models.User) string { return u.Name }
	ResourceName   = func(r models.Resource) string { return r.Name }
	IntakeName     = func(i models.Intake) string { return i.IntakeName }
)
