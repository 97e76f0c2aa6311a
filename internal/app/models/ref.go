package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
)

// Ref is a foreign-key field. The backend sends it either as a bare id, as a
// populated (joined) object, or as null; all three decode without error.
// Obj is set only when the object was populated.
type Ref[T any] struct {
	ID  string
	Obj *T
}

// RefTo builds an unpopulated reference.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Populated builds a reference that already carries its object.
func Populated[T any](id string, obj T) Ref[T] {
	return Ref[T]{ID: id, Obj: &obj}
}

// IsZero reports a null reference.
func (r Ref[T]) IsZero() bool {
	return r.ID == "" && r.Obj == nil
}

// IsPopulated reports whether the joined object came with the record.
func (r Ref[T]) IsPopulated() bool {
	return r.Obj != nil
}

// Value lets validators see a Ref as its identifier (nil when empty).
func (r Ref[T]) Value() (driver.Value, error) {
	if r.ID == "" {
		return nil, nil
	}
	return r.ID, nil
}

// MarshalJSON sends only the identifier, which is what the backend expects in
// request bodies.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts a string id, a populated object or null. Any other
// shape degrades to an empty reference.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	*r = Ref[T]{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		r.ID = id
	case '{':
		var ident struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(data, &ident); err != nil {
			return err
		}
		var obj T
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		r.ID = ident.MongoID
		if r.ID == "" {
			r.ID = ident.ID
		}
		r.Obj = &obj
	}
	return nil
}

// RefList is a multi-valued foreign key. A single scalar or object on the wire
// is accepted as a one-element list.
type RefList[T any] []Ref[T]

// RefsTo builds an unpopulated list.
func RefsTo[T any](ids ...string) RefList[T] {
	refs := make(RefList[T], 0, len(ids))
	for _, id := range ids {
		refs = append(refs, RefTo[T](id))
	}
	return refs
}

// IDs returns the non-empty identifiers in order.
func (l RefList[T]) IDs() []string {
	ids := make([]string, 0, len(l))
	for _, ref := range l {
		if ref.ID != "" {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}

// Contains reports whether any element references id.
func (l RefList[T]) Contains(id string) bool {
	if id == "" {
		return false
	}
	for _, ref := range l {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts an array, a single element or null.
func (l *RefList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] != '[' {
		var single Ref[T]
		if err := single.UnmarshalJSON(data); err != nil {
			return err
		}
		if single.IsZero() {
			*l = RefList[T]{}
			return nil
		}
		*l = RefList[T]{single}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	refs := make(RefList[T], 0, len(raw))
	for _, item := range raw {
		var ref Ref[T]
		if err := ref.UnmarshalJSON(item); err != nil {
			return err
		}
		if !ref.IsZero() {
			refs = append(refs, ref)
		}
	}
	*l = refs
	return nil
}
