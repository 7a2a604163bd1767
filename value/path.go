package value

import (
	"strings"

	"github.com/Tangerg/exprflow/errs"
)

func splitPath(path string) []string {
	return strings.Split(path, "/")
}

// IndexPath resolves a slash-separated path over nested Objects, failing if
// any intermediate key is absent.
func (v Value) IndexPath(path string) (Value, error) {
	cur := v
	for _, seg := range splitPath(path) {
		obj, err := cur.AsObject()
		if err != nil {
			return Value{}, err
		}
		child, ok := obj.Get(seg)
		if !ok {
			return Value{}, errs.Wrap(errs.KeyMissing, "key %q", seg)
		}
		cur = child
	}
	return cur, nil
}

// SetPath writes nv at a slash-separated path, auto-creating missing
// intermediate objects and replacing the final leaf. Mutation happens
// through the receiver's own Object chain, which is a reference type, so
// the returned Value is the same logical tree as v.
func (v Value) SetPath(path string, nv Value) (Value, error) {
	segs := splitPath(path)
	cur := v
	for i, seg := range segs {
		obj, err := cur.AsObject()
		if err != nil {
			return Value{}, err
		}
		if i == len(segs)-1 {
			obj.Set(seg, nv)
			return v, nil
		}
		child, ok := obj.Get(seg)
		if !ok || child.Kind() != KindObject {
			child = NewObjectRaw()
			obj.Set(seg, child)
		}
		cur = child
	}
	return v, nil
}

// ContainsKeyPath reports whether path resolves on an Object value; it
// returns false (never an error) if the receiver is not an Object or any
// intermediate segment is missing or not an Object.
func (v Value) ContainsKeyPath(path string) bool {
	_, err := v.IndexPath(path)
	return err == nil
}
