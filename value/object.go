package value

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is the backing store of the Object kind: an insertion-ordered,
// unique-keyed map from string to Value. It wraps wk8/go-ordered-map/v2
// directly rather than a hand-rolled key slice, since the library already
// gives the dedupe-on-overwrite and stable-iteration-order guarantees the
// value model needs.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

func newObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.m.Len()
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	return o.m.Get(key)
}

// Set inserts or overwrites key, preserving the original insertion
// position on overwrite (go-ordered-map/v2 semantics).
func (o *Object) Set(key string, v Value) {
	o.m.Set(key, v)
}

func (o *Object) Delete(key string) {
	o.m.Delete(key)
}

func (o *Object) ContainsKey(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for p := o.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// ForEach walks entries in insertion order, stopping at the first error.
func (o *Object) ForEach(fn func(key string, val Value) error) error {
	for p := o.m.Oldest(); p != nil; p = p.Next() {
		if err := fn(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func (o *Object) Clone() *Object {
	clone := newObject()
	_ = o.ForEach(func(k string, v Value) error {
		clone.Set(k, v)
		return nil
	})
	return clone
}

// NewObjectFromPairs builds a raw (non-normalising) Object from ordered
// key/value pairs, the shape callers that assemble objects from already-
// built values (e.g. FromJSONTree's object branch) need.
func NewObjectFromPairs(keys []string, vals []Value) Value {
	o := newObject()
	for i, k := range keys {
		o.Set(k, vals[i])
	}
	return Value{kind: KindObject, obj: o}
}
