// Package value implements the engine's tagged runtime datum: a single
// Value type that carries exactly one of nine kinds (Null, Boolean,
// Integer, Decimal, String, Guid, Date, Array, Object), with structural
// equality, a total ordering over comparable kinds, and deterministic
// stringification.
package value

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/Tangerg/exprflow/errs"
)

// Kind is the tag component of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindDecimal
	KindString
	KindGuid
	KindDate
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindDecimal:
		return "Decimal"
	case KindString:
		return "String"
	case KindGuid:
		return "Guid"
	case KindDate:
		return "Date"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Value is immutable by contract once it leaves a handler that built it,
// with the sole exception of the object write-path used internally by
// handlers assembling an Object (see Value.SetPath).
type Value struct {
	kind Kind
	b    bool
	i    int64
	d    decimal.Decimal
	s    string
	g    uuid.UUID
	t    time.Time
	arr  []Value
	obj  *Object
}

func Null() Value { return Value{kind: KindNull} }
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }
func Dec(d decimal.Decimal) Value { return Value{kind: KindDecimal, d: d} }
func Str(s string) Value { return Value{kind: KindString, s: s} }
func Guid(u uuid.UUID) Value { return Value{kind: KindGuid, g: u} }
func DateTime(t time.Time) Value { return Value{kind: KindDate, t: t} }

// NewArray builds an Array Value from already-constructed elements. It does
// not normalise; callers that need normalisation should run each element
// through Normalize first.
func NewArray(items ...Value) Value {
	cloned := make([]Value, len(items))
	copy(cloned, items)
	return Value{kind: KindArray, arr: cloned}
}

// NewObjectRaw builds an empty Object Value without running the
// normalising pass: handlers that assemble an Object out of already-
// evaluated Values use this directly, skipping re-evaluation of values
// that are already in canonical form.
func NewObjectRaw() Value {
	return Value{kind: KindObject, obj: newObject()}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBoolean {
		return false, errs.Wrap(errs.TypeMismatch, "expected Boolean, got %s", v.kind)
	}
	return v.b, nil
}

func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInteger:
		return v.i, nil
	case KindDecimal:
		return v.d.IntPart(), nil
	default:
		return 0, errs.Wrap(errs.TypeMismatch, "expected Integer, got %s", v.kind)
	}
}

func (v Value) AsDecimal() (decimal.Decimal, error) {
	switch v.kind {
	case KindDecimal:
		return v.d, nil
	case KindInteger:
		return decimal.NewFromInt(v.i), nil
	default:
		return decimal.Decimal{}, errs.Wrap(errs.TypeMismatch, "expected Decimal, got %s", v.kind)
	}
}

func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", errs.Wrap(errs.TypeMismatch, "expected String, got %s", v.kind)
	}
	return v.s, nil
}

func (v Value) AsGuid() (uuid.UUID, error) {
	if v.kind != KindGuid {
		return uuid.UUID{}, errs.Wrap(errs.TypeMismatch, "expected Guid, got %s", v.kind)
	}
	return v.g, nil
}

func (v Value) AsDate() (time.Time, error) {
	if v.kind != KindDate {
		return time.Time{}, errs.Wrap(errs.TypeMismatch, "expected Date, got %s", v.kind)
	}
	return v.t, nil
}

func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, errs.Wrap(errs.TypeMismatch, "expected Array, got %s", v.kind)
	}
	return v.arr, nil
}

func (v Value) AsObject() (*Object, error) {
	if v.kind != KindObject {
		return nil, errs.Wrap(errs.TypeMismatch, "expected Object, got %s", v.kind)
	}
	return v.obj, nil
}

// Index returns the element of an Array Value at position i, or an error if
// v is not an Array or i is out of range.
func (v Value) Index(i int) (Value, error) {
	arr, err := v.AsArray()
	if err != nil {
		return Value{}, err
	}
	if i < 0 || i >= len(arr) {
		return Value{}, errs.Wrap(errs.IndexOutOfRange, "index %d out of range [0, %d)", i, len(arr))
	}
	return arr[i], nil
}

// FromPrimitive constructs a Value from a Go host type. Numeric host types
// are coerced via spf13/cast; floats are promoted to Decimal on ingest so
// the engine never carries a raw float internally.
func FromPrimitive(x any) (Value, error) {
	switch n := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return n, nil
	case bool:
		return Bool(n), nil
	case string:
		return Str(n), nil
	case uuid.UUID:
		return Guid(n), nil
	case time.Time:
		return DateTime(n), nil
	case decimal.Decimal:
		return Dec(n), nil
	case float32, float64:
		f, _ := cast.ToFloat64E(n)
		return Dec(decimal.NewFromFloat(f)), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := cast.ToInt64E(n)
		if err != nil {
			return Value{}, errs.Wrap(errs.TypeMismatch, "cannot convert %T to Integer: %v", x, err)
		}
		return Int(i), nil
	default:
		return Value{}, errs.Wrap(errs.TypeMismatch, "cannot construct a Value from %T", x)
	}
}

// FromString constructs a Value from a raw string. When tryParse is true
// the string is classified in the fixed order decimal, integer, boolean,
// else left as String.
func FromString(s string, tryParse bool) (Value, error) {
	if !tryParse {
		return Str(s), nil
	}
	if containsRune(s, '.') {
		if d, err := decimal.NewFromString(s); err == nil {
			return Dec(d), nil
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return Bool(b), nil
	}
	return Str(s), nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
