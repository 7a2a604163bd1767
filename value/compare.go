package value

import (
	"bytes"

	"github.com/Tangerg/exprflow/errs"
)

func (v Value) isNumeric() bool {
	return v.kind == KindInteger || v.kind == KindDecimal
}

// Equals reports structural equality, with Integer/Decimal treated as one
// comparable numeric domain and Object compared as an unordered multiset of
// (key, value) pairs.
func (v Value) Equals(other Value) bool {
	if v.kind == KindNull || other.kind == KindNull {
		return v.kind == KindNull && other.kind == KindNull
	}
	if v.isNumeric() && other.isNumeric() {
		vd, _ := v.AsDecimal()
		od, _ := other.AsDecimal()
		return vd.Equal(od)
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindGuid:
		return v.g == other.g
	case KindDate:
		return v.t.Equal(other.t)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equals(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		match := true
		_ = v.obj.ForEach(func(k string, val Value) error {
			ov, ok := other.obj.Get(k)
			if !ok || !val.Equals(ov) {
				match = false
			}
			return nil
		})
		return match
	default:
		return false
	}
}

// Compare returns a total ordering over comparable pairs: -1, 0, or 1, or a
// TypeMismatch error for incomparable kinds.
func (v Value) Compare(other Value) (int, error) {
	if v.isNumeric() && other.isNumeric() {
		vd, _ := v.AsDecimal()
		od, _ := other.AsDecimal()
		return vd.Cmp(od), nil
	}
	if v.kind != other.kind {
		return 0, errs.Wrap(errs.TypeMismatch, "cannot compare %s with %s", v.kind, other.kind)
	}
	switch v.kind {
	case KindBoolean:
		if v.b == other.b {
			return 0, nil
		}
		if !v.b {
			return -1, nil
		}
		return 1, nil
	case KindString:
		return compareStrings(v.s, other.s), nil
	case KindGuid:
		return bytes.Compare(v.g[:], other.g[:]), nil
	case KindDate:
		switch {
		case v.t.Before(other.t):
			return -1, nil
		case v.t.After(other.t):
			return 1, nil
		default:
			return 0, nil
		}
	case KindArray:
		return compareInts(len(v.arr), len(other.arr)), nil
	case KindObject:
		return compareInts(v.obj.Len(), other.obj.Len()), nil
	default:
		return 0, errs.Wrap(errs.TypeMismatch, "%s is not comparable", v.kind)
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
