package value

import (
	"context"
	"strings"
)

// Normalize walks v recursively: any string leaf that contains an expression
// marker is replaced by the result of evaluating it through ev, and every
// nested Array/Object element is normalised in turn.
//
// This is the public, normalising path; the evaluator itself builds
// Objects with NewObjectRaw/NewObjectFromPairs to avoid re-normalising
// values it has already computed, which would otherwise re-evaluate
// already-resolved expression results on every nested access.
func Normalize(ctx context.Context, v Value, ev StringEvaluator) (Value, error) {
	switch v.kind {
	case KindString:
		if !strings.Contains(v.s, "@") {
			return v, nil
		}
		return ev.EvaluateToValue(ctx, v.s)
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, e := range v.arr {
			nv, err := Normalize(ctx, e, ev)
			if err != nil {
				return Value{}, err
			}
			out[i] = nv
		}
		return NewArray(out...), nil
	case KindObject:
		out := newObject()
		err := v.obj.ForEach(func(k string, val Value) error {
			nv, err := Normalize(ctx, val, ev)
			if err != nil {
				return err
			}
			out.Set(k, nv)
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, obj: out}, nil
	default:
		return v, nil
	}
}
