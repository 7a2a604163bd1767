package value

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Tangerg/exprflow/errs"
)

// StringEvaluator is the minimal surface the value model needs from the
// engine to re-parse string leaves during JSON ingestion. The engine
// package satisfies this without value importing it back.
type StringEvaluator interface {
	EvaluateToValue(ctx context.Context, input string) (Value, error)
}

// FromJSONTree converts a foreign JSON-like tree into a Value. The foreign
// tree uses *orderedmap.OrderedMap[string, any] for objects (so object key
// order survives ingestion, which a bare map[string]any cannot guarantee),
// []any for arrays, and Go's usual JSON scalar types for leaves, plus
// uuid.UUID, time.Time, and decimal.Decimal for the kinds plain JSON has
// no native representation for. When ev is non-nil, string leaves are
// re-parsed through it (normalisation); when nil, they pass through
// verbatim.
func FromJSONTree(ctx context.Context, node any, ev StringEvaluator) (Value, error) {
	switch n := node.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(n), nil
	case int:
		return Int(int64(n)), nil
	case int64:
		return Int(n), nil
	case float32:
		return Dec(decimal.NewFromFloat32(n)), nil
	case float64:
		return Dec(decimal.NewFromFloat(n)), nil
	case decimal.Decimal:
		return Dec(n), nil
	case string:
		if ev != nil {
			return ev.EvaluateToValue(ctx, n)
		}
		return Str(n), nil
	case uuid.UUID:
		return Guid(n), nil
	case time.Time:
		return DateTime(n), nil
	case []any:
		return fromJSONArray(ctx, n, ev)
	case *orderedmap.OrderedMap[string, any]:
		return fromJSONObject(ctx, n, ev)
	default:
		return Value{}, errs.Wrap(errs.UnsupportedJsonType, "%T", node)
	}
}

// fromJSONArray maps an empty JSON array to Null rather than an empty
// Array, matching the asymmetry in FromJSONTree/ToJSONTree: on the way back
// out, an empty Array still serialises as [].
func fromJSONArray(ctx context.Context, items []any, ev StringEvaluator) (Value, error) {
	if len(items) == 0 {
		return Null(), nil
	}
	results := make([]Value, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := FromJSONTree(gctx, item, ev)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Value{}, err
	}
	return NewArray(results...), nil
}

func fromJSONObject(ctx context.Context, m *orderedmap.OrderedMap[string, any], ev StringEvaluator) (Value, error) {
	keys := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	results := make([]Value, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			raw, _ := m.Get(k)
			v, err := FromJSONTree(gctx, raw, ev)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Value{}, err
	}
	return NewObjectFromPairs(keys, results), nil
}

// ToJSONTree is the mirror of FromJSONTree. Guid and Date are emitted as
// their native Go types rather than strings, so round-tripping through this
// pair of functions preserves every kind, not just the strictly
// JSON-representable ones. The one exception is an empty Array: it is
// emitted as an empty []any, which FromJSONTree reads back as Null.
func (v Value) ToJSONTree() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBoolean:
		return v.b, nil
	case KindInteger:
		return v.i, nil
	case KindDecimal:
		return v.d, nil
	case KindString:
		return v.s, nil
	case KindGuid:
		return v.g, nil
	case KindDate:
		return v.t, nil
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			converted, err := e.ToJSONTree()
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case KindObject:
		out := orderedmap.New[string, any]()
		err := v.obj.ForEach(func(k string, val Value) error {
			converted, err := val.ToJSONTree()
			if err != nil {
				return err
			}
			out.Set(k, converted)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.UnsupportedJsonType, v.kind)
	}
}
