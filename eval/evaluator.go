// Package eval interprets a parsed rule.Program against a function
// registry, producing a value.Value. Concurrency is realized with
// golang.org/x/sync/errgroup: independent children (a call's arguments, a
// joined string's segments) run concurrently, each slotted by source
// position for both its result and its error, so the final assembly and
// the first surfaced error both respect source order regardless of
// completion order. Each child is submitted through a pkg/sync.Pool
// (pkg/safe-backed panic recovery by default) so a misbehaving function
// handler surfaces as an error on its slot instead of crashing the
// evaluation.
package eval

import (
	"context"
	"runtime/debug"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Tangerg/exprflow/errs"
	"github.com/Tangerg/exprflow/pkg/safe"
	pkgsync "github.com/Tangerg/exprflow/pkg/sync"
	"github.com/Tangerg/exprflow/registry"
	"github.com/Tangerg/exprflow/rule"
	"github.com/Tangerg/exprflow/value"
)

// Evaluator recursively interprets a rule.Program. It holds no mutable
// state of its own beyond a reference to the (read-only, post-
// construction) function registry and the pool used to bound fan-out
// concurrency.
type Evaluator struct {
	Functions *registry.FunctionRegistry
	Pool      pkgsync.Pool
}

// New constructs an Evaluator with the unbounded default pool
// (pkgsync.PoolOfNoPool): every call argument and joined-string segment
// gets its own goroutine. Set Pool directly (e.g. to a
// pkgsync.NewBoundedPool) to bound concurrency under heavy evaluation load.
func New(functions *registry.FunctionRegistry) *Evaluator {
	return &Evaluator{Functions: functions, Pool: pkgsync.PoolOfNoPool()}
}

// spawn submits fn to e.Pool and reports its result on g, recovering any
// panic fn raises into a surfaced error rather than letting it escape the
// pool's goroutine.
func (e *Evaluator) spawn(g *errgroup.Group, fn func() error) {
	pool := e.Pool
	if pool == nil {
		pool = pkgsync.PoolOfNoPool()
	}
	g.Go(func() error {
		result := make(chan error, 1)
		submitErr := pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					result <- safe.NewPanicError(r, debug.Stack())
				}
			}()
			result <- fn()
		})
		if submitErr != nil {
			return submitErr
		}
		return <-result
	})
}

// EvaluateProgram runs the top-level assembly: a bare expression evaluates
// directly to its Value; a joined string concatenates segment outputs,
// stringifying enclosed-expression results.
func (e *Evaluator) EvaluateProgram(ctx context.Context, prog *rule.Program) (value.Value, error) {
	if prog.Bare {
		return e.evalRule(ctx, prog.Expr, value.Null())
	}
	return e.evalJoinedString(ctx, prog.Segments)
}

func (e *Evaluator) evalJoinedString(ctx context.Context, segs []rule.Segment) (value.Value, error) {
	parts := make([]string, len(segs))
	slotErrs := make([]error, len(segs))
	g, gctx := errgroup.WithContext(ctx)
	for i, seg := range segs {
		i, seg := i, seg
		if !seg.IsExpr {
			parts[i] = seg.Literal
			continue
		}
		e.spawn(g, func() error {
			v, err := e.evalRule(gctx, seg.Expr, value.Null())
			if err != nil {
				slotErrs[i] = err
				return err
			}
			parts[i] = v.Stringify()
			return nil
		})
	}
	g.Wait()
	if err := firstSlotError(slotErrs); err != nil {
		return value.Value{}, err
	}
	return value.Str(strings.Join(parts, "")), nil
}

// firstSlotError returns the lowest-index non-nil error in slotErrs, which
// callers populate one entry per source-ordered child. errgroup.Wait's own
// return value reflects whichever child happened to finish first in
// wall-clock time; scanning the slots instead guarantees the error
// surfaced to the caller is the one from the earliest child in source
// order, regardless of completion order.
func firstSlotError(slotErrs []error) error {
	for _, err := range slotErrs {
		if err != nil {
			return err
		}
	}
	return nil
}

// evalRule evaluates a single rule node. bound is the "current contextual
// value" an Index node reads into; it is meaningful only when r is an
// Index reached through an AccessValue's Accessor slot — every other
// variant ignores it.
func (e *Evaluator) evalRule(ctx context.Context, r rule.Rule, bound value.Value) (value.Value, error) {
	select {
	case <-ctx.Done():
		return value.Value{}, errs.Wrap(errs.Cancelled, "%v", ctx.Err())
	default:
	}

	switch n := r.(type) {
	case rule.Constant:
		return n.Val, nil
	case rule.StringLiteral:
		return n.Val, nil
	case rule.Call:
		return e.evalCall(ctx, n)
	case rule.AccessValue:
		base, err := e.evalRule(ctx, n.Base, value.Null())
		if err != nil {
			return value.Value{}, err
		}
		return e.evalRule(ctx, n.Accessor, base)
	case rule.Index:
		return e.evalIndex(ctx, n, bound)
	default:
		return value.Value{}, errs.Wrap(errs.ParseError, "unrecognised rule node %T", r)
	}
}

func (e *Evaluator) evalCall(ctx context.Context, call rule.Call) (value.Value, error) {
	handler, ok := e.Functions.Lookup(call.Name)
	if !ok {
		return value.Value{}, errs.Wrap(errs.UnknownFunction, "%s", call.Name)
	}
	args, err := e.evalArgs(ctx, call.Args)
	if err != nil {
		return value.Value{}, err
	}
	return handler(ctx, args)
}

func (e *Evaluator) evalArgs(ctx context.Context, argRules []rule.Rule) ([]value.Value, error) {
	args := make([]value.Value, len(argRules))
	slotErrs := make([]error, len(argRules))
	g, gctx := errgroup.WithContext(ctx)
	for i, ar := range argRules {
		i, ar := i, ar
		e.spawn(g, func() error {
			v, err := e.evalRule(gctx, ar, value.Null())
			if err != nil {
				slotErrs[i] = err
				return err
			}
			args[i] = v
			return nil
		})
	}
	g.Wait()
	if err := firstSlotError(slotErrs); err != nil {
		return nil, err
	}
	return args, nil
}

func (e *Evaluator) evalIndex(ctx context.Context, idx rule.Index, bound value.Value) (value.Value, error) {
	if bound.Kind() == value.KindNull && idx.Nullable {
		return value.Null(), nil
	}
	key, err := e.evalRule(ctx, idx.Inner, value.Null())
	if err != nil {
		return value.Value{}, err
	}
	switch key.Kind() {
	case value.KindString:
		name, _ := key.AsString()
		obj, err := bound.AsObject()
		if err != nil {
			return value.Value{}, err
		}
		v, found := obj.Get(name)
		if !found {
			if idx.Nullable {
				return value.Null(), nil
			}
			return value.Value{}, errs.Wrap(errs.KeyMissing, "key %q", name)
		}
		return v, nil
	case value.KindInteger:
		i, _ := key.AsInt()
		return bound.Index(int(i))
	default:
		return value.Value{}, errs.Wrap(errs.TypeMismatch, "accessor key must be String or Integer, got %s", key.Kind())
	}
}
