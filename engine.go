// Package exprflow is the engine's public entry point: it wires the macro
// pre-pass, the parser, the function registry, and the evaluator behind
// a small set of methods, mirroring the small, direct facade style Tangerg-lynx/flow's
// Flow/builder pair uses over its own internal stages.
package exprflow

import (
	"context"
	"log/slog"

	"github.com/Tangerg/exprflow/eval"
	"github.com/Tangerg/exprflow/parser"
	pkgsync "github.com/Tangerg/exprflow/pkg/sync"
	"github.com/Tangerg/exprflow/registry"
	"github.com/Tangerg/exprflow/value"
)

// Value is the engine's tagged runtime datum; re-exported here so callers
// never need to import the value package directly for the common case.
type Value = value.Value

// Handler is the function-registry entry signature.
type Handler = registry.Handler

// Engine is the public expression engine. The zero value is not usable;
// construct one with New or NewBounded.
type Engine struct {
	functions *registry.FunctionRegistry
	macros    *registry.MacroList
	evaluator *eval.Evaluator
	pool      *pkgsync.BoundedPool
}

// New constructs an Engine with empty function and macro registries. Wire
// handlers with RegisterFunction (and, optionally, the builtins package)
// before evaluating anything. Call arguments and joined-string segments
// evaluate under an unbounded goroutine-per-child pool.
func New() *Engine {
	functions := registry.NewFunctionRegistry()
	return &Engine{
		functions: functions,
		macros:    registry.NewMacroList(),
		evaluator: eval.New(functions),
	}
}

// NewBounded constructs an Engine like New, but caps the concurrency of
// call-argument and joined-string-segment evaluation at size goroutines,
// backed by the named pkg/sync pool implementation. Call Shutdown once the
// Engine is no longer in use to release the underlying pool's resources.
func NewBounded(kind pkgsync.PoolKind, size int) (*Engine, error) {
	pool, err := pkgsync.NewBoundedPool(kind, size)
	if err != nil {
		return nil, err
	}
	functions := registry.NewFunctionRegistry()
	evaluator := eval.New(functions)
	evaluator.Pool = pool
	return &Engine{
		functions: functions,
		macros:    registry.NewMacroList(),
		evaluator: evaluator,
		pool:      pool,
	}, nil
}

// PoolStats reports how many tasks the Engine's bounded pool has submitted
// and rejected. It returns the zero value for an Engine built with New,
// which has no bounded pool.
func (e *Engine) PoolStats() pkgsync.Stats {
	if e.pool == nil {
		return pkgsync.Stats{}
	}
	return e.pool.Stats()
}

// Shutdown releases the Engine's bounded pool, if any. It is a no-op for an
// Engine built with New.
func (e *Engine) Shutdown() {
	if e.pool != nil {
		e.pool.Shutdown()
	}
}

// RegisterFunction installs a named handler. Registration is a
// construction-time operation: call it before handing the Engine to
// concurrent evaluators.
func (e *Engine) RegisterFunction(name string, h Handler) {
	e.functions.Register(name, h)
}

// RegisterMacro appends a textual (from, to) substitution, applied in
// registration order before parsing.
func (e *Engine) RegisterMacro(from, to string) {
	e.macros.Register(from, to)
}

// EvaluateToValue macro-expands input, parses it, then evaluates it,
// returning the raw result.
func (e *Engine) EvaluateToValue(ctx context.Context, input string) (Value, error) {
	expanded := e.macros.Apply(input)
	prog, err := parser.Parse(expanded)
	if err != nil {
		slog.Debug("exprflow: parse failed", slog.String("input", input), slog.Any("err", err))
		return Value{}, err
	}
	v, err := e.evaluator.EvaluateProgram(ctx, prog)
	if err != nil {
		slog.Debug("exprflow: evaluation failed", slog.String("input", input), slog.Any("err", err))
		return Value{}, err
	}
	return v, nil
}

// EvaluateToString evaluates input, then stringifies the result. A
// String-kind result returns its inner text verbatim; every other kind
// goes through Value.Stringify.
func (e *Engine) EvaluateToString(ctx context.Context, input string) (string, error) {
	v, err := e.EvaluateToValue(ctx, input)
	if err != nil {
		return "", err
	}
	if v.Kind() == value.KindString {
		s, _ := v.AsString()
		return s, nil
	}
	return v.Stringify(), nil
}

// ParseToValue is an alias for EvaluateToValue used by the object-
// normalisation pipeline (value.Normalize calls back into an
// Engine through the value.StringEvaluator interface, which Engine
// satisfies via EvaluateToValue's identical signature).
func (e *Engine) ParseToValue(ctx context.Context, input string) (Value, error) {
	return e.EvaluateToValue(ctx, input)
}

// IngestJSON converts a foreign JSON-like tree into a Value, re-parsing
// string leaves through this Engine so templates inside ingested JSON are
// honored.
func (e *Engine) IngestJSON(ctx context.Context, tree any) (Value, error) {
	return value.FromJSONTree(ctx, tree, e)
}

// Normalize walks v and replaces any string leaf containing an expression
// marker with its evaluated result.
func (e *Engine) Normalize(ctx context.Context, v Value) (Value, error) {
	return value.Normalize(ctx, v, e)
}
