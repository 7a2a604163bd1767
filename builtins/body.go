package builtins

import (
	"context"

	"github.com/Tangerg/exprflow/errs"
	"github.com/Tangerg/exprflow/value"
)

// bodyContextKey is an unexported context key, the idiomatic way to carry
// request-scoped data (here, a workflow host's step outputs) through a
// context.Context without the engine itself needing to know about it.
type bodyContextKey struct{}

// WithStepOutputs attaches a caller-supplied object mapping step name to
// step output so the Body handler can resolve body('stepName') against it.
// A host application that has no notion of "steps" simply never calls
// this, and Body falls back to Null for every name.
func WithStepOutputs(ctx context.Context, outputs value.Value) context.Context {
	return context.WithValue(ctx, bodyContextKey{}, outputs)
}

// Body is a demonstration handler standing in for a workflow host's
// "step output" lookup: body('stepName') resolves against whatever was
// attached with WithStepOutputs. It returns Null, not an error, when no
// step outputs were attached to ctx or the named step is absent.
func Body(ctx context.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, errs.Wrap(errs.ArgumentError, "body takes exactly one argument")
	}
	name, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	outputs, ok := ctx.Value(bodyContextKey{}).(value.Value)
	if !ok {
		return value.Null(), nil
	}
	obj, err := outputs.AsObject()
	if err != nil {
		return value.Null(), nil
	}
	v, found := obj.Get(name)
	if !found {
		return value.Null(), nil
	}
	return v, nil
}
