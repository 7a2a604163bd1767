package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tangerg/exprflow/parser"
	"github.com/Tangerg/exprflow/registry"
	"github.com/Tangerg/exprflow/rule"
	"github.com/Tangerg/exprflow/value"
)

func newTestEvaluator() (*Evaluator, *registry.FunctionRegistry) {
	reg := registry.NewFunctionRegistry()
	reg.Register("concat", func(_ context.Context, args []value.Value) (value.Value, error) {
		var sb []byte
		for _, a := range args {
			sb = append(sb, a.Stringify()...)
		}
		return value.Str(string(sb)), nil
	})
	reg.Register("first", func(_ context.Context, args []value.Value) (value.Value, error) {
		return args[0].Index(0)
	})
	reg.Register("createArray", func(_ context.Context, args []value.Value) (value.Value, error) {
		return value.NewArray(args...), nil
	})
	return New(reg), reg
}

func run(t *testing.T, input string) value.Value {
	t.Helper()
	ev, _ := newTestEvaluator()
	prog, err := parser.Parse(input)
	require.NoError(t, err)
	v, err := ev.EvaluateProgram(context.Background(), prog)
	require.NoError(t, err)
	return v
}

func TestEvaluateConcat(t *testing.T) {
	v := run(t, "@concat('hello ', 'world')")
	s, _ := v.AsString()
	assert.Equal(t, "hello world", s)
}

func TestEvaluateJoinedStringWithEnclosedExpr(t *testing.T) {
	ev, reg := newTestEvaluator()
	reg.Register("toUpper", func(_ context.Context, args []value.Value) (value.Value, error) {
		s, err := args[0].AsString()
		if err != nil {
			return value.Value{}, err
		}
		out := make([]byte, 0, len(s))
		for _, c := range []byte(s) {
			if c >= 'a' && c <= 'z' {
				c -= 32
			}
			out = append(out, c)
		}
		return value.Str(string(out)), nil
	})
	prog, err := parser.Parse("prefix@{toUpper('abc')}suffix")
	require.NoError(t, err)
	v, err := ev.EvaluateProgram(context.Background(), prog)
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "prefixABCsuffix", s)
}

func TestEvaluateFirstOfArray(t *testing.T) {
	v := run(t, "@first(createArray(1,2,3))")
	n, _ := v.AsInt()
	assert.Equal(t, int64(1), n)
}

func TestEvaluateUnknownFunction(t *testing.T) {
	ev, _ := newTestEvaluator()
	prog, err := parser.Parse("@doesNotExist()")
	require.NoError(t, err)
	_, err = ev.EvaluateProgram(context.Background(), prog)
	assert.Error(t, err)
}

func TestEvaluateNullableMissingKeyReturnsNull(t *testing.T) {
	ev, reg := newTestEvaluator()
	obj := value.NewObjectRaw()
	o, _ := obj.AsObject()
	o.Set("present", value.Int(1))
	reg.Register("step", func(_ context.Context, _ []value.Value) (value.Value, error) {
		return obj, nil
	})
	prog, err := parser.Parse("@step()?['missing']")
	require.NoError(t, err)
	v, err := ev.EvaluateProgram(context.Background(), prog)
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, v.Kind())
}

func TestEvaluateNonNullableMissingKeyErrors(t *testing.T) {
	ev, reg := newTestEvaluator()
	obj := value.NewObjectRaw()
	reg.Register("step", func(_ context.Context, _ []value.Value) (value.Value, error) {
		return obj, nil
	})
	prog, err := parser.Parse("@step()['missing']")
	require.NoError(t, err)
	_, err = ev.EvaluateProgram(context.Background(), prog)
	assert.Error(t, err)
}

func TestEvaluatePathAccessChain(t *testing.T) {
	root := value.NewObjectRaw()
	_, _ = root.SetPath("a/b/c", value.Int(42))
	ev, reg := newTestEvaluator()
	reg.Register("root", func(_ context.Context, _ []value.Value) (value.Value, error) {
		return root, nil
	})
	prog, err := parser.Parse("@root().a.b.c")
	require.NoError(t, err)
	v, err := ev.EvaluateProgram(context.Background(), prog)
	require.NoError(t, err)
	n, _ := v.AsInt()
	assert.Equal(t, int64(42), n)
}

func TestEvaluateBareTextNoAtSign(t *testing.T) {
	v := run(t, "no at-sign here")
	s, _ := v.AsString()
	assert.Equal(t, "no at-sign here", s)
}

func TestEvaluateAtAtEscapes(t *testing.T) {
	v := run(t, "@@notACall")
	s, _ := v.AsString()
	assert.Equal(t, "@notACall", s)
}

func TestEvaluateIndexAccessorRuleShape(t *testing.T) {
	prog, err := parser.Parse("@createArray(1,2)[0]")
	require.NoError(t, err)
	access, ok := prog.Expr.(rule.AccessValue)
	require.True(t, ok)
	_, ok = access.Accessor.(rule.Index)
	require.True(t, ok)
}
