package builtins

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tangerg/exprflow/errs"
	"github.com/Tangerg/exprflow/value"
)

func TestUnionArraysPreservesOrderAndDedups(t *testing.T) {
	a := value.NewArray(value.Int(1), value.Int(2))
	b := value.NewArray(value.Int(2), value.Int(3))
	v, err := Union(context.Background(), []value.Value{a, b})
	require.NoError(t, err)
	arr, _ := v.AsArray()
	require.Len(t, arr, 3)
	for i, want := range []int64{1, 2, 3} {
		n, _ := arr[i].AsInt()
		assert.Equal(t, want, n)
	}
}

func TestUnionArrayIdempotent(t *testing.T) {
	a := value.NewArray(value.Int(1), value.Int(2))
	v, err := Union(context.Background(), []value.Value{a, a})
	require.NoError(t, err)
	assert.True(t, v.Equals(a))
}

func TestUnionObjectsLaterKeyWins(t *testing.T) {
	a := value.NewObjectFromPairs([]string{"x"}, []value.Value{value.Int(1)})
	b := value.NewObjectFromPairs([]string{"x"}, []value.Value{value.Int(2)})
	v, err := Union(context.Background(), []value.Value{a, b})
	require.NoError(t, err)
	obj, _ := v.AsObject()
	got, _ := obj.Get("x")
	n, _ := got.AsInt()
	assert.Equal(t, int64(2), n)
}

func TestUnionHeterogeneousKindsIsTypeMismatch(t *testing.T) {
	a := value.NewArray(value.Int(1))
	b := value.Str("x")
	_, err := Union(context.Background(), []value.Value{a, b})
	assert.ErrorIs(t, err, errs.TypeMismatch)
}

func TestEmpty(t *testing.T) {
	v, err := Empty(context.Background(), []value.Value{value.Str("")})
	require.NoError(t, err)
	b, _ := v.AsBool()
	assert.True(t, b)

	v, err = Empty(context.Background(), []value.Value{value.NewArray()})
	require.NoError(t, err)
	b, _ = v.AsBool()
	assert.True(t, b)

	v, err = Empty(context.Background(), []value.Value{value.Str("x")})
	require.NoError(t, err)
	b, _ = v.AsBool()
	assert.False(t, b)

	_, err = Empty(context.Background(), []value.Value{value.Int(1)})
	assert.Error(t, err)
}

func TestGuidNFormatMatchesUppercaseHex(t *testing.T) {
	v, err := Guid(context.Background(), []value.Value{value.Str("n")})
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{32}$`), s)
}

func TestGuidNoArgsDefaultsToDFormat(t *testing.T) {
	v, err := Guid(context.Background(), nil)
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}$`), s)
}

func TestGuidUnknownFormatIsArgumentError(t *testing.T) {
	_, err := Guid(context.Background(), []value.Value{value.Str("q")})
	assert.ErrorIs(t, err, errs.ArgumentError)
}

func TestBodyFallsBackToNullWithoutContext(t *testing.T) {
	v, err := Body(context.Background(), []value.Value{value.Str("step")})
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, v.Kind())
}

func TestBodyResolvesFromAttachedOutputs(t *testing.T) {
	outputs := value.NewObjectFromPairs([]string{"step"}, []value.Value{value.Int(7)})
	ctx := WithStepOutputs(context.Background(), outputs)
	v, err := Body(ctx, []value.Value{value.Str("step")})
	require.NoError(t, err)
	n, _ := v.AsInt()
	assert.Equal(t, int64(7), n)
}
