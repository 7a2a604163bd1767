package value

import (
	"context"
	"testing"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	src := orderedmap.New[string, any]()
	src.Set("name", "alice")
	src.Set("age", int64(30))
	src.Set("tags", []any{"a", "b"})

	v, err := FromJSONTree(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, KindObject, v.Kind())

	tree, err := v.ToJSONTree()
	require.NoError(t, err)

	back, err := FromJSONTree(context.Background(), tree, nil)
	require.NoError(t, err)
	assert.True(t, v.Equals(back))
}

func TestJSONEmptyArrayBecomesNull(t *testing.T) {
	v, err := FromJSONTree(context.Background(), []any{}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindNull, v.Kind())
}

func TestJSONUnsupportedScalar(t *testing.T) {
	_, err := FromJSONTree(context.Background(), make(chan int), nil)
	assert.Error(t, err)
}

type stubEvaluator struct {
	result Value
}

func (s stubEvaluator) EvaluateToValue(_ context.Context, _ string) (Value, error) {
	return s.result, nil
}

func TestNormalizeRewritesExpressionLeaf(t *testing.T) {
	root := NewObjectRaw()
	obj, _ := root.AsObject()
	obj.Set("plain", Str("no markers here"))
	obj.Set("computed", Str("@concat('a','b')"))

	ev := stubEvaluator{result: Str("ab")}
	out, err := Normalize(context.Background(), root, ev)
	require.NoError(t, err)

	outObj, _ := out.AsObject()
	plain, _ := outObj.Get("plain")
	assert.Equal(t, "no markers here", plain.s)
	computed, _ := outObj.Get("computed")
	assert.Equal(t, "ab", computed.s)
}
