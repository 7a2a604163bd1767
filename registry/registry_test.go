package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tangerg/exprflow/value"
)

func TestFunctionRegistryZeroValueUsable(t *testing.T) {
	var r FunctionRegistry
	r.Register("echo", func(_ context.Context, args []value.Value) (value.Value, error) {
		return args[0], nil
	})
	h, ok := r.Lookup("echo")
	require.True(t, ok)
	v, err := h(context.Background(), []value.Value{value.Int(7)})
	require.NoError(t, err)
	n, _ := v.AsInt()
	assert.Equal(t, int64(7), n)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestFunctionRegistryNamesSorted(t *testing.T) {
	var r FunctionRegistry
	r.Register("z", nil)
	r.Register("a", nil)
	assert.Equal(t, []string{"a", "z"}, r.Names())
}

func TestMacroListAppliesInOrder(t *testing.T) {
	var m MacroList
	m.Register("&&", "@and(")
	m.Register("@and(", "@AND(")
	assert.Equal(t, "@AND(x,y)", m.Apply("&&x,y)"))
}
