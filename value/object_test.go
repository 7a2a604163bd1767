package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathWriteThenRead(t *testing.T) {
	root := NewObjectRaw()
	_, err := root.SetPath("a/b/c", Int(42))
	require.NoError(t, err)

	v, err := root.IndexPath("a/b/c")
	require.NoError(t, err)
	n, _ := v.AsInt()
	assert.Equal(t, int64(42), n)
	assert.True(t, root.ContainsKeyPath("a/b/c"))
}

func TestPathReadMissingIntermediate(t *testing.T) {
	root := NewObjectRaw()
	_, err := root.IndexPath("a/b/c")
	assert.Error(t, err)
	assert.False(t, root.ContainsKeyPath("a/b/c"))
}

func TestObjectEqualityIgnoresOrder(t *testing.T) {
	a := NewObjectFromPairs([]string{"x", "y"}, []Value{Int(1), Int(2)})
	b := NewObjectFromPairs([]string{"y", "x"}, []Value{Int(2), Int(1)})
	assert.True(t, a.Equals(b))
}

func TestObjectKeysPreserveInsertionOrder(t *testing.T) {
	root := NewObjectRaw()
	obj, _ := root.AsObject()
	obj.Set("z", Int(1))
	obj.Set("a", Int(2))
	obj.Set("m", Int(3))
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
}
