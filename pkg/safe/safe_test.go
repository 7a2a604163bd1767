package safe

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPanicErrorMessage(t *testing.T) {
	err := NewPanicError("test panic", []byte("fake stack trace"))
	require.Error(t, err)

	msg := err.Error()
	for _, part := range []string{"panic:", "timestamp:", "error:", "stack:", "test panic", "fake stack trace"} {
		assert.Contains(t, msg, part)
	}
}

func TestNewPanicErrorFields(t *testing.T) {
	before := time.Now()
	err := NewPanicError("info", []byte("stack"))
	after := time.Now()

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "info", panicErr.info)
	assert.Equal(t, "stack", string(panicErr.stack))
	assert.False(t, panicErr.time.Before(before) || panicErr.time.After(after))
}

func TestWithRecoverNilFunction(t *testing.T) {
	assert.Nil(t, WithRecover(nil))
}

func TestWithRecoverRunsWithoutPanic(t *testing.T) {
	executed := false
	wrapped := WithRecover(func() { executed = true })
	require.NotNil(t, wrapped)
	wrapped()
	assert.True(t, executed)
}

func TestWithRecoverCatchesPanicAndNotifiesHandlers(t *testing.T) {
	var mu sync.Mutex
	var captured []error

	handler := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		captured = append(captured, err)
	}

	wrapped := WithRecover(func() { panic("boom") }, handler, handler)
	wrapped()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, captured, 2)
	assert.Contains(t, captured[0].Error(), "boom")
}

func TestWithRecoverNoHandlersSwallowsPanic(t *testing.T) {
	wrapped := WithRecover(func() { panic("unhandled") })
	assert.NotPanics(t, wrapped)
}

func TestGoExecutesInSeparateGoroutine(t *testing.T) {
	done := make(chan bool, 1)
	Go(func() { done <- true })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("function was not executed")
	}
}

func TestGoRecoversPanicAndCallsHandler(t *testing.T) {
	errCh := make(chan error, 1)
	Go(func() { panic("goroutine panic") }, func(err error) { errCh <- err })

	select {
	case err := <-errCh:
		assert.Contains(t, err.Error(), "goroutine panic")
	case <-time.After(time.Second):
		t.Fatal("error handler was not called")
	}
}

func TestGoNilFunctionIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Go(nil) })
}
