// Package sync adapts third-party goroutine-pool libraries behind one
// narrow interface so eval.Evaluator can bound the concurrency of its
// errgroup-based fan-out (one goroutine per call argument or joined-string
// segment) without hard-coding a single pool implementation. The default,
// PoolOfNoPool, preserves the original unbounded-goroutine behavior.
package sync

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	conc "github.com/sourcegraph/conc/pool"

	"github.com/Tangerg/exprflow/pkg/safe"
)

// Pool defines the common interface for all goroutine pool implementations.
// Any pool implementing this interface can be used to execute functions concurrently.
type Pool interface {
	// Submit submits a function to be executed concurrently by the pool.
	Submit(f func()) error
}

// poolAdapter is an adapter type that converts a function with the signature
// func(func()) into a Pool implementation.
type poolAdapter func(f func()) error

// Submit implements the Pool interface for poolAdapter by calling the wrapped function.
func (p poolAdapter) Submit(f func()) error {
	return p(f)
}

// PoolOfNoPool creates a Pool that simply launches a new goroutine for each task.
// This implementation has no limits on concurrency and doesn't provide any pooling benefits.
// It does include basic panic recovery for safety by Go.
func PoolOfNoPool() Pool {
	return poolAdapter(func(f func()) error {
		safe.Go(f)
		return nil
	})
}

// PoolOfConc creates a Pool adapter for the sourcegraph/conc pool implementation.
// It panics if the provided pool is nil.
func PoolOfConc(pool *conc.Pool) Pool {
	if pool == nil {
		panic("conc pool is nil")
	}
	return poolAdapter(func(f func()) error {
		pool.Go(f)
		return nil
	})
}

// PoolOfAnts creates a Pool adapter for the panjf2000/ants pool implementation.
// It panics if the provided pool is nil.
func PoolOfAnts(pool *ants.Pool) Pool {
	if pool == nil {
		panic("ants pool is nil")
	}
	return poolAdapter(func(f func()) error {
		return pool.Submit(f)
	})
}

// PoolOfWorkerpool creates a Pool adapter for the gammazero/workerpool implementation.
// It panics if the provided pool is nil.
func PoolOfWorkerpool(pool *workerpool.WorkerPool) Pool {
	if pool == nil {
		panic("worker pool is nil")
	}
	return poolAdapter(func(f func()) error {
		pool.Submit(f)
		return nil
	})
}

// PoolKind names a bounded-pool backend NewBoundedPool knows how to build.
// A deployment picks one by name (e.g. from configuration) rather than
// importing a specific third-party package directly.
type PoolKind string

const (
	KindAnts       PoolKind = "ants"
	KindWorkerpool PoolKind = "workerpool"
	KindConc       PoolKind = "conc"
)

// ErrUnknownPoolKind is returned by NewBoundedPool for a PoolKind it doesn't recognise.
var ErrUnknownPoolKind = errors.New("pkg/sync: unknown pool kind")

// Stats reports the tasks a BoundedPool has observed since construction.
type Stats struct {
	Submitted int64
	Rejected  int64
}

// countingPool wraps a Pool with atomic submitted/rejected counters, so a
// caller bounding evaluator concurrency can observe task volume without
// instrumenting every call site. A rejection is a submission the backend
// returned an error for; the backends NewBoundedPool builds block or queue
// a submission when the pool is full rather than rejecting it, so reaching
// the bound does not show up as a rejection.
type countingPool struct {
	inner     Pool
	submitted atomic.Int64
	rejected  atomic.Int64
}

func (c *countingPool) Submit(f func()) error {
	c.submitted.Add(1)
	err := c.inner.Submit(f)
	if err != nil {
		c.rejected.Add(1)
	}
	return err
}

func (c *countingPool) Stats() Stats {
	return Stats{
		Submitted: c.submitted.Load(),
		Rejected:  c.rejected.Load(),
	}
}

// BoundedPool is a concurrency-capped Pool with task counters and an
// explicit Shutdown for the underlying third-party pool's goroutines and
// resources. Construct one with NewBoundedPool.
type BoundedPool struct {
	*countingPool
	shutdown func()
}

// Shutdown drains and releases the underlying pool. Callers must invoke it
// once evaluation using the pool is finished; a BoundedPool left open leaks
// the backing goroutines or worker threads of its library.
func (b *BoundedPool) Shutdown() {
	b.shutdown()
}

// NewBoundedPool builds a Pool backed by the named third-party library,
// capped at size concurrent goroutines. This is the knob an
// eval.Evaluator.Pool is set to when unbounded fan-out (PoolOfNoPool, the
// default) is unacceptable, e.g. evaluating many expressions against a
// shared worker budget.
func NewBoundedPool(kind PoolKind, size int) (*BoundedPool, error) {
	switch kind {
	case KindAnts:
		p, err := ants.NewPool(size)
		if err != nil {
			return nil, err
		}
		return &BoundedPool{
			countingPool: &countingPool{inner: PoolOfAnts(p)},
			shutdown:     p.Release,
		}, nil
	case KindWorkerpool:
		wp := workerpool.New(size)
		return &BoundedPool{
			countingPool: &countingPool{inner: PoolOfWorkerpool(wp)},
			shutdown:     wp.StopWait,
		}, nil
	case KindConc:
		cp := conc.New().WithMaxGoroutines(size)
		return &BoundedPool{
			countingPool: &countingPool{inner: PoolOfConc(cp)},
			shutdown:     cp.Wait,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPoolKind, kind)
	}
}
