// Package gate implements the capacity gates the executor uses to enforce
// global, per-backend, and per-handler concurrency caps: a counting
// semaphore with a priority-ordered waiter queue.
//
// Waiters are kept in per-priority buckets built on container/list, so a
// canceled waiter can remove itself in O(1) given the *list.Element it was
// handed at enqueue time — no scan of the queue is needed. Within a bucket,
// admission is FIFO.
package gate

import (
	"container/list"
	"context"
	"sync"
)

// Gate is a counting semaphore with priority-aware admission. A Gate
// constructed with capacity <= 0 is unbounded: Acquire and Release become
// no-ops, matching the spec's rule that unbounded caps need no synthetic
// semaphore.
type Gate struct {
	mu        sync.Mutex
	capacity  int
	unbounded bool
	inUse     int
	buckets   map[int]*list.List
}

// New returns a Gate with the given capacity. capacity <= 0 means
// unbounded.
func New(capacity int) *Gate {
	return &Gate{
		capacity:  capacity,
		unbounded: capacity <= 0,
		buckets:   make(map[int]*list.List),
	}
}

type waiter struct {
	ch chan struct{}
}

// Acquire blocks until a permit is available or ctx is done, whichever
// comes first. Waiters are admitted highest-priority-first; FIFO breaks
// ties within a priority.
func (g *Gate) Acquire(ctx context.Context, priority int) error {
	if g == nil || g.unbounded {
		return nil
	}

	g.mu.Lock()
	if g.inUse < g.capacity {
		g.inUse++
		g.mu.Unlock()
		return nil
	}

	w := &waiter{ch: make(chan struct{})}
	bucket := g.bucketLocked(priority)
	elem := bucket.PushBack(w)
	g.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		select {
		case <-w.ch:
			// Woken concurrently with cancellation: the permit is already
			// ours, but the caller is walking away, so hand it straight
			// back to the next waiter instead of leaking it.
			g.mu.Unlock()
			g.Release()
		default:
			bucket.Remove(elem)
			g.mu.Unlock()
		}
		return ctx.Err()
	}
}

// Release returns a permit to the gate, waking the highest-priority waiter
// (FIFO among equal priorities) if one is queued, or decrementing the
// in-use count otherwise.
func (g *Gate) Release() {
	if g == nil || g.unbounded {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if elem, priority, ok := g.frontOfHighestBucketLocked(); ok {
		bucket := g.buckets[priority]
		bucket.Remove(elem)
		w := elem.Value.(*waiter)
		close(w.ch)
		return
	}
	g.inUse--
}

// InUse reports the number of permits currently held.
func (g *Gate) InUse() int {
	if g == nil || g.unbounded {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inUse
}

// Capacity reports the configured cap, or 0 for an unbounded gate.
func (g *Gate) Capacity() int {
	if g == nil || g.unbounded {
		return 0
	}
	return g.capacity
}

// Waiting reports the number of waiters currently queued, across all
// priorities. Exposed for tests and introspection.
func (g *Gate) Waiting() int {
	if g == nil || g.unbounded {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, bucket := range g.buckets {
		n += bucket.Len()
	}
	return n
}

func (g *Gate) bucketLocked(priority int) *list.List {
	bucket, ok := g.buckets[priority]
	if !ok {
		bucket = list.New()
		g.buckets[priority] = bucket
	}
	return bucket
}

// frontOfHighestBucketLocked returns the front element of the
// highest-priority non-empty bucket. Priority bands are small by design
// (spec.md §3), so a linear scan over distinct priorities in use is
// cheaper and simpler than keeping a separate ordered index.
func (g *Gate) frontOfHighestBucketLocked() (*list.Element, int, bool) {
	best := 0
	found := false
	for priority, bucket := range g.buckets {
		if bucket.Len() == 0 {
			continue
		}
		if !found || priority > best {
			best = priority
			found = true
		}
	}
	if !found {
		return nil, 0, false
	}
	return g.buckets[best].Front(), best, true
}
