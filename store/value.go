// Package store holds the client-side state of the budgeting app: the auth
// status, the currency preference with its exchange rates, and caches of the
// remote collections.
//
// Every store keeps an immutable snapshot in a Value, replaced wholesale on
// change, so readers never see a partially updated state. Subscribers are
// called with each new snapshot.
package store

import (
	"log/slog"
	"sync"
)

// Value is an observable snapshot.
//
// Notifications are delivered one at a time in the order of the updates, so
// the last snapshot a subscriber receives is always the one Get returns.
type Value[T any] struct {
	mu    sync.Mutex
	v     T
	subs  map[int]func(T)
	last  int
	clone func(T) T // copies the snapshot handed out, if set

	queue      []notification[T]
	delivering bool
}

type notification[T any] struct {
	v   T
	ids []int
}

// Get returns the current snapshot.
func (x *Value[T]) Get() T {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.out(x.v)
}

func (x *Value[T]) out(v T) T {
	if x.clone == nil {
		return v
	}
	return x.clone(v)
}

// Subscribe calls fn with the current snapshot, then with every new one until
// the returned function is called.
//
// fn is called before Subscribe returns unless another goroutine is already
// delivering notifications, in which case that goroutine calls it.
func (x *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	x.mu.Lock()
	if x.subs == nil {
		x.subs = make(map[int]func(T))
	}
	x.last++
	id := x.last
	x.subs[id] = fn
	drain := x.enqueue(notification[T]{v: x.v, ids: []int{id}})
	x.mu.Unlock()

	if drain {
		x.deliver()
	}
	return func() {
		x.mu.Lock()
		delete(x.subs, id)
		x.mu.Unlock()
	}
}

// set replaces the snapshot and notifies subscribers.
func (x *Value[T]) set(v T) { x.update(func(T) T { return v }) }

// update replaces the snapshot by f(current) and notifies subscribers.
// Subscribers are called outside the lock and may read or update the value.
// An update made while notifications are being delivered is queued and
// delivered after them.
func (x *Value[T]) update(f func(T) T) {
	x.mu.Lock()
	x.v = f(x.v)
	ids := make([]int, 0, len(x.subs))
	for id := range x.subs {
		ids = append(ids, id)
	}
	drain := x.enqueue(notification[T]{v: x.v, ids: ids})
	x.mu.Unlock()

	if drain {
		x.deliver()
	}
}

// enqueue queues n and reports whether the caller must deliver the queue.
// x.mu must be held.
func (x *Value[T]) enqueue(n notification[T]) bool {
	x.queue = append(x.queue, n)
	if x.delivering {
		return false
	}
	x.delivering = true
	return true
}

// deliver calls the subscribers of every queued notification until the queue is empty.
func (x *Value[T]) deliver() {
	done := false
	defer func() {
		if !done {
			// a subscriber panicked: let the next update deliver the rest.
			x.mu.Lock()
			x.delivering = false
			x.mu.Unlock()
		}
	}()
	for {
		x.mu.Lock()
		if len(x.queue) == 0 {
			x.delivering = false
			x.mu.Unlock()
			done = true
			return
		}
		n := x.queue[0]
		x.queue = x.queue[1:]
		subs := make([]func(T), 0, len(n.ids))
		for _, id := range n.ids {
			if fn, ok := x.subs[id]; ok {
				subs = append(subs, fn)
			}
		}
		x.mu.Unlock()

		for _, fn := range subs {
			fn(x.out(n.v))
		}
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
