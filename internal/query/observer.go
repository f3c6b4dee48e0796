package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	"postgrip/internal/eventbus"
)

// Request describes one fetch an Observer wants run
type Request struct {
	Key   Key
	Seq   uint64
	Force bool
	ID    string
}

// Result is the outcome of running a Request
type Result[T any] struct {
	Request  Request
	Data     T
	Err      error
	Duration time.Duration
}

// Observer is the state machine behind one screen. It is not safe for
// concurrent use: SetKey, Refetch, Commit and State belong to the UI loop,
// only Run may be called from a command goroutine.
type Observer[T any] struct {
	query    *Query[T]
	key      Key
	hasKey   bool
	seq      uint64
	inflight bool
	state    State[T]

	prev    T
	hasPrev bool

	discarded int
}

// NewObserver creates an idle observer for q
func NewObserver[T any](q *Query[T]) *Observer[T] {
	return &Observer[T]{query: q, state: Idle[T]{}}
}

// State returns the current state
func (o *Observer[T]) State() State[T] {
	return o.state
}

// Key returns the current key; zero before the first SetKey
func (o *Observer[T]) Key() Key {
	return o.key
}

// Discarded counts responses dropped because their key was superseded
func (o *Observer[T]) Discarded() int {
	return o.discarded
}

// SetKey points the observer at key. It returns a request when a fetch is
// needed. Cached data for key is shown at once; without it the last
// successful data stays visible, marked as revalidating, until the new
// response lands.
func (o *Observer[T]) SetKey(key Key) (Request, bool) {
	if o.hasKey && key == o.key {
		if o.inflight {
			return Request{}, false
		}
		if s, ok := o.state.(Success[T]); ok && !s.Revalidating {
			if _, fresh, cached := o.query.client.Peek(key); cached && fresh {
				return Request{}, false
			}
		}
	}

	o.key = key
	o.hasKey = true
	o.seq++

	if data, fresh, ok := o.query.Peek(key); ok {
		o.query.client.tel.CacheHit(context.Background(), key.String(), fresh)
		o.query.client.publish(eventbus.CacheHitEvent{Key: key.String(), Fresh: fresh})
		o.state = Success[T]{Data: data, Revalidating: !fresh}
		o.prev, o.hasPrev = data, true
		if fresh {
			o.inflight = false
			return Request{}, false
		}
		return o.begin(false), true
	}

	if o.hasPrev {
		o.state = Success[T]{Data: o.prev, Revalidating: true}
	} else {
		o.state = Loading[T]{}
	}
	return o.begin(false), true
}

// Refetch forces a new request for the current key, bypassing the cache
func (o *Observer[T]) Refetch() (Request, bool) {
	if !o.hasKey {
		return Request{}, false
	}
	o.seq++
	switch s := o.state.(type) {
	case Success[T]:
		o.state = Success[T]{Data: s.Data, Revalidating: true}
	default:
		o.state = Loading[T]{}
	}
	return o.begin(true), true
}

func (o *Observer[T]) begin(force bool) Request {
	o.inflight = true
	return Request{Key: o.key, Seq: o.seq, Force: force, ID: uuid.NewString()}
}

// Run executes req. It touches no observer state and is meant to be called
// from a tea.Cmd.
func (o *Observer[T]) Run(ctx context.Context, req Request) Result[T] {
	start := time.Now()
	data, err := o.query.run(ctx, req.Key, req.Force, req.ID)
	return Result[T]{Request: req, Data: data, Err: err, Duration: time.Since(start)}
}

// Commit applies res if it answers the current request. Results for a
// superseded key or sequence are discarded and Commit returns false.
func (o *Observer[T]) Commit(res Result[T]) bool {
	if !o.hasKey || res.Request.Key != o.key || res.Request.Seq != o.seq {
		o.discarded++
		client := o.query.client
		client.tel.Discarded(context.Background(), res.Request.Key.String())
		client.publish(eventbus.QueryDiscardedEvent{Key: res.Request.Key.String(), Current: o.key.String()})
		return false
	}

	o.inflight = false
	if res.Err != nil {
		o.state = Failure[T]{Message: res.Err.Error(), Err: res.Err}
		var zero T
		o.prev, o.hasPrev = zero, false
		return true
	}

	o.state = Success[T]{Data: res.Data}
	o.prev, o.hasPrev = res.Data, true
	return true
}

// Reset returns the observer to Idle, forgetting its key and data
func (o *Observer[T]) Reset() {
	var zero T
	o.key = Key{}
	o.hasKey = false
	o.seq++
	o.inflight = false
	o.state = Idle[T]{}
	o.prev, o.hasPrev = zero, false
}
