// Package query caches remote reads by key and tracks per-screen query state.
//
// Client owns the cache and collapses concurrent fetches of one key into a
// single call. Query binds a typed fetcher to a Client. Observer is the state
// machine a screen drives from its Update loop: it decides when to fetch,
// keeps previous data while a new key loads, and drops responses that arrive
// for a key the screen has already left.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"postgrip/internal/cache"
	"postgrip/internal/eventbus"
	"postgrip/internal/observe"
)

// Entry is a cached result as stored in the cache
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Client is safe for concurrent use
type Client struct {
	store     cache.Store
	staleTime time.Duration
	cacheTTL  time.Duration
	group     singleflight.Group
	log       *logrus.Entry
	bus       eventbus.EventBus
	tel       *observe.Telemetry
	now       func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithStaleTime sets how long a fetched entry counts as fresh. Zero means
// every cached entry is shown but revalidated.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

// WithCacheTTL sets how long entries stay in the cache at all
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

// WithLogger sets the logger
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) {
		if entry != nil {
			c.log = entry
		}
	}
}

// WithBus publishes query lifecycle events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(c *Client) { c.bus = bus }
}

// WithTelemetry records spans and metrics for fetches
func WithTelemetry(tel *observe.Telemetry) Option {
	return func(c *Client) {
		if tel != nil {
			c.tel = tel
		}
	}
}

// withClock overrides time.Now in tests
func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client backed by store
func NewClient(store cache.Store, opts ...Option) *Client {
	c := &Client{
		store:    store,
		cacheTTL: 5 * time.Minute,
		log:      logrus.NewEntry(logrus.StandardLogger()),
		tel:      observe.Noop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Peek reads the in-process tier only, so it never blocks the UI loop.
// Stores without a local tier always miss.
func (c *Client) Peek(key Key) (Entry, bool, bool) {
	peeker, ok := c.store.(cache.Peeker)
	if !ok {
		return Entry{}, false, false
	}
	raw, found := peeker.Peek(key.String())
	if !found {
		return Entry{}, false, false
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.log.WithFields(logrus.Fields{"key": key.String(), "error": err}).Warn("corrupt cache entry")
		return Entry{}, false, false
	}
	return e, c.isFresh(e), true
}

// Invalidate drops key from the cache
func (c *Client) Invalidate(ctx context.Context, key Key) error {
	if err := c.store.Delete(ctx, key.String()); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	return nil
}

func (c *Client) isFresh(e Entry) bool {
	return c.staleTime > 0 && c.now().Sub(e.FetchedAt) < c.staleTime
}

func (c *Client) lookup(ctx context.Context, key Key) (Entry, bool) {
	raw, err := c.store.Get(ctx, key.String())
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.log.WithFields(logrus.Fields{"key": key.String(), "error": err}).Warn("cache read failed")
		}
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

// load returns fresh cached data for key, or runs fetch once for all
// concurrent callers and stores the encoded result.
func (c *Client) load(ctx context.Context, key Key, force bool, requestID string, fetch func(context.Context) (any, error)) (json.RawMessage, error) {
	id := key.String()

	if !force {
		if e, ok := c.lookup(ctx, key); ok && c.isFresh(e) {
			c.tel.CacheHit(ctx, id, true)
			c.publish(eventbus.CacheHitEvent{Key: id, Fresh: true})
			return e.Data, nil
		}
	}

	v, err, shared := c.group.Do(id, func() (any, error) {
		log := c.log.WithFields(logrus.Fields{"key": id, "request_id": requestID})
		c.publish(eventbus.QueryStartedEvent{Key: id, RequestID: requestID})

		spanCtx, span := c.tel.StartFetch(ctx, id, requestID)
		start := c.now()
		data, err := fetch(spanCtx)
		elapsed := c.now().Sub(start)
		c.tel.EndFetch(spanCtx, span, id, elapsed, err)

		if err != nil {
			log.WithError(err).Warn("fetch failed")
			c.publish(eventbus.QueryFailedEvent{Key: id, RequestID: requestID, Err: err})
			return nil, err
		}

		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", id, err)
		}
		entry, err := json.Marshal(Entry{Data: encoded, FetchedAt: c.now()})
		if err != nil {
			return nil, fmt.Errorf("failed to encode entry %s: %w", id, err)
		}
		if err := c.store.Set(ctx, id, entry, c.cacheTTL); err != nil {
			log.WithError(err).Warn("cache write failed")
		}

		log.WithField("duration", elapsed.String()).Debug("fetch completed")
		c.publish(eventbus.QuerySucceededEvent{Key: id, RequestID: requestID, Duration: elapsed})
		return json.RawMessage(encoded), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.WithFields(logrus.Fields{"key": id, "request_id": requestID}).Debug("joined in-flight fetch")
	}
	return v.(json.RawMessage), nil
}

func (c *Client) publish(event eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}

// Fetcher loads the value for key from the remote source
type Fetcher[T any] func(ctx context.Context, key Key) (T, error)

// Query binds a typed fetcher to a Client
type Query[T any] struct {
	client *Client
	fetch  Fetcher[T]
}

// New creates a typed query
func New[T any](client *Client, fetch Fetcher[T]) *Query[T] {
	return &Query[T]{client: client, fetch: fetch}
}

// Client returns the client the query caches through
func (q *Query[T]) Client() *Client {
	return q.client
}

// Peek decodes the locally cached value for key
func (q *Query[T]) Peek(key Key) (T, bool, bool) {
	var zero T
	e, fresh, ok := q.client.Peek(key)
	if !ok {
		return zero, false, false
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, false, false
	}
	return v, fresh, true
}

// Fetch returns fresh cached data for key or fetches it. Concurrent calls
// for one key share a single fetch and its result.
func (q *Query[T]) Fetch(ctx context.Context, key Key) (T, error) {
	return q.run(ctx, key, false, uuid.NewString())
}

// Refresh fetches key even when the cached entry is fresh
func (q *Query[T]) Refresh(ctx context.Context, key Key) (T, error) {
	return q.run(ctx, key, true, uuid.NewString())
}

func (q *Query[T]) run(ctx context.Context, key Key, force bool, requestID string) (T, error) {
	var zero T
	raw, err := q.client.load(ctx, key, force, requestID, func(ctx context.Context) (any, error) {
		return q.fetch(ctx, key)
	})
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return v, nil
}
