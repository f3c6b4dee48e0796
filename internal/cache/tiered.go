package cache

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Tiered reads through a local in-process store to an optional shared store.
// Writes go to both; a failing shared tier degrades to local-only with a warning.
type Tiered struct {
	local  *Memory
	shared Store
	log    *logrus.Entry
}

// NewTiered combines local and shared; shared may be nil
func NewTiered(local *Memory, shared Store, log *logrus.Entry) *Tiered {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Tiered{local: local, shared: shared, log: log}
}

// Peek answers from the local tier only
func (t *Tiered) Peek(key string) ([]byte, bool) {
	return t.local.Peek(key)
}

// Get checks local, then shared. Shared hits are copied into local.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	if value, err := t.local.Get(ctx, key); err == nil {
		return value, nil
	} else if !errors.Is(err, ErrMiss) {
		return nil, err
	}

	if t.shared == nil {
		return nil, ErrMiss
	}

	value, err := t.shared.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			t.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("shared cache read failed")
		}
		return nil, ErrMiss
	}

	_ = t.local.Set(ctx, key, value, -1)
	return value, nil
}

// Set writes to both tiers
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := t.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if t.shared != nil {
		if err := t.shared.Set(ctx, key, value, ttl); err != nil {
			t.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("shared cache write failed")
		}
	}
	return nil
}

// Delete removes from both tiers
func (t *Tiered) Delete(ctx context.Context, key string) error {
	if err := t.local.Delete(ctx, key); err != nil {
		return err
	}
	if t.shared != nil {
		if err := t.shared.Delete(ctx, key); err != nil {
			t.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("shared cache delete failed")
		}
	}
	return nil
}
