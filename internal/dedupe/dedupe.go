// Package dedupe makes plan submission at-most-once within a short window:
// identical submissions inside the window share one downstream call and its
// result.
package dedupe

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/goalplan/internal/contract"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultWindow     = 5 * time.Minute
	DefaultMaxEntries = 1024
)

// ErrNoResult is returned when a Submitter reports success without a result.
var ErrNoResult = errors.New("plan submitter returned no result")

// Submitter performs the real plan-creation call. key is the submission
// digest and may be forwarded as an idempotency key.
type Submitter interface {
	Submit(ctx context.Context, key string, sub contract.Submission) (*contract.PlanResult, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, key string, sub contract.Submission) (*contract.PlanResult, error)

func (f SubmitterFunc) Submit(ctx context.Context, key string, sub contract.Submission) (*contract.PlanResult, error) {
	return f(ctx, key, sub)
}

// Outcome describes how a submission was served.
type Outcome struct {
	Result *contract.PlanResult
	Key    string
	// Cached is true when Result came from an earlier call in the window.
	Cached bool
	// Shared is true when Result came from a concurrent identical call.
	Shared bool
}

// Deduplicator wraps a Submitter with a digest-keyed result cache.
type Deduplicator struct {
	next   Submitter
	cache  *Cache[*contract.PlanResult]
	group  singleflight.Group
	logger *zap.Logger

	window     time.Duration
	maxEntries int
	now        func() time.Time
}

type Option func(*Deduplicator)

// WithWindow sets how long a successful result is reused.
func WithWindow(window time.Duration) Option {
	return func(d *Deduplicator) {
		if window > 0 {
			d.window = window
		}
	}
}

// WithMaxEntries bounds the number of cached results.
func WithMaxEntries(n int) Option {
	return func(d *Deduplicator) {
		if n > 0 {
			d.maxEntries = n
		}
	}
}

// WithClock overrides the cache clock.
func WithClock(now func() time.Time) Option {
	return func(d *Deduplicator) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger sets the logger for hits and misses.
func WithLogger(l *zap.Logger) Option {
	return func(d *Deduplicator) {
		if l != nil {
			d.logger = l
		}
	}
}

// New wraps next.
func New(next Submitter, opts ...Option) *Deduplicator {
	d := &Deduplicator{
		next:       next,
		logger:     zap.NewNop(),
		window:     DefaultWindow,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cache = NewCache[*contract.PlanResult](d.window, d.maxEntries, d.now)
	return d
}

// Submit returns the cached result for an identical submission made within
// the window, or calls the wrapped Submitter. Errors from the Submitter are
// returned as-is and never cached.
func (d *Deduplicator) Submit(ctx context.Context, sub contract.Submission) (*contract.PlanResult, error) {
	out, err := d.Do(ctx, sub)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

// Do is Submit with details about how the result was obtained. Concurrent
// identical submissions wait for a single downstream call. That call keeps
// the first caller's context values but not its cancellation, so it can
// finish and fill the cache for the others. Each caller stops waiting when
// its own ctx is done.
func (d *Deduplicator) Do(ctx context.Context, sub contract.Submission) (Outcome, error) {
	key, err := Digest(sub)
	if err != nil {
		return Outcome{}, err
	}

	if n := d.cache.Sweep(); n > 0 {
		d.logger.Debug("dedupe sweep", zap.Int("expired", n))
	}

	if res, ok := d.cache.Get(key); ok {
		d.logger.Info("dedupe hit", zap.String("key", shortKey(key)))
		return Outcome{Result: res, Key: key, Cached: true}, nil
	}

	callCtx := context.WithoutCancel(ctx)
	ch := d.group.DoChan(key, func() (any, error) {
		// A call that finished while we waited may have filled the cache.
		if res, ok := d.cache.Get(key); ok {
			return res, nil
		}
		res, err := d.next.Submit(callCtx, key, sub)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, ErrNoResult
		}
		d.cache.Put(key, res)
		return res, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		d.logger.Info("stopped waiting for plan submission", zap.String("key", shortKey(key)), zap.Error(ctx.Err()))
		return Outcome{Key: key}, ctx.Err()
	case r = <-ch:
	}
	v, err, shared := r.Val, r.Err, r.Shared
	if err != nil {
		d.logger.Warn("plan submission failed", zap.String("key", shortKey(key)), zap.Error(err))
		return Outcome{Key: key}, err
	}

	d.logger.Info("dedupe miss", zap.String("key", shortKey(key)), zap.Bool("shared", shared))
	return Outcome{Result: v.(*contract.PlanResult), Key: key, Shared: shared}, nil
}

// Len returns the number of cached results.
func (d *Deduplicator) Len() int { return d.cache.Len() }

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
