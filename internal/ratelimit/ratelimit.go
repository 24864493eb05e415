// Package ratelimit throttles catalog requests per request class.
//
// One Limiter is created per process and handed to every catalog client so
// that searches, metadata fetches and image downloads share a single budget
// for the whole batch run.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"tracksift/internal/logging"
)

// Class groups requests that share a cooldown window.
type Class string

const (
	ClassSearch   Class = "search"
	ClassMetadata Class = "metadata"
	ClassImage    Class = "image"
)

// Stats counts calls and throttled waits for one class.
type Stats struct {
	Calls     int
	Throttled int
}

// Limiter enforces "if the last call of this class was less than cooldown
// ago, sleep pause before proceeding". The sleep is a fixed pause rather than
// the remaining window.
type Limiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	pause    time.Duration
	buckets  map[Class]*rate.Limiter
	stats    map[Class]*Stats
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
	logger   *slog.Logger
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSleeper overrides how the limiter blocks. Used by tests.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(l *Limiter) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// WithLogger attaches a logger for throttle events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logging.NewComponentLogger(logger, "ratelimit")
	}
}

// New constructs a Limiter. A zero cooldown disables throttling.
func New(cooldown, pause time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		cooldown: cooldown,
		pause:    pause,
		buckets:  make(map[Class]*rate.Limiter),
		stats:    make(map[Class]*Stats),
		now:      time.Now,
		sleep:    SleepWithContext,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until a call of the given class may proceed and records it.
// The limiter lock is held while sleeping so callers are serialized, which
// matches the single-threaded batch driver. Cancellation of ctx aborts the
// sleep.
func (l *Limiter) Wait(ctx context.Context, class Class) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := l.statsFor(class)
	stats.Calls++
	if l.cooldown <= 0 {
		return nil
	}

	bucket, ok := l.buckets[class]
	if !ok {
		bucket = l.newBucket()
		l.buckets[class] = bucket
	}
	if bucket.AllowN(l.now(), 1) {
		return nil
	}

	stats.Throttled++
	l.logger.Debug("rate limit pause",
		logging.String("class", string(class)),
		logging.Duration("pause", l.pause),
	)
	if err := l.sleep(ctx, l.pause); err != nil {
		return err
	}
	// The call happens now; restart the window from here.
	fresh := l.newBucket()
	fresh.AllowN(l.now(), 1)
	l.buckets[class] = fresh
	return nil
}

// Stats returns a copy of the counters for class.
func (l *Limiter) Stats(class Class) Stats {
	if l == nil {
		return Stats{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.stats[class]; ok {
		return *s
	}
	return Stats{}
}

func (l *Limiter) statsFor(class Class) *Stats {
	s, ok := l.stats[class]
	if !ok {
		s = &Stats{}
		l.stats[class] = s
	}
	return s
}

func (l *Limiter) newBucket() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.cooldown), 1)
}

// SleepWithContext sleeps for d or until ctx is cancelled, whichever comes
// first. It returns ctx.Err() on cancellation.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
