package quota

import (
	"context"
	"time"

	"site-api/internal/common/logger"
	"site-api/internal/common/metrics"
)

// Clock supplies the current local calendar date. Injectable so tests can
// cross day boundaries.
type Clock interface {
	Today() string
}

type realClock struct{}

func (realClock) Today() string {
	return time.Now().Format("2006-01-02")
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Remaining int
}

// Tracker enforces a per-key daily usage limit. A store failure never blocks
// the request: the tracker allows and logs instead.
type Tracker struct {
	store  Store
	clock  Clock
	limit  int
	logger logger.Logger
}

func NewTracker(store Store, limit int, log logger.Logger) *Tracker {
	return &Tracker{
		store:  store,
		clock:  realClock{},
		limit:  limit,
		logger: log,
	}
}

// NewTrackerWithClock is NewTracker with an injectable clock.
func NewTrackerWithClock(store Store, clock Clock, limit int, log logger.Logger) *Tracker {
	t := NewTracker(store, limit, log)
	t.clock = clock
	return t
}

// Check reports whether key has budget left today. A stale or missing record
// is reset to the full limit first. Check never consumes.
func (t *Tracker) Check(ctx context.Context, key string) Decision {
	state, err := t.currentState(ctx, key)
	if err != nil {
		metrics.QuotaDecisionsTotal.WithLabelValues("error_allowed").Inc()
		t.logger.WithError(err).Warn("quota store unavailable, allowing request", map[string]interface{}{
			"key": key,
		})
		return Decision{Allowed: true, Remaining: t.limit}
	}

	if state.Remaining <= 0 {
		metrics.QuotaDecisionsTotal.WithLabelValues("refused").Inc()
		return Decision{Allowed: false, Remaining: 0}
	}

	metrics.QuotaDecisionsTotal.WithLabelValues("allowed").Inc()
	return Decision{Allowed: true, Remaining: state.Remaining}
}

// Consume spends one unit of key's daily budget and returns the remainder.
// The count never goes below zero. Store failures are logged and swallowed.
func (t *Tracker) Consume(ctx context.Context, key string) int {
	state, err := t.currentState(ctx, key)
	if err != nil {
		t.logger.WithError(err).Warn("quota store unavailable, skipping consume", map[string]interface{}{
			"key": key,
		})
		return t.limit
	}

	if state.Remaining > 0 {
		state.Remaining--
	}
	if err := t.store.Set(ctx, key, state); err != nil {
		t.logger.WithError(err).Warn("quota state write failed", map[string]interface{}{
			"key": key,
		})
	}
	return state.Remaining
}

// Reset clears key's record so the next check starts a fresh day.
func (t *Tracker) Reset(ctx context.Context, key string) error {
	return t.store.Clear(ctx, key)
}

// Limit returns the configured daily limit.
func (t *Tracker) Limit() int {
	return t.limit
}

// currentState loads key's record, resetting it to a full budget when the
// record is missing or carries a previous day's date.
func (t *Tracker) currentState(ctx context.Context, key string) (*State, error) {
	today := t.clock.Today()

	state, err := t.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if state == nil || state.LastResetDate != today {
		state = &State{LastResetDate: today, Remaining: t.limit}
		if err := t.store.Set(ctx, key, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}
