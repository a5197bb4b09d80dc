package quota

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-api/internal/common/logger"
)

type fakeClock struct {
	date string
}

func (c *fakeClock) Today() string { return c.date }

type failingStore struct{}

func (failingStore) Get(context.Context, string) (*State, error) {
	return nil, fmt.Errorf("store down")
}
func (failingStore) Set(context.Context, string, *State) error {
	return fmt.Errorf("store down")
}
func (failingStore) Clear(context.Context, string) error {
	return fmt.Errorf("store down")
}

func newMemoryTracker(t *testing.T, clock Clock, limit int) *Tracker {
	t.Helper()
	return NewTrackerWithClock(NewMemoryStore(), clock, limit, logger.NewTestLogger(t))
}

func TestCheck_NewKeyStartsWithFullBudget(t *testing.T) {
	tracker := newMemoryTracker(t, &fakeClock{date: "2026-08-31"}, 5)

	d := tracker.Check(context.Background(), "203.0.113.7")
	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Remaining)
}

func TestConsume_DecrementsUntilRefused(t *testing.T) {
	tracker := newMemoryTracker(t, &fakeClock{date: "2026-08-31"}, 2)
	ctx := context.Background()
	key := "203.0.113.7"

	assert.Equal(t, 1, tracker.Consume(ctx, key))
	assert.Equal(t, 0, tracker.Consume(ctx, key))

	d := tracker.Check(ctx, key)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestConsume_NeverGoesNegative(t *testing.T) {
	tracker := newMemoryTracker(t, &fakeClock{date: "2026-08-31"}, 1)
	ctx := context.Background()
	key := "k"

	assert.Equal(t, 0, tracker.Consume(ctx, key))
	assert.Equal(t, 0, tracker.Consume(ctx, key))
	assert.Equal(t, 0, tracker.Consume(ctx, key))
}

func TestCheck_DateChangeResetsBudget(t *testing.T) {
	clock := &fakeClock{date: "2026-08-31"}
	tracker := newMemoryTracker(t, clock, 3)
	ctx := context.Background()
	key := "k"

	tracker.Consume(ctx, key)
	tracker.Consume(ctx, key)
	tracker.Consume(ctx, key)
	assert.False(t, tracker.Check(ctx, key).Allowed)

	clock.date = "2026-09-01"
	d := tracker.Check(ctx, key)
	assert.True(t, d.Allowed)
	assert.Equal(t, 3, d.Remaining)
}

func TestCheck_RefusalLeavesStateUntouched(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTrackerWithClock(store, &fakeClock{date: "2026-08-31"}, 1, logger.NewTestLogger(t))
	ctx := context.Background()
	key := "k"

	tracker.Consume(ctx, key)
	tracker.Check(ctx, key)
	tracker.Check(ctx, key)

	st, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 0, st.Remaining)
	assert.Equal(t, "2026-08-31", st.LastResetDate)
}

func TestCheck_StoreFailureAllowsRequest(t *testing.T) {
	tracker := NewTrackerWithClock(failingStore{}, &fakeClock{date: "2026-08-31"}, 5, logger.NewTestLogger(t))

	d := tracker.Check(context.Background(), "k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Remaining)
}

func TestReset_ClearsRecord(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTrackerWithClock(store, &fakeClock{date: "2026-08-31"}, 2, logger.NewTestLogger(t))
	ctx := context.Background()

	tracker.Consume(ctx, "k")
	require.NoError(t, tracker.Reset(ctx, "k"))

	st, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, st)
	assert.Equal(t, 2, tracker.Check(ctx, "k").Remaining)
}

func TestMiddleware_ConsumesOnlyOnSuccess(t *testing.T) {
	tracker := newMemoryTracker(t, &fakeClock{date: "2026-08-31"}, 5)

	tests := []struct {
		name          string
		handlerStatus int
		wantRemaining int
	}{
		{"2xx consumes one unit", http.StatusOK, 4},
		{"4xx leaves quota untouched", http.StatusBadRequest, 5},
		{"5xx leaves quota untouched", http.StatusInternalServerError, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tracker.Reset(context.Background(), "198.51.100.4"))

			wrapped := Middleware(tracker, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/demo/estimate", nil)
			req.Header.Set("X-Forwarded-For", "198.51.100.4")
			rec := httptest.NewRecorder()
			wrapped(rec, req)

			assert.Equal(t, tt.handlerStatus, rec.Code)
			d := tracker.Check(context.Background(), "198.51.100.4")
			assert.Equal(t, tt.wantRemaining, d.Remaining)
		})
	}
}

func TestMiddleware_ExhaustedQuotaReturns429(t *testing.T) {
	tracker := newMemoryTracker(t, &fakeClock{date: "2026-08-31"}, 1)
	handlerCalled := false

	wrapped := Middleware(tracker, func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/demo/estimate", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.4")

	rec := httptest.NewRecorder()
	wrapped(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, handlerCalled)

	handlerCalled = false
	rec = httptest.NewRecorder()
	wrapped(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, handlerCalled)
	assert.True(t, strings.Contains(rec.Body.String(), "Daily usage limit reached"))
}

func TestMiddleware_KeysAreIndependent(t *testing.T) {
	tracker := newMemoryTracker(t, &fakeClock{date: "2026-08-31"}, 1)

	wrapped := Middleware(tracker, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, ip := range []string{"198.51.100.4", "198.51.100.5"} {
		req := httptest.NewRequest(http.MethodPost, "/api/demo/estimate", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		wrapped(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "first request from %s", ip)
	}
}
