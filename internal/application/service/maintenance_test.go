package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJanitorRunOnceContinuesAfterFailure(t *testing.T) {
	var calls []string
	j := NewJanitor(time.Minute, zap.NewNop(),
		JanitorTask{Name: "broken", Run: func(context.Context) (int64, error) {
			calls = append(calls, "broken")
			return 0, errors.New("db down")
		}},
		JanitorTask{Name: "held", Run: func(context.Context) (int64, error) {
			calls = append(calls, "held")
			return 2, nil
		}},
	)
	j.RunOnce(context.Background())
	assert.Equal(t, []string{"broken", "held"}, calls)
}

func TestJanitorStopsOnCancel(t *testing.T) {
	var runs atomic.Int32
	j := NewJanitor(5*time.Millisecond, nil, JanitorTask{Name: "count", Run: func(context.Context) (int64, error) {
		runs.Add(1)
		return 0, nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := j.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestDraftStoreEvictIdle(t *testing.T) {
	store := NewDraftStore()
	owner := uuid.New()
	now := time.Now()

	idle := store.put(owner, billing.NewDraft(billing.TaxMode{}, nil), now.Add(-2*time.Hour))
	fresh := store.put(owner, billing.NewDraft(billing.TaxMode{}, nil), now)
	busy := store.put(owner, billing.NewDraft(billing.TaxMode{}, nil), now.Add(-2*time.Hour))

	busy.mu.Lock()
	evicted := store.EvictIdle(now.Add(-time.Hour))
	busy.mu.Unlock()

	assert.Equal(t, 1, evicted)
	_, ok := store.get(owner, idle.draft.ID)
	assert.False(t, ok)
	_, ok = store.get(owner, fresh.draft.ID)
	assert.True(t, ok)
	_, ok = store.get(owner, busy.draft.ID)
	assert.True(t, ok, "a draft in use is never evicted")
	_, ok = store.get(uuid.New(), fresh.draft.ID)
	assert.False(t, ok)
}
