//go:build unit

package outbox_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra/cache"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/outbox"
	"mentor-booking/internal/usecase/shared"
	"mentor-booking/internal/usecase/stats"
	"mentor-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx       context.Context
	clock     *clock.MockClock
	store     *memstore.Store
	sender    *memstore.Sender
	versions  *cache.Versions
	processor *outbox.Processor
	stats     stats.Service
	cfg       config.Config
	logger    *slog.Logger
	profile   *mentor.Profile
	booking   *booking.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	cfg := config.NewTestConfig()
	cfg.Outbox.MaxAttempts = 3
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memstore.New()
	kv, err := cache.NewMemory(cfg.Cache.MaxEntries, clk)
	require.NoError(t, err)
	versions := cache.NewVersions()
	sender := &memstore.Sender{}
	statsService := stats.NewService(store.Reader(), kv, cfg, clk, logger)

	profile := store.AddProfile(uuid.New(), "Grace Hopper", true)
	slot, err := booking.ReconstructTimeSlot(now.Add(3*time.Hour), now.Add(3*time.Hour+booking.SessionDuration))
	require.NoError(t, err)
	b := booking.Reconstruct(uuid.New(), uuid.New(), profile.OwnerID(), profile.ID(), 1, slot,
		booking.StatusPending, nil, "abc-defg-hij", nil, nil, nil, now, now)
	store.PutBooking(b)

	return &fixture{
		ctx:       context.Background(),
		clock:     clk,
		store:     store,
		sender:    sender,
		versions:  versions,
		processor: outbox.NewProcessor(store, statsService, versions, sender, clk, cfg, logger),
		stats:     statsService,
		cfg:       cfg,
		logger:    logger,
		profile:   profile,
		booking:   b,
	}
}

func (f *fixture) enqueue(t *testing.T, event booking.EventType, counter *mentor.Counter) uuid.UUID {
	t.Helper()
	e, err := shared.NewEffect(f.booking, event, counter, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.store.Within(f.ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Effects().Enqueue(ctx, e)
	}))
	return e.ID
}

func counterOf(c mentor.Counter) *mentor.Counter { return &c }

func TestApply(t *testing.T) {
	t.Run("counter, version and webhook in one pass", func(t *testing.T) {
		f := newFixture(t)
		id := f.enqueue(t, booking.EventCompleted, counterOf(mentor.CounterCompletedSessions))

		f.processor.Apply(f.ctx, []uuid.UUID{id})

		assert.Equal(t, 1, f.store.StatsOf(f.profile.ID()).CompletedSessions)
		version, err := f.versions.Current(f.ctx, f.profile.OwnerID())
		require.NoError(t, err)
		assert.Equal(t, int64(2), version)

		events := f.sender.Events()
		require.Len(t, events, 1)
		assert.Equal(t, booking.EventCompleted, events[0].Event)
		var payload booking.EventPayload
		require.NoError(t, json.Unmarshal(events[0].Payload.(json.RawMessage), &payload))
		assert.Equal(t, f.booking.ID(), payload.BookingID)

		e, ok := f.store.Effect(id)
		require.True(t, ok)
		assert.Equal(t, shared.EffectApplied, e.Status)
	})

	t.Run("applying twice has no further effect", func(t *testing.T) {
		f := newFixture(t)
		id := f.enqueue(t, booking.EventCreated, counterOf(mentor.CounterTotalSessions))

		f.processor.Apply(f.ctx, []uuid.UUID{id})
		f.processor.Apply(f.ctx, []uuid.UUID{id})

		assert.Equal(t, 1, f.store.StatsOf(f.profile.ID()).TotalSessions)
		assert.Len(t, f.sender.Events(), 1)
	})

	t.Run("concurrent appliers claim once", func(t *testing.T) {
		f := newFixture(t)
		id := f.enqueue(t, booking.EventCreated, counterOf(mentor.CounterTotalSessions))

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				f.processor.Apply(f.ctx, []uuid.UUID{id})
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, f.store.StatsOf(f.profile.ID()).TotalSessions)
		assert.Len(t, f.sender.Events(), 1)
	})

	t.Run("effect without counter only bumps and notifies", func(t *testing.T) {
		f := newFixture(t)
		id := f.enqueue(t, booking.EventRescheduled, nil)

		f.processor.Apply(f.ctx, []uuid.UUID{id})

		st := f.store.StatsOf(f.profile.ID())
		assert.Zero(t, st.TotalSessions+st.CompletedSessions+st.CancelledSessions)
		assert.Equal(t, []booking.EventType{booking.EventRescheduled}, f.sender.Types())
	})
}

func TestApply_RetryAndGiveUp(t *testing.T) {
	f := newFixture(t)
	f.store.FailIncrement = errs.New("connection reset")
	id := f.enqueue(t, booking.EventCancelled, counterOf(mentor.CounterCancelledSessions))

	f.processor.Apply(f.ctx, []uuid.UUID{id})
	e, _ := f.store.Effect(id)
	assert.Equal(t, shared.EffectPending, e.Status)
	assert.Equal(t, 1, e.Attempts)
	assert.Equal(t, f.clock.Now().Add(time.Second), e.RunAt)
	require.NotNil(t, e.LastError)
	assert.Contains(t, *e.LastError, "connection reset")

	n, err := f.processor.ProcessDue(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "not due before its retry delay")

	f.clock.Add(time.Second)
	_, err = f.processor.ProcessDue(f.ctx)
	require.NoError(t, err)
	e, _ = f.store.Effect(id)
	assert.Equal(t, 2, e.Attempts)
	assert.Equal(t, f.clock.Now().Add(2*time.Second), e.RunAt)

	f.clock.Add(2 * time.Second)
	_, err = f.processor.ProcessDue(f.ctx)
	require.NoError(t, err)
	e, _ = f.store.Effect(id)
	assert.Equal(t, 3, e.Attempts)
	assert.Equal(t, shared.EffectFailed, e.Status)

	f.store.FailIncrement = nil
	f.clock.Add(time.Hour)
	n, err = f.processor.ProcessDue(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.sender.Events())
}

type deadlineUoW struct {
	shared.UnitOfWork
	mu        sync.Mutex
	deadlines []bool
}

func (u *deadlineUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	_, ok := ctx.Deadline()
	u.mu.Lock()
	u.deadlines = append(u.deadlines, ok)
	u.mu.Unlock()
	return u.UnitOfWork.Within(ctx, fn)
}

func TestApply_BoundsEachEffect(t *testing.T) {
	f := newFixture(t)
	uow := &deadlineUoW{UnitOfWork: f.store}
	processor := outbox.NewProcessor(uow, f.stats, f.versions, f.sender, f.clock, f.cfg, f.logger)

	f.store.FailIncrement = errs.New("connection reset")
	failing := f.enqueue(t, booking.EventCancelled, counterOf(mentor.CounterCancelledSessions))
	processor.Apply(context.WithoutCancel(f.ctx), []uuid.UUID{failing})

	f.store.FailIncrement = nil
	ok := f.enqueue(t, booking.EventCreated, counterOf(mentor.CounterTotalSessions))
	processor.Apply(context.WithoutCancel(f.ctx), []uuid.UUID{ok})

	// failed apply, its retry bookkeeping, then the successful apply
	require.Len(t, uow.deadlines, 3)
	for i, hasDeadline := range uow.deadlines {
		assert.True(t, hasDeadline, "transaction %d ran without a deadline", i)
	}
	e, _ := f.store.Effect(failing)
	assert.Equal(t, 1, e.Attempts)
	e, _ = f.store.Effect(ok)
	assert.Equal(t, shared.EffectApplied, e.Status)
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, time.Second, outbox.RetryDelay(1))
	assert.Equal(t, 2*time.Second, outbox.RetryDelay(2))
	assert.Equal(t, 4*time.Second, outbox.RetryDelay(3))
	assert.Equal(t, 10*time.Minute, outbox.RetryDelay(20))
}

func TestStartStop(t *testing.T) {
	f := newFixture(t)
	id := f.enqueue(t, booking.EventCreated, counterOf(mentor.CounterTotalSessions))

	f.processor.Start(f.ctx)
	require.Eventually(t, func() bool {
		e, _ := f.store.Effect(id)
		return e.Status == shared.EffectApplied
	}, 2*time.Second, 10*time.Millisecond)
	f.processor.Stop()
	f.processor.Stop()

	assert.Equal(t, 1, f.store.StatsOf(f.profile.ID()).TotalSessions)
}
