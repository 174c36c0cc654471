//go:build unit

package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra/webhook"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func (r *recordingSleeper) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

type captured struct {
	body    []byte
	headers http.Header
}

func newServer(t *testing.T, statuses ...int) (*httptest.Server, func() []captured) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		idx := len(calls)
		calls = append(calls, captured{body: body, headers: r.Header.Clone()})
		mu.Unlock()

		status := http.StatusOK
		if idx < len(statuses) {
			status = statuses[idx]
		} else if len(statuses) > 0 {
			status = statuses[len(statuses)-1]
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), calls...)
	}
}

var fixedNow = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

func newDispatcher(url, secret string, sleeper *recordingSleeper) *webhook.Dispatcher {
	return webhook.NewDispatcher(
		config.WebhookConfig{URL: url, Secret: secret},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		webhook.WithClock(clock.NewMockClock(fixedNow)),
		webhook.WithSleeper(sleeper.Sleep),
	)
}

func TestDeliver_SignsEnvelope(t *testing.T) {
	srv, calls := newServer(t)
	d := newDispatcher(srv.URL, "s", &recordingSleeper{})

	err := d.Deliver(context.Background(), booking.EventCreated, map[string]any{})
	require.NoError(t, err)
	require.Len(t, calls(), 1)

	got := calls()[0]
	assert.Equal(t, `{"event":"booking.created","createdAt":"2025-06-10T08:00:00.000Z","payload":{}}`, string(got.body))

	mac := hmac.New(sha256.New, []byte("s"))
	mac.Write(got.body)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), got.headers.Get(webhook.SignatureHeader))
	assert.Equal(t, "booking.created", got.headers.Get(webhook.EventHeader))
	assert.Equal(t, "application/json", got.headers.Get("Content-Type"))
}

func TestDeliver_UnsignedWithoutSecret(t *testing.T) {
	srv, calls := newServer(t)
	d := newDispatcher(srv.URL, "", &recordingSleeper{})

	require.NoError(t, d.Deliver(context.Background(), booking.EventCancelled, json.RawMessage(`{"a":1}`)))
	require.Len(t, calls(), 1)
	assert.Equal(t, webhook.UnsignedSignature, calls()[0].headers.Get(webhook.SignatureHeader))
}

func TestDeliver_RetriesWithBackoff(t *testing.T) {
	t.Run("always failing destination gets four attempts", func(t *testing.T) {
		srv, calls := newServer(t, http.StatusInternalServerError)
		sleeper := &recordingSleeper{}
		d := newDispatcher(srv.URL, "s", sleeper)

		err := d.Deliver(context.Background(), booking.EventCreated, map[string]any{})
		require.Error(t, err)
		assert.True(t, errs.Is(err, webhook.ErrDeliveryFailed))
		assert.Len(t, calls(), 4)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.Delays())
	})

	t.Run("recovers on third attempt", func(t *testing.T) {
		srv, calls := newServer(t, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusNoContent)
		sleeper := &recordingSleeper{}
		d := newDispatcher(srv.URL, "s", sleeper)

		require.NoError(t, d.Deliver(context.Background(), booking.EventCompleted, map[string]any{}))
		assert.Len(t, calls(), 3)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.Delays())
	})

	t.Run("sleep interrupted stops retrying", func(t *testing.T) {
		srv, calls := newServer(t, http.StatusInternalServerError)
		d := webhook.NewDispatcher(
			config.WebhookConfig{URL: srv.URL, Secret: "s"},
			slog.New(slog.NewTextHandler(io.Discard, nil)),
			webhook.WithSleeper(func(context.Context, time.Duration) error { return context.Canceled }),
		)

		err := d.Deliver(context.Background(), booking.EventCreated, map[string]any{})
		assert.True(t, errs.Is(err, webhook.ErrDeliveryFailed))
		assert.Len(t, calls(), 1)
	})
}

func TestDeliver_NoURLIsNoop(t *testing.T) {
	d := newDispatcher("", "s", &recordingSleeper{})
	assert.NoError(t, d.Deliver(context.Background(), booking.EventCreated, map[string]any{}))
	d.Send(booking.EventCreated, map[string]any{})
	assert.NoError(t, d.Close(context.Background()))
}

func TestSend_AsyncAndClose(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	d := newDispatcher(srv.URL, "s", &recordingSleeper{})

	d.Send(booking.EventCreated, map[string]any{"n": 1})
	assert.Equal(t, int32(0), hits.Load(), "send must not block on delivery")

	close(release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, int32(1), hits.Load())

	d.Send(booking.EventCreated, map[string]any{"n": 2})
	assert.Equal(t, int32(1), hits.Load())
}

func TestSign(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("body"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), webhook.Sign("secret", []byte("body")))
	assert.Equal(t, "unsigned", webhook.Sign("", []byte("body")))
}
