package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/errs"

	"github.com/sethvargo/go-retry"
)

const (
	AttemptTimeout = 5 * time.Second
	BaseBackoff    = time.Second
	MaxRetries     = 3

	SignatureHeader   = "X-Webhook-Signature"
	EventHeader       = "X-Webhook-Event"
	UnsignedSignature = "unsigned"

	createdAtLayout = "2006-01-02T15:04:05.000Z07:00"
)

var ErrDeliveryFailed = errs.New("webhook delivery failed")

// Envelope field order is part of the signed bytes.
type Envelope struct {
	Event     string `json:"event"`
	CreatedAt string `json:"createdAt"`
	Payload   any    `json:"payload"`
}

// Sleeper waits between attempts; tests replace it to observe delays without sleeping.
type Sleeper func(ctx context.Context, d time.Duration) error

type Option func(*Dispatcher)

func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

func WithSleeper(s Sleeper) Option {
	return func(d *Dispatcher) { d.sleep = s }
}

func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

type Dispatcher struct {
	url    string
	secret string
	client *http.Client
	clock  clock.Clock
	sleep  Sleeper
	logger *slog.Logger

	// deliveries outlive the request that triggered them
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

func NewDispatcher(cfg config.WebhookConfig, logger *slog.Logger, opts ...Option) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		url:     cfg.URL,
		secret:  cfg.Secret,
		client:  &http.Client{},
		clock:   clock.NewRealClock(),
		sleep:   sleepContext,
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send schedules delivery on a background goroutine and returns immediately.
func (d *Dispatcher) Send(event booking.EventType, payload any) {
	if d.url == "" {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("webhook dispatcher closed, dropping event", "event", event.String())
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		if err := d.Deliver(d.baseCtx, event, payload); err != nil {
			d.logger.Error("webhook event dropped", "event", event.String(), "error", err.Error())
		}
	}()
}

// Deliver posts the signed envelope, retrying with 1s, 2s and 4s delays. No URL means no-op.
func (d *Dispatcher) Deliver(ctx context.Context, event booking.EventType, payload any) error {
	if d.url == "" {
		return nil
	}

	body, err := json.Marshal(Envelope{
		Event:     event.String(),
		CreatedAt: d.clock.Now().UTC().Format(createdAtLayout),
		Payload:   payload,
	})
	if err != nil {
		return errs.Wrap(err, "encode webhook envelope")
	}
	signature := Sign(d.secret, body)

	backoff := retry.WithMaxRetries(MaxRetries, retry.NewExponential(BaseBackoff))
	for attempt := 1; ; attempt++ {
		err = d.post(ctx, event, body, signature)
		if err == nil {
			return nil
		}

		delay, stop := backoff.Next()
		if stop {
			return errs.Mark(errs.Wrap(err, fmt.Sprintf("giving up after %d attempts", attempt)), ErrDeliveryFailed)
		}
		d.logger.Warn("webhook attempt failed",
			"event", event.String(),
			"attempt", attempt,
			"retry_in_ms", delay.Milliseconds(),
			"error", err.Error())

		if serr := d.sleep(ctx, delay); serr != nil {
			return errs.Mark(errs.Wrap(serr, "webhook retry aborted"), ErrDeliveryFailed)
		}
	}
}

func (d *Dispatcher) post(ctx context.Context, event booking.EventType, body []byte, signature string) error {
	reqCtx, cancel := context.WithTimeout(ctx, AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)
	req.Header.Set(EventHeader, event.String())

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Close stops accepting events and waits for in-flight deliveries until ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

// Sign returns the hex HMAC-SHA256 of body, or the unsigned sentinel when no secret is set.
func Sign(secret string, body []byte) string {
	if secret == "" {
		return UnsignedSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
