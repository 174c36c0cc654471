package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase/shared"
	"mentor-booking/internal/usecase/stats"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 10 * time.Minute
)

// Processor applies the side effects recorded by lifecycle commands: counters, availability
// version bumps and webhooks. Each effect is claimed in its own transaction, so the inline
// call after a command and the background poller never apply the same row twice.
type Processor struct {
	uow      shared.UnitOfWork
	stats    stats.Service
	versions shared.VersionStore
	sender   shared.EventSender
	clock    clock.Clock
	cfg      config.OutboxConfig
	timeout  time.Duration
	logger   *slog.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewProcessor(
	uow shared.UnitOfWork,
	statsService stats.Service,
	versions shared.VersionStore,
	sender shared.EventSender,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		uow:      uow,
		stats:    statsService,
		versions: versions,
		sender:   sender,
		clock:    clk,
		cfg:      cfg.Outbox,
		timeout:  cfg.DB.QueryTimeout,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Apply gives every effect its own deadline; callers typically pass a context detached
// from the request that committed the effect.
func (p *Processor) Apply(ctx context.Context, ids []uuid.UUID) {
	for _, id := range ids {
		if err := p.applyBounded(ctx, id); err != nil {
			p.logger.Error("booking effect failed",
				"effect_id", id.String(),
				"error", err.Error())
		}
	}
}

func (p *Processor) applyBounded(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()
	return p.applyOne(ctx, id)
}

func (p *Processor) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Processor) applyOne(ctx context.Context, id uuid.UUID) error {
	var applied *shared.Effect
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Effects().ClaimByID(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return nil
		}

		if e.Counter != nil {
			if err := p.stats.IncrementCounter(ctx, tx, e.ProfileID, *e.Counter); err != nil {
				return err
			}
		}
		if _, err := p.versions.Bump(ctx, e.MentorID); err != nil {
			return err
		}
		if err := tx.Effects().MarkApplied(ctx, e.ID, p.clock.Now()); err != nil {
			return err
		}
		applied = e
		return nil
	})
	if err != nil {
		// the retry bookkeeping must land even when the effect ran out of time
		retryCtx, cancel := p.bound(context.WithoutCancel(ctx))
		defer cancel()
		p.scheduleRetry(retryCtx, id, err)
		return err
	}
	if applied == nil {
		return nil
	}

	p.sender.Send(applied.Event, applied.Payload)
	p.stats.Invalidate(ctx, applied.ProfileID)
	return nil
}

func (p *Processor) scheduleRetry(ctx context.Context, id uuid.UUID, cause error) {
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Effects().ClaimByID(ctx, id)
		if err != nil || e == nil {
			return err
		}

		attempts := e.Attempts + 1
		status := shared.EffectPending
		if attempts >= p.cfg.MaxAttempts {
			status = shared.EffectFailed
			p.logger.Error("booking effect exhausted retries",
				"effect_id", id.String(),
				"event", e.Event.String(),
				"attempts", attempts)
		}
		runAt := p.clock.Now().Add(RetryDelay(attempts))
		return tx.Effects().MarkRetry(ctx, id, attempts, cause.Error(), runAt, status)
	})
	if err != nil {
		p.logger.Error("failed to reschedule booking effect", "effect_id", id.String(), "error", err.Error())
	}
}

// RetryDelay is the wait before the given (1-based) retry: 1s, 2s, 4s ... capped at ten minutes.
func RetryDelay(attempt int) time.Duration {
	b := retry.WithCappedDuration(maxRetryDelay, retry.NewExponential(baseRetryDelay))
	var d time.Duration
	for i := 0; i < attempt; i++ {
		d, _ = b.Next()
	}
	return d
}

// ProcessDue applies every effect whose run_at has passed, one batch at a time.
func (p *Processor) ProcessDue(ctx context.Context) (int, error) {
	listCtx, cancel := p.bound(ctx)
	defer cancel()

	var ids []uuid.UUID
	err := p.uow.Within(listCtx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		ids, err = tx.Effects().ListDue(ctx, p.clock.Now(), p.cfg.BatchSize)
		return err
	})
	if err != nil {
		return 0, err
	}
	p.Apply(ctx, ids)
	return len(ids), nil
}

// Start launches the poller; Stop ends it and waits for the current batch.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("starting booking effect poller", "interval", p.cfg.PollInterval.String())
	p.wg.Add(1)
	go p.run(ctx)
}

func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("stopping booking effect poller")
		close(p.stopChan)
	})
	p.wg.Wait()
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	p.poll(ctx)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *Processor) poll(ctx context.Context) {
	n, err := p.ProcessDue(ctx)
	if err != nil {
		p.logger.Error("failed to poll booking effects", "error", err.Error())
		return
	}
	if n > 0 {
		p.logger.Debug("processed booking effects", "count", n)
	}
}
