// Package worker runs the background dispatch pool. It is intentionally
// decoupled from the HTTP layer: the api package holds a worker.Enqueuer
// interface and calls Enqueue after acknowledging the webhook — it never
// imports the concrete Runner type.
//
// Delivery is at-most-once by design: a notice dropped on queue overflow or
// failed in dispatch is logged and counted, never re-queued.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yokweb/billing-notifier/internal/metrics"
	"github.com/yokweb/billing-notifier/internal/stripe"
)

// ─── INTERFACES ───────────────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to hand off a
// classified notice after the webhook response has been written. In tests,
// any struct with an Enqueue method satisfies the interface.
type Enqueuer interface {
	Enqueue(ctx context.Context, notice stripe.Notice) error
}

// Processor handles one notice end to end. The concrete implementation is
// *notify.Notifier.
type Processor interface {
	Process(ctx context.Context, notice stripe.Notice)
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. Zero values fall back
// to the defaults from DefaultRunnerConfig.
type RunnerConfig struct {
	// Workers is the number of concurrent dispatch goroutines. Default: 3.
	Workers int

	// DispatchTimeout is the per-delivery context deadline, covering the
	// customer lookup, portal-session creation, and mail submission for one
	// notice. Default: 30s.
	DispatchTimeout time.Duration
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:         3,
		DispatchTimeout: 30 * time.Second,
	}
}

// delivery pairs a notice with an id for log correlation across goroutines.
type delivery struct {
	id     uuid.UUID
	notice stripe.Notice
}

// Runner manages the pool of dispatch goroutines fed from an in-process
// channel. The webhook handler enqueues; the pool drains independently of any
// HTTP request lifetime.
type Runner struct {
	proc   Processor
	cfg    RunnerConfig
	logger *slog.Logger

	queue chan delivery
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(proc Processor, cfg RunnerConfig, logger *slog.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultRunnerConfig().Workers
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = DefaultRunnerConfig().DispatchTimeout
	}

	return &Runner{
		proc:   proc,
		cfg:    cfg,
		logger: logger,
		// Buffer is generous relative to webhook arrival rate so Enqueue
		// never blocks the already-acknowledged HTTP handler.
		queue: make(chan delivery, cfg.Workers*8),
	}
}

// Enqueue pushes a notice onto the in-process channel. It satisfies the
// Enqueuer interface. If the channel is full it returns an error rather than
// blocking; the caller logs and drops, consistent with best-effort delivery.
func (r *Runner) Enqueue(_ context.Context, notice stripe.Notice) error {
	d := delivery{id: uuid.New(), notice: notice}
	select {
	case r.queue <- d:
		r.logger.Debug("worker: enqueued notice",
			"delivery_id", d.id,
			"event_id", notice.EventID,
			"kind", string(notice.Kind),
		)
		return nil
	default:
		metrics.QueueDropped.Inc()
		return errors.New("worker: dispatch queue is full")
	}
}

// Start launches the worker pool. It blocks until ctx is cancelled and all
// workers have drained. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers)

	for i := range r.cfg.Workers {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-r.queue:
			r.dispatch(ctx, d, log)
		}
	}
}

// dispatch runs one delivery under its own deadline and error boundary. A
// panic in processing is confined to this delivery — the worker goroutine
// keeps serving the queue.
func (r *Runner) dispatch(ctx context.Context, d delivery, log *slog.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("worker: panic during dispatch",
				"delivery_id", d.id,
				"event_id", d.notice.EventID,
				"panic", rec,
			)
		}
	}()

	dispatchCtx, cancel := context.WithTimeout(ctx, r.cfg.DispatchTimeout)
	defer cancel()

	r.proc.Process(dispatchCtx, d.notice)
}
