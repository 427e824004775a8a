package monitor

import (
	"context"
	"time"

	"github.com/adamdecaf/farecheck/internal/browser"
	"github.com/adamdecaf/farecheck/internal/healthcheck"
	"github.com/adamdecaf/farecheck/internal/notify"

	"github.com/moov-io/base/log"
	"github.com/moov-io/base/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type RunnerConfig struct {
	TickEvery     time.Duration
	MaxConcurrent int64
}

// Runner drives the scheduler: on each tick it acquires due entities and
// executes their jobs in parallel, bounded by a semaphore. One entity's
// failure never affects another's scheduling.
type Runner struct {
	logger   log.Logger
	sched    *Scheduler
	executor browser.Executor
	notifier *notify.Notifier
	pinger   healthcheck.Pinger

	tickEvery time.Duration
	sem       *semaphore.Weighted
}

func NewRunner(logger log.Logger, sched *Scheduler, executor browser.Executor, notifier *notify.Notifier, pinger healthcheck.Pinger, conf RunnerConfig) *Runner {
	if conf.TickEvery <= 0 {
		conf.TickEvery = time.Minute
	}
	if conf.MaxConcurrent <= 0 {
		conf.MaxConcurrent = 4
	}
	return &Runner{
		logger:    logger,
		sched:     sched,
		executor:  executor,
		notifier:  notifier,
		pinger:    pinger,
		tickEvery: conf.TickEvery,
		sem:       semaphore.NewWeighted(conf.MaxConcurrent),
	}
}

// Run loops until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tickEvery)
	defer ticker.Stop()

	r.RunDue(ctx, r.sched.timeService.Now())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case now := <-ticker.C:
			r.RunDue(ctx, now)
		}
	}
}

// RunDue acquires and executes everything due as of now, waiting for all
// started jobs to finish.
func (r *Runner) RunDue(ctx context.Context, now time.Time) {
	var g errgroup.Group

	for _, id := range r.sched.Tick(now) {
		job, ok := r.sched.Acquire(id)
		if !ok {
			continue
		}

		g.Go(func() error {
			if err := r.sem.Acquire(ctx, 1); err != nil {
				// Shutting down, give the job back untouched so the
				// entity is still due on the next start.
				r.sched.Release(job)
				return nil
			}
			defer r.sem.Release(1)

			r.runJob(ctx, job)
			return nil
		})
	}

	_ = g.Wait()
}

func (r *Runner) runJob(ctx context.Context, job *Job) {
	ctx, span := telemetry.StartSpan(ctx, "monitor-run", trace.WithAttributes(
		attribute.String("entity", string(job.Entity.Identity)),
		attribute.String("run_id", job.RunID),
	))
	defer span.End()

	logger := r.logger.With(log.Fields{
		"entity": log.String(string(job.Entity.Identity)),
		"run_id": log.String(job.RunID),
	})

	outcome := r.executor.Run(ctx, requestFor(job.Entity))
	span.SetAttributes(attribute.String("outcome", string(outcome.Kind)))

	rescheduled := r.sched.Complete(job)

	logger.Logf("run finished with outcome %s (rescheduled=%v)", outcome.Kind, rescheduled)

	// The acquired policy snapshot governs this job's notifications even if
	// a reload happened mid-flight.
	pol := job.Entity.Policy

	msg := notify.Classify(string(job.Entity.Identity), outcome, notify.Formatting{
		TwentyFourHourFormat: pol.TwentyFourHourFormat,
	})
	r.notifier.Deliver(ctx, string(job.Entity.Identity), pol.NotificationLevel, msg, pol.NotificationURLs)

	if pol.HealthchecksURL != "" {
		success := outcome.Kind != browser.OutcomeError
		if err := r.pinger.Ping(ctx, pol.HealthchecksURL, success); err != nil {
			logger.Warn().Logf("healthcheck ping failed: %v", err)
		}
	}
}

func requestFor(entity Entity) browser.Request {
	return browser.Request{
		Identity:           string(entity.Identity),
		Username:           entity.Username,
		Password:           entity.Password,
		ConfirmationNumber: entity.ConfirmationNumber,
		FirstName:          entity.FirstName,
		LastName:           entity.LastName,
		CheckFares:         entity.Policy.CheckFares,
		BrowserPath:        entity.Policy.BrowserPath,
	}
}
