package sched

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"birthday-coupons/internal/infra/metrics"
	"birthday-coupons/internal/infra/redis"
	"birthday-coupons/internal/usecase"
)

// lockTTL keeps a crashed run from blocking the next day's trigger.
const lockTTL = 23 * time.Hour

// IssuanceWorker drives the daily birthday scan off a cron schedule. A
// Redis lock keyed by the run date short-circuits double invocations;
// the per-user issuance flag remains the actual idempotence guarantee.
type IssuanceWorker struct {
	spec   string
	loc    *time.Location
	uc     usecase.IssuanceUseCase
	locker redis.Locker
	cron   *cron.Cron
	log    *zerolog.Logger
}

func NewIssuanceWorker(spec string, loc *time.Location, uc usecase.IssuanceUseCase, locker redis.Locker, logger *zerolog.Logger) *IssuanceWorker {
	if loc == nil {
		loc = time.UTC
	}
	compLog := logger.With().Str("component", "IssuanceWorker").Logger()
	return &IssuanceWorker{
		spec:   spec,
		loc:    loc,
		uc:     uc,
		locker: locker,
		log:    &compLog,
	}
}

// Run registers the cron entry and blocks until ctx is canceled.
func (w *IssuanceWorker) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(w.loc))
	if _, err := c.AddFunc(w.spec, func() { w.runOnce(ctx) }); err != nil {
		return fmt.Errorf("register cron spec %q: %w", w.spec, err)
	}
	w.cron = c

	w.log.Info().Str("cron", w.spec).Str("timezone", w.loc.String()).Msg("Starting issuance worker")
	c.Start()

	<-ctx.Done()
	w.log.Info().Msg("Stopping issuance worker")
	stopCtx := c.Stop()
	// Let an in-flight run finish before reporting stopped.
	<-stopCtx.Done()
	return ctx.Err()
}

// RunNow triggers one pass outside the schedule, used by the -run-now
// flag and the admin trigger endpoint.
func (w *IssuanceWorker) RunNow(ctx context.Context) {
	w.runOnce(ctx)
}

func (w *IssuanceWorker) runOnce(ctx context.Context) {
	now := time.Now().In(w.loc)
	lockKey := "issuance_run:" + now.Format("2006-01-02")

	token, err := w.locker.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		if errors.Is(err, redis.ErrLocked) {
			metrics.IncIssuanceRun("locked")
			w.log.Info().Str("lock_key", lockKey).Msg("run already executed today, skipping")
			return
		}
		// Lock store unreachable. Proceed anyway; the per-user flag
		// still prevents duplicates.
		w.log.Warn().Err(err).Msg("daily-run lock unavailable, proceeding without it")
	}

	report, err := w.uc.RunDailyCheck(ctx, now)
	if err != nil {
		w.log.Error().Err(err).Msg("daily issuance run failed")
		// Release the lock so a retry today can still go through.
		if token != "" {
			if uerr := w.locker.Unlock(ctx, lockKey, token); uerr != nil {
				w.log.Warn().Err(uerr).Msg("lock release failed")
			}
		}
		return
	}

	w.log.Info().
		Int("scanned", report.Scanned).
		Int("issued", report.Issued).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("daily issuance run completed")
}
