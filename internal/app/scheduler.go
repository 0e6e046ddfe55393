package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_backoffice/internal/domain"
)

const reconcileLockKey = "lock:reconcile"

// Scheduler drives the Reconciler on a ticker and serves manual triggers.
// At most one run is in flight per process; with a Locker, per deployment.
type Scheduler struct {
	rec     *Reconciler
	every   time.Duration
	sem     *semaphore.Weighted
	locker  domain.Locker
	lockTTL time.Duration
}

// NewScheduler builds a scheduler; locker may be nil for single-instance use.
func NewScheduler(rec *Reconciler, every time.Duration, locker domain.Locker) *Scheduler {
	if every <= 0 {
		every = time.Hour
	}
	return &Scheduler{
		rec:     rec,
		every:   every,
		sem:     semaphore.NewWeighted(1),
		locker:  locker,
		lockTTL: 5 * time.Minute,
	}
}

// Start runs once immediately and then on every tick until ctx is done.
// Runs after the first on a given day report skipped.
func (s *Scheduler) Start(ctx context.Context) {
	t := time.NewTicker(s.every)
	defer t.Stop()
	log.Info().Dur("every", s.every).Msg("reconcile scheduler started")
	for {
		if _, err := s.run(ctx, false); err != nil && domain.CodeOf(err) != domain.CodeBusy {
			log.Error().Err(err).Msg("scheduled reconcile failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("reconcile scheduler stopped")
			return
		case <-t.C:
		}
	}
}

// Trigger runs the reconciler now, bypassing the same-day check. Admin only.
func (s *Scheduler) Trigger(ctx context.Context, who domain.Identity) (RunResult, error) {
	if err := domain.Require(who, domain.RoleAdmin); err != nil {
		return RunResult{}, err
	}
	return s.run(ctx, true)
}

// RunOnce performs a single run for batch use, such as a cron-driven binary.
func (s *Scheduler) RunOnce(ctx context.Context, force bool) (RunResult, error) {
	return s.run(ctx, force)
}

func (s *Scheduler) run(ctx context.Context, force bool) (RunResult, error) {
	if !s.sem.TryAcquire(1) {
		return RunResult{}, domain.Conflict(domain.CodeBusy, "reconcile already running")
	}
	defer s.sem.Release(1)

	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(ctx, reconcileLockKey, s.lockTTL)
		if err != nil {
			return RunResult{}, domain.Persistence("acquire reconcile lock", err)
		}
		if !ok {
			return RunResult{}, domain.Conflict(domain.CodeBusy, "reconcile running on another instance")
		}
		defer unlock()
	}
	return s.rec.Run(ctx, force), nil
}
