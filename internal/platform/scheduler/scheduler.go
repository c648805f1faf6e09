// Package scheduler runs periodic ledger maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
)

// SystemActor is recorded as the actor of scheduled jobs.
const SystemActor = "system"

// Reconciler compares cached account balances with posted history.
type Reconciler interface {
	ReconcileBalances(ctx context.Context, repair bool, actorID string) (*domain.ReconciliationResult, error)
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	logger     *slog.Logger
	timeout    time.Duration
}

// New registers the reconciliation job on a standard five field cron spec.
// An empty spec yields a scheduler with no jobs.
func New(reconciler Reconciler, spec string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		reconciler: reconciler,
		logger:     logger.With(slog.String("component", "scheduler")),
		timeout:    5 * time.Minute,
	}
	if spec == "" {
		s.logger.Info("Balance reconciliation job disabled")
		return s, nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunReconcile(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	s.logger.Info("Balance reconciliation job registered", slog.String("schedule", spec))
	return s, nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stopped before running job finished")
	}
}

// RunReconcile checks balances without repairing them and reports every drift.
func (s *Scheduler) RunReconcile(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.reconciler.ReconcileBalances(ctx, false, SystemActor)
	if err != nil {
		s.logger.Error("Balance reconciliation failed", slog.String("error", err.Error()))
		return
	}
	for _, d := range result.Drifts {
		s.logger.Warn("Account balance drift detected",
			slog.String("account_id", d.AccountID),
			slog.String("code", d.Code),
			slog.String("cached", d.Cached.StringFixed(2)),
			slog.String("computed", d.Computed.StringFixed(2)),
			slog.String("difference", d.Difference.StringFixed(2)),
		)
	}
	s.logger.Info("Balance reconciliation finished",
		slog.Int("checked_accounts", result.CheckedAccounts),
		slog.Int("drifts", len(result.Drifts)),
	)
}
