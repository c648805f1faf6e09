package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
)

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) ReconcileBalances(ctx context.Context, repair bool, actorID string) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, repair, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}

func newTestScheduler(t *testing.T, r Reconciler, spec string) (*Scheduler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s, err := New(r, spec, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	return s, &buf
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New(new(mockReconciler), "every night", slog.Default())
	assert.Error(t, err)
}

func TestNew_RegistersJob(t *testing.T) {
	s, _ := newTestScheduler(t, new(mockReconciler), "0 2 * * *")
	assert.Len(t, s.cron.Entries(), 1)

	disabled, _ := newTestScheduler(t, new(mockReconciler), "")
	assert.Empty(t, disabled.cron.Entries())
}

func TestRunReconcile_LogsDriftWithoutRepair(t *testing.T) {
	r := new(mockReconciler)
	r.On("ReconcileBalances", mock.Anything, false, SystemActor).Return(&domain.ReconciliationResult{
		CheckedAccounts: 4,
		Drifts: []domain.BalanceDrift{{
			AccountID:  "acc-1",
			Code:       "1000",
			Cached:     decimal.NewFromInt(100),
			Computed:   decimal.NewFromInt(90),
			Difference: decimal.NewFromInt(10),
		}},
	}, nil).Once()

	s, buf := newTestScheduler(t, r, "")
	s.RunReconcile(context.Background())

	r.AssertExpectations(t)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "Account balance drift detected")
	assert.Contains(t, out, "code=1000")
	assert.Contains(t, out, "difference=10.00")
	assert.Contains(t, out, "checked_accounts=4")
}

func TestRunReconcile_Failure(t *testing.T) {
	r := new(mockReconciler)
	r.On("ReconcileBalances", mock.Anything, false, SystemActor).Return(nil, errors.New("db gone")).Once()

	s, buf := newTestScheduler(t, r, "")
	s.RunReconcile(context.Background())

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "db gone")
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(t, new(mockReconciler), "0 2 * * *")
	s.Start()
	s.Stop(context.Background())
}
