package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
)

func TestService_ExpireOverdue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	other := f.patron(t, 2)
	w := f.work(t, 2)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)
	f.clock.Advance(12 * time.Hour)
	fresh, err := f.svc.Reserve(ctx, other.ID, w.ID, 3)
	require.NoError(t, err)

	report, err := f.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	require.Equal(t, SweepReport{}, report)

	f.clock.Advance(12*time.Hour + time.Second)
	report, err = f.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	require.Equal(t, SweepReport{Selected: 1, Processed: 1}, report)

	got, err := f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, got.Status)
	require.Equal(t, model.ActorSystem, *got.CancelledBy)
	require.Equal(t, 1, f.requireLedger(t, w.ID).AvailableCopies)

	n, err := f.svc.CountActive(ctx, p.ID, ptr(model.ViolationNoPickup))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err = f.svc.GetReservation(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusBooked, got.Status)

	report, err = f.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, report.Selected)
	require.Contains(t, f.notifier.kinds(), model.NotifyExpired)
}

func TestService_expireOne_StaleAfterStaffAction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)
	f.clock.Advance(25 * time.Hour)

	// staff cancelled between selection and processing
	_, err = f.svc.Cancel(ctx, res.ID, model.ActorStaff)
	require.NoError(t, err)

	err = f.svc.expireOne(ctx, res.ID, f.clock.Now())
	require.ErrorIs(t, err, errs.ErrStaleState)

	var report SweepReport
	report.count(err)
	require.Equal(t, SweepReport{Skipped: 1}, report)

	n, err := f.svc.CountActive(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, 1, f.requireLedger(t, w.ID).AvailableCopies)
}

func TestService_SendReminders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)
	res, err = f.svc.ConfirmPickup(ctx, res.ID)
	require.NoError(t, err)

	// two days before due: outside the 24h window
	f.clock.Advance(24 * time.Hour)
	report, err := f.svc.SendReminders(ctx)
	require.NoError(t, err)
	require.Zero(t, report.Selected)

	f.clock.Advance(36 * time.Hour)
	report, err = f.svc.SendReminders(ctx)
	require.NoError(t, err)
	require.Equal(t, SweepReport{Selected: 1, Processed: 1}, report)

	report, err = f.svc.SendReminders(ctx)
	require.NoError(t, err)
	require.Zero(t, report.Selected)

	reminders := 0
	for _, k := range f.notifier.kinds() {
		if k == model.NotifyReminder {
			reminders++
		}
	}
	require.Equal(t, 1, reminders)

	got, err := f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	require.True(t, got.ReminderSent)
	require.Equal(t, model.StatusTaken, got.Status)

	require.ErrorIs(t, f.svc.remindOne(ctx, res.ID), errs.ErrStaleState)
}

func TestService_SendReminders_CancelledContext(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(context.Background(), p.ID, w.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPickup(context.Background(), res.ID)
	require.NoError(t, err)
	f.clock.Advance(12 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.svc.SendReminders(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func ptr[T any](v T) *T { return &v }
