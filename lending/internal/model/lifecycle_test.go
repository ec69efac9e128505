package model_test

import (
	"testing"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 16, 10, 0, 0, 0, time.UTC)

func booked() model.Reservation {
	r := model.NewReservation(1, 2, 7, now, 24*time.Hour)
	r.ID = 42
	return r
}

func taken(t *testing.T) model.Reservation {
	r, err := booked().Take(now.Add(time.Hour))
	require.NoError(t, err)
	return r
}

func TestNewReservation(t *testing.T) {
	t.Parallel()
	r := booked()
	require.Equal(t, model.StatusBooked, r.Status)
	require.Equal(t, now.Add(24*time.Hour), r.PickupDeadline)
	require.False(t, r.ReminderSent)
	require.Nil(t, r.TakenAt)
	require.Nil(t, r.DueAt)
}

func TestReservation_Take(t *testing.T) {
	t.Parallel()
	r := booked()
	r.ReminderSent = true

	next, err := r.Take(now.Add(2 * time.Hour))
	require.NoError(t, err)
	require.Equal(t, model.StatusTaken, next.Status)
	require.Equal(t, now.Add(2*time.Hour), *next.TakenAt)
	require.Equal(t, now.Add(2*time.Hour).AddDate(0, 0, 7), *next.DueAt)
	require.False(t, next.ReminderSent)
	require.Equal(t, model.StatusBooked, r.Status, "source value must stay untouched")
}

func TestReservation_Transitions_Stale(t *testing.T) {
	t.Parallel()
	tk := taken(t)
	returned, err := tk.Return(now.Add(48 * time.Hour))
	require.NoError(t, err)
	cancelled, err := booked().Cancel(now, model.ActorPatron)
	require.NoError(t, err)

	tests := []struct {
		name     string
		do       func() error
		expected model.Status
		actual   model.Status
	}{
		{
			name:     "take taken",
			do:       func() error { _, err := tk.Take(now); return err },
			expected: model.StatusBooked,
			actual:   model.StatusTaken,
		},
		{
			name:     "take after deadline",
			do:       func() error { _, err := booked().Take(now.Add(25 * time.Hour)); return err },
			expected: model.StatusBooked,
			actual:   model.StatusBooked,
		},
		{
			name:     "cancel taken",
			do:       func() error { _, err := tk.Cancel(now, model.ActorStaff); return err },
			expected: model.StatusBooked,
			actual:   model.StatusTaken,
		},
		{
			name:     "cancel cancelled",
			do:       func() error { _, err := cancelled.Cancel(now, model.ActorStaff); return err },
			expected: model.StatusBooked,
			actual:   model.StatusCancelled,
		},
		{
			name:     "expire before deadline",
			do:       func() error { _, err := booked().Expire(now.Add(time.Hour)); return err },
			expected: model.StatusBooked,
			actual:   model.StatusBooked,
		},
		{
			name:     "expire taken",
			do:       func() error { _, err := tk.Expire(now.Add(100 * time.Hour)); return err },
			expected: model.StatusBooked,
			actual:   model.StatusTaken,
		},
		{
			name:     "return booked",
			do:       func() error { _, err := booked().Return(now); return err },
			expected: model.StatusTaken,
			actual:   model.StatusBooked,
		},
		{
			name:     "return returned",
			do:       func() error { _, err := returned.Return(now); return err },
			expected: model.StatusTaken,
			actual:   model.StatusReturned,
		},
		{
			name:     "not returned on booked",
			do:       func() error { return booked().CheckOutstanding() },
			expected: model.StatusTaken,
			actual:   model.StatusBooked,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.do()
			require.ErrorIs(t, err, errs.ErrStaleState)
			var stale *errs.StaleStateError
			require.True(t, errors.As(err, &stale))
			require.Equal(t, int64(42), stale.ReservationID)
			require.Equal(t, string(tt.expected), stale.Expected)
			require.Equal(t, string(tt.actual), stale.Actual)
		})
	}
}

func TestReservation_Expire(t *testing.T) {
	t.Parallel()
	next, err := booked().Expire(now.Add(24*time.Hour + time.Second))
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, next.Status)
	require.Equal(t, model.ActorSystem, *next.CancelledBy)
	require.NotNil(t, next.CancelledAt)
}

func TestReservation_DueWithin(t *testing.T) {
	t.Parallel()
	tk := taken(t) // due now+1h+7d
	due := *tk.DueAt

	require.True(t, tk.DueWithin(due.Add(-23*time.Hour), 24*time.Hour))
	require.True(t, tk.DueWithin(due, 24*time.Hour))
	require.False(t, tk.DueWithin(due.Add(-24*time.Hour), 24*time.Hour))
	require.False(t, tk.DueWithin(due.Add(time.Minute), 24*time.Hour))
	require.False(t, booked().DueWithin(now, 24*time.Hour))
	require.NoError(t, tk.CheckOutstanding())
}

func TestStatus(t *testing.T) {
	t.Parallel()
	require.True(t, model.StatusBooked.Active())
	require.True(t, model.StatusTaken.Active())
	require.True(t, model.StatusReturned.Terminal())
	require.True(t, model.StatusCancelled.Terminal())
	require.False(t, model.Status("lost").Valid())
	require.True(t, model.ViolationNoReturn.Valid())
	require.False(t, model.ViolationKind("late").Valid())
}
