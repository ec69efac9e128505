package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
)

func Test_mapErr(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "no rows",
			err:  pgx.ErrNoRows,
			want: errs.ErrNotFound,
		},
		{
			name: "active reservation index",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: activeReservationIndex},
			want: errs.ErrAlreadyReserved,
		},
		{
			name: "patron unique index",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "patrons_external_id_uidx"},
			want: errs.ErrAlreadyExists,
		},
		{
			name: "available copies check",
			err:  &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: availableCopiesCheck},
			want: errs.ErrNoCopyAvailable,
		},
		{
			name: "anything else",
			err:  errors.New("conn reset"),
			want: errs.ErrStorage,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, mapErr("op", tt.err), tt.want)
		})
	}
	require.NoError(t, mapErr("op", nil))
}

func seed(t *testing.T, m *memory, copies int) (model.Patron, model.Work) {
	t.Helper()
	var (
		p model.Patron
		w model.Work
	)
	err := m.WithinTx(context.Background(), func(ctx context.Context, tx Tx) error {
		var err error
		p, err = tx.InsertPatron(ctx, model.Patron{ExternalID: "100", DocumentNumber: "AB-1", FirstName: "Ann"})
		if err != nil {
			return err
		}
		w, err = tx.InsertWork(ctx, model.Work{Title: "Dune", Author: "Herbert", TotalCopies: copies, AvailableCopies: copies})
		return err
	})
	require.NoError(t, err)
	return p, w
}

func TestMemory_WithinTx_RollbackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(zap.NewNop())
	_, w := seed(t, m, 1)

	boom := errors.New("boom")
	err := m.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		require.NoError(t, tx.DecrementAvailable(ctx, w.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := m.GetWork(ctx, w.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)
}

func TestMemory_Ledger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(zap.NewNop())
	_, w := seed(t, m, 1)

	err := m.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		require.NoError(t, tx.DecrementAvailable(ctx, w.ID))
		require.ErrorIs(t, tx.DecrementAvailable(ctx, w.ID), errs.ErrNoCopyAvailable)
		require.NoError(t, tx.IncrementAvailable(ctx, w.ID))
		require.ErrorIs(t, tx.IncrementAvailable(ctx, w.ID), errs.ErrStorage)
		require.ErrorIs(t, tx.DecrementAvailable(ctx, 999), errs.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestMemory_Reservations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(zap.NewNop())
	p, w := seed(t, m, 2)
	now := time.Date(2024, 5, 16, 10, 0, 0, 0, time.UTC)

	var created model.Reservation
	err := m.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		created, err = tx.InsertReservation(ctx, model.NewReservation(p.ID, w.ID, 3, now, 24*time.Hour))
		require.NoError(t, err)
		_, err = tx.InsertReservation(ctx, model.NewReservation(p.ID, w.ID, 3, now, 24*time.Hour))
		require.ErrorIs(t, err, errs.ErrAlreadyReserved)
		return nil
	})
	require.NoError(t, err)

	expired, err := m.ListExpired(ctx, now.Add(25*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)

	err = m.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		next, err := created.Take(now.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, tx.UpdateReservation(ctx, next, model.StatusBooked))

		var stale *errs.StaleStateError
		require.ErrorAs(t, tx.UpdateReservation(ctx, next, model.StatusBooked), &stale)
		require.Equal(t, "taken", stale.Actual)
		return nil
	})
	require.NoError(t, err)

	due, err := m.ListDueForReminder(ctx, now.Add(72*time.Hour), now.Add(96*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	// due at now+73h: the window end is exclusive
	due, err = m.ListDueForReminder(ctx, now.Add(49*time.Hour), now.Add(73*time.Hour), 10)
	require.NoError(t, err)
	require.Empty(t, due)

	err = m.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		ok, err := tx.ClaimReminder(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = tx.ClaimReminder(ctx, created.ID)
		require.NoError(t, err)
		require.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	due, err = m.ListDueForReminder(ctx, now.Add(72*time.Hour), now.Add(96*time.Hour), 10)
	require.NoError(t, err)
	require.Empty(t, due)
}

func TestMemory_Violations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(zap.NewNop())
	p, _ := seed(t, m, 1)
	resID := int64(77)

	err := m.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.InsertViolation(ctx, model.Violation{PatronID: p.ID, ReservationID: &resID, Kind: model.ViolationNoReturn})
		require.NoError(t, err)
		_, err = tx.InsertViolation(ctx, model.Violation{PatronID: p.ID, ReservationID: &resID, Kind: model.ViolationNoReturn})
		require.ErrorIs(t, err, errs.ErrAlreadyExists)
		for i := 0; i < 2; i++ {
			_, err = tx.InsertViolation(ctx, model.Violation{PatronID: p.ID, Kind: model.ViolationNoPickup})
			require.NoError(t, err)
		}
		return nil
	})
	require.NoError(t, err)

	banned, err := m.ListBanned(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []model.ViolationSummary{{
		PatronID: p.ID, NoPickup: 2, NoReturn: 1, Total: 3, Threshold: 3, Banned: true,
	}}, banned)

	err = m.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		n, err := tx.DeactivateViolations(ctx, p.ID)
		require.Equal(t, 3, n)
		return err
	})
	require.NoError(t, err)

	counts, err := m.CountActiveViolations(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, counts)
}
