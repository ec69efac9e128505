package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []model.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, _ string, n model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeNotifier) kinds() []model.NotificationKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.NotificationKind, 0, len(f.sent))
	for _, n := range f.sent {
		out = append(out, n.Kind)
	}
	return out
}

type fixture struct {
	svc      *Service
	store    repository.Store
	clock    *fakeClock
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 16, 10, 0, 0, 0, time.UTC)}
	notifier := &fakeNotifier{}
	store := repository.NewMemory(zap.NewNop())
	svc := NewService(store, notifier, DefaultConfig(), zap.NewNop(), WithClock(clock.Now))
	return &fixture{svc: svc, store: store, clock: clock, notifier: notifier}
}

func (f *fixture) patron(t *testing.T, n int) model.Patron {
	t.Helper()
	p, err := f.svc.RegisterPatron(context.Background(), model.RegisterPatronRequest{
		ExternalID:     fmt.Sprintf("chat-%d", n),
		DocumentNumber: fmt.Sprintf("DOC-%d", n),
		FirstName:      "Pat",
		LastName:       fmt.Sprintf("Ron%d", n),
		Phone:          "+100000000",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) work(t *testing.T, copies int) model.Work {
	t.Helper()
	w, err := f.svc.CreateWork(context.Background(), model.CreateWorkRequest{Title: "Dune", Author: "Herbert", TotalCopies: copies})
	require.NoError(t, err)
	return w
}

// requireLedger checks available = total - active reservations.
func (f *fixture) requireLedger(t *testing.T, workID int64) model.Work {
	t.Helper()
	ctx := context.Background()
	w, err := f.store.GetWork(ctx, workID)
	require.NoError(t, err)
	list, err := f.store.ListReservations(ctx, model.ReservationFilter{WorkID: &workID})
	require.NoError(t, err)
	active := 0
	for _, r := range list.Items {
		if r.Status.Active() {
			active++
		}
	}
	require.Equal(t, w.TotalCopies-active, w.AvailableCopies)
	require.GreaterOrEqual(t, w.AvailableCopies, 0)
	return w
}

func TestService_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 2)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 7)
	require.NoError(t, err)
	require.Equal(t, model.StatusBooked, res.Status)
	require.Equal(t, f.clock.Now().Add(24*time.Hour), res.PickupDeadline)
	require.Equal(t, 1, f.requireLedger(t, w.ID).AvailableCopies)

	f.clock.Advance(2 * time.Hour)
	res, err = f.svc.ConfirmPickup(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusTaken, res.Status)
	require.Equal(t, f.clock.Now().AddDate(0, 0, 7), *res.DueAt)
	require.Equal(t, 1, f.requireLedger(t, w.ID).AvailableCopies)

	res, err = f.svc.ConfirmReturn(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, res.Status)
	require.Equal(t, 2, f.requireLedger(t, w.ID).AvailableCopies)

	require.Equal(t, []model.NotificationKind{
		model.NotifyReserved, model.NotifyPickedUp, model.NotifyReturned,
	}, f.notifier.kinds())

	// a returned reservation frees the patron for the next one
	_, err = f.svc.Reserve(ctx, p.ID, w.ID, 1)
	require.NoError(t, err)
}

func TestService_Reserve_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p1 := f.patron(t, 1)
	p2 := f.patron(t, 2)
	w := f.work(t, 1)

	tests := []struct {
		name     string
		patronID int64
		workID   int64
		days     int
		wantErr  error
	}{
		{name: "zero days", patronID: p1.ID, workID: w.ID, days: 0, wantErr: errs.ErrValidation},
		{name: "too many days", patronID: p1.ID, workID: w.ID, days: 11, wantErr: errs.ErrValidation},
		{name: "unknown patron", patronID: 999, workID: w.ID, days: 3, wantErr: errs.ErrNotFound},
		{name: "unknown work", patronID: p1.ID, workID: 999, days: 3, wantErr: errs.ErrNotFound},
	}
	for _, tt := range tests {
		_, err := f.svc.Reserve(ctx, tt.patronID, tt.workID, tt.days)
		require.ErrorIs(t, err, tt.wantErr, tt.name)
	}

	_, err := f.svc.Reserve(ctx, p1.ID, w.ID, 3)
	require.NoError(t, err)
	_, err = f.svc.Reserve(ctx, p1.ID, w.ID, 3)
	require.ErrorIs(t, err, errs.ErrAlreadyReserved)
	_, err = f.svc.Reserve(ctx, p2.ID, w.ID, 3)
	require.ErrorIs(t, err, errs.ErrNoCopyAvailable)
	require.Equal(t, 0, f.requireLedger(t, w.ID).AvailableCopies)
}

func TestService_Cancel_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)

	res, err = f.svc.Cancel(ctx, res.ID, model.ActorStaff)
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, res.Status)
	require.Equal(t, model.ActorStaff, *res.CancelledBy)
	require.Equal(t, 1, f.requireLedger(t, w.ID).AvailableCopies)

	_, err = f.svc.Cancel(ctx, res.ID, model.ActorStaff)
	var stale *errs.StaleStateError
	require.ErrorAs(t, err, &stale)
	require.Equal(t, "cancelled", stale.Actual)
	require.Equal(t, 1, f.requireLedger(t, w.ID).AvailableCopies)
}

func TestService_CancelOwn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.patron(t, 1)
	other := f.patron(t, 2)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(ctx, owner.ID, w.ID, 3)
	require.NoError(t, err)

	_, err = f.svc.CancelOwn(ctx, other.ID, res.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.svc.GetOwnReservation(ctx, other.ID, res.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	res, err = f.svc.CancelOwn(ctx, owner.ID, res.ID)
	require.NoError(t, err)
	require.Equal(t, model.ActorPatron, *res.CancelledBy)
	require.Equal(t, 1, f.requireLedger(t, w.ID).AvailableCopies)
}

func TestService_InvalidTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)

	_, err = f.svc.ConfirmReturn(ctx, res.ID)
	require.ErrorIs(t, err, errs.ErrStaleState)
	_, err = f.svc.ReportNotReturned(ctx, res.ID)
	require.ErrorIs(t, err, errs.ErrStaleState)

	_, err = f.svc.ConfirmPickup(ctx, res.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, res.ID, model.ActorStaff)
	require.ErrorIs(t, err, errs.ErrStaleState)
	_, err = f.svc.ConfirmPickup(ctx, res.ID)
	require.ErrorIs(t, err, errs.ErrStaleState)
	require.Equal(t, 0, f.requireLedger(t, w.ID).AvailableCopies)

	_, err = f.svc.ConfirmPickup(ctx, 12345)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_ConfirmPickup_AfterDeadline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)

	f.clock.Advance(24*time.Hour + time.Minute)
	_, err = f.svc.ConfirmPickup(ctx, res.ID)
	var stale *errs.StaleStateError
	require.ErrorAs(t, err, &stale)
	require.Equal(t, "booked", stale.Actual)
	require.NotEmpty(t, stale.Reason)

	got, err := f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusBooked, got.Status)
}

func TestService_LastCopyRace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	w := f.work(t, 1)
	const patrons = 8
	ids := make([]int64, patrons)
	for i := range ids {
		ids[i] = f.patron(t, i).ID
	}

	var (
		mu      sync.Mutex
		won     int
		noCopy  int
		g, gctx = errgroup.WithContext(ctx)
	)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := f.svc.Reserve(gctx, id, w.ID, 3)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, errs.ErrNoCopyAvailable):
				noCopy++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, won)
	require.Equal(t, patrons-1, noCopy)
	require.Equal(t, 0, f.requireLedger(t, w.ID).AvailableCopies)
}

func TestService_SingleActiveReservation_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	works := make([]model.Work, 6)
	for i := range works {
		works[i] = f.work(t, 3)
	}

	var (
		mu       sync.Mutex
		won      int
		reserved int
		g        errgroup.Group
	)
	for _, w := range works {
		w := w
		g.Go(func() error {
			_, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, errs.ErrAlreadyReserved):
				reserved++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, won)
	require.Equal(t, len(works)-1, reserved)

	list, err := f.svc.ListReservations(ctx, model.ReservationFilter{PatronID: &p.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	for _, w := range works {
		f.requireLedger(t, w.ID)
	}
}

func TestService_NotifyFailure_DoesNotRollBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")
	p := f.patron(t, 1)
	w := f.work(t, 1)

	res, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)
	got, err := f.svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusBooked, got.Status)
	require.Equal(t, 0, f.requireLedger(t, w.ID).AvailableCopies)
	require.Len(t, f.notifier.kinds(), 1)
}

func TestService_AdjustCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)
	w := f.work(t, 2)

	_, err := f.svc.Reserve(ctx, p.ID, w.ID, 3)
	require.NoError(t, err)

	got, err := f.svc.AdjustCopies(ctx, w.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 5, got.TotalCopies)
	require.Equal(t, 4, got.AvailableCopies)

	_, err = f.svc.AdjustCopies(ctx, w.ID, -5)
	require.ErrorIs(t, err, errs.ErrNoCopyAvailable)
	_, err = f.svc.AdjustCopies(ctx, w.ID, 0)
	require.ErrorIs(t, err, errs.ErrValidation)

	got, err = f.svc.AdjustCopies(ctx, w.ID, -4)
	require.NoError(t, err)
	require.Equal(t, 1, got.TotalCopies)
	require.Equal(t, 0, f.requireLedger(t, w.ID).AvailableCopies)
}

func TestService_RegisterPatron_Duplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p := f.patron(t, 1)

	_, err := f.svc.RegisterPatron(ctx, model.RegisterPatronRequest{
		ExternalID: p.ExternalID, DocumentNumber: "OTHER", FirstName: "A", LastName: "B", Phone: "1",
	})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	got, err := f.svc.GetPatronByExternalID(ctx, p.ExternalID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	require.ErrorIs(t, f.svc.RequireStaff(ctx, p.ID), errs.ErrForbidden)
	require.ErrorIs(t, f.svc.RequireStaff(ctx, 999), errs.ErrForbidden)
	_, err = f.svc.GrantPrivilege(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.RequireStaff(ctx, p.ID))
}

func TestService_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p1 := f.patron(t, 1)
	p2 := f.patron(t, 2)
	w1 := f.work(t, 2)
	w2 := f.work(t, 2)

	r1, err := f.svc.Reserve(ctx, p1.ID, w1.ID, 3)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPickup(ctx, r1.ID)
	require.NoError(t, err)
	_, err = f.svc.ConfirmReturn(ctx, r1.ID)
	require.NoError(t, err)
	_, err = f.svc.Reserve(ctx, p1.ID, w1.ID, 3)
	require.NoError(t, err)
	_, err = f.svc.Reserve(ctx, p2.ID, w2.ID, 3)
	require.NoError(t, err)

	st, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, st.TotalWorks)
	require.Equal(t, 2, st.TotalPatrons)
	require.Equal(t, 2, st.ActiveReservations)
	require.Equal(t, 1, st.CompletedReservations)
	require.Equal(t, w1.ID, st.TopWorks[0].WorkID)
	require.Equal(t, 2, st.TopWorks[0].Reservations)
	require.Equal(t, p1.ID, st.TopPatrons[0].PatronID)
}

func TestService_PatronDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	p1 := f.patron(t, 1)
	p2 := f.patron(t, 2)
	w := f.work(t, 2)

	list, err := f.svc.ListPatrons(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	require.Equal(t, p1.ID, list.Items[0].ID)

	page, err := f.svc.ListPatrons(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, p2.ID, page.Items[0].ID)

	details, err := f.svc.GetPatron(ctx, p1.ID)
	require.NoError(t, err)
	require.Equal(t, p1, details.Patron)
	require.Nil(t, details.ActiveReservation)
	require.Equal(t, model.ViolationSummary{PatronID: p1.ID, Threshold: 3}, details.Violations)

	res, err := f.svc.Reserve(ctx, p1.ID, w.ID, 3)
	require.NoError(t, err)
	_, err = f.svc.RecordViolation(ctx, p1.ID, model.ViolationNoReturn)
	require.NoError(t, err)

	details, err = f.svc.GetPatron(ctx, p1.ID)
	require.NoError(t, err)
	require.NotNil(t, details.ActiveReservation)
	require.Equal(t, res.ID, details.ActiveReservation.ID)
	require.Equal(t, 1, details.Violations.NoReturn)

	_, err = f.svc.ConfirmPickup(ctx, res.ID)
	require.NoError(t, err)
	_, err = f.svc.ConfirmReturn(ctx, res.ID)
	require.NoError(t, err)
	details, err = f.svc.GetPatron(ctx, p1.ID)
	require.NoError(t, err)
	require.Nil(t, details.ActiveReservation)

	_, err = f.svc.GetPatron(ctx, 999)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
