package model

import (
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
)

// NewReservation builds a booking that holds a copy until now+pickupWindow.
func NewReservation(patronID, workID int64, loanDurationDays int, now time.Time, pickupWindow time.Duration) Reservation {
	return Reservation{
		PatronID:         patronID,
		WorkID:           workID,
		Status:           StatusBooked,
		CreatedAt:        now,
		PickupDeadline:   now.Add(pickupWindow),
		LoanDurationDays: loanDurationDays,
		ReminderSent:     false,
	}
}

// Take moves booked -> taken. Pickup is only accepted up to the pickup deadline;
// after it the booking belongs to the expiration sweep.
func (r Reservation) Take(now time.Time) (Reservation, error) {
	if r.Status != StatusBooked {
		return r, r.stale(StatusBooked, "")
	}
	if now.After(r.PickupDeadline) {
		return r, r.stale(StatusBooked, "pickup deadline has passed")
	}
	next := r
	takenAt := now
	dueAt := now.AddDate(0, 0, r.LoanDurationDays)
	next.Status = StatusTaken
	next.TakenAt = &takenAt
	next.DueAt = &dueAt
	next.ReminderSent = false
	return next, nil
}

// Cancel moves booked -> cancelled on behalf of a patron or staff.
func (r Reservation) Cancel(now time.Time, actor Actor) (Reservation, error) {
	if r.Status != StatusBooked {
		return r, r.stale(StatusBooked, "")
	}
	return r.cancelled(now, actor), nil
}

// Expire moves booked -> cancelled once the pickup deadline is behind us.
func (r Reservation) Expire(now time.Time) (Reservation, error) {
	if r.Status != StatusBooked {
		return r, r.stale(StatusBooked, "")
	}
	if !now.After(r.PickupDeadline) {
		return r, r.stale(StatusBooked, "pickup deadline not reached")
	}
	return r.cancelled(now, ActorSystem), nil
}

// Return moves taken -> returned.
func (r Reservation) Return(now time.Time) (Reservation, error) {
	if r.Status != StatusTaken {
		return r, r.stale(StatusTaken, "")
	}
	next := r
	returnedAt := now
	next.Status = StatusReturned
	next.ReturnedAt = &returnedAt
	return next, nil
}

// CheckOutstanding guards a "not returned" report: only a taken copy can be outstanding.
func (r Reservation) CheckOutstanding() error {
	if r.Status != StatusTaken {
		return r.stale(StatusTaken, "")
	}
	return nil
}

// DueWithin reports whether a taken copy is due in [now, now+window).
func (r Reservation) DueWithin(now time.Time, window time.Duration) bool {
	if r.Status != StatusTaken || r.DueAt == nil {
		return false
	}
	return !r.DueAt.Before(now) && r.DueAt.Before(now.Add(window))
}

func (r Reservation) cancelled(now time.Time, actor Actor) Reservation {
	next := r
	cancelledAt := now
	by := actor
	next.Status = StatusCancelled
	next.CancelledAt = &cancelledAt
	next.CancelledBy = &by
	return next
}

func (r Reservation) stale(expected Status, reason string) error {
	return &errs.StaleStateError{
		ReservationID: r.ID,
		Expected:      string(expected),
		Actual:        string(r.Status),
		Reason:        reason,
	}
}
