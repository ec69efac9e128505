package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/lending-service/lending/internal/model"
)

// Queries are the reads available both inside and outside a transaction.
type Queries interface {
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	GetWork(ctx context.Context, id int64) (model.Work, error)
	GetPatron(ctx context.Context, id int64) (model.Patron, error)
	GetPatronByExternalID(ctx context.Context, externalID string) (model.Patron, error)
	HasActiveReservation(ctx context.Context, patronID int64) (bool, error)
	// GetActiveReservation returns the booked or taken reservation of a patron, ErrNotFound if there is none.
	GetActiveReservation(ctx context.Context, patronID int64) (model.Reservation, error)
	CountActiveViolations(ctx context.Context, patronID int64) (map[model.ViolationKind]int, error)
}

// Tx is the unit of work handed to Store.WithinTx.
// The inventory ledger (IncrementAvailable, DecrementAvailable) is only reachable through it.
type Tx interface {
	Queries

	DecrementAvailable(ctx context.Context, workID int64) error
	IncrementAvailable(ctx context.Context, workID int64) error
	AdjustCopies(ctx context.Context, workID int64, delta int) (model.Work, error)
	InsertWork(ctx context.Context, w model.Work) (model.Work, error)

	InsertPatron(ctx context.Context, p model.Patron) (model.Patron, error)
	SetPrivileged(ctx context.Context, patronID int64, privileged bool) (model.Patron, error)

	InsertReservation(ctx context.Context, r model.Reservation) (model.Reservation, error)
	// UpdateReservation persists r only if the stored status still equals expected.
	UpdateReservation(ctx context.Context, r model.Reservation, expected model.Status) error
	// ClaimReminder flips reminder_sent for a taken reservation; false means someone else got it.
	ClaimReminder(ctx context.Context, reservationID int64) (bool, error)

	InsertViolation(ctx context.Context, v model.Violation) (model.Violation, error)
	DeactivateViolations(ctx context.Context, patronID int64) (int, error)
}

type Store interface {
	Queries

	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	ListWorks(ctx context.Context, showAll bool, page, size int) (model.ListWorks, error)
	ListPatrons(ctx context.Context, page, size int) (model.ListPatrons, error)
	ListReservations(ctx context.Context, f model.ReservationFilter) (model.ListReservations, error)
	// ListExpired returns booked reservations whose pickup deadline is before now.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error)
	// ListDueForReminder returns taken, unreminded reservations with due_at in [from, to).
	ListDueForReminder(ctx context.Context, from, to time.Time, limit int) ([]model.Reservation, error)
	ListBanned(ctx context.Context, threshold int) ([]model.ViolationSummary, error)
	Stats(ctx context.Context) (model.Stats, error)
}

const (
	worksTableName        = `works`
	patronsTableName      = `patrons`
	reservationsTableName = `reservations`
	violationsTableName   = `violations`

	activeReservationIndex = `reservations_active_patron_uidx`
	availableCopiesCheck   = `works_available_copies_check`

	topWorksLimit   = 5
	topPatronsLimit = 3
)

var reservationColumns = []string{
	"id", "patron_id", "work_id", "status", "created_at", "pickup_deadline", "taken_at", "due_at",
	"returned_at", "cancelled_at", "cancelled_by", "loan_duration_days", "reminder_sent",
}
