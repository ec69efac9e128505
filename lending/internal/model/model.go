package model

import (
	"time"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusTaken     Status = "taken"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

// Active statuses hold a physical copy of the work.
func (s Status) Active() bool { return s == StatusBooked || s == StatusTaken }

func (s Status) Terminal() bool { return s == StatusReturned || s == StatusCancelled }

func (s Status) Valid() bool { return s.Active() || s.Terminal() }

// Actor is who ended a booking.
type Actor string

const (
	ActorPatron Actor = "patron"
	ActorStaff  Actor = "staff"
	ActorSystem Actor = "system"
)

type ViolationKind string

const (
	ViolationNoPickup ViolationKind = "no_pickup"
	ViolationNoReturn ViolationKind = "no_return"
)

func (k ViolationKind) Valid() bool { return k == ViolationNoPickup || k == ViolationNoReturn }

type Work struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

type Patron struct {
	ID             int64     `json:"id" db:"id"`
	ExternalID     string    `json:"externalId" db:"external_id"`
	DocumentNumber string    `json:"documentNumber" db:"document_number"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Phone          string    `json:"phone" db:"phone"`
	Privileged     bool      `json:"privileged" db:"privileged"`
	RegisteredAt   time.Time `json:"registeredAt" db:"registered_at"`
}

type Reservation struct {
	ID               int64      `json:"id" db:"id"`
	PatronID         int64      `json:"patronId" db:"patron_id"`
	WorkID           int64      `json:"workId" db:"work_id"`
	Status           Status     `json:"status" db:"status"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	PickupDeadline   time.Time  `json:"pickupDeadline" db:"pickup_deadline"`
	TakenAt          *time.Time `json:"takenAt,omitempty" db:"taken_at"`
	DueAt            *time.Time `json:"dueAt,omitempty" db:"due_at"`
	ReturnedAt       *time.Time `json:"returnedAt,omitempty" db:"returned_at"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CancelledBy      *Actor     `json:"cancelledBy,omitempty" db:"cancelled_by"`
	LoanDurationDays int        `json:"loanDurationDays" db:"loan_duration_days"`
	ReminderSent     bool       `json:"reminderSent" db:"reminder_sent"`
}

type Violation struct {
	ID            int64         `json:"id" db:"id"`
	PatronID      int64         `json:"patronId" db:"patron_id"`
	ReservationID *int64        `json:"reservationId,omitempty" db:"reservation_id"`
	Kind          ViolationKind `json:"kind" db:"kind"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	Active        bool          `json:"active" db:"active"`
}

// ViolationSummary is the derived ban view of one patron.
type ViolationSummary struct {
	PatronID  int64 `json:"patronId"`
	NoPickup  int   `json:"noPickup"`
	NoReturn  int   `json:"noReturn"`
	Total     int   `json:"total"`
	Threshold int   `json:"threshold"`
	Banned    bool  `json:"banned"`
}

// NewViolationSummary counts both kinds against one threshold.
func NewViolationSummary(patronID int64, counts map[ViolationKind]int, threshold int) ViolationSummary {
	s := ViolationSummary{
		PatronID:  patronID,
		NoPickup:  counts[ViolationNoPickup],
		NoReturn:  counts[ViolationNoReturn],
		Threshold: threshold,
	}
	s.Total = s.NoPickup + s.NoReturn
	s.Banned = s.Total >= threshold
	return s
}

type CreateReservationRequest struct {
	WorkID           int64 `json:"workId" validate:"required,gt=0"`
	LoanDurationDays int   `json:"loanDurationDays" validate:"required,gt=0"`
}

type CreateWorkRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	TotalCopies int    `json:"totalCopies" validate:"required,gte=1"`
}

type AdjustCopiesRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type RegisterPatronRequest struct {
	ExternalID     string `json:"externalId" validate:"required"`
	DocumentNumber string `json:"documentNumber" validate:"required"`
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
}

type RecordViolationRequest struct {
	Kind ViolationKind `json:"kind" validate:"required,oneof=no_pickup no_return"`
}

type ReservationFilter struct {
	PatronID *int64
	WorkID   *int64
	Status   *Status
	Page     int
	Size     int
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListWorks struct {
	Paging `json:",inline"`
	Items  []Work `json:"items"`
}

type ListReservations struct {
	Paging `json:",inline"`
	Items  []Reservation `json:"items"`
}

type ListPatrons struct {
	Paging `json:",inline"`
	Items  []Patron `json:"items"`
}

// PatronDetails is what staff see when they open one patron.
type PatronDetails struct {
	Patron            Patron           `json:"patron"`
	ActiveReservation *Reservation     `json:"activeReservation,omitempty"`
	Violations        ViolationSummary `json:"violations"`
}

type WorkStat struct {
	WorkID       int64  `json:"workId" db:"work_id"`
	Title        string `json:"title" db:"title"`
	Author       string `json:"author" db:"author"`
	Reservations int    `json:"reservations" db:"reservations"`
}

type PatronStat struct {
	PatronID     int64  `json:"patronId" db:"patron_id"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	Reservations int    `json:"reservations" db:"reservations"`
}

type Stats struct {
	TotalWorks            int          `json:"totalWorks"`
	TotalPatrons          int          `json:"totalPatrons"`
	ActiveReservations    int          `json:"activeReservations"`
	CompletedReservations int          `json:"completedReservations"`
	TopWorks              []WorkStat   `json:"topWorks"`
	TopPatrons            []PatronStat `json:"topPatrons"`
}
