package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyReserved = errors.New("patron already has an active reservation")
	ErrNoCopyAvailable = errors.New("no copy available")
	ErrBanned          = errors.New("patron is banned")
	ErrStaleState      = errors.New("reservation is not in the expected state")
	ErrAlreadyExists   = errors.New("already exists")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrStorage         = errors.New("storage failure")
)

// BannedMessage is the only answer a banned patron gets.
const BannedMessage = "Your access is suspended. Please contact library staff."

// StaleStateError is returned when a transition is attempted against a reservation
// whose status is no longer the transition's source status.
// Callers must re-read the reservation instead of retrying.
type StaleStateError struct {
	ReservationID int64
	Expected      string
	Actual        string
	Reason        string
}

func (e *StaleStateError) Error() string {
	msg := fmt.Sprintf("reservation %d: expected status %q, got %q", e.ReservationID, e.Expected, e.Actual)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *StaleStateError) Is(target error) bool { return target == ErrStaleState }

// StorageError wraps a failure of the persistence layer that has no domain meaning.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}

func Validation(format string, args ...any) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
