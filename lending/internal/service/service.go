package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/notify"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
)

const tracerName = "lending"

type Config struct {
	PickupWindow   time.Duration `yaml:"pickupWindow" envconfig:"LENDING_PICKUP_WINDOW" default:"24h"`
	MaxLoanDays    int           `yaml:"maxLoanDays" envconfig:"LENDING_MAX_LOAN_DAYS" default:"10"`
	ReminderWindow time.Duration `yaml:"reminderWindow" envconfig:"LENDING_REMINDER_WINDOW" default:"24h"`
	BanThreshold   int           `yaml:"banThreshold" envconfig:"LENDING_BAN_THRESHOLD" default:"3"`
	SweepBatchSize int           `yaml:"sweepBatchSize" envconfig:"LENDING_SWEEP_BATCH_SIZE" default:"500"`
	NotifyTimeout  time.Duration `yaml:"notifyTimeout" envconfig:"LENDING_NOTIFY_TIMEOUT" default:"5s"`
}

func DefaultConfig() Config {
	return Config{
		PickupWindow:   24 * time.Hour,
		MaxLoanDays:    10,
		ReminderWindow: 24 * time.Hour,
		BanThreshold:   3,
		SweepBatchSize: 500,
		NotifyTimeout:  5 * time.Second,
	}
}

// Service is the allocation service: every state change of a reservation and
// every inventory move happens here, inside one store transaction.
type Service struct {
	store    repository.Store
	notifier *notify.BestEffort
	cfg      Config
	now      func() time.Time
	tracer   trace.Tracer
	log      *zap.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store repository.Store, notifier notify.Notifier, cfg Config, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notify.NewBestEffort(notifier, cfg.NotifyTimeout, log),
		cfg:      cfg,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
		log:      log.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time { return s.now().UTC() }

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Reserve books one copy of a work for a patron.
// Ban, single-active-reservation and availability are checked in the same
// transaction that decrements the ledger, in that order.
func (s *Service) Reserve(ctx context.Context, patronID, workID int64, loanDurationDays int) (res model.Reservation, err error) {
	ctx, span := s.startSpan(ctx, "reservation.reserve",
		attribute.Int64("patron.id", patronID),
		attribute.Int64("work.id", workID))
	defer func() { endSpan(span, err) }()

	if loanDurationDays < 1 || loanDurationDays > s.cfg.MaxLoanDays {
		return model.Reservation{}, errs.Validation("loan duration must be between 1 and %d days", s.cfg.MaxLoanDays)
	}

	var (
		patron model.Patron
		work   model.Work
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if patron, err = tx.GetPatron(ctx, patronID); err != nil {
			return errors.Wrap(err, "patron")
		}
		if err := s.checkAccess(ctx, tx, patronID); err != nil {
			return err
		}
		has, err := tx.HasActiveReservation(ctx, patronID)
		if err != nil {
			return err
		}
		if has {
			return errs.ErrAlreadyReserved
		}
		if work, err = tx.GetWork(ctx, workID); err != nil {
			return errors.Wrap(err, "work")
		}
		if err := tx.DecrementAvailable(ctx, workID); err != nil {
			return err
		}
		res, err = tx.InsertReservation(ctx, model.NewReservation(patronID, workID, loanDurationDays, s.clock(), s.cfg.PickupWindow))
		return err
	})
	if err != nil {
		return model.Reservation{}, err
	}
	span.SetAttributes(attribute.Int64("reservation.id", res.ID))
	s.log.Info("reserved", zap.Int64("reservation_id", res.ID), zap.Int64("patron_id", patronID), zap.Int64("work_id", workID))

	deadline := res.PickupDeadline
	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyReserved,
		PatronExternalID: patron.ExternalID,
		ReservationID:    res.ID,
		WorkTitle:        work.Title,
		Deadline:         &deadline,
		Message:          fmt.Sprintf("%q is reserved for you. Pick it up before %s.", work.Title, deadline.Format(time.RFC1123)),
	})
	return res, nil
}

// transition loads a reservation, applies a state machine step and writes it
// back guarded by the source status. after runs in the same transaction.
func (s *Service) transition(
	ctx context.Context,
	id int64,
	step func(model.Reservation) (model.Reservation, error),
	after func(ctx context.Context, tx repository.Tx, prev, next model.Reservation) error,
) (prev, next model.Reservation, patron model.Patron, work model.Work, err error) {
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if prev, err = tx.GetReservation(ctx, id); err != nil {
			return err
		}
		if next, err = step(prev); err != nil {
			return err
		}
		if err = tx.UpdateReservation(ctx, next, prev.Status); err != nil {
			return err
		}
		if after != nil {
			if err = after(ctx, tx, prev, next); err != nil {
				return err
			}
		}
		if patron, err = tx.GetPatron(ctx, next.PatronID); err != nil {
			return err
		}
		work, err = tx.GetWork(ctx, next.WorkID)
		return err
	})
	return prev, next, patron, work, err
}

func releaseCopy(ctx context.Context, tx repository.Tx, _, next model.Reservation) error {
	return tx.IncrementAvailable(ctx, next.WorkID)
}

// ConfirmPickup is booked -> taken. The copy stays out of the ledger.
func (s *Service) ConfirmPickup(ctx context.Context, id int64) (res model.Reservation, err error) {
	ctx, span := s.startSpan(ctx, "reservation.confirm_pickup", attribute.Int64("reservation.id", id))
	defer func() { endSpan(span, err) }()

	now := s.clock()
	_, res, patron, work, err := s.transition(ctx, id, func(r model.Reservation) (model.Reservation, error) {
		return r.Take(now)
	}, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	s.log.Info("picked up", zap.Int64("reservation_id", id))

	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyPickedUp,
		PatronExternalID: patron.ExternalID,
		ReservationID:    id,
		WorkTitle:        work.Title,
		Deadline:         res.DueAt,
		Message:          fmt.Sprintf("Enjoy %q. Please return it by %s.", work.Title, res.DueAt.Format(time.RFC1123)),
	})
	return res, nil
}

// Cancel is booked -> cancelled by patron or staff; the copy goes back to the ledger.
func (s *Service) Cancel(ctx context.Context, id int64, actor model.Actor) (model.Reservation, error) {
	return s.cancel(ctx, id, actor, nil)
}

// CancelOwn cancels a patron's own booking; somebody else's reservation is reported as not found.
func (s *Service) CancelOwn(ctx context.Context, patronID, id int64) (model.Reservation, error) {
	return s.cancel(ctx, id, model.ActorPatron, &patronID)
}

func (s *Service) cancel(ctx context.Context, id int64, actor model.Actor, owner *int64) (res model.Reservation, err error) {
	ctx, span := s.startSpan(ctx, "reservation.cancel",
		attribute.Int64("reservation.id", id),
		attribute.String("actor", string(actor)))
	defer func() { endSpan(span, err) }()

	now := s.clock()
	_, res, patron, work, err := s.transition(ctx, id, func(r model.Reservation) (model.Reservation, error) {
		if owner != nil && r.PatronID != *owner {
			return r, errs.ErrNotFound
		}
		return r.Cancel(now, actor)
	}, releaseCopy)
	if err != nil {
		return model.Reservation{}, err
	}
	s.log.Info("cancelled", zap.Int64("reservation_id", id), zap.String("actor", string(actor)))

	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyCancelled,
		PatronExternalID: patron.ExternalID,
		ReservationID:    id,
		WorkTitle:        work.Title,
		Message:          fmt.Sprintf("Your reservation of %q is cancelled.", work.Title),
	})
	return res, nil
}

// ConfirmReturn is taken -> returned; the copy goes back to the ledger.
func (s *Service) ConfirmReturn(ctx context.Context, id int64) (res model.Reservation, err error) {
	ctx, span := s.startSpan(ctx, "reservation.confirm_return", attribute.Int64("reservation.id", id))
	defer func() { endSpan(span, err) }()

	now := s.clock()
	_, res, patron, work, err := s.transition(ctx, id, func(r model.Reservation) (model.Reservation, error) {
		return r.Return(now)
	}, releaseCopy)
	if err != nil {
		return model.Reservation{}, err
	}
	s.log.Info("returned", zap.Int64("reservation_id", id))

	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyReturned,
		PatronExternalID: patron.ExternalID,
		ReservationID:    id,
		WorkTitle:        work.Title,
		Message:          fmt.Sprintf("Thank you for returning %q.", work.Title),
	})
	return res, nil
}

// ReportNotReturned files a no-return violation for a taken reservation.
// Status and inventory stay as they are. A second report for the same
// reservation is stale.
func (s *Service) ReportNotReturned(ctx context.Context, id int64) (summary model.ViolationSummary, err error) {
	ctx, span := s.startSpan(ctx, "reservation.report_not_returned", attribute.Int64("reservation.id", id))
	defer func() { endSpan(span, err) }()

	var (
		r           model.Reservation
		patron      model.Patron
		work        model.Work
		newlyBanned bool
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if r, err = tx.GetReservation(ctx, id); err != nil {
			return err
		}
		if err = r.CheckOutstanding(); err != nil {
			return err
		}
		summary, newlyBanned, err = s.record(ctx, tx, r.PatronID, &r.ID, model.ViolationNoReturn)
		if errors.Is(err, errs.ErrAlreadyExists) {
			return &errs.StaleStateError{
				ReservationID: r.ID,
				Expected:      string(model.StatusTaken),
				Actual:        string(r.Status),
				Reason:        "not-returned already reported",
			}
		}
		if err != nil {
			return err
		}
		if patron, err = tx.GetPatron(ctx, r.PatronID); err != nil {
			return err
		}
		work, err = tx.GetWork(ctx, r.WorkID)
		return err
	})
	if err != nil {
		return model.ViolationSummary{}, err
	}
	s.log.Info("not returned", zap.Int64("reservation_id", id), zap.Int64("patron_id", r.PatronID), zap.Int("violations", summary.Total))

	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyNotReturned,
		PatronExternalID: patron.ExternalID,
		ReservationID:    id,
		WorkTitle:        work.Title,
		Deadline:         r.DueAt,
		Message:          fmt.Sprintf("%q is overdue. Please return it to the library.", work.Title),
	})
	if newlyBanned {
		s.notifyBanned(ctx, patron)
	}
	return summary, nil
}
