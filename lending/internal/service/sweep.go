package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
)

type SweepReport struct {
	Selected  int `json:"selected"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func (r SweepReport) fields() []zap.Field {
	return []zap.Field{
		zap.Int("selected", r.Selected),
		zap.Int("processed", r.Processed),
		zap.Int("skipped", r.Skipped),
		zap.Int("failed", r.Failed),
	}
}

func (r *SweepReport) count(err error) {
	switch {
	case err == nil:
		r.Processed++
	case errors.Is(err, errs.ErrStaleState):
		r.Skipped++
	default:
		r.Failed++
	}
}

// ExpireOverdue cancels bookings not picked up before their deadline. Every
// reservation gets its own transaction; one that a staff action already moved
// on is skipped.
func (s *Service) ExpireOverdue(ctx context.Context) (report SweepReport, err error) {
	ctx, span := s.startSpan(ctx, "sweep.expire")
	defer func() {
		span.SetAttributes(
			attribute.Int("sweep.selected", report.Selected),
			attribute.Int("sweep.processed", report.Processed),
			attribute.Int("sweep.failed", report.Failed))
		endSpan(span, err)
	}()

	now := s.clock()
	overdue, err := s.store.ListExpired(ctx, now, s.cfg.SweepBatchSize)
	if err != nil {
		return report, err
	}
	report.Selected = len(overdue)

	for _, r := range overdue {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := s.expireOne(ctx, r.ID, now)
		report.count(err)
		if err != nil && !errors.Is(err, errs.ErrStaleState) {
			s.log.Error("expire", zap.Int64("reservation_id", r.ID), zap.Error(err))
		}
	}
	s.log.Info("expiration sweep", report.fields()...)
	return report, nil
}

func (s *Service) expireOne(ctx context.Context, id int64, now time.Time) error {
	var (
		summary     model.ViolationSummary
		newlyBanned bool
	)
	_, res, patron, work, err := s.transition(ctx, id, func(r model.Reservation) (model.Reservation, error) {
		return r.Expire(now)
	}, func(ctx context.Context, tx repository.Tx, prev, next model.Reservation) error {
		if err := tx.IncrementAvailable(ctx, next.WorkID); err != nil {
			return err
		}
		var err error
		summary, newlyBanned, err = s.record(ctx, tx, next.PatronID, &next.ID, model.ViolationNoPickup)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("expired", zap.Int64("reservation_id", id), zap.Int64("patron_id", res.PatronID), zap.Int("violations", summary.Total))

	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyExpired,
		PatronExternalID: patron.ExternalID,
		ReservationID:    id,
		WorkTitle:        work.Title,
		Message:          fmt.Sprintf("Your reservation of %q expired because it was not picked up in time.", work.Title),
	})
	if newlyBanned {
		s.notifyBanned(ctx, patron)
	}
	return nil
}

// SendReminders notifies patrons whose loan is due within the reminder window.
// The reminder flag is claimed before sending, so a due date gets at most one reminder.
func (s *Service) SendReminders(ctx context.Context) (report SweepReport, err error) {
	ctx, span := s.startSpan(ctx, "sweep.remind")
	defer func() {
		span.SetAttributes(
			attribute.Int("sweep.selected", report.Selected),
			attribute.Int("sweep.processed", report.Processed),
			attribute.Int("sweep.failed", report.Failed))
		endSpan(span, err)
	}()

	now := s.clock()
	due, err := s.store.ListDueForReminder(ctx, now, now.Add(s.cfg.ReminderWindow), s.cfg.SweepBatchSize)
	if err != nil {
		return report, err
	}
	report.Selected = len(due)

	for _, r := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := s.remindOne(ctx, r.ID)
		report.count(err)
		if err != nil && !errors.Is(err, errs.ErrStaleState) {
			s.log.Error("remind", zap.Int64("reservation_id", r.ID), zap.Error(err))
		}
	}
	s.log.Info("reminder sweep", report.fields()...)
	return report, nil
}

func (s *Service) remindOne(ctx context.Context, id int64) error {
	var (
		r      model.Reservation
		patron model.Patron
		work   model.Work
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		claimed, err := tx.ClaimReminder(ctx, id)
		if err != nil {
			return err
		}
		if r, err = tx.GetReservation(ctx, id); err != nil {
			return err
		}
		if !claimed {
			return &errs.StaleStateError{
				ReservationID: id,
				Expected:      string(model.StatusTaken),
				Actual:        string(r.Status),
				Reason:        "reminder already sent",
			}
		}
		if patron, err = tx.GetPatron(ctx, r.PatronID); err != nil {
			return err
		}
		work, err = tx.GetWork(ctx, r.WorkID)
		return err
	})
	if err != nil {
		return err
	}

	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyReminder,
		PatronExternalID: patron.ExternalID,
		ReservationID:    id,
		WorkTitle:        work.Title,
		Deadline:         r.DueAt,
		Message:          fmt.Sprintf("Reminder: %q is due on %s.", work.Title, r.DueAt.Format(time.RFC1123)),
	})
	return nil
}
