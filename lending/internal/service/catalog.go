package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
)

func (s *Service) CreateWork(ctx context.Context, req model.CreateWorkRequest) (work model.Work, err error) {
	ctx, span := s.startSpan(ctx, "work.create")
	defer func() { endSpan(span, err) }()

	if req.TotalCopies < 1 {
		return model.Work{}, errs.Validation("total copies must be at least 1")
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		work, err = tx.InsertWork(ctx, model.Work{
			Title:           strings.TrimSpace(req.Title),
			Author:          strings.TrimSpace(req.Author),
			TotalCopies:     req.TotalCopies,
			AvailableCopies: req.TotalCopies,
			CreatedAt:       s.clock(),
		})
		return err
	})
	if err != nil {
		return model.Work{}, err
	}
	s.log.Info("work created", zap.Int64("work_id", work.ID), zap.Int("copies", work.TotalCopies))
	return work, nil
}

// AdjustCopies restocks (delta > 0) or withdraws (delta < 0) copies. Total and
// available move together so reservations keep their copies.
func (s *Service) AdjustCopies(ctx context.Context, workID int64, delta int) (work model.Work, err error) {
	ctx, span := s.startSpan(ctx, "work.adjust_copies",
		attribute.Int64("work.id", workID),
		attribute.Int("delta", delta))
	defer func() { endSpan(span, err) }()

	if delta == 0 {
		return model.Work{}, errs.Validation("delta must not be zero")
	}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.GetWork(ctx, workID)
		if err != nil {
			return err
		}
		if current.AvailableCopies+delta < 0 {
			return errs.ErrNoCopyAvailable
		}
		if current.TotalCopies+delta < 1 {
			return errs.Validation("work %d must keep at least one copy", workID)
		}
		work, err = tx.AdjustCopies(ctx, workID, delta)
		return err
	})
	if err != nil {
		return model.Work{}, err
	}
	return work, nil
}

func (s *Service) ListWorks(ctx context.Context, showAll bool, page, size int) (model.ListWorks, error) {
	return s.store.ListWorks(ctx, showAll, page, size)
}

func (s *Service) RegisterPatron(ctx context.Context, req model.RegisterPatronRequest) (patron model.Patron, err error) {
	ctx, span := s.startSpan(ctx, "patron.register")
	defer func() { endSpan(span, err) }()

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		patron, err = tx.InsertPatron(ctx, model.Patron{
			ExternalID:     strings.TrimSpace(req.ExternalID),
			DocumentNumber: strings.TrimSpace(req.DocumentNumber),
			FirstName:      strings.TrimSpace(req.FirstName),
			LastName:       strings.TrimSpace(req.LastName),
			Phone:          strings.TrimSpace(req.Phone),
			RegisteredAt:   s.clock(),
		})
		return err
	})
	if err != nil {
		return model.Patron{}, err
	}
	s.log.Info("patron registered", zap.Int64("patron_id", patron.ID))
	return patron, nil
}

func (s *Service) GrantPrivilege(ctx context.Context, patronID int64) (patron model.Patron, err error) {
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		patron, err = tx.SetPrivileged(ctx, patronID, true)
		return err
	})
	if err != nil {
		return model.Patron{}, err
	}
	s.log.Info("privilege granted", zap.Int64("patron_id", patronID))
	return patron, nil
}

// RequireStaff lets through privileged patrons only.
func (s *Service) RequireStaff(ctx context.Context, staffID int64) error {
	p, err := s.store.GetPatron(ctx, staffID)
	if err != nil {
		if errs.IsNotFound(err) {
			return errs.ErrForbidden
		}
		return err
	}
	if !p.Privileged {
		return errs.ErrForbidden
	}
	return nil
}

func (s *Service) GetPatronByExternalID(ctx context.Context, externalID string) (model.Patron, error) {
	return s.store.GetPatronByExternalID(ctx, externalID)
}

func (s *Service) ListPatrons(ctx context.Context, page, size int) (model.ListPatrons, error) {
	return s.store.ListPatrons(ctx, page, size)
}

// GetPatron collects what staff need about one patron: the record, the
// reservation in progress if any and the violation standing.
func (s *Service) GetPatron(ctx context.Context, patronID int64) (model.PatronDetails, error) {
	p, err := s.store.GetPatron(ctx, patronID)
	if err != nil {
		return model.PatronDetails{}, err
	}
	details := model.PatronDetails{Patron: p}

	active, err := s.store.GetActiveReservation(ctx, patronID)
	switch {
	case err == nil:
		details.ActiveReservation = &active
	case !errs.IsNotFound(err):
		return model.PatronDetails{}, err
	}

	counts, err := s.store.CountActiveViolations(ctx, patronID)
	if err != nil {
		return model.PatronDetails{}, err
	}
	details.Violations = s.summarize(patronID, counts)
	return details, nil
}

func (s *Service) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	return s.store.GetReservation(ctx, id)
}

// GetOwnReservation hides other patrons' reservations behind not found.
func (s *Service) GetOwnReservation(ctx context.Context, patronID, id int64) (model.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if r.PatronID != patronID {
		return model.Reservation{}, errs.ErrNotFound
	}
	return r, nil
}

func (s *Service) ListReservations(ctx context.Context, f model.ReservationFilter) (model.ListReservations, error) {
	if f.Status != nil && !f.Status.Valid() {
		return model.ListReservations{}, errs.Validation("unknown status %q", *f.Status)
	}
	return s.store.ListReservations(ctx, f)
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.store.Stats(ctx)
}
