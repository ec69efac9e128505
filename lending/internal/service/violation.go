package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/repository"
)

func (s *Service) summarize(patronID int64, counts map[model.ViolationKind]int) model.ViolationSummary {
	return model.NewViolationSummary(patronID, counts, s.cfg.BanThreshold)
}

// record appends one violation and reports whether it pushed the patron over the threshold.
func (s *Service) record(
	ctx context.Context,
	tx repository.Tx,
	patronID int64,
	reservationID *int64,
	kind model.ViolationKind,
) (model.ViolationSummary, bool, error) {
	counts, err := tx.CountActiveViolations(ctx, patronID)
	if err != nil {
		return model.ViolationSummary{}, false, err
	}
	before := s.summarize(patronID, counts)

	if _, err := tx.InsertViolation(ctx, model.Violation{
		PatronID:      patronID,
		ReservationID: reservationID,
		Kind:          kind,
		CreatedAt:     s.clock(),
		Active:        true,
	}); err != nil {
		return model.ViolationSummary{}, false, err
	}
	counts[kind]++
	after := s.summarize(patronID, counts)
	return after, !before.Banned && after.Banned, nil
}

func (s *Service) checkAccess(ctx context.Context, q repository.Queries, patronID int64) error {
	counts, err := q.CountActiveViolations(ctx, patronID)
	if err != nil {
		return err
	}
	if s.summarize(patronID, counts).Banned {
		return errs.ErrBanned
	}
	return nil
}

func (s *Service) notifyBanned(ctx context.Context, patron model.Patron) {
	s.log.Warn("patron banned", zap.Int64("patron_id", patron.ID))
	s.notifier.Send(ctx, model.Notification{
		Kind:             model.NotifyBanned,
		PatronExternalID: patron.ExternalID,
		Message:          errs.BannedMessage,
	})
}

// RecordViolation files a violation by hand, outside of any reservation.
func (s *Service) RecordViolation(ctx context.Context, patronID int64, kind model.ViolationKind) (summary model.ViolationSummary, err error) {
	ctx, span := s.startSpan(ctx, "violation.record",
		attribute.Int64("patron.id", patronID),
		attribute.String("violation.kind", string(kind)))
	defer func() { endSpan(span, err) }()

	if !kind.Valid() {
		return model.ViolationSummary{}, errs.Validation("unknown violation kind %q", kind)
	}
	var (
		patron      model.Patron
		newlyBanned bool
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if patron, err = tx.GetPatron(ctx, patronID); err != nil {
			return err
		}
		summary, newlyBanned, err = s.record(ctx, tx, patronID, nil, kind)
		return err
	})
	if err != nil {
		return model.ViolationSummary{}, err
	}
	if newlyBanned {
		s.notifyBanned(ctx, patron)
	}
	return summary, nil
}

// CountActive counts active violations of one kind, or of every kind when kind is nil.
func (s *Service) CountActive(ctx context.Context, patronID int64, kind *model.ViolationKind) (int, error) {
	counts, err := s.store.CountActiveViolations(ctx, patronID)
	if err != nil {
		return 0, err
	}
	if kind != nil {
		return counts[*kind], nil
	}
	return s.summarize(patronID, counts).Total, nil
}

func (s *Service) IsBanned(ctx context.Context, patronID int64) (bool, error) {
	counts, err := s.store.CountActiveViolations(ctx, patronID)
	if err != nil {
		return false, err
	}
	return s.summarize(patronID, counts).Banned, nil
}

// CheckAccess is the ban gate in front of every patron-facing operation.
func (s *Service) CheckAccess(ctx context.Context, patronID int64) error {
	return s.checkAccess(ctx, s.store, patronID)
}

func (s *Service) ViolationSummary(ctx context.Context, patronID int64) (model.ViolationSummary, error) {
	if _, err := s.store.GetPatron(ctx, patronID); err != nil {
		return model.ViolationSummary{}, err
	}
	counts, err := s.store.CountActiveViolations(ctx, patronID)
	if err != nil {
		return model.ViolationSummary{}, err
	}
	return s.summarize(patronID, counts), nil
}

// ClearBan deactivates every active violation of the patron. History stays.
func (s *Service) ClearBan(ctx context.Context, patronID int64) (summary model.ViolationSummary, err error) {
	ctx, span := s.startSpan(ctx, "violation.clear_ban", attribute.Int64("patron.id", patronID))
	defer func() { endSpan(span, err) }()

	var (
		patron    model.Patron
		wasBanned bool
		cleared   int
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if patron, err = tx.GetPatron(ctx, patronID); err != nil {
			return err
		}
		counts, err := tx.CountActiveViolations(ctx, patronID)
		if err != nil {
			return err
		}
		wasBanned = s.summarize(patronID, counts).Banned
		cleared, err = tx.DeactivateViolations(ctx, patronID)
		return err
	})
	if err != nil {
		return model.ViolationSummary{}, err
	}
	s.log.Info("ban cleared", zap.Int64("patron_id", patronID), zap.Int("cleared", cleared))

	if wasBanned {
		s.notifier.Send(ctx, model.Notification{
			Kind:             model.NotifyUnbanned,
			PatronExternalID: patron.ExternalID,
			Message:          "Your access to the library has been restored.",
		})
	}
	return s.summarize(patronID, nil), nil
}

func (s *Service) ListBanned(ctx context.Context) ([]model.ViolationSummary, error) {
	return s.store.ListBanned(ctx, s.cfg.BanThreshold)
}
