package handler

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/lending/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	Reserve(ctx context.Context, patronID, workID int64, loanDurationDays int) (model.Reservation, error)
	ConfirmPickup(ctx context.Context, id int64) (model.Reservation, error)
	Cancel(ctx context.Context, id int64, actor model.Actor) (model.Reservation, error)
	CancelOwn(ctx context.Context, patronID, id int64) (model.Reservation, error)
	ConfirmReturn(ctx context.Context, id int64) (model.Reservation, error)
	ReportNotReturned(ctx context.Context, id int64) (model.ViolationSummary, error)

	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	GetOwnReservation(ctx context.Context, patronID, id int64) (model.Reservation, error)
	ListReservations(ctx context.Context, f model.ReservationFilter) (model.ListReservations, error)

	CreateWork(ctx context.Context, req model.CreateWorkRequest) (model.Work, error)
	AdjustCopies(ctx context.Context, workID int64, delta int) (model.Work, error)
	ListWorks(ctx context.Context, showAll bool, page, size int) (model.ListWorks, error)

	RegisterPatron(ctx context.Context, req model.RegisterPatronRequest) (model.Patron, error)
	GetPatronByExternalID(ctx context.Context, externalID string) (model.Patron, error)
	GetPatron(ctx context.Context, patronID int64) (model.PatronDetails, error)
	ListPatrons(ctx context.Context, page, size int) (model.ListPatrons, error)
	GrantPrivilege(ctx context.Context, patronID int64) (model.Patron, error)
	RequireStaff(ctx context.Context, staffID int64) error

	RecordViolation(ctx context.Context, patronID int64, kind model.ViolationKind) (model.ViolationSummary, error)
	ViolationSummary(ctx context.Context, patronID int64) (model.ViolationSummary, error)
	CheckAccess(ctx context.Context, patronID int64) error
	ClearBan(ctx context.Context, patronID int64) (model.ViolationSummary, error)
	ListBanned(ctx context.Context) ([]model.ViolationSummary, error)

	Stats(ctx context.Context) (model.Stats, error)
	ExpireOverdue(ctx context.Context) (service.SweepReport, error)
	SendReminders(ctx context.Context) (service.SweepReport, error)
}

var _ LendingService = (*service.Service)(nil)
