package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/lending-service/lending/internal/model"
)

func (h *Handler) CreateWork(c echo.Context) error {
	var req model.CreateWorkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w, err := h.lendingSvc.CreateWork(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) AdjustCopies(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req model.AdjustCopiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w, err := h.lendingSvc.AdjustCopies(c.Request().Context(), id, req.Delta)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) ListReservations(c echo.Context) error {
	var (
		f   model.ReservationFilter
		err error
	)
	if f.Page, f.Size, err = pageParams(c); err != nil {
		return err
	}
	if f.PatronID, err = queryID(c, "patronId"); err != nil {
		return err
	}
	if f.WorkID, err = queryID(c, "workId"); err != nil {
		return err
	}
	if raw := c.QueryParam("status"); raw != "" {
		st := model.Status(raw)
		f.Status = &st
	}
	list, err := h.lendingSvc.ListReservations(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetReservation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// ConfirmPickup godoc
// @Summary hand a booked copy over to the patron
// @Tags staff
// @Produce json
// @Param X-Staff-Id header int true "staff patron id"
// @Param id path int true "reservation id"
// @Success 200 {object} model.Reservation
// @Failure 403,404,409 {object} echo.HTTPError
// @Router /api/v1/staff/reservations/{id}/pickup [post]
func (h *Handler) ConfirmPickup(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.ConfirmPickup(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// ConfirmReturn godoc
// @Summary take a copy back
// @Tags staff
// @Produce json
// @Param X-Staff-Id header int true "staff patron id"
// @Param id path int true "reservation id"
// @Success 200 {object} model.Reservation
// @Failure 403,404,409 {object} echo.HTTPError
// @Router /api/v1/staff/reservations/{id}/return [post]
func (h *Handler) ConfirmReturn(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.ConfirmReturn(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.Cancel(c.Request().Context(), id, model.ActorStaff)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// ReportNotReturned godoc
// @Summary file a no-return violation for a taken copy
// @Tags staff
// @Produce json
// @Param X-Staff-Id header int true "staff patron id"
// @Param id path int true "reservation id"
// @Success 200 {object} model.ViolationSummary
// @Failure 403,404,409 {object} echo.HTTPError
// @Router /api/v1/staff/reservations/{id}/not-returned [post]
func (h *Handler) ReportNotReturned(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.lendingSvc.ReportNotReturned(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) ListPatrons(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	list, err := h.lendingSvc.ListPatrons(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetPatron godoc
// @Summary patron card with the reservation in progress and violation standing
// @Tags staff
// @Produce json
// @Param X-Staff-Id header int true "staff patron id"
// @Param id path int true "patron id"
// @Success 200 {object} model.PatronDetails
// @Failure 403,404 {object} echo.HTTPError
// @Router /api/v1/staff/patrons/{id} [get]
func (h *Handler) GetPatron(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	details, err := h.lendingSvc.GetPatron(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) ViolationSummary(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.lendingSvc.ViolationSummary(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) RecordViolation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req model.RecordViolationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	summary, err := h.lendingSvc.RecordViolation(c.Request().Context(), id, req.Kind)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, summary)
}

func (h *Handler) ClearBan(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.lendingSvc.ClearBan(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) GrantPrivilege(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.lendingSvc.GrantPrivilege(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListBanned(c echo.Context) error {
	list, err := h.lendingSvc.ListBanned(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.lendingSvc.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) RunExpireSweep(c echo.Context) error {
	report, err := h.lendingSvc.ExpireOverdue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) RunReminderSweep(c echo.Context) error {
	report, err := h.lendingSvc.SendReminders(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}
