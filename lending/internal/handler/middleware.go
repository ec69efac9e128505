package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/pkg/auth"
)

// BanGate turns banned patrons away before any patron-facing handler runs.
func (h *Handler) BanGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		patronID, err := auth.GetPatron(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		if err := h.lendingSvc.CheckAccess(ctx, patronID); err != nil {
			h.log.Debug("access denied", zap.Int64("patron_id", patronID), zap.Error(err))
			return httpError(err)
		}
		return next(c)
	}
}

func (h *Handler) StaffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		staffID, err := auth.GetStaff(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		if err := h.lendingSvc.RequireStaff(ctx, staffID); err != nil {
			return httpError(err)
		}
		return next(c)
	}
}
