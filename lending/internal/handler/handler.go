package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/lending-service/lending/docs"
	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/pkg/auth"
	md "github.com/Astemirdum/lending-service/pkg/middleware"
	"github.com/Astemirdum/lending-service/pkg/validate"
)

type Handler struct {
	lendingSvc LendingService
	log        *zap.Logger
}

func New(lendingSvc LendingService, log *zap.Logger) *Handler {
	return &Handler{
		lendingSvc: lendingSvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/patrons", h.RegisterPatron)
	api.GET("/patrons/external/:externalId", h.GetPatronByExternalID)

	patron := api.Group("/patron", md.PatronContext, h.BanGate)
	patron.GET("/works", h.ListWorks)
	patron.GET("/reservations", h.ListOwnReservations)
	patron.POST("/reservations", h.Reserve)
	patron.GET("/reservations/:id", h.GetOwnReservation)
	patron.POST("/reservations/:id/cancel", h.CancelOwn)

	staff := api.Group("/staff", md.StaffContext, h.StaffOnly)
	staff.GET("/works", h.ListWorks)
	staff.POST("/works", h.CreateWork)
	staff.PATCH("/works/:id/copies", h.AdjustCopies)
	staff.GET("/reservations", h.ListReservations)
	staff.GET("/reservations/:id", h.GetReservation)
	staff.POST("/reservations/:id/pickup", h.ConfirmPickup)
	staff.POST("/reservations/:id/return", h.ConfirmReturn)
	staff.POST("/reservations/:id/cancel", h.Cancel)
	staff.POST("/reservations/:id/not-returned", h.ReportNotReturned)
	staff.GET("/patrons", h.ListPatrons)
	staff.GET("/patrons/:id", h.GetPatron)
	staff.GET("/patrons/:id/violations", h.ViolationSummary)
	staff.POST("/patrons/:id/violations", h.RecordViolation)
	staff.DELETE("/patrons/:id/ban", h.ClearBan)
	staff.POST("/patrons/:id/privilege", h.GrantPrivilege)
	staff.GET("/banned", h.ListBanned)
	staff.GET("/stats", h.Stats)
	staff.POST("/sweeps/expire", h.RunExpireSweep)
	staff.POST("/sweeps/remind", h.RunReminderSweep)

	return e
}

// httpError maps domain errors onto status codes. Storage failures stay 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrBanned):
		return echo.NewHTTPError(http.StatusForbidden, errs.BannedMessage)
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyReserved),
		errors.Is(err, errs.ErrNoCopyAvailable),
		errors.Is(err, errs.ErrStaleState),
		errors.Is(err, errs.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return v, nil
}

func queryID(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return &v, nil
}

func pageParams(c echo.Context) (page, size int, err error) {
	if page, err = queryInt(c, "page"); err != nil {
		return 0, 0, err
	}
	if size, err = queryInt(c, "size"); err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

// Health godoc
// @Summary health check
// @Tags manage
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// RegisterPatron godoc
// @Summary register a patron coming from a chat front end
// @Tags patrons
// @Accept json
// @Produce json
// @Param request body model.RegisterPatronRequest true "patron"
// @Success 201 {object} model.Patron
// @Failure 400,409 {object} echo.HTTPError
// @Router /api/v1/patrons [post]
func (h *Handler) RegisterPatron(c echo.Context) error {
	var req model.RegisterPatronRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.lendingSvc.RegisterPatron(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatronByExternalID(c echo.Context) error {
	externalID := c.Param("externalId")
	if externalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "externalId is empty")
	}
	p, err := h.lendingSvc.GetPatronByExternalID(c.Request().Context(), externalID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListWorks(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	var showAll bool
	if raw := c.QueryParam("showAll"); raw != "" {
		if showAll, err = strconv.ParseBool(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "showAll is invalid")
		}
	}
	works, err := h.lendingSvc.ListWorks(c.Request().Context(), showAll, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, works)
}

// Reserve godoc
// @Summary reserve a copy of a work
// @Tags patron
// @Accept json
// @Produce json
// @Param X-Patron-Id header int true "patron id"
// @Param request body model.CreateReservationRequest true "reservation"
// @Success 201 {object} model.Reservation
// @Failure 400,403,404,409 {object} echo.HTTPError
// @Router /api/v1/patron/reservations [post]
func (h *Handler) Reserve(c echo.Context) error {
	ctx := c.Request().Context()
	patronID, err := auth.GetPatron(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.lendingSvc.Reserve(ctx, patronID, req.WorkID, req.LoanDurationDays)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListOwnReservations(c echo.Context) error {
	ctx := c.Request().Context()
	patronID, err := auth.GetPatron(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	list, err := h.lendingSvc.ListReservations(ctx, model.ReservationFilter{PatronID: &patronID, Page: page, Size: size})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetOwnReservation(c echo.Context) error {
	ctx := c.Request().Context()
	patronID, err := auth.GetPatron(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.GetOwnReservation(ctx, patronID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// CancelOwn godoc
// @Summary cancel own booking
// @Tags patron
// @Produce json
// @Param X-Patron-Id header int true "patron id"
// @Param id path int true "reservation id"
// @Success 200 {object} model.Reservation
// @Failure 403,404,409 {object} echo.HTTPError
// @Router /api/v1/patron/reservations/{id}/cancel [post]
func (h *Handler) CancelOwn(c echo.Context) error {
	ctx := c.Request().Context()
	patronID, err := auth.GetPatron(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.lendingSvc.CancelOwn(ctx, patronID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}
