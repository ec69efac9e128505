package middleware

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/lending-service/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// PatronContext puts the patron id sent by the patron-facing front end into the request context.
func PatronContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c.Request().Header.Get(auth.XPatronIDHeader))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+auth.XPatronIDHeader)
		}
		req := c.Request()
		c.SetRequest(req.WithContext(auth.SetPatron(req.Context(), id)))
		return next(c)
	}
}

// StaffContext puts the staff member id sent by the staff-facing front end into the request context.
func StaffContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c.Request().Header.Get(auth.XStaffIDHeader))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+auth.XStaffIDHeader)
		}
		req := c.Request()
		c.SetRequest(req.WithContext(auth.SetStaff(req.Context(), id)))
		return next(c)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
