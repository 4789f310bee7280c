package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cleanus/booking-api/docs"
	"github.com/cleanus/booking-api/internal/api/handler"
	"github.com/cleanus/booking-api/internal/api/middleware"
	"github.com/cleanus/booking-api/internal/core/ports"
	"github.com/cleanus/booking-api/pkg/token"
)

const metricsSubsystem = "cleaning"

// Dependencies groups everything the HTTP layer needs. Revocations and
// HealthChecks entries are optional.
type Dependencies struct {
	AuthService    ports.AuthService
	BookingService ports.BookingService
	Tokens         *token.Manager
	Revocations    middleware.RevocationChecker
	HealthChecks   map[string]handler.HealthCheck
	Logger         zerolog.Logger
	CORSOrigins    []string
	MaxBodyBytes   int64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if deps.MaxBodyBytes > 0 {
		e.Use(echomiddleware.BodyLimit(strconv.FormatInt(deps.MaxBodyBytes, 10)))
	}
	e.Use(echoprometheus.NewMiddleware(metricsSubsystem))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	bookingHandler := handler.NewBookingHandler(deps.BookingService)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	requireAuth := middleware.Auth(deps.Tokens, deps.Revocations)

	// --- User routes ---
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout, requireAuth)
	users.GET("/me", authHandler.Me, requireAuth)
	users.GET("/me/document", authHandler.Document, requireAuth)

	// --- Service routes (all protected) ---
	services := e.Group("/api/services", requireAuth)
	services.POST("", bookingHandler.Create)
	services.GET("", bookingHandler.List)
	services.PUT("/:id", bookingHandler.Amend)
	services.DELETE("/:id", bookingHandler.Cancel)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
