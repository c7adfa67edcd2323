package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/wekeepgrowing/semo-fleet/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase"
	"github.com/wekeepgrowing/semo-fleet/pkg/logger"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	echo    *echo.Echo
	metrics http.Handler
}

// NewServer builds the echo server and mounts every route. metricsHandler may be nil.
func NewServer(cfg *config.Config, log *zap.Logger, uc *usecase.UseCases, metricsHandler http.Handler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.HTTP.AllowOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT},
	}))

	s := &Server{
		config:  cfg,
		logger:  log,
		echo:    e,
		metrics: metricsHandler,
	}
	s.setupRoutes(uc)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Addr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes(uc *usecase.UseCases) {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	if s.metrics != nil && s.config.Metrics.Enabled {
		s.echo.GET(s.config.Metrics.Path, echo.WrapHandler(s.metrics))
	}

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Issuer: s.config.JWT.Issuer,
		Logger: s.logger,
	}

	fleet := s.echo.Group("/api/v1/fleet", auth.JWTMiddleware(jwtConfig))
	handlers.RegisterRoutes(fleet, s.logger, uc, nil)
}
