// internal/httpcontroller/server.go
package httpcontroller

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gocache "github.com/patrickmn/go-cache"

	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/logging"
	"github.com/cardscout/cardscout-go/internal/observability"
)

// Server encapsulates the Echo server and its collaborators.
type Server struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings
	Metrics  *observability.Metrics

	// dashboard query cache, aggregates change only on pipeline runs
	cache *gocache.Cache

	webLogger      *slog.Logger
	webLoggerClose func() error
}

// New initializes the HTTP server with the given settings and datastore.
// Metrics may be nil, the /metrics route is then not registered.
func New(settings *conf.Settings, dataStore datastore.Interface, m *observability.Metrics) *Server {
	s := &Server{
		Echo:     echo.New(),
		DS:       dataStore,
		Settings: settings,
		Metrics:  m,
		cache:    gocache.New(10*time.Minute, 30*time.Minute),
	}

	s.Echo.HideBanner = true
	s.Echo.IPExtractor = echo.ExtractIPFromXFFHeader()

	s.initLogger()
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(s.requestLogger())

	s.initRoutes()
	return s
}

// initLogger sets up the web request log, falling back to the default
// logger when the log file cannot be opened.
func (s *Server) initLogger() {
	if !s.Settings.WebServer.Log.Enabled {
		s.webLogger = logging.ForService("webui")
		if s.webLogger == nil {
			s.webLogger = slog.Default().With("service", "webui")
		}
		return
	}

	logger, closeFn, err := logging.NewFileLogger(s.Settings.WebServer.Log.Path, "webui", slog.LevelInfo)
	if err != nil {
		slog.Default().Warn("failed to open web log file, using default logger",
			"path", s.Settings.WebServer.Log.Path, "error", err)
		s.webLogger = slog.Default().With("service", "webui")
		return
	}
	s.webLogger = logger
	s.webLoggerClose = closeFn
}

// requestLogger logs each request with method, path, status and duration.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			s.webLogger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"ip", c.RealIP(),
				"duration_ms", time.Since(start).Milliseconds())
			return err
		}
	}
}

// Start begins listening and serving HTTP requests.
func (s *Server) Start() error {
	return s.Echo.Start(":" + s.Settings.WebServer.Port)
}

// Shutdown stops the server and closes the web log.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)
	if s.webLoggerClose != nil {
		if closeErr := s.webLoggerClose(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
