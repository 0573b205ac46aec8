// internal/httpapi/server.go
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/user/nextgen/internal/auth"
	"github.com/user/nextgen/internal/chat"
	"github.com/user/nextgen/internal/generate"
)

const userIDKey = "user_id"

// Server exposes tools, chat and account endpoints over HTTP.
type Server struct {
	echo       *echo.Echo
	dispatcher *generate.Dispatcher
	chat       *chat.Controller
	auth       *auth.Service
	backend    string
}

// NewServer wires the routes. backend names the configured model backend and
// is reported by /health ("none" when absent).
func NewServer(dispatcher *generate.Dispatcher, controller *chat.Controller, authSvc *auth.Service, backend string) *Server {
	s := &Server{
		echo:       echo.New(),
		dispatcher: dispatcher,
		chat:       controller,
		auth:       authSvc,
		backend:    backend,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	e.GET("/health", s.handleHealth)
	e.POST("/api/auth/register", s.handleRegister)
	e.POST("/api/auth/token", s.handleToken)

	api := e.Group("/api", s.requireToken)
	api.GET("/tools", s.handleListTools)
	api.GET("/tools/:id", s.handleGetTool)
	api.POST("/tools/:id", s.handleRunTool)
	api.GET("/chat", s.handleGetChat)
	api.POST("/chat", s.handlePostChat)

	return s
}

// ServeHTTP delegates to echo, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"llm":    s.backend,
		"tools":  s.dispatcher.Tools().Len(),
	})
}
