package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/user/nextgen/internal/auth"
	"github.com/user/nextgen/internal/state"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid JSON")
	}

	user, err := s.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, state.ErrEmailTaken):
		return errorJSON(c, http.StatusConflict, "email already registered")
	case err != nil:
		slog.Error("register failed", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "could not create account")
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) handleToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid JSON")
	}

	user, err := s.auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return errorJSON(c, http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		slog.Error("authenticate failed", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "could not sign in")
	}

	token, expires, err := s.auth.IssueToken(user)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "could not sign in")
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, Type: "Bearer", ExpiresAt: expires})
}

// requireToken rejects requests without a valid bearer token and stores the
// token's user id in the context.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return errorJSON(c, http.StatusUnauthorized, "missing authorization header")
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return errorJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		id, err := s.auth.ParseToken(token)
		if err != nil {
			slog.Debug("token rejected", "error", err)
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		c.Set(userIDKey, id)
		return next(c)
	}
}

func userID(c echo.Context) int64 {
	id, _ := c.Get(userIDKey).(int64)
	return id
}
