package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/user/nextgen/internal/chat"
	"github.com/user/nextgen/internal/types"
)

func sessionKey(c echo.Context) types.SessionKey {
	return types.NewSessionKey("http", strconv.FormatInt(userID(c), 10))
}

func (s *Server) handleGetChat(c echo.Context) error {
	resp, err := s.chat.History(c.Request().Context(), sessionKey(c))
	if err != nil {
		slog.Error("load chat failed", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "could not load chat")
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePostChat(c echo.Context) error {
	var req chat.Request
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid JSON")
	}

	resp, err := s.chat.Handle(c.Request().Context(), sessionKey(c), req)
	if errors.Is(err, chat.ErrUnknownAction) {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		slog.Error("chat failed", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "could not save chat")
	}
	return c.JSON(http.StatusOK, resp)
}
