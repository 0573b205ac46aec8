package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/generate"
	"github.com/user/nextgen/internal/prompt"
)

type runToolRequest struct {
	Fields map[string]string `json:"fields"`
	Mode   string            `json:"mode"`
}

type runToolResponse struct {
	Tool   string          `json:"tool"`
	Mode   string          `json:"mode"`
	Lines  []string        `json:"lines"`
	Source generate.Source `json:"source"`
}

type unknownToolResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
	Redirect    string   `json:"redirect"`
}

func unknownTool(c echo.Context, err error) error {
	resp := unknownToolResponse{Error: "unknown tool", Redirect: "/api/tools"}
	var unknown *catalog.UnknownToolError
	if errors.As(err, &unknown) {
		resp.Suggestions = unknown.Suggestions
	}
	return c.JSON(http.StatusNotFound, resp)
}

func (s *Server) handleListTools(c echo.Context) error {
	return c.JSON(http.StatusOK, s.dispatcher.Tools().List())
}

func (s *Server) handleGetTool(c echo.Context) error {
	def, err := s.dispatcher.Tools().Lookup(c.Param("id"))
	if err != nil {
		return unknownTool(c, err)
	}
	return c.JSON(http.StatusOK, def)
}

func (s *Server) handleRunTool(c echo.Context) error {
	var req runToolRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid JSON")
	}
	mode := req.Mode
	if mode == "" {
		mode = prompt.DefaultMode
	}

	id := c.Param("id")
	res, err := s.dispatcher.Dispatch(c.Request().Context(), generate.Request{
		ToolID: id,
		Values: catalog.Values(req.Fields),
		Mode:   mode,
	})
	if errors.Is(err, catalog.ErrUnknownTool) {
		return unknownTool(c, err)
	}
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "generation failed")
	}
	return c.JSON(http.StatusOK, runToolResponse{Tool: id, Mode: mode, Lines: res.Lines, Source: res.Source})
}
