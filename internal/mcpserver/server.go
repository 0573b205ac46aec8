// Package mcpserver exposes the tool catalog as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/generate"
	"github.com/user/nextgen/internal/prompt"
)

const modeArg = catalog.ModeField

// New builds an MCP server with one tool per catalog entry.
func New(d *generate.Dispatcher, version string) *server.MCPServer {
	s := server.NewMCPServer("nextgen", version, server.WithToolCapabilities(false))
	for _, def := range d.Tools().List() {
		s.AddTool(toolFor(def), handlerFor(d, def.ID))
	}
	return s
}

// Serve runs the server over stdin and stdout until the client disconnects.
func Serve(d *generate.Dispatcher, version string) error {
	return server.ServeStdio(New(d, version))
}

func toolFor(def catalog.ToolDefinition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Title + ": " + def.Description)}
	for _, f := range def.Fields {
		desc := f.Label
		if f.Placeholder != "" {
			desc += " (" + f.Placeholder + ")"
		}
		opts = append(opts, mcp.WithString(f.Name, mcp.Description(desc)))
	}
	opts = append(opts, mcp.WithString(modeArg,
		mcp.Description("Response depth, e.g. advanced or basic"),
		mcp.DefaultString(prompt.DefaultMode),
	))
	return mcp.NewTool(def.ID, opts...)
}

func handlerFor(d *generate.Dispatcher, id string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		values := catalog.Values{}
		mode := ""
		for k, v := range req.GetArguments() {
			s, ok := v.(string)
			if !ok {
				s = fmt.Sprint(v)
			}
			if k == modeArg {
				mode = s
				continue
			}
			values[k] = s
		}

		res, err := d.Dispatch(ctx, generate.Request{ToolID: id, Values: values, Mode: mode})
		if errors.Is(err, catalog.ErrUnknownTool) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, err
		}
		if len(res.Lines) == 0 {
			return mcp.NewToolResultText("No output. Fill in at least one field."), nil
		}
		return mcp.NewToolResultText("- " + strings.Join(res.Lines, "\n- ")), nil
	}
}
