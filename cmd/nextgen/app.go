package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/chat"
	"github.com/user/nextgen/internal/config"
	"github.com/user/nextgen/internal/fallback"
	"github.com/user/nextgen/internal/gateway"
	"github.com/user/nextgen/internal/generate"
	"github.com/user/nextgen/internal/prompt"
	"github.com/user/nextgen/internal/state"
	"github.com/user/nextgen/internal/types"
	"github.com/user/nextgen/pkg/llm"
)

// app holds the components shared by the CLI commands.
type app struct {
	cfg        *config.Config
	tools      *catalog.Registry
	gateway    *gateway.Gateway
	dispatcher *generate.Dispatcher
	sessions   types.SessionStore
	history    types.HistoryStore
	controller *chat.Controller
	db         *state.DB
}

// checkGenerators rejects tools naming an offline generator that does not
// exist.
func checkGenerators(tools *catalog.Registry) error {
	for _, def := range tools.List() {
		if def.Generator != "" && !fallback.HasExtra(def.Generator) {
			return fmt.Errorf("tool %q: unknown generator %q", def.ID, def.Generator)
		}
	}
	return nil
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	tools, err := catalog.Load(cfg.Tools.ExtraFile)
	if err != nil {
		return nil, fmt.Errorf("load tools: %w", err)
	}
	if err := checkGenerators(tools); err != nil {
		return nil, fmt.Errorf("load tools: %w", err)
	}

	backend, err := gateway.NewBackend(ctx, llm.Config{
		Provider:  cfg.LLM.Provider,
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	gw := gateway.New(backend, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)

	a := &app{
		cfg:        cfg,
		tools:      tools,
		gateway:    gw,
		dispatcher: generate.NewDispatcher(tools, gw, prompt.NewCounter(cfg.LLM.Model)),
	}

	switch cfg.Storage.Driver {
	case "", "file":
		a.sessions = state.NewSessionStore(cfg.DataDir)
		a.history = state.NewHistoryStore(cfg.DataDir)
	case "sqlite":
		db, err := state.OpenDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.sessions = db
		a.history = db
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	a.controller = chat.NewController(a.sessions, a.history, gw)
	return a, nil
}

// users returns the account store, opening the SQLite database when the
// file driver is in use.
func (a *app) users() (types.UserStore, error) {
	if a.db == nil {
		db, err := state.OpenDB(a.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.db = db
	}
	return a.db, nil
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
