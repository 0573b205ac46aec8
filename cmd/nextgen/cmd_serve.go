package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/nextgen/internal/auth"
	"github.com/user/nextgen/internal/httpapi"
	"github.com/user/nextgen/internal/sweeper"
	"github.com/user/nextgen/internal/telegram"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the nextgen daemon",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

const pidFileName = "nextgen.pid"

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, pidFileName)
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	users, err := a.users()
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("auth.jwt_secret not set, using an ephemeral secret; tokens will not survive a restart")
	}
	authSvc := auth.NewService(users, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	if !a.gateway.Enabled() {
		slog.Warn("no llm backend configured, every tool will use its fallback generator",
			"provider", cfg.LLM.Provider)
	}

	slog.Info("nextgen started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"llm_provider", a.gateway.Backend(),
		"llm_model", cfg.LLM.Model,
		"storage", cfg.Storage.Driver,
		"tools", a.tools.Len(),
		"pid_file", pidPath,
	)

	sw := sweeper.New(a.sessions, a.controller,
		time.Duration(cfg.Sessions.TTLHours)*time.Hour, cfg.Sessions.SweepSchedule)
	if err := sw.Start(ctx); err != nil {
		return err
	}
	defer sw.Stop()

	if cfg.Telegram.Token != "" {
		adapter, err := telegram.New(cfg.Telegram.Token, a.controller, a.tools)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		go adapter.Start(ctx)
		slog.Info("telegram adapter started")
	} else {
		slog.Warn("telegram adapter disabled (no token)")
	}

	srv := httpapi.NewServer(a.dispatcher, a.controller, authSvc, a.gateway.Backend())
	srvErr := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", cfg.HTTP.Addr)
		srvErr <- srv.Start(ctx, cfg.HTTP.Addr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case err := <-srvErr:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				slog.Info("received SIGHUP, restarting")
				execPath, err := os.Executable()
				if err != nil {
					slog.Error("failed to get executable path", "error", err)
					continue
				}
				os.Remove(pidPath)
				if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
					slog.Error("failed to re-exec", "error", err)
					if _, writeErr := writePIDFile(cfg.DataDir); writeErr != nil {
						slog.Error("failed to re-write PID file", "error", writeErr)
					}
					continue
				}
			}
			slog.Info("shutting down", "signal", sig)
			cancel()
			if err := <-srvErr; err != nil {
				slog.Error("http server shutdown", "error", err)
			}
			return nil
		}
	}
}
