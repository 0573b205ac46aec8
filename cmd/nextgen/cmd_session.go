package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/user/nextgen/internal/types"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionClearCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage chat sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		list, err := a.sessions.List(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKEY\tMESSAGES\tLAST ACTIVE")
		for _, s := range list {
			count := 0
			if h, err := a.history.Load(ctx, s.SessionID); err == nil {
				count = len(h)
			}
			fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n",
				s.SessionID,
				s.SessionKey,
				count,
				types.MaxHistory,
				humanize.Time(s.UpdatedAt),
			)
		}
		return w.Flush()
	},
}

func clearSession(ctx context.Context, a *app, id types.SessionID) error {
	if _, err := a.sessions.Get(ctx, id); err != nil {
		return err
	}
	if err := a.history.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	if err := a.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <id|all>",
	Short: "Delete a session or all sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if args[0] != "all" {
			if err := clearSession(ctx, a, types.SessionID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(out, "Session %s cleared.\n", args[0])
			return nil
		}

		list, err := a.sessions.List(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		for _, s := range list {
			if err := clearSession(ctx, a, s.SessionID); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "%s sessions cleared.\n", humanize.Comma(int64(len(list))))
		return nil
	},
}
