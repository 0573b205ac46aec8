package main

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/nextgen/internal/chat"
	"github.com/user/nextgen/internal/types"
)

var chatSession string

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session name (defaults to the current user)")
}

func cliSessionKey(name string) types.SessionKey {
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		} else {
			name = "local"
		}
	}
	return types.NewSessionKey("cli", name)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long:  "Chat with the assistant. Type /clear to reset the conversation and /quit to leave.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		key := cliSessionKey(chatSession)
		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		resp, err := a.controller.History(ctx, key)
		if err != nil {
			return err
		}
		if n := len(resp.History); n > 0 {
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Resuming conversation (%d messages).", n)))
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(out, keyStyle.Render("you> "))
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())

			req := chat.Request{Message: line}
			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/clear":
				req = chat.Request{Action: chat.ActionClear}
			}

			resp, err := a.controller.Handle(ctx, key, req)
			if err != nil {
				return err
			}
			if req.Action == chat.ActionClear {
				fmt.Fprintln(out, dimStyle.Render("Conversation cleared."))
				continue
			}
			fmt.Fprintf(out, "%s %s\n", titleStyle.Render("assistant>"), resp.Reply)
		}
	},
}
