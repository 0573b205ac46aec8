package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/nextgen/internal/config"
	"github.com/user/nextgen/internal/sweeper"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println(titleStyle.Render("nextgen setup"))
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		provider := strings.ToLower(ask(scanner, "LLM provider (openai, anthropic, gemini, ollama, none)", cfg.LLM.Provider))
		if provider != cfg.LLM.Provider {
			cfg.LLM.Model = config.DefaultModel(provider)
			cfg.LLM.BaseURL = ""
		}
		cfg.LLM.Provider = provider

		if provider != "none" {
			if provider != "ollama" {
				cfg.LLM.APIKey = ask(scanner, "LLM API key", cfg.LLM.APIKey)
			}
			cfg.LLM.BaseURL = ask(scanner, "LLM base URL (optional)", cfg.LLM.BaseURL)
			cfg.LLM.Model = ask(scanner, "LLM model name", cfg.LLM.Model)
			cfg.LLM.TimeoutSeconds = askInt(scanner, "LLM timeout in seconds", cfg.LLM.TimeoutSeconds)
		}

		cfg.HTTP.Addr = ask(scanner, "HTTP listen address", cfg.HTTP.Addr)
		cfg.Storage.Driver = ask(scanner, "Storage driver (file, sqlite)", cfg.Storage.Driver)
		cfg.Sessions.TTLHours = askInt(scanner, "Delete idle sessions after hours", cfg.Sessions.TTLHours)

		schedule := ask(scanner, "Session sweep schedule", cfg.Sessions.SweepSchedule)
		if err := sweeper.ValidateSchedule(schedule); err != nil {
			fmt.Println(errorStyle.Render(err.Error()), "(keeping", cfg.Sessions.SweepSchedule+")")
		} else {
			cfg.Sessions.SweepSchedule = schedule
		}

		cfg.Tools.ExtraFile = ask(scanner, "Extra tools file (optional)", cfg.Tools.ExtraFile)
		cfg.Telegram.Token = ask(scanner, "Telegram bot token (optional)", cfg.Telegram.Token)

		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// ask displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func ask(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}

func askInt(scanner *bufio.Scanner, label string, defaultVal int) int {
	s := ask(scanner, label, strconv.Itoa(defaultVal))
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
