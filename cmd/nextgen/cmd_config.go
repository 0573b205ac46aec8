package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/nextgen/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configKeysCmd, configGetCmd, configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the config file",
}

// completeKey offers config key names for the first argument.
func completeKey(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, name := range config.KeyNames() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// printEntries writes entries grouped by their top-level section.
func printEntries(w io.Writer, entries []config.Entry) {
	section := ""
	for _, e := range entries {
		value := dimStyle.Render("= ") + e.Display(e.Value)
		head, rest, nested := strings.Cut(e.Name, ".")
		if !nested {
			fmt.Fprintf(w, "%s %s\n", keyStyle.Render(e.Name), value)
			section = ""
			continue
		}
		if head != section {
			fmt.Fprintln(w, titleStyle.Render("["+head+"]"))
			section = head
		}
		fmt.Fprintf(w, "  %s %s\n", keyStyle.Render(rest), value)
	}
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show the effective configuration with secrets masked",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := config.Entries(loadConfig())
		if err != nil {
			return fmt.Errorf("show config: %w", err)
		}
		printEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys accepted by config get and set",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, k := range config.Keys() {
			line := fmt.Sprintf("%-26s %s", k.Name, dimStyle.Render(string(k.Kind)))
			if k.Secret {
				line += " " + bulletStyle.Render("secret")
			}
			fmt.Fprintln(out, line)
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the value stored in the config file",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeKey,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := config.GetValue(cfgPath, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), e.Display(e.Value))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Store a value in the config file",
	Long:              "Store a value in the config file. The value is converted to the key's type; run 'config keys' to see them.",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeKey,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := config.SetValue(cfgPath, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", bulletStyle.Render("updated"), e)
		return nil
	},
}
