package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/generate"
	"github.com/user/nextgen/internal/prompt"
)

var (
	toolFields  []string
	toolMode    string
	toolJSON    bool
	sampleLimit int
)

func init() {
	rootCmd.AddCommand(toolCmd)
	toolCmd.AddCommand(toolListCmd, toolShowCmd, toolRunCmd, toolPromptCmd, toolSampleCmd)

	for _, c := range []*cobra.Command{toolRunCmd, toolPromptCmd} {
		c.Flags().StringArrayVarP(&toolFields, "field", "f", nil, "field value as name=value (repeatable)")
		c.Flags().StringVar(&toolMode, "mode", prompt.DefaultMode, "generation mode")
	}
	toolRunCmd.Flags().BoolVar(&toolJSON, "json", false, "print the result as JSON")
	toolSampleCmd.Flags().IntVar(&sampleLimit, "parallel", 4, "maximum tools generating at once")
}

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Inspect and run generation tools",
}

// parseFields turns name=value pairs into form values.
func parseFields(pairs []string) (catalog.Values, error) {
	values := make(catalog.Values, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q, expected name=value", p)
		}
		values[name] = value
	}
	return values, nil
}

// sampleValues fills every field with its placeholder text.
func sampleValues(def catalog.ToolDefinition) catalog.Values {
	values := make(catalog.Values, len(def.Fields))
	for _, f := range def.Fields {
		values[f.Name] = f.Placeholder
	}
	return values
}

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintf(w, "%s %s\n", bulletStyle.Render("•"), line)
	}
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		tools, err := catalog.Load(cfg.Tools.ExtraFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, def := range tools.List() {
			fmt.Fprintf(out, "%-20s %s\n", keyStyle.Render(def.ID), def.Title)
		}
		return nil
	},
}

var toolShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a tool's form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		tools, err := catalog.Load(cfg.Tools.ExtraFile)
		if err != nil {
			return err
		}
		def, err := tools.Lookup(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(def.Title))
		fmt.Fprintln(out, def.Description)
		fmt.Fprintln(out)
		for _, f := range def.Fields {
			fmt.Fprintf(out, "  %s %s (%s)\n", keyStyle.Render(f.Name), f.Label, f.Kind)
			if f.Placeholder != "" {
				fmt.Fprintf(out, "    %s\n", dimStyle.Render(f.Placeholder))
			}
		}
		fmt.Fprintf(out, "\n[%s]\n", def.ButtonText)
		return nil
	},
}

var toolRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Generate output for a tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseFields(toolFields)
		if err != nil {
			return err
		}
		cfg := loadConfig()
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.dispatcher.Dispatch(cmd.Context(), generate.Request{
			ToolID: args[0],
			Values: values,
			Mode:   toolMode,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if toolJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printLines(out, res.Lines)
		fmt.Fprintln(out, dimStyle.Render("source: "+string(res.Source)))
		return nil
	},
}

var toolPromptCmd = &cobra.Command{
	Use:   "prompt <id>",
	Short: "Print the prompt a tool would send",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseFields(toolFields)
		if err != nil {
			return err
		}
		cfg := loadConfig()
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.dispatcher.Preview(generate.Request{ToolID: args[0], Values: values, Mode: toolMode})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("system"))
		fmt.Fprintln(out, p.System)
		fmt.Fprintln(out)
		fmt.Fprintln(out, titleStyle.Render("user"))
		fmt.Fprintln(out, p.User)
		fmt.Fprintln(out)
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d tokens", p.Tokens)))
		return nil
	},
}

// runSamples dispatches every tool with its placeholder values, at most
// limit at a time, and returns the results in catalog order.
func runSamples(ctx context.Context, d *generate.Dispatcher, limit int) ([]generate.Result, error) {
	defs := d.Tools().List()
	results := make([]generate.Result, len(defs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, def := range defs {
		g.Go(func() error {
			res, err := d.Dispatch(ctx, generate.Request{ToolID: def.ID, Values: sampleValues(def)})
			if err != nil {
				return fmt.Errorf("sample %s: %w", def.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var toolSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run every tool with its placeholder inputs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := runSamples(cmd.Context(), a.dispatcher, sampleLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, def := range a.tools.List() {
			fmt.Fprintf(out, "%s %s\n", titleStyle.Render(def.Title), dimStyle.Render("("+string(results[i].Source)+")"))
			printLines(out, results[i].Lines)
			fmt.Fprintln(out)
		}
		return nil
	},
}
