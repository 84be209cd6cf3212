package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect study coach LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		events, err := d.store.LLMEvents().Query(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			model := e.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-5d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				model,
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
			if e.ErrorMessage != "" {
				fmt.Printf("       error: %s\n", e.ErrorMessage)
			}
		}
		return nil
	},
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token usage per provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		usage, err := d.store.LLMEvents().Usage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("%-12s  %-28s  %6s  %6s  %10s  %10s\n",
			"Provider", "Model", "Calls", "Failed", "Input", "Output")
		fmt.Println(strings.Repeat("─", 82))

		var calls, failed int
		var in, out int64
		for _, u := range usage {
			fmt.Printf("%-12s  %-28s  %6d  %6d  %10d  %10d\n",
				u.Provider, u.Model, u.Requests, u.Failures, u.InputTokens, u.OutputTokens)
			calls += u.Requests
			failed += u.Failures
			in += u.InputTokens
			out += u.OutputTokens
		}
		fmt.Println(strings.Repeat("─", 82))
		fmt.Printf("%-12s  %-28s  %6d  %6d  %10d  %10d\n", "TOTAL", "", calls, failed, in, out)
		return nil
	},
}

func init() {
	llmListCmd.Flags().Int("limit", 20, "Maximum number of events to show")
	llmListCmd.Flags().String("purpose", "", "Filter by purpose")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmUsageCmd)
}
