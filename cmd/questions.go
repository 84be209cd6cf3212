package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/catalog"
	"github.com/abhisek/kotoba/internal/quiz"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [file]",
	Short: "Show question counts per category, or validate a question bank file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.Catalog.File
		}

		bank, err := catalog.Open(path)
		if err != nil {
			return err
		}
		qs, err := bank.Questions(cmd.Context())
		if err != nil {
			return err
		}

		source := path
		if source == "" {
			source = "built-in"
		}
		fmt.Printf("Question bank: %s\n", source)
		fmt.Println(strings.Repeat("─", 30))
		counts := catalog.Counts(qs)
		for _, c := range quiz.AllCategories() {
			fmt.Printf("%-12s  %5d\n", c.DisplayName(), counts[c])
		}
		fmt.Println(strings.Repeat("─", 30))
		fmt.Printf("%-12s  %5d\n", "Total", len(qs))
		return nil
	},
}
