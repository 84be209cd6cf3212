package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/quiz"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed quizzes for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := resolveUser(cmd, d)
		if err != nil {
			return err
		}
		sessions, err := d.services.Tracker.History(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No quizzes taken yet.")
			return nil
		}
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}

		fmt.Printf("%-16s  %7s  %6s  %8s  %s\n", "Completed", "Score", "Acc", "Minutes", "Categories")
		fmt.Println(strings.Repeat("─", 80))
		for _, s := range sessions {
			fmt.Printf("%-16s  %3d/%-3d  %5.0f%%  %8.1f  %s\n",
				s.CompletedAt.Local().Format("2006-01-02 15:04"),
				s.Score, s.TotalQuestions, s.Accuracy, s.TimeSpent,
				categoryList(s.Categories))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("email", "", "Account email (default: signed-in user)")
	historyCmd.Flags().Int("limit", 20, "Maximum number of quizzes to show (0 = all)")
}

func categoryList(cats []quiz.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.DisplayName()
	}
	return strings.Join(names, ", ")
}
