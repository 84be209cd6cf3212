package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the study report for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := resolveUser(cmd, d)
		if err != nil {
			return err
		}
		r, err := d.services.Tracker.Report(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("build report: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}

		if r == nil {
			fmt.Println("No study data yet. Take a quiz to see your progress here.")
			return nil
		}
		printReport(u.Name, r)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("email", "", "Account email (default: signed-in user)")
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func printReport(name string, r *report.Report) {
	sep := strings.Repeat("─", 60)
	o := r.Overall

	fmt.Printf("Study report for %s\n", name)
	fmt.Println(sep)
	fmt.Printf("Quizzes:   %d\n", o.QuizzesCompleted)
	fmt.Printf("Accuracy:  %.0f%%\n", o.AverageAccuracy)
	fmt.Printf("Study:     %.1f h\n", o.TotalStudyHours)
	fmt.Printf("Streak:    %d days\n", o.StudyStreak)
	fmt.Printf("Level:     %s\n", o.Level)

	fmt.Println()
	fmt.Printf("%-12s  %8s  %9s  %8s  %s\n", "Category", "Accuracy", "Questions", "Change", "Status")
	fmt.Println(sep)
	for _, c := range r.Categories {
		fmt.Printf("%-12s  %7.0f%%  %9d  %+7.0f%%  %s\n",
			c.Category.DisplayName(), c.Accuracy, c.QuestionsAnswered, c.Improvement, c.Status)
	}

	fmt.Println()
	fmt.Println("Last 7 days")
	fmt.Println(sep)
	for _, p := range r.WeeklyTrend {
		bar := strings.Repeat("█", int(p.Accuracy/10))
		fmt.Printf("%s  %2d quiz  %-10s %3.0f%%\n", p.Date.Format("Mon 01/02"), p.QuizzesTaken, bar, p.Accuracy)
	}

	if len(r.Recommendations) > 0 {
		fmt.Println()
		fmt.Println("Recommendations")
		fmt.Println(sep)
		for _, rec := range r.Recommendations {
			fmt.Printf("[%s] %s: %s (%s)\n", rec.Priority, rec.Category.DisplayName(), rec.Suggestion, rec.TimeRecommended)
		}
	}

	fmt.Println()
	fmt.Println("Goals")
	fmt.Println(sep)
	for _, g := range r.Goals.ShortTerm {
		fmt.Println("  this week:  " + g)
	}
	for _, g := range r.Goals.LongTerm {
		fmt.Println("  this month: " + g)
	}
}
