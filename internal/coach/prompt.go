package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/kotoba/internal/report"
)

const systemPrompt = `You are a friendly Japanese tutor helping a beginner prepare for the JLPT N5. You write short, specific study tips in English. Japanese examples use kana, with romaji in parentheses.`

func buildUserMessage(r *report.Report, maxTips int) string {
	var b strings.Builder

	o := r.Overall
	fmt.Fprintf(&b, "Level: %s\n", o.Level)
	fmt.Fprintf(&b, "Quizzes completed: %d\n", o.QuizzesCompleted)
	fmt.Fprintf(&b, "Average accuracy: %.0f%%\n", o.AverageAccuracy)
	fmt.Fprintf(&b, "Study streak: %d days\n", o.StudyStreak)

	b.WriteString("\nCategories:\n")
	for _, c := range r.Categories {
		fmt.Fprintf(&b, "- %s: %.0f%% over %d questions (%s, %+.0f vs last week)\n",
			c.Category, c.Accuracy, c.QuestionsAnswered, c.Status, c.Improvement)
	}

	fmt.Fprintf(&b, `
Instructions:
Give at most %d tips. Put the weakest categories first.
Each tip names one exercise the learner can finish in a single sitting.
Do not repeat generic advice such as "study more".`, maxTips)

	return b.String()
}
