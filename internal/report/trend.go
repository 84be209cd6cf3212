package report

import "time"

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeeklyTrend returns one point per calendar day for the last TrendDays
// days ending on now's day, oldest first. Days without quizzes are zero.
func WeeklyTrend(history []StudySession, now time.Time) []TrendPoint {
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(TrendDays - 1))

	points := make([]TrendPoint, TrendDays)
	sums := make([]float64, TrendDays)
	for i := range points {
		points[i].Date = first.AddDate(0, 0, i)
	}

	for _, s := range history {
		day := startOfDay(s.CompletedAt.In(now.Location()))
		if day.Before(first) || day.After(today) {
			continue
		}
		i := daysBetween(first, day)
		points[i].QuizzesTaken++
		points[i].StudyTime += s.TimeSpent
		sums[i] += s.Accuracy
	}

	for i := range points {
		if points[i].QuizzesTaken > 0 {
			points[i].Accuracy = sums[i] / float64(points[i].QuizzesTaken)
		}
	}
	return points
}

// Streak counts consecutive calendar days with at least one quiz, ending
// today. A streak whose last day is yesterday is still alive.
func Streak(history []StudySession, now time.Time) int {
	days := make(map[time.Time]bool, len(history))
	for _, s := range history {
		days[startOfDay(s.CompletedAt.In(now.Location()))] = true
	}

	day := startOfDay(now)
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for days[day] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// daysBetween counts calendar days from a to b, both at midnight.
func daysBetween(a, b time.Time) int {
	n := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}
