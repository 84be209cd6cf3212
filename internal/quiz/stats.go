package quiz

// CategoryResult counts answered questions in one category.
type CategoryResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the percentage of correct answers, 0 when empty.
func (r CategoryResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total) * 100
}

// Stats is a point-in-time projection of a session.
type Stats struct {
	TotalQuestions    int                         `json:"totalQuestions"`
	Answered          int                         `json:"answered"`
	CorrectAnswers    int                         `json:"correctAnswers"`
	IncorrectAnswers  int                         `json:"incorrectAnswers"`
	Accuracy          float64                     `json:"accuracy"`
	TimeSpent         float64                     `json:"timeSpent"` // minutes
	CategoryBreakdown map[Category]CategoryResult `json:"categoryBreakdown"`
}

// Stats derives the session statistics. Only answered questions count
// toward accuracy and the category breakdown. Elapsed time is read from
// the clock on every call.
func (s *Session) Stats() Stats {
	st := Stats{
		TotalQuestions:    len(s.questions),
		CategoryBreakdown: make(map[Category]CategoryResult),
	}

	for i, q := range s.questions {
		a := s.answers[i]
		if a == Unanswered {
			continue
		}
		st.Answered++
		r := st.CategoryBreakdown[q.Category]
		r.Total++
		if q.IsCorrect(a) {
			r.Correct++
			st.CorrectAnswers++
		}
		st.CategoryBreakdown[q.Category] = r
	}

	st.IncorrectAnswers = st.Answered - st.CorrectAnswers
	if st.Answered > 0 {
		st.Accuracy = float64(st.CorrectAnswers) / float64(st.Answered) * 100
	}
	st.TimeSpent = s.clock.Now().Sub(s.startedAt).Minutes()
	return st
}

// Categories returns the categories present in the breakdown, in display
// order.
func (st Stats) Categories() []Category {
	var out []Category
	for _, c := range AllCategories() {
		if _, ok := st.CategoryBreakdown[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
