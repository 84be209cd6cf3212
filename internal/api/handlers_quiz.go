package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/catalog"
	"github.com/abhisek/kotoba/internal/quiz"
)

var errAnswerLocked = errors.New("question already answered")

// publicQuestion hides the answer until the question has been answered.
type publicQuestion struct {
	ID            string          `json:"id"`
	Category      quiz.Category   `json:"category"`
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	Difficulty    quiz.Difficulty `json:"difficulty"`
	Selected      *int            `json:"selectedAnswer,omitempty"`
	CorrectAnswer *int            `json:"correctAnswer,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
}

func toPublic(q quiz.Question, answer int) publicQuestion {
	p := publicQuestion{
		ID:         q.ID,
		Category:   q.Category,
		Question:   q.Prompt,
		Options:    q.Options,
		Difficulty: q.Difficulty,
	}
	if answer != quiz.Unanswered {
		correct := q.CorrectAnswer
		p.Selected = &answer
		p.CorrectAnswer = &correct
		p.Explanation = q.Explanation
	}
	return p
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.deps.Catalog.Questions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		cat, err := quiz.ParseCategory(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		qs = catalog.Filter(qs, cat)
	}
	out := make([]publicQuestion, len(qs))
	for i, q := range qs {
		out[i] = toPublic(q, quiz.Unanswered)
	}
	writeJSON(w, http.StatusOK, out)
}

type quizView struct {
	ID               string          `json:"id"`
	Position         int             `json:"currentQuestionIndex"`
	Total            int             `json:"totalQuestions"`
	Score            int             `json:"score"`
	Progress         float64         `json:"progress"`
	Completed        bool            `json:"isCompleted"`
	StartedAt        time.Time       `json:"startTime"`
	TimeLimit        int             `json:"timeLimit"` // minutes, 0 for none
	RemainingSeconds *int            `json:"remainingSeconds,omitempty"`
	Question         *publicQuestion `json:"question,omitempty"`
}

func (s *Server) view(q *liveQuiz) quizView {
	sess := q.session
	v := quizView{
		ID:        q.id,
		Position:  sess.Position(),
		Total:     sess.Len(),
		Score:     sess.Score(),
		Progress:  sess.Progress(),
		Completed: sess.Completed(),
		StartedAt: sess.StartedAt(),
		TimeLimit: sess.Config().TimeLimit,
	}
	if limit := sess.TimeLimit(); limit > 0 {
		left := max(0, int((limit - s.quizzes.now().Sub(sess.StartedAt())).Seconds()))
		v.RemainingSeconds = &left
	}
	if cur, ok := sess.Current(); ok {
		p := toPublic(cur, sess.Answer())
		v.Question = &p
	}
	return v
}

type createQuizRequest struct {
	QuestionCount *int     `json:"questionCount"`
	Categories    []string `json:"categories"`
	TimeLimit     *int     `json:"timeLimit"`
	Randomize     *bool    `json:"randomize"`
}

func (req createQuizRequest) config() (quiz.Config, error) {
	cfg := quiz.DefaultConfig()
	if req.QuestionCount != nil {
		cfg.QuestionCount = *req.QuestionCount
	}
	if req.TimeLimit != nil {
		cfg.TimeLimit = *req.TimeLimit
	}
	if req.Randomize != nil {
		cfg.Randomize = *req.Randomize
	}
	if req.Categories != nil {
		cfg.Categories = make([]quiz.Category, 0, len(req.Categories))
		for _, raw := range req.Categories {
			c, err := quiz.ParseCategory(raw)
			if err != nil {
				return quiz.Config{}, err
			}
			cfg.Categories = append(cfg.Categories, c)
		}
	}
	return cfg, cfg.Validate()
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	cfg, err := req.config()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	qs, err := s.deps.Catalog.Questions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.deps.Engine.Start(qs, cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sess.Empty() {
		writeError(w, http.StatusUnprocessableEntity, "No questions available for the selected categories.")
		return
	}

	q := s.quizzes.add(userFrom(r.Context()).Subject, sess)
	s.log.Info("quiz started",
		zap.String("quiz_id", q.id),
		zap.String("user_id", q.owner),
		zap.Int("questions", sess.Len()),
	)
	writeJSON(w, http.StatusCreated, s.view(q))
}

// withQuiz loads the caller's quiz, applies op under its lock, records
// it once it completes and writes the resulting view.
func (s *Server) withQuiz(w http.ResponseWriter, r *http.Request, op func(*quiz.Session) error) {
	q, err := s.quizzes.get(chi.URLParam(r, "quizID"), userFrom(r.Context()).Subject)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.session.Completed() && q.session.Expired() {
		q.session.Finish()
	}
	if op != nil {
		if err := op(q.session); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if q.session.Completed() && !q.recorded {
		if _, err := s.deps.Tracker.RecordQuiz(r.Context(), q.owner, q.session); err != nil {
			s.fail(w, r, err)
			return
		}
		q.recorded = true
	}
	writeJSON(w, http.StatusOK, s.view(q))
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	s.withQuiz(w, r, nil)
}

type answerRequest struct {
	Option *int `json:"option"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil || req.Option == nil {
		writeError(w, http.StatusBadRequest, "option is required")
		return
	}
	s.withQuiz(w, r, func(sess *quiz.Session) error {
		// The answer key is revealed once a question is answered, so the
		// choice is final.
		if !sess.Completed() && sess.Answer() != quiz.Unanswered {
			return errAnswerLocked
		}
		return sess.SubmitAnswer(*req.Option)
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.withQuiz(w, r, func(sess *quiz.Session) error {
		sess.Advance()
		return nil
	})
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.withQuiz(w, r, func(sess *quiz.Session) error {
		sess.Retreat()
		return nil
	})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	s.withQuiz(w, r, func(sess *quiz.Session) error {
		sess.Finish()
		return nil
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q, err := s.quizzes.get(chi.URLParam(r, "quizID"), userFrom(r.Context()).Subject)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q.mu.Lock()
	st := q.session.Stats()
	q.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}
