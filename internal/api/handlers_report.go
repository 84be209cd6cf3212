package api

import (
	"net/http"

	"github.com/abhisek/kotoba/internal/report"
)

type reportResponse struct {
	Report *report.Report `json:"report"` // null until a quiz is completed
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Tracker.Report(r.Context(), userFrom(r.Context()).Subject)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Report: rep})
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Tracker.Report(r.Context(), userFrom(r.Context()).Subject)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "no study history yet")
		return
	}
	advice, err := s.deps.Coach.Advise(r.Context(), rep)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, advice)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.deps.Tracker.History(r.Context(), userFrom(r.Context()).Subject)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if h == nil {
		h = []report.StudySession{}
	}
	writeJSON(w, http.StatusOK, h)
}
