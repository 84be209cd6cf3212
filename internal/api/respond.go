package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/quiz"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrMissingField),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, quiz.ErrInvalidConfig),
		errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, quiz.ErrNoQuestions):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrSessionCompleted),
		errors.Is(err, errAnswerLocked):
		return http.StatusConflict
	case errors.Is(err, errQuizNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged and
// hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal error"
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, auth.ErrMissingField),
		errors.Is(err, auth.ErrPasswordMismatch):
		msg = auth.Message(err)
	}
	writeError(w, status, msg)
}
