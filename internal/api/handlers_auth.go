package api

import (
	"net/http"
	"time"

	"github.com/abhisek/kotoba/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *auth.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	u, err := s.deps.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondToken(w, r, http.StatusOK, u)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	u, err := s.deps.Auth.CreateAccount(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondToken(w, r, http.StatusCreated, u)
}

func (s *Server) respondToken(w http.ResponseWriter, r *http.Request, status int, u *auth.User) {
	tok, exp, err := s.tokens.issue(u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, status, tokenResponse{Token: tok, ExpiresAt: exp, User: u})
}

type meResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	c := userFrom(r.Context())
	writeJSON(w, http.StatusOK, meResponse{ID: c.Subject, Name: c.Name, Email: c.Email})
}
