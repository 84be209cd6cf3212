package screen

import (
	"go.uber.org/zap"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/catalog"
	"github.com/abhisek/kotoba/internal/coach"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
)

// Services are the dependencies screens are built from.
type Services struct {
	Auth    *auth.Service
	Catalog catalog.Provider
	Engine  *quiz.Engine
	Tracker *report.Tracker
	Coach   *coach.Service

	// Defaults pre-fills the quiz setup screen.
	Defaults quiz.Config

	Logger *zap.Logger
}

// UserChangedMsg is sent after sign in, sign out and when the header
// details for the signed in user change.
type UserChangedMsg struct {
	User   *auth.User // nil when signed out
	Streak int
}
