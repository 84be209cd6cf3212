// Package auth is a local, single-user account layer: a demo account,
// registration, and a remembered current user. It is not a security
// boundary.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CurrentUserKey is the session-store key holding the signed-in user.
const CurrentUserKey = "jlpt_user"

// Demo account.
const (
	DemoUserID   = "1"
	DemoEmail    = "demo@example.com"
	DemoName     = "Demo User"
	DemoPassword = "demo123"
)

var demoCreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailExists        = errors.New("email already exists")
	ErrMissingField       = errors.New("all fields are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrBusy               = errors.New("another sign-in request is in progress")
	ErrNotSignedIn        = errors.New("not signed in")
)

// Message returns the text shown to the user for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, ErrMissingField):
		return "Please fill in all fields"
	case errors.Is(err, ErrBusy):
		return "Please wait..."
	case err == nil:
		return ""
	default:
		return "Something went wrong. Please try again."
	}
}

// User is a local account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  time.Time `json:"lastLoginAt,omitzero"`
}

// UserStore persists accounts.
type UserStore interface {
	// UserByEmail returns ErrUserNotFound when no account matches.
	UserByEmail(ctx context.Context, email string) (*User, error)

	// InsertUser returns ErrEmailExists when the email is taken.
	InsertUser(ctx context.Context, u *User) error

	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// SessionStore is a small key-value store for the remembered user.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Options configures a Service.
type Options struct {
	// Delay is the artificial latency added to login and register.
	Delay time.Duration

	// HashCost is the bcrypt cost. Zero uses bcrypt.DefaultCost.
	HashCost int

	Now    func() time.Time
	Logger *zap.Logger
}

// Service signs users in and out. Only one login or register call runs
// at a time; overlapping calls fail with ErrBusy.
type Service struct {
	users    UserStore
	sessions SessionStore
	opts     Options
	pending  atomic.Bool
}

// NewService creates a Service.
func NewService(users UserStore, sessions SessionStore, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &Service{users: users, sessions: sessions, opts: opts}
}

// Pending reports whether a login or register call is in flight.
func (s *Service) Pending() bool { return s.pending.Load() }

func (s *Service) begin(ctx context.Context) error {
	if !s.pending.CompareAndSwap(false, true) {
		return ErrBusy
	}
	if s.opts.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.opts.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		s.pending.Store(false)
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) end() { s.pending.Store(false) }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and remembers the user.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.end()

	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.remember(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials and stamps the login time without
// touching the remembered user. Callers that keep their own sessions,
// like the HTTP API, use it directly.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.users.UserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.opts.Logger.Info("login rejected", zap.String("email", u.Email))
		return nil, ErrInvalidCredentials
	}

	now := s.opts.Now()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	u.LastLoginAt = now
	s.opts.Logger.Info("user logged in", zap.String("user_id", u.ID))
	return u, nil
}

// RegisterRequest holds the registration form.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.end()

	u, err := s.CreateAccount(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.remember(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r RegisterRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" || normalizeEmail(r.Email) == "" || r.Password == "" {
		return ErrMissingField
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// CreateAccount validates req and stores a new user without signing
// it in.
func (s *Service) CreateAccount(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.opts.Now()
	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastLoginAt:  now,
	}
	if err := s.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	s.opts.Logger.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Logout forgets the current user.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("forget current user: %w", err)
	}
	return nil
}

// Current returns the remembered user, or ErrNotSignedIn.
func (s *Service) Current(ctx context.Context) (*User, error) {
	raw, ok, err := s.sessions.Get(ctx, CurrentUserKey)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	if !ok {
		return nil, ErrNotSignedIn
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// A corrupt entry is treated as signed out.
		_ = s.sessions.Delete(ctx, CurrentUserKey)
		return nil, ErrNotSignedIn
	}
	return &u, nil
}

func (s *Service) remember(ctx context.Context, u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	if err := s.sessions.Set(ctx, CurrentUserKey, string(data)); err != nil {
		return fmt.Errorf("remember current user: %w", err)
	}
	return nil
}

// SeedDemo makes sure the demo account exists.
func (s *Service) SeedDemo(ctx context.Context) error {
	_, err := s.users.UserByEmail(ctx, DemoEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("lookup demo user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.opts.HashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.users.InsertUser(ctx, &User{
		ID:           DemoUserID,
		Email:        DemoEmail,
		Name:         DemoName,
		PasswordHash: string(hash),
		CreatedAt:    demoCreatedAt,
	})
	if err != nil && !errors.Is(err, ErrEmailExists) {
		return fmt.Errorf("insert demo user: %w", err)
	}
	return nil
}
