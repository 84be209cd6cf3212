package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/abhisek/kotoba/internal/auth"
)

// UserRepo stores accounts. It implements auth.UserStore.
type UserRepo struct {
	s *Store
}

var _ auth.UserStore = (*UserRepo)(nil)

func (r *UserRepo) UserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query, args := r.s.builder().
		Select("id", "email", "name", "password_hash", "created_at", "last_login_at").
		From(r.s.builder().Table("users")).
		Where(entsql.EQ("email", email)).
		Limit(1).
		Query()

	rows, err := r.s.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query user: %w", err)
		}
		return nil, auth.ErrUserNotFound
	}

	var (
		u         auth.User
		createdAt int64
		lastLogin int64
	)
	if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt, &lastLogin); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = fromMicros(createdAt)
	u.LastLoginAt = fromMicros(lastLogin)
	return &u, nil
}

func (r *UserRepo) InsertUser(ctx context.Context, u *auth.User) error {
	query, args := r.s.builder().
		Insert("users").
		Columns("id", "email", "name", "password_hash", "created_at", "last_login_at").
		Values(u.ID, u.Email, u.Name, u.PasswordHash, toMicros(u.CreatedAt), toMicros(u.LastLoginAt)).
		Query()

	if err := r.s.exec(ctx, query, args); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return auth.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	query, args := r.s.builder().
		Update("users").
		Set("last_login_at", toMicros(at)).
		Where(entsql.EQ("id", userID)).
		Query()

	if err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// List returns every account ordered by creation time.
func (r *UserRepo) List(ctx context.Context) ([]auth.User, error) {
	query, args := r.s.builder().
		Select("id", "email", "name", "created_at", "last_login_at").
		From(r.s.builder().Table("users")).
		OrderBy("created_at", "email").
		Query()

	rows, err := r.s.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []auth.User
	for rows.Next() {
		var (
			u         auth.User
			createdAt int64
			lastLogin int64
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &createdAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.CreatedAt = fromMicros(createdAt)
		u.LastLoginAt = fromMicros(lastLogin)
		out = append(out, u)
	}
	return out, rows.Err()
}

func toMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func fromMicros(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}
