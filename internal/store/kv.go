package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/kotoba/internal/auth"
)

// KVRepo is a small string key-value table. It implements
// auth.SessionStore.
type KVRepo struct {
	s *Store
}

var _ auth.SessionStore = (*KVRepo)(nil)

func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := r.s.builder().
		Select("value").
		From(r.s.builder().Table("kv_entries")).
		Where(entsql.EQ("key", key)).
		Query()

	rows, err := r.s.query(ctx, query, args)
	if err != nil {
		return "", false, fmt.Errorf("query kv: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var v string
	if err := rows.Scan(&v); err != nil {
		return "", false, fmt.Errorf("scan kv: %w", err)
	}
	return v, true, nil
}

func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	query, args := r.s.builder().
		Insert("kv_entries").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UnixMicro()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()

	if err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("set kv %s: %w", key, err)
	}
	return nil
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	query, args := r.s.builder().
		Delete("kv_entries").
		Where(entsql.EQ("key", key)).
		Query()

	if err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("delete kv %s: %w", key, err)
	}
	return nil
}
