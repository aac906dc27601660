package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/kpv/internal/progress"
)

const progressTable = "progress_kv"

// progressRepo implements progress.Backend on the progress_kv table.
type progressRepo struct {
	store *Store
	keys  progress.Keyspace
}

func (r *progressRepo) LoadAll(ctx context.Context) (map[string]int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("key", "value").
		From(entsql.Table(progressTable)).
		Where(entsql.HasPrefix("key", r.keys.Base())).
		OrderBy("key").
		Query()

	rows := &entsql.Rows{}
	if err := r.store.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		id, ok := r.keys.ID(key)
		if !ok {
			continue
		}
		if v, ok := progress.DecodeValue(value); ok {
			out[id] = v
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress rows: %w", err)
	}
	return out, nil
}

func (r *progressRepo) Put(ctx context.Context, id string, value int) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(progressTable).
		Columns("key", "value", "updated_at").
		Values(r.keys.Key(id), progress.EncodeValue(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("value")
				u.SetExcluded("updated_at")
			}),
		).
		Query()

	var res sql.Result
	if err := r.store.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save progress %q: %w", id, err)
	}
	return nil
}

// Close is a no-op; the Store owns the connection.
func (r *progressRepo) Close() error {
	return nil
}
