package settings

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists config entries in a config_entries table keyed by name.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const entryColumns = `name, category, value, description, is_active, last_modified_by, updated_at`

func (r *PostgresRepo) Get(ctx context.Context, name string) (Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM config_entries WHERE name = $1`
	var e Entry
	err := r.db.QueryRowContext(ctx, q, name).Scan(
		&e.Name, &e.Category, &e.Value, &e.Description, &e.IsActive, &e.LastModifiedBy, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *PostgresRepo) List(ctx context.Context, category string) ([]Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM config_entries`
	args := []any{}
	if category != "" {
		q += ` WHERE category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Category, &e.Value, &e.Description, &e.IsActive, &e.LastModifiedBy, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Upsert(ctx context.Context, e Entry) error {
	const q = `
INSERT INTO config_entries (` + entryColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (name) DO UPDATE SET
  category = EXCLUDED.category,
  value = EXCLUDED.value,
  description = EXCLUDED.description,
  is_active = EXCLUDED.is_active,
  last_modified_by = EXCLUDED.last_modified_by,
  updated_at = EXCLUDED.updated_at
`
	_, err := r.db.ExecContext(ctx, q, e.Name, e.Category, e.Value, e.Description, e.IsActive, e.LastModifiedBy, e.UpdatedAt)
	return err
}
