package messages

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PostgresRepo persists message records in a message_records table.
//
// Schema assumptions:
// - message_records(message_id PK, call_id, phone, customer_name, direction,
//   type, content, status, sent_at, delivered_at, read_at, failed_at,
//   error JSONB, created_at, updated_at)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

var messageSortColumns = map[string]string{
	"createdAt": "created_at",
	"phone":     "phone",
	"status":    "status",
}

const messageColumns = `message_id, call_id, phone, customer_name, direction, type, content, status,
sent_at, delivered_at, read_at, failed_at, error, created_at, updated_at`

func (r *PostgresRepo) Get(ctx context.Context, messageID string) (Message, error) {
	q := `SELECT ` + messageColumns + ` FROM message_records WHERE message_id = $1`
	return scanMessage(r.db.QueryRowContext(ctx, q, messageID))
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Message, int, error) {
	f = f.Normalized()

	where := make([]string, 0, 6)
	args := make([]any, 0, 8)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(string(f.Type)))
	}
	if f.Direction != "" {
		where = append(where, "direction = "+arg(string(f.Direction)))
	}
	if f.Phone != "" {
		where = append(where, "phone LIKE "+arg("%"+f.Phone+"%"))
	}
	if f.CallID != "" {
		where = append(where, "call_id = "+arg(f.CallID))
	}
	if !f.CreatedFrom.IsZero() {
		where = append(where, "created_at >= "+arg(f.CreatedFrom))
	}
	if !f.CreatedTo.IsZero() {
		where = append(where, "created_at < "+arg(f.CreatedTo))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM message_records"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := messageSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	q := "SELECT " + messageColumns + " FROM message_records" + cond +
		fmt.Sprintf(" ORDER BY %s %s LIMIT %s OFFSET %s", col, dir, arg(f.Limit), arg((f.Page-1)*f.Limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Message, 0, f.Limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Upsert(ctx context.Context, m Message) error {
	var errRaw []byte
	if m.Error != nil {
		var err error
		errRaw, err = json.Marshal(m.Error)
		if err != nil {
			return fmt.Errorf("messages: encode error payload: %w", err)
		}
	}
	const q = `
INSERT INTO message_records (` + messageColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (message_id) DO UPDATE SET
  call_id = EXCLUDED.call_id,
  phone = EXCLUDED.phone,
  customer_name = EXCLUDED.customer_name,
  direction = EXCLUDED.direction,
  type = EXCLUDED.type,
  content = EXCLUDED.content,
  status = EXCLUDED.status,
  sent_at = EXCLUDED.sent_at,
  delivered_at = EXCLUDED.delivered_at,
  read_at = EXCLUDED.read_at,
  failed_at = EXCLUDED.failed_at,
  error = EXCLUDED.error,
  updated_at = EXCLUDED.updated_at
`
	_, err := r.db.ExecContext(ctx, q,
		m.MessageID, nullString(m.CallID), m.Phone, m.CustomerName,
		string(m.Direction), string(m.Type), m.Content, string(m.Status),
		m.SentAt, m.DeliveredAt, m.ReadAt, m.FailedAt, errRaw,
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, messageID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM message_records WHERE message_id = $1`, messageID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInWindow returns messages created in [from, to). Zero bounds are
// unbounded; used by the analytics rollups.
func (r *PostgresRepo) ListInWindow(ctx context.Context, from, to time.Time) ([]Message, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if !from.IsZero() {
		args = append(args, from)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	q := "SELECT " + messageColumns + " FROM message_records"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (Message, error) {
	var (
		m         Message
		callID    sql.NullString
		direction string
		typ       string
		status    string
		sentAt    sql.NullTime
		delivAt   sql.NullTime
		readAt    sql.NullTime
		failedAt  sql.NullTime
		errRaw    []byte
	)
	err := row.Scan(
		&m.MessageID, &callID, &m.Phone, &m.CustomerName, &direction, &typ,
		&m.Content, &status, &sentAt, &delivAt, &readAt, &failedAt, &errRaw,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}
	m.CallID = callID.String
	m.Direction = Direction(direction)
	m.Type = MessageType(typ)
	m.Status = Status(status)
	m.SentAt = timePtr(sentAt)
	m.DeliveredAt = timePtr(delivAt)
	m.ReadAt = timePtr(readAt)
	m.FailedAt = timePtr(failedAt)
	if len(errRaw) > 0 && string(errRaw) != "null" {
		var de DeliveryError
		if err := json.Unmarshal(errRaw, &de); err != nil {
			return Message{}, fmt.Errorf("messages: decode error payload: %w", err)
		}
		m.Error = &de
	}
	return m, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
