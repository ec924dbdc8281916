package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"confhub/pkg/platform/sentinel"
	"confhub/pkg/platform/tx"
)

// PostgresStore persists sessions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const sessionColumns = `id, conference_id, name, highlights, speaker, session_date,
	start_time, duration_minutes, session_type, created_at`

func (s *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) GetMulti(ctx context.Context, ids []string) ([]*Session, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE id = ANY($1) ORDER BY array_position($1, id)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

func (s *PostgresStore) Put(ctx context.Context, sess *Session) error {
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, `
		INSERT INTO sessions (id, conference_id, name, highlights, speaker, session_date,
		                      start_time, duration_minutes, session_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sess.ID, sess.ConferenceID, sess.Name, pq.Array(nonNil(sess.Highlights)), sess.Speaker,
		nullDate(sess.Date), sess.StartTime, sess.DurationMinutes, sess.Type, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByConference(ctx context.Context, conferenceID string) ([]*Session, error) {
	return s.list(ctx, `conference_id = $1`, conferenceID)
}

func (s *PostgresStore) ListByType(ctx context.Context, conferenceID string, t Type) ([]*Session, error) {
	return s.list(ctx, `conference_id = $1 AND session_type = $2`, conferenceID, string(t))
}

func (s *PostgresStore) ListBySpeaker(ctx context.Context, conferenceID, speaker string) ([]*Session, error) {
	return s.list(ctx, `conference_id = $1 AND speaker = $2`, conferenceID, speaker)
}

func (s *PostgresStore) list(ctx context.Context, where string, args ...any) ([]*Session, error) {
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE `+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	var highlights pq.StringArray
	var date sql.NullTime
	err := row.Scan(&sess.ID, &sess.ConferenceID, &sess.Name, &highlights, &sess.Speaker,
		&date, &sess.StartTime, &sess.DurationMinutes, &sess.Type, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	sess.Highlights = highlights
	if date.Valid {
		sess.Date = date.Time
	}
	return &sess, nil
}

func collectSessions(rows *sql.Rows) ([]*Session, error) {
	var out []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// nonNil keeps NOT NULL array columns satisfied.
func nonNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}

func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
