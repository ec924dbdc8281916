package conference

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

// PostgresStore persists conferences in PostgreSQL. Methods resolve the
// queryer per call, so they participate in a transaction when one is carried
// in the context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const conferenceColumns = `id, organizer_id, name, description, city, topics, month,
	max_attendees, seats_available, start_date, end_date, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, id string) (*Conference, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+conferenceColumns+` FROM conferences WHERE id = $1`, id)
	c, err := scanConference(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) GetMulti(ctx context.Context, ids []string) ([]*Conference, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT `+conferenceColumns+` FROM conferences
		 WHERE id = ANY($1) ORDER BY array_position($1, id)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}
	defer rows.Close()
	return collectConferences(rows)
}

func (s *PostgresStore) Put(ctx context.Context, c *Conference) error {
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, `
		INSERT INTO conferences (id, organizer_id, name, description, city, topics, month,
		                         max_attendees, seats_available, start_date, end_date,
		                         created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			city = EXCLUDED.city,
			topics = EXCLUDED.topics,
			month = EXCLUDED.month,
			max_attendees = EXCLUDED.max_attendees,
			seats_available = EXCLUDED.seats_available,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.OrganizerID, c.Name, c.Description, c.City, pq.Array(nonNil(c.Topics)), c.Month,
		c.MaxAttendees, c.SeatsAvailable, nullDate(c.StartDate), nullDate(c.EndDate),
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put conference: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOrganizer(ctx context.Context, organizerID string) ([]*Conference, error) {
	return s.list(ctx, `organizer_id = $1`, organizerID)
}

func (s *PostgresStore) ListByCity(ctx context.Context, city string) ([]*Conference, error) {
	return s.list(ctx, `city = $1`, city)
}

func (s *PostgresStore) ListByTopic(ctx context.Context, topic string) ([]*Conference, error) {
	return s.list(ctx, `$1 = ANY(topics)`, topic)
}

func (s *PostgresStore) ListNearlySoldOut(ctx context.Context, threshold int) ([]*Conference, error) {
	return s.list(ctx, `seats_available > 0 AND seats_available <= $1`, threshold)
}

func (s *PostgresStore) list(ctx context.Context, where string, arg any) ([]*Conference, error) {
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx,
		`SELECT `+conferenceColumns+` FROM conferences WHERE `+where+` ORDER BY name`, arg)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	defer rows.Close()
	return collectConferences(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConference(row rowScanner) (*Conference, error) {
	var c Conference
	var topics pq.StringArray
	var startDate, endDate sql.NullTime
	err := row.Scan(&c.ID, &c.OrganizerID, &c.Name, &c.Description, &c.City, &topics,
		&c.Month, &c.MaxAttendees, &c.SeatsAvailable, &startDate, &endDate,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Topics = topics
	if startDate.Valid {
		c.StartDate = startDate.Time
	}
	if endDate.Valid {
		c.EndDate = endDate.Time
	}
	return &c, nil
}

func collectConferences(rows *sql.Rows) ([]*Conference, error) {
	var out []*Conference
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conference: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conferences: %w", err)
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
