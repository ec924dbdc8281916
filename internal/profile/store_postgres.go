package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"confhub/pkg/platform/sentinel"
	"confhub/pkg/platform/tx"
)

// PostgresStore persists profiles in PostgreSQL. The reference lists live as
// array columns on the row so profile mutations stay single-row writes.
// Methods resolve the queryer per call, so they participate in a transaction
// when one is carried in the context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*Profile, error) {
	row := tx.Resolve(ctx, s.db).QueryRowContext(ctx, `
		SELECT user_id, display_name, main_email, tee_shirt_size,
		       conference_ids, wishlist_ids, created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID)

	var p Profile
	var conferenceIDs, wishlistIDs pq.StringArray
	err := row.Scan(&p.UserID, &p.DisplayName, &p.MainEmail, &p.TeeShirtSize,
		&conferenceIDs, &wishlistIDs, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.ConferenceIDs = conferenceIDs
	p.WishlistIDs = wishlistIDs
	return &p, nil
}

func (s *PostgresStore) Put(ctx context.Context, p *Profile) error {
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size,
		                      conference_ids, wishlist_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			main_email = EXCLUDED.main_email,
			tee_shirt_size = EXCLUDED.tee_shirt_size,
			conference_ids = EXCLUDED.conference_ids,
			wishlist_ids = EXCLUDED.wishlist_ids,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.DisplayName, p.MainEmail, p.TeeShirtSize,
		pq.Array(nonNil(p.ConferenceIDs)), pq.Array(nonNil(p.WishlistIDs)), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

// nonNil keeps NOT NULL array columns satisfied for fresh profiles.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
