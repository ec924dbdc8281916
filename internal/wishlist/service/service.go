// Package service implements the wishlist manager: idempotent-safe membership
// on a profile's session wishlist. Only the profile is mutated, so a
// single-entity transaction suffices; removal is transactional too, matching
// addition, so concurrent mutations by the same user cannot lose writes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"confhub/internal/conference"
	"confhub/internal/platform/metrics"
	"confhub/internal/profile"
	"confhub/internal/session"
	"confhub/internal/store"
	dErrors "confhub/pkg/domain-errors"
	"confhub/pkg/email"
	"confhub/pkg/platform/sentinel"
)

type Service struct {
	profiles profile.Store
	sessions session.Store
	confs    conference.Store
	txr      store.TxRunner
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(
	profiles profile.Store,
	sessions session.Store,
	confs conference.Store,
	txr store.TxRunner,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{profiles: profiles, sessions: sessions, confs: confs, txr: txr, metrics: m, logger: logger}
}

// Add puts the session on the caller's wishlist. The session must resolve;
// adding a session already present is a conflict.
func (s *Service) Add(ctx context.Context, userID, mainEmail, sessionID string) error {
	err := s.txr.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.resolveSession(ctx, sessionID); err != nil {
			return err
		}
		prof, err := s.profileForUpdate(ctx, userID, mainEmail)
		if err != nil {
			return err
		}

		if prof.OnWishlist(sessionID) {
			return dErrors.New(dErrors.CodeConflict, "this session is already on your wishlist")
		}

		prof.AddWish(sessionID)
		prof.UpdatedAt = time.Now().UTC()
		if err := s.profiles.Put(ctx, prof); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "persist profile")
		}
		return nil
	})

	s.metrics.WishlistOps.WithLabelValues("add", resultLabel(err)).Inc()
	return err
}

// Remove takes the session off the caller's wishlist. Both the session and
// its parent conference must still resolve; removing a session that is not
// wishlisted is a conflict.
func (s *Service) Remove(ctx context.Context, userID, mainEmail, sessionID string) error {
	err := s.txr.RunInTx(ctx, func(ctx context.Context) error {
		sess, err := s.resolveSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if _, err := s.confs.Get(ctx, sess.ConferenceID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Newf(dErrors.CodeNotFound, "no conference found with session key: %s", sessionID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load conference")
		}
		prof, err := s.profileForUpdate(ctx, userID, mainEmail)
		if err != nil {
			return err
		}

		if !prof.OnWishlist(sessionID) {
			return dErrors.New(dErrors.CodeConflict, "this session is not on your wishlist")
		}

		prof.RemoveWish(sessionID)
		prof.UpdatedAt = time.Now().UTC()
		if err := s.profiles.Put(ctx, prof); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "persist profile")
		}
		return nil
	})

	s.metrics.WishlistOps.WithLabelValues("remove", resultLabel(err)).Inc()
	return err
}

// List returns the wishlisted sessions. Entries whose session no longer
// resolves are dropped silently; a stale wishlist must not fail the read.
func (s *Service) List(ctx context.Context, userID, mainEmail string) ([]*session.Session, error) {
	prof, err := s.profileForUpdate(ctx, userID, mainEmail)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.GetMulti(ctx, prof.WishlistIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load sessions")
	}
	return sessions, nil
}

func (s *Service) resolveSession(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no session found with key: %s", sessionID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}
	return sess, nil
}

func (s *Service) profileForUpdate(ctx context.Context, userID, mainEmail string) (*profile.Profile, error) {
	if userID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	prof, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		now := time.Now().UTC()
		return &profile.Profile{
			UserID:       userID,
			DisplayName:  email.DeriveDisplayName(mainEmail),
			MainEmail:    mainEmail,
			TeeShirtSize: profile.SizeNotSpecified,
			CreatedAt:    now,
			UpdatedAt:    now,
		}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load profile")
	}
	return prof, nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(dErrors.CodeOf(err))
}
