// Package service implements the registration engine: seat accounting under
// concurrent registration and unregistration. Every mutation runs inside a
// transaction spanning the caller's profile and the conference, so two
// registrants cannot both observe the last seat and both take it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"confhub/internal/conference"
	"confhub/internal/platform/metrics"
	"confhub/internal/profile"
	"confhub/internal/store"
	dErrors "confhub/pkg/domain-errors"
	"confhub/pkg/email"
	"confhub/pkg/platform/sentinel"
)

type Service struct {
	profiles profile.Store
	confs    conference.Store
	txr      store.TxRunner
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(
	profiles profile.Store,
	confs conference.Store,
	txr store.TxRunner,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{profiles: profiles, confs: confs, txr: txr, metrics: m, logger: logger}
}

// Register books one seat for the caller. Inside the transaction: the
// conference must exist, the caller must not already be registered, and a
// seat must be available. On success the conference reference is appended to
// the profile and seatsAvailable is decremented, atomically.
func (s *Service) Register(ctx context.Context, userID, mainEmail, conferenceID string) error {
	err := s.txr.RunInTx(ctx, func(ctx context.Context) error {
		prof, err := s.profileForUpdate(ctx, userID, mainEmail)
		if err != nil {
			return err
		}
		conf, err := s.conferenceForUpdate(ctx, conferenceID)
		if err != nil {
			return err
		}

		if prof.Attending(conferenceID) {
			return dErrors.New(dErrors.CodeConflict, "you have already registered for this conference")
		}
		if conf.SoldOut() {
			return dErrors.New(dErrors.CodeConflict, "there are no seats available")
		}

		prof.AddConference(conferenceID)
		conf.SeatsAvailable--
		now := time.Now().UTC()
		prof.UpdatedAt = now
		conf.UpdatedAt = now

		if err := s.profiles.Put(ctx, prof); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "persist profile")
		}
		if err := s.confs.Put(ctx, conf); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "persist conference")
		}
		return nil
	})

	s.metrics.Registrations.WithLabelValues("register", resultLabel(err)).Inc()
	return err
}

// Unregister releases the caller's seat. A caller who is not registered gets
// a soft no-op (false, nil) rather than an error: there is nothing to undo.
// The seat increment is clamped at maxAttendees so an organizer shrinking
// the conference after registrations cannot push seats above the new cap.
func (s *Service) Unregister(ctx context.Context, userID, mainEmail, conferenceID string) (bool, error) {
	removed := false
	err := s.txr.RunInTx(ctx, func(ctx context.Context) error {
		removed = false
		prof, err := s.profileForUpdate(ctx, userID, mainEmail)
		if err != nil {
			return err
		}
		conf, err := s.conferenceForUpdate(ctx, conferenceID)
		if err != nil {
			return err
		}

		if !prof.Attending(conferenceID) {
			return nil
		}

		prof.RemoveConference(conferenceID)
		if conf.SeatsAvailable < conf.MaxAttendees {
			conf.SeatsAvailable++
		}
		now := time.Now().UTC()
		prof.UpdatedAt = now
		conf.UpdatedAt = now

		if err := s.profiles.Put(ctx, prof); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "persist profile")
		}
		if err := s.confs.Put(ctx, conf); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "persist conference")
		}
		removed = true
		return nil
	})

	s.metrics.Registrations.WithLabelValues("unregister", resultLabel(err)).Inc()
	return removed, err
}

// ListAttending returns the conferences the caller is registered for.
// References whose conference no longer resolves are dropped silently; a
// stale profile list must not fail the whole read.
func (s *Service) ListAttending(ctx context.Context, userID, mainEmail string) ([]*conference.Conference, error) {
	prof, err := s.profileForUpdate(ctx, userID, mainEmail)
	if err != nil {
		return nil, err
	}
	confs, err := s.confs.GetMulti(ctx, prof.ConferenceIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load conferences")
	}
	return confs, nil
}

func (s *Service) profileForUpdate(ctx context.Context, userID, mainEmail string) (*profile.Profile, error) {
	if userID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	prof, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		now := time.Now().UTC()
		prof = &profile.Profile{
			UserID:       userID,
			DisplayName:  email.DeriveDisplayName(mainEmail),
			MainEmail:    mainEmail,
			TeeShirtSize: profile.SizeNotSpecified,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return prof, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load profile")
	}
	return prof, nil
}

func (s *Service) conferenceForUpdate(ctx context.Context, conferenceID string) (*conference.Conference, error) {
	conf, err := s.confs.Get(ctx, conferenceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no conference found with key: %s", conferenceID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load conference")
	}
	return conf, nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(dErrors.CodeOf(err))
}
