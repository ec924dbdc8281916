package service

import (
	"context"
	"errors"
	"time"

	"confhub/internal/profile"
	dErrors "confhub/pkg/domain-errors"
	"confhub/pkg/email"
	"confhub/pkg/platform/sentinel"
)

// Service owns profile lifecycle. Profiles are created lazily on first access
// by an authenticated user and are never deleted.
type Service struct {
	store profile.Store
}

func NewService(store profile.Store) *Service {
	return &Service{store: store}
}

// GetOrCreate returns the caller's profile, creating it on first access with
// a display name derived from the email address.
func (s *Service) GetOrCreate(ctx context.Context, userID, mainEmail string) (*profile.Profile, error) {
	if userID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}

	p, err := s.store.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load profile")
	}

	now := time.Now().UTC()
	p = &profile.Profile{
		UserID:       userID,
		DisplayName:  email.DeriveDisplayName(mainEmail),
		MainEmail:    mainEmail,
		TeeShirtSize: profile.SizeNotSpecified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Put(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create profile")
	}
	return p, nil
}

// SaveInput carries the user-modifiable profile fields. Empty fields are left
// unchanged.
type SaveInput struct {
	DisplayName  string
	TeeShirtSize string
}

// Save updates the mutable profile fields and returns the stored profile.
func (s *Service) Save(ctx context.Context, userID, mainEmail string, in SaveInput) (*profile.Profile, error) {
	p, err := s.GetOrCreate(ctx, userID, mainEmail)
	if err != nil {
		return nil, err
	}

	changed := false
	if in.DisplayName != "" {
		p.DisplayName = in.DisplayName
		changed = true
	}
	if in.TeeShirtSize != "" {
		size, err := profile.ParseTeeShirtSize(in.TeeShirtSize)
		if err != nil {
			return nil, err
		}
		p.TeeShirtSize = size
		changed = true
	}
	if !changed {
		return p, nil
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save profile")
	}
	return p, nil
}
