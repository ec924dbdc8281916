package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"confhub/internal/conference"
	"confhub/internal/profile"
	"confhub/internal/queue"
	"confhub/internal/store"
	dErrors "confhub/pkg/domain-errors"
	"confhub/pkg/platform/sentinel"
)

// ProfileDirectory resolves caller profiles, creating them lazily. Satisfied
// by the profile service.
type ProfileDirectory interface {
	GetOrCreate(ctx context.Context, userID, mainEmail string) (*profile.Profile, error)
}

// Service owns conference lifecycle and the read queries. Seat accounting is
// deliberately not here: seatsAvailable is mutated only by the registration
// engine.
type Service struct {
	confs    conference.Store
	profiles profile.Store
	dir      ProfileDirectory
	txr      store.TxRunner
	enqueuer queue.Enqueuer
	logger   *slog.Logger
}

func NewService(
	confs conference.Store,
	profiles profile.Store,
	dir ProfileDirectory,
	txr store.TxRunner,
	enqueuer queue.Enqueuer,
	logger *slog.Logger,
) *Service {
	return &Service{
		confs:    confs,
		profiles: profiles,
		dir:      dir,
		txr:      txr,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// CreateInput carries organizer-supplied conference fields.
type CreateInput struct {
	Name         string
	Description  string
	City         string
	Topics       []string
	MaxAttendees int
	StartDate    time.Time
	EndDate      time.Time
}

// Create validates input, applies creation defaults, and persists the
// conference under the caller's ownership. A confirmation email job is
// enqueued fire-and-forget.
func (s *Service) Create(ctx context.Context, userID, mainEmail string, in CreateInput) (*conference.Conference, error) {
	if in.Name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "conference 'name' field required")
	}
	if in.MaxAttendees < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "maxAttendees must not be negative")
	}

	// The conference row references the organizer profile, so make sure the
	// profile exists before the first write.
	organizer, err := s.dir.GetOrCreate(ctx, userID, mainEmail)
	if err != nil {
		return nil, err
	}

	city := in.City
	if city == "" {
		city = conference.DefaultCity
	}
	topics := in.Topics
	if len(topics) == 0 {
		topics = conference.DefaultTopics()
	}
	maxAttendees := in.MaxAttendees
	if maxAttendees == 0 {
		maxAttendees = conference.DefaultMaxAttendees
	}

	now := time.Now().UTC()
	c := &conference.Conference{
		ID:             uuid.NewString(),
		OrganizerID:    organizer.UserID,
		Name:           in.Name,
		Description:    in.Description,
		City:           city,
		Topics:         topics,
		MaxAttendees:   maxAttendees,
		SeatsAvailable: maxAttendees,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !in.StartDate.IsZero() {
		c.Month = int(in.StartDate.Month())
	}

	if err := s.confs.Put(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create conference")
	}

	job := queue.Job{
		Name: queue.JobConfirmationEmail,
		Params: map[string]string{
			"email":           mainEmail,
			"conference_name": c.Name,
		},
	}
	if err := s.enqueuer.Enqueue(ctx, job); err != nil {
		// Confirmation mail is best-effort; losing it must not fail creation.
		s.logger.WarnContext(ctx, "enqueue confirmation email failed",
			"conference_id", c.ID, "error", err.Error())
	}

	return c, nil
}

// UpdateInput carries partial conference updates; nil fields stay unchanged.
type UpdateInput struct {
	Name         *string
	Description  *string
	City         *string
	Topics       []string
	MaxAttendees *int
	StartDate    *time.Time
	EndDate      *time.Time
}

// Update applies a partial update. Only the organizer may update; the month
// is re-derived when the start date changes. Runs transactionally so
// concurrent updates do not interleave reads and writes.
func (s *Service) Update(ctx context.Context, userID, conferenceID string, in UpdateInput) (*conference.Conference, error) {
	var updated *conference.Conference
	err := s.txr.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.confs.Get(ctx, conferenceID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "no conference found with key: %s", conferenceID)
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "load conference")
		}
		if c.OrganizerID != userID {
			return dErrors.New(dErrors.CodeForbidden, "only the owner can update the conference")
		}

		if in.Name != nil {
			if *in.Name == "" {
				return dErrors.New(dErrors.CodeBadRequest, "conference 'name' field required")
			}
			c.Name = *in.Name
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if in.City != nil {
			c.City = *in.City
		}
		if len(in.Topics) > 0 {
			c.Topics = in.Topics
		}
		if in.MaxAttendees != nil {
			if *in.MaxAttendees < 0 {
				return dErrors.New(dErrors.CodeBadRequest, "maxAttendees must not be negative")
			}
			c.MaxAttendees = *in.MaxAttendees
		}
		if in.StartDate != nil {
			c.StartDate = *in.StartDate
			c.Month = int(in.StartDate.Month())
		}
		if in.EndDate != nil {
			c.EndDate = *in.EndDate
		}

		c.UpdatedAt = time.Now().UTC()
		if err := s.confs.Put(ctx, c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "update conference")
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// WithOrganizer pairs a conference with its organizer's display name for
// read responses.
type WithOrganizer struct {
	Conference *conference.Conference
	Organizer  string
}

// Get returns the conference and the organizer display name.
func (s *Service) Get(ctx context.Context, conferenceID string) (*WithOrganizer, error) {
	c, err := s.confs.Get(ctx, conferenceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no conference found with key: %s", conferenceID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load conference")
	}
	return &WithOrganizer{Conference: c, Organizer: s.organizerName(ctx, c.OrganizerID)}, nil
}

// ListCreated returns the conferences the caller organizes, name-ordered.
func (s *Service) ListCreated(ctx context.Context, userID string) ([]*conference.Conference, error) {
	out, err := s.confs.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list conferences")
	}
	return out, nil
}

// ListByCity returns conferences held in the given city, name-ordered.
func (s *Service) ListByCity(ctx context.Context, city string) ([]*conference.Conference, error) {
	if city == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "conference 'city' field required")
	}
	out, err := s.confs.ListByCity(ctx, city)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list conferences")
	}
	return out, nil
}

// ListByTopic returns conferences covering the given topic, name-ordered.
func (s *Service) ListByTopic(ctx context.Context, topic string) ([]*conference.Conference, error) {
	if topic == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "conference 'topics' field required")
	}
	out, err := s.confs.ListByTopic(ctx, topic)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list conferences")
	}
	return out, nil
}

func (s *Service) organizerName(ctx context.Context, organizerID string) string {
	p, err := s.profiles.Get(ctx, organizerID)
	if err != nil {
		return ""
	}
	return p.DisplayName
}
