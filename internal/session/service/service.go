package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"confhub/internal/conference"
	"confhub/internal/queue"
	"confhub/internal/session"
	dErrors "confhub/pkg/domain-errors"
	"confhub/pkg/platform/sentinel"
)

var startTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Service owns session creation and the conference-scoped session queries.
// Sessions are immutable once created.
type Service struct {
	sessions session.Store
	confs    conference.Store
	enqueuer queue.Enqueuer
	logger   *slog.Logger
}

func NewService(sessions session.Store, confs conference.Store, enqueuer queue.Enqueuer, logger *slog.Logger) *Service {
	return &Service{sessions: sessions, confs: confs, enqueuer: enqueuer, logger: logger}
}

// CreateInput carries organizer-supplied session fields.
type CreateInput struct {
	Name            string
	Highlights      []string
	Speaker         string
	Date            time.Time
	StartTime       string
	DurationMinutes int
	Type            string
}

// Create adds a session to the conference program. Only the organizer may
// create sessions. On success a featured-speaker recomputation job for the
// conference is enqueued; the queue delivers it at least once and the
// recomputation is idempotent.
func (s *Service) Create(ctx context.Context, userID, conferenceID string, in CreateInput) (*session.Session, error) {
	conf, err := s.confs.Get(ctx, conferenceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no conference found with key: %s", conferenceID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load conference")
	}
	if conf.OrganizerID != userID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the owner can add sessions to the conference")
	}

	if in.Name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session 'name' field required")
	}
	if in.StartTime != "" && !startTimeRe.MatchString(in.StartTime) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "startTime must be HH:MM")
	}
	if in.DurationMinutes < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "duration must not be negative")
	}

	sessionType := session.TypeLecture
	if in.Type != "" {
		sessionType, err = session.ParseType(in.Type)
		if err != nil {
			return nil, err
		}
	}

	sess := &session.Session{
		ID:              uuid.NewString(),
		ConferenceID:    conferenceID,
		Name:            in.Name,
		Highlights:      in.Highlights,
		Speaker:         in.Speaker,
		Date:            in.Date,
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
		Type:            sessionType,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create session")
	}

	job := queue.Job{
		Name:   queue.JobFeaturedSpeaker,
		Params: map[string]string{"conference_id": conferenceID},
	}
	if err := s.enqueuer.Enqueue(ctx, job); err != nil {
		// The next session creation re-enqueues; a stale featured speaker is
		// acceptable until then.
		s.logger.WarnContext(ctx, "enqueue featured speaker job failed",
			"conference_id", conferenceID, "error", err.Error())
	}

	return sess, nil
}

// ListByConference returns every session on a conference's program.
func (s *Service) ListByConference(ctx context.Context, conferenceID string) ([]*session.Session, error) {
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	out, err := s.sessions.ListByConference(ctx, conferenceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list sessions")
	}
	return out, nil
}

// ListByType returns a conference's sessions of one type.
func (s *Service) ListByType(ctx context.Context, conferenceID, typeOfSession string) ([]*session.Session, error) {
	t, err := session.ParseType(typeOfSession)
	if err != nil {
		return nil, err
	}
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	out, err := s.sessions.ListByType(ctx, conferenceID, t)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list sessions")
	}
	return out, nil
}

// ListBySpeaker returns a conference's sessions given by one speaker.
func (s *Service) ListBySpeaker(ctx context.Context, conferenceID, speaker string) ([]*session.Session, error) {
	if speaker == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session 'speaker' field required")
	}
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	out, err := s.sessions.ListBySpeaker(ctx, conferenceID, speaker)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list sessions")
	}
	return out, nil
}

func (s *Service) requireConference(ctx context.Context, conferenceID string) error {
	_, err := s.confs.Get(ctx, conferenceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "no conference found with key: %s", conferenceID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "load conference")
	}
	return nil
}
