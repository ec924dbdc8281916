package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confhub/internal/conference"
	"confhub/internal/queue"
	"confhub/internal/session"
	dErrors "confhub/pkg/domain-errors"
)

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, job queue.Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	return nil
}

func (e *recordingEnqueuer) all() []queue.Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]queue.Job(nil), e.jobs...)
}

func newTestService(t *testing.T) (*Service, conference.Store, *recordingEnqueuer) {
	t.Helper()
	sessions := session.NewInMemoryStore()
	confs := conference.NewInMemoryStore()
	enq := &recordingEnqueuer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(sessions, confs, enq, logger), confs, enq
}

func seedConference(t *testing.T, confs conference.Store, id, organizerID string) {
	t.Helper()
	require.NoError(t, confs.Put(context.Background(), &conference.Conference{
		ID:          id,
		OrganizerID: organizerID,
		Name:        "GopherCon",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}))
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("adds the session to the program", func(t *testing.T) {
		svc, confs, _ := newTestService(t)
		seedConference(t, confs, "conf-1", "organizer-1")

		sess, err := svc.Create(ctx, "organizer-1", "conf-1", CreateInput{
			Name:            "Advanced Generics",
			Speaker:         "Ada",
			StartTime:       "09:30",
			DurationMinutes: 45,
			Type:            "WORKSHOP",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, "conf-1", sess.ConferenceID)
		assert.Equal(t, session.TypeWorkshop, sess.Type)

		program, err := svc.ListByConference(ctx, "conf-1")
		require.NoError(t, err)
		require.Len(t, program, 1)
	})

	t.Run("defaults the type to lecture", func(t *testing.T) {
		svc, confs, _ := newTestService(t)
		seedConference(t, confs, "conf-1", "organizer-1")

		sess, err := svc.Create(ctx, "organizer-1", "conf-1", CreateInput{Name: "Untitled Talk"})
		require.NoError(t, err)
		assert.Equal(t, session.TypeLecture, sess.Type)
	})

	t.Run("only the organizer may add sessions", func(t *testing.T) {
		svc, confs, _ := newTestService(t)
		seedConference(t, confs, "conf-1", "organizer-1")

		_, err := svc.Create(ctx, "someone-else", "conf-1", CreateInput{Name: "Intrusion"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("fails for an unknown conference", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Create(ctx, "organizer-1", "no-such-conf", CreateInput{Name: "Nowhere"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("validates input", func(t *testing.T) {
		svc, confs, _ := newTestService(t)
		seedConference(t, confs, "conf-1", "organizer-1")

		cases := map[string]CreateInput{
			"missing name":      {},
			"malformed time":    {Name: "Talk", StartTime: "9am"},
			"out of range time": {Name: "Talk", StartTime: "24:00"},
			"negative duration": {Name: "Talk", DurationMinutes: -5},
			"unknown type":      {Name: "Talk", Type: "RAVE"},
		}
		for name, in := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.Create(ctx, "organizer-1", "conf-1", in)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
			})
		}
	})

	t.Run("enqueues a featured speaker recomputation", func(t *testing.T) {
		svc, confs, enq := newTestService(t)
		seedConference(t, confs, "conf-1", "organizer-1")

		_, err := svc.Create(ctx, "organizer-1", "conf-1", CreateInput{Name: "Talk", Speaker: "Ada"})
		require.NoError(t, err)

		jobs := enq.all()
		require.Len(t, jobs, 1)
		assert.Equal(t, queue.JobFeaturedSpeaker, jobs[0].Name)
		assert.Equal(t, "conf-1", jobs[0].Params["conference_id"])
	})
}

func TestProgramQueries(t *testing.T) {
	ctx := context.Background()
	svc, confs, _ := newTestService(t)
	seedConference(t, confs, "conf-1", "organizer-1")
	seedConference(t, confs, "conf-2", "organizer-1")

	mk := func(conferenceID, name, speaker, typ string) {
		_, err := svc.Create(ctx, "organizer-1", conferenceID, CreateInput{
			Name:    name,
			Speaker: speaker,
			Type:    typ,
		})
		require.NoError(t, err)
	}
	mk("conf-1", "Generics Deep Dive", "Ada", "WORKSHOP")
	mk("conf-1", "Opening Keynote", "Ada", "KEYNOTE")
	mk("conf-1", "Channels in Anger", "Grace", "LECTURE")
	mk("conf-2", "Elsewhere", "Ada", "LECTURE")

	t.Run("by conference", func(t *testing.T) {
		out, err := svc.ListByConference(ctx, "conf-1")
		require.NoError(t, err)
		assert.Len(t, out, 3, "other conferences' sessions are excluded")
	})

	t.Run("by type", func(t *testing.T) {
		out, err := svc.ListByType(ctx, "conf-1", "KEYNOTE")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Opening Keynote", out[0].Name)

		_, err = svc.ListByType(ctx, "conf-1", "RAVE")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("by speaker", func(t *testing.T) {
		out, err := svc.ListBySpeaker(ctx, "conf-1", "Ada")
		require.NoError(t, err)
		assert.Len(t, out, 2)

		_, err = svc.ListBySpeaker(ctx, "conf-1", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("unknown conference", func(t *testing.T) {
		_, err := svc.ListByConference(ctx, "no-such-conf")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
