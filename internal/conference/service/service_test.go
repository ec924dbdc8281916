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
	"confhub/internal/profile"
	profileservice "confhub/internal/profile/service"
	"confhub/internal/queue"
	"confhub/internal/store"
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
	confs := conference.NewInMemoryStore()
	profiles := profile.NewInMemoryStore()
	enq := &recordingEnqueuer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(confs, profiles, profileservice.NewService(profiles), store.NewMemoryTxRunner(), enq, logger)
	return svc, confs, enq
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the conference under the caller's ownership", func(t *testing.T) {
		svc, confs, _ := newTestService(t)

		c, err := svc.Create(ctx, "user-1", "user-1@example.com", CreateInput{
			Name:         "GopherCon",
			City:         "Berlin",
			Topics:       []string{"Go"},
			MaxAttendees: 100,
			StartDate:    time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "user-1", c.OrganizerID)
		assert.Equal(t, 100, c.SeatsAvailable, "all seats start available")
		assert.Equal(t, int(time.June), c.Month)

		stored, err := confs.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", stored.Name)
	})

	t.Run("applies creation defaults", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		c, err := svc.Create(ctx, "user-1", "user-1@example.com", CreateInput{Name: "Minimal"})
		require.NoError(t, err)
		assert.Equal(t, conference.DefaultCity, c.City)
		assert.Equal(t, conference.DefaultTopics(), c.Topics)
		assert.Equal(t, conference.DefaultMaxAttendees, c.MaxAttendees)
		assert.Equal(t, conference.DefaultMaxAttendees, c.SeatsAvailable)
		assert.Zero(t, c.Month, "no start date means no month")
	})

	t.Run("requires a name", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Create(ctx, "user-1", "user-1@example.com", CreateInput{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects negative maxAttendees", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Create(ctx, "user-1", "user-1@example.com", CreateInput{
			Name:         "Broken",
			MaxAttendees: -1,
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("enqueues a confirmation email job", func(t *testing.T) {
		svc, _, enq := newTestService(t)

		_, err := svc.Create(ctx, "user-1", "user-1@example.com", CreateInput{Name: "GopherCon"})
		require.NoError(t, err)

		jobs := enq.all()
		require.Len(t, jobs, 1)
		assert.Equal(t, queue.JobConfirmationEmail, jobs[0].Name)
		assert.Equal(t, "user-1@example.com", jobs[0].Params["email"])
		assert.Equal(t, "GopherCon", jobs[0].Params["conference_name"])
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc *Service) *conference.Conference {
		t.Helper()
		c, err := svc.Create(ctx, "user-1", "user-1@example.com", CreateInput{
			Name:      "GopherCon",
			StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		return c
	}

	t.Run("applies a partial update", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		c := create(t, svc)

		newName := "GopherCon EU"
		updated, err := svc.Update(ctx, "user-1", c.ID, UpdateInput{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "GopherCon EU", updated.Name)
		assert.Equal(t, c.City, updated.City, "unset fields stay unchanged")
	})

	t.Run("re-derives the month when the start date changes", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		c := create(t, svc)

		newStart := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
		updated, err := svc.Update(ctx, "user-1", c.ID, UpdateInput{StartDate: &newStart})
		require.NoError(t, err)
		assert.Equal(t, int(time.September), updated.Month)
	})

	t.Run("only the organizer may update", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		c := create(t, svc)

		name := "Hijacked"
		_, err := svc.Update(ctx, "someone-else", c.ID, UpdateInput{Name: &name})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("fails for an unknown conference", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		name := "Nowhere"
		_, err := svc.Update(ctx, "user-1", "no-such-conf", UpdateInput{Name: &name})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	c, err := svc.Create(ctx, "user-1", "ada@example.com", CreateInput{Name: "GopherCon"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.Conference.ID)
	assert.Equal(t, "Ada", got.Organizer, "organizer display name derives from the email")

	_, err = svc.Get(ctx, "no-such-conf")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	mk := func(name, city string, topics []string, organizer string) {
		_, err := svc.Create(ctx, organizer, organizer+"@example.com", CreateInput{
			Name:   name,
			City:   city,
			Topics: topics,
		})
		require.NoError(t, err)
	}
	mk("Alpha", "Berlin", []string{"Go", "Cloud"}, "user-1")
	mk("Beta", "Berlin", []string{"Rust"}, "user-2")
	mk("Gamma", "Tokyo", []string{"Go"}, "user-1")

	t.Run("by organizer", func(t *testing.T) {
		out, err := svc.ListCreated(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "Alpha", out[0].Name)
		assert.Equal(t, "Gamma", out[1].Name)
	})

	t.Run("by city", func(t *testing.T) {
		out, err := svc.ListByCity(ctx, "Berlin")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "Alpha", out[0].Name)
		assert.Equal(t, "Beta", out[1].Name)

		_, err = svc.ListByCity(ctx, "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("by topic", func(t *testing.T) {
		out, err := svc.ListByTopic(ctx, "Go")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "Alpha", out[0].Name)
		assert.Equal(t, "Gamma", out[1].Name)

		_, err = svc.ListByTopic(ctx, "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
