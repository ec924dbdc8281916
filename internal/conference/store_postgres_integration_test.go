//go:build integration

package conference_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"confhub/internal/conference"
	"confhub/pkg/platform/sentinel"
	"confhub/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *conference.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), "../../migrations")
	s.store = conference.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "sessions", "conferences", "profiles"))
}

func newTestConference(name, city string, seats int) *conference.Conference {
	now := time.Now().UTC().Truncate(time.Second)
	return &conference.Conference{
		ID:             uuid.NewString(),
		OrganizerID:    "organizer-1",
		Name:           name,
		City:           city,
		Topics:         []string{"Go"},
		MaxAttendees:   100,
		SeatsAvailable: seats,
		Month:          6,
		StartDate:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *PostgresStoreSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	c := newTestConference("GopherCon", "Berlin", 50)

	s.Require().NoError(s.store.Put(ctx, c))

	got, err := s.store.Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Name, got.Name)
	s.Equal(c.Topics, got.Topics)
	s.Equal(c.SeatsAvailable, got.SeatsAvailable)
	s.Equal(c.StartDate, got.StartDate)
}

func (s *PostgresStoreSuite) TestPutUpdatesExisting() {
	ctx := context.Background()
	c := newTestConference("GopherCon", "Berlin", 50)
	s.Require().NoError(s.store.Put(ctx, c))

	c.Name = "GopherCon EU"
	c.SeatsAvailable = 49
	s.Require().NoError(s.store.Put(ctx, c))

	got, err := s.store.Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("GopherCon EU", got.Name)
	s.Equal(49, got.SeatsAvailable)
}

func (s *PostgresStoreSuite) TestGetUnknownIsNotFound() {
	_, err := s.store.Get(context.Background(), uuid.NewString())
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestGetMultiPreservesRequestOrder() {
	ctx := context.Background()
	a := newTestConference("Alpha", "Berlin", 10)
	b := newTestConference("Beta", "Tokyo", 10)
	s.Require().NoError(s.store.Put(ctx, a))
	s.Require().NoError(s.store.Put(ctx, b))

	got, err := s.store.GetMulti(ctx, []string{b.ID, "missing", a.ID})
	s.Require().NoError(err)
	s.Require().Len(got, 2, "unresolvable ids are dropped")
	s.Equal(b.ID, got[0].ID)
	s.Equal(a.ID, got[1].ID)
}

func (s *PostgresStoreSuite) TestQueries() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, newTestConference("Alpha", "Berlin", 3)))
	s.Require().NoError(s.store.Put(ctx, newTestConference("Beta", "Berlin", 0)))
	s.Require().NoError(s.store.Put(ctx, newTestConference("Gamma", "Tokyo", 8)))

	byCity, err := s.store.ListByCity(ctx, "Berlin")
	s.Require().NoError(err)
	s.Require().Len(byCity, 2)
	s.Equal("Alpha", byCity[0].Name)

	byTopic, err := s.store.ListByTopic(ctx, "Go")
	s.Require().NoError(err)
	s.Len(byTopic, 3)

	byOrganizer, err := s.store.ListByOrganizer(ctx, "organizer-1")
	s.Require().NoError(err)
	s.Len(byOrganizer, 3)

	nearlySoldOut, err := s.store.ListNearlySoldOut(ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(nearlySoldOut, 1, "sold out and roomy conferences are excluded")
	s.Equal("Alpha", nearlySoldOut[0].Name)
}
