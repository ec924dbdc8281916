package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	announcementservice "confhub/internal/announcement/service"
	"confhub/internal/cache"
	"confhub/internal/conference"
	"confhub/internal/platform/metrics"
)

func newTestRouter(t *testing.T) (chi.Router, conference.Store) {
	t.Helper()
	confs := conference.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := announcementservice.NewService(confs, cache.NewMemory(), metrics.NewForTest(), logger)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	r.Route("/internal", h.RegisterInternal)
	return r, confs
}

func TestAnnouncementEndpoints(t *testing.T) {
	r, confs := newTestRouter(t)

	t.Run("read before any recompute returns an empty announcement", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/announcement", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Empty(t, body["announcement"])
	})

	t.Run("recompute publishes the nearly-sold-out message", func(t *testing.T) {
		require.NoError(t, confs.Put(context.Background(), &conference.Conference{
			ID:             "conf-1",
			OrganizerID:    "organizer-1",
			Name:           "GopherCon",
			MaxAttendees:   100,
			SeatsAvailable: 2,
			CreatedAt:      time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/announcement/recompute", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/announcement", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t,
			"Last chance to attend! The following conferences are nearly sold out: GopherCon",
			body["announcement"])
	})
}
