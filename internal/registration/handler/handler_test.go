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

	"confhub/internal/conference"
	"confhub/internal/platform/metrics"
	"confhub/internal/platform/middleware"
	"confhub/internal/profile"
	registrationservice "confhub/internal/registration/service"
	"confhub/internal/store"
)

func newTestRouter(t *testing.T) (chi.Router, conference.Store) {
	t.Helper()
	profiles := profile.NewInMemoryStore()
	confs := conference.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := registrationservice.NewService(profiles, confs, store.NewMemoryTxRunner(), metrics.NewForTest(), logger)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r, confs
}

func seedConference(t *testing.T, confs conference.Store, id string, seats int) {
	t.Helper()
	require.NoError(t, confs.Put(context.Background(), &conference.Conference{
		ID:             id,
		OrganizerID:    "organizer-1",
		Name:           "GopherCon",
		MaxAttendees:   10,
		SeatsAvailable: seats,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}))
}

func doRequest(t *testing.T, r chi.Router, method, path, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyEmail, userID+"@example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestHandleRegister(t *testing.T) {
	t.Run("returns 200 and books the seat", func(t *testing.T) {
		r, confs := newTestRouter(t)
		seedConference(t, confs, "conf-1", 10)

		rec := doRequest(t, r, http.MethodPost, "/conferences/conf-1/registration", "user-1")

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body["registered"])

		conf, err := confs.Get(context.Background(), "conf-1")
		require.NoError(t, err)
		assert.Equal(t, 9, conf.SeatsAvailable)
	})

	t.Run("returns 409 for a duplicate registration", func(t *testing.T) {
		r, confs := newTestRouter(t)
		seedConference(t, confs, "conf-1", 10)

		doRequest(t, r, http.MethodPost, "/conferences/conf-1/registration", "user-1")
		rec := doRequest(t, r, http.MethodPost, "/conferences/conf-1/registration", "user-1")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("returns 409 when sold out", func(t *testing.T) {
		r, confs := newTestRouter(t)
		seedConference(t, confs, "conf-1", 0)

		rec := doRequest(t, r, http.MethodPost, "/conferences/conf-1/registration", "user-1")

		assert.Equal(t, http.StatusConflict, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "there are no seats available", body["message"])
	})

	t.Run("returns 404 for an unknown conference", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(t, r, http.MethodPost, "/conferences/nope/registration", "user-1")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleUnregister(t *testing.T) {
	t.Run("reports whether a registration was removed", func(t *testing.T) {
		r, confs := newTestRouter(t)
		seedConference(t, confs, "conf-1", 10)
		doRequest(t, r, http.MethodPost, "/conferences/conf-1/registration", "user-1")

		rec := doRequest(t, r, http.MethodDelete, "/conferences/conf-1/registration", "user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body["removed"])

		rec = doRequest(t, r, http.MethodDelete, "/conferences/conf-1/registration", "user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body["removed"], "second removal is a soft no-op")
	})
}

func TestHandleListAttending(t *testing.T) {
	r, confs := newTestRouter(t)
	seedConference(t, confs, "conf-1", 10)
	seedConference(t, confs, "conf-2", 10)
	doRequest(t, r, http.MethodPost, "/conferences/conf-1/registration", "user-1")
	doRequest(t, r, http.MethodPost, "/conferences/conf-2/registration", "user-1")

	rec := doRequest(t, r, http.MethodGet, "/conferences/attending", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []conference.Conference `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)
}
