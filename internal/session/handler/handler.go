package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"confhub/internal/platform/middleware"
	"confhub/internal/session"
	sessionservice "confhub/internal/session/service"
	"confhub/internal/transport/http/shared"
	dErrors "confhub/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// Service defines the session operations the handler needs.
type Service interface {
	Create(ctx context.Context, userID, conferenceID string, in sessionservice.CreateInput) (*session.Session, error)
	ListByConference(ctx context.Context, conferenceID string) ([]*session.Session, error)
	ListByType(ctx context.Context, conferenceID, typeOfSession string) ([]*session.Session, error)
	ListBySpeaker(ctx context.Context, conferenceID, speaker string) ([]*session.Session, error)
}

type Handler struct {
	logger   *slog.Logger
	sessions Service
}

func New(sessions Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, sessions: sessions}
}

// Register registers the session routes under the conference subtree.
func (h *Handler) Register(r chi.Router) {
	r.Post("/conferences/{conferenceID}/sessions", h.handleCreate)
	r.Get("/conferences/{conferenceID}/sessions", h.handleList)
}

type createSessionRequest struct {
	Name            string   `json:"name"`
	Highlights      []string `json:"highlights"`
	Speaker         string   `json:"speaker"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Type            string   `json:"typeOfSession"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conferenceID := chi.URLParam(r, "conferenceID")

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	in := sessionservice.CreateInput{
		Name:            req.Name,
		Highlights:      req.Highlights,
		Speaker:         req.Speaker,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
	}
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			shared.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "invalid date %q, expected YYYY-MM-DD", req.Date))
			return
		}
		in.Date = d
	}

	sess, err := h.sessions.Create(ctx, middleware.GetUserID(ctx), conferenceID, in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, sess)
}

// handleList returns the conference program, optionally narrowed by
// ?typeOfSession= or ?speaker=.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conferenceID := chi.URLParam(r, "conferenceID")

	var (
		sessions []*session.Session
		err      error
	)
	switch {
	case r.URL.Query().Get("typeOfSession") != "":
		sessions, err = h.sessions.ListByType(ctx, conferenceID, r.URL.Query().Get("typeOfSession"))
	case r.URL.Query().Get("speaker") != "":
		sessions, err = h.sessions.ListBySpeaker(ctx, conferenceID, r.URL.Query().Get("speaker"))
	default:
		sessions, err = h.sessions.ListByConference(ctx, conferenceID)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": sessions})
}
