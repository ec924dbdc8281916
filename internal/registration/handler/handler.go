package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confhub/internal/conference"
	"confhub/internal/platform/middleware"
	"confhub/internal/transport/http/shared"
)

// Service defines the registration operations the handler needs.
type Service interface {
	Register(ctx context.Context, userID, mainEmail, conferenceID string) error
	Unregister(ctx context.Context, userID, mainEmail, conferenceID string) (bool, error)
	ListAttending(ctx context.Context, userID, mainEmail string) ([]*conference.Conference, error)
}

type Handler struct {
	logger        *slog.Logger
	registrations Service
}

func New(registrations Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, registrations: registrations}
}

// Register registers the registration routes; the router applies auth
// upstream.
func (h *Handler) Register(r chi.Router) {
	r.Post("/conferences/{conferenceID}/registration", h.handleRegister)
	r.Delete("/conferences/{conferenceID}/registration", h.handleUnregister)
	r.Get("/conferences/attending", h.handleListAttending)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conferenceID := chi.URLParam(r, "conferenceID")

	err := h.registrations.Register(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), conferenceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"registered": true})
}

func (h *Handler) handleUnregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conferenceID := chi.URLParam(r, "conferenceID")

	removed, err := h.registrations.Unregister(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), conferenceID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *Handler) handleListAttending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	confs, err := h.registrations.ListAttending(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": confs})
}
