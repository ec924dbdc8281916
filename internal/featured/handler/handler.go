package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confhub/internal/transport/http/shared"
)

// Service defines the featured-speaker operations the handler needs.
type Service interface {
	Get(ctx context.Context, conferenceID string) (string, error)
	Recompute(ctx context.Context, conferenceID string) (string, error)
}

type Handler struct {
	logger   *slog.Logger
	featured Service
}

func New(featured Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, featured: featured}
}

// Register registers the public featured-speaker read.
func (h *Handler) Register(r chi.Router) {
	r.Get("/conferences/{conferenceID}/featured-speaker", h.handleGet)
}

// RegisterInternal registers the operational recompute trigger.
func (h *Handler) RegisterInternal(r chi.Router) {
	r.Post("/conferences/{conferenceID}/featured-speaker/recompute", h.handleRecompute)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	speaker, err := h.featured.Get(r.Context(), chi.URLParam(r, "conferenceID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"featuredSpeaker": speaker})
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	speaker, err := h.featured.Recompute(r.Context(), chi.URLParam(r, "conferenceID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"featuredSpeaker": speaker})
}
