package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confhub/internal/transport/http/shared"
)

// Service defines the announcement operations the handler needs.
type Service interface {
	Get(ctx context.Context) (string, error)
	Recompute(ctx context.Context) (string, error)
}

type Handler struct {
	logger        *slog.Logger
	announcements Service
}

func New(announcements Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, announcements: announcements}
}

// Register registers the public announcement read.
func (h *Handler) Register(r chi.Router) {
	r.Get("/announcement", h.handleGet)
}

// RegisterInternal registers the operational recompute trigger.
func (h *Handler) RegisterInternal(r chi.Router) {
	r.Post("/announcement/recompute", h.handleRecompute)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	msg, err := h.announcements.Get(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"announcement": msg})
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	msg, err := h.announcements.Recompute(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"announcement": msg})
}
