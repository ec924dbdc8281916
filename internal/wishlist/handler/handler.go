package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confhub/internal/platform/middleware"
	"confhub/internal/session"
	"confhub/internal/transport/http/shared"
)

// Service defines the wishlist operations the handler needs.
type Service interface {
	Add(ctx context.Context, userID, mainEmail, sessionID string) error
	Remove(ctx context.Context, userID, mainEmail, sessionID string) error
	List(ctx context.Context, userID, mainEmail string) ([]*session.Session, error)
}

type Handler struct {
	logger   *slog.Logger
	wishlist Service
}

func New(wishlist Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, wishlist: wishlist}
}

// Register registers the wishlist routes; the router applies auth upstream.
func (h *Handler) Register(r chi.Router) {
	r.Post("/wishlist/{sessionID}", h.handleAdd)
	r.Delete("/wishlist/{sessionID}", h.handleRemove)
	r.Get("/wishlist", h.handleList)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.wishlist.Add(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), sessionID); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"added": true})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.wishlist.Remove(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), sessionID); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := h.wishlist.List(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": sessions})
}
