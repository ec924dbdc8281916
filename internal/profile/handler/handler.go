package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confhub/internal/platform/middleware"
	"confhub/internal/profile"
	profileservice "confhub/internal/profile/service"
	"confhub/internal/transport/http/shared"
	dErrors "confhub/pkg/domain-errors"
)

// Service defines the profile operations the handler needs.
type Service interface {
	GetOrCreate(ctx context.Context, userID, mainEmail string) (*profile.Profile, error)
	Save(ctx context.Context, userID, mainEmail string, in profileservice.SaveInput) (*profile.Profile, error)
}

type Handler struct {
	logger  *slog.Logger
	profile Service
}

func New(profileSvc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, profile: profileSvc}
}

// Register registers the profile routes; the router applies auth upstream.
func (h *Handler) Register(r chi.Router) {
	r.Get("/profile", h.handleGetProfile)
	r.Post("/profile", h.handleSaveProfile)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.profile.GetOrCreate(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "get profile failed", "error", err.Error())
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

type saveProfileRequest struct {
	DisplayName  string `json:"displayName"`
	TeeShirtSize string `json:"teeShirtSize"`
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.profile.Save(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), profileservice.SaveInput{
		DisplayName:  req.DisplayName,
		TeeShirtSize: req.TeeShirtSize,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}
