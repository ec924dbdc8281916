package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"confhub/internal/conference"
	confservice "confhub/internal/conference/service"
	"confhub/internal/platform/middleware"
	"confhub/internal/transport/http/shared"
	dErrors "confhub/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// Service defines the conference operations the handler needs.
type Service interface {
	Create(ctx context.Context, userID, mainEmail string, in confservice.CreateInput) (*conference.Conference, error)
	Update(ctx context.Context, userID, conferenceID string, in confservice.UpdateInput) (*conference.Conference, error)
	Get(ctx context.Context, conferenceID string) (*confservice.WithOrganizer, error)
	ListCreated(ctx context.Context, userID string) ([]*conference.Conference, error)
	ListByCity(ctx context.Context, city string) ([]*conference.Conference, error)
	ListByTopic(ctx context.Context, topic string) ([]*conference.Conference, error)
}

type Handler struct {
	logger *slog.Logger
	confs  Service
}

func New(confs Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, confs: confs}
}

// Register registers the authenticated conference routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/conferences", h.handleCreate)
	r.Get("/conferences", h.handleQuery)
	r.Get("/conferences/created", h.handleListCreated)
	r.Get("/conferences/{conferenceID}", h.handleGet)
	r.Put("/conferences/{conferenceID}", h.handleUpdate)
}

type conferenceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	City         string   `json:"city"`
	Topics       []string `json:"topics"`
	MaxAttendees *int     `json:"maxAttendees"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
}

type conferenceResponse struct {
	*conference.Conference
	OrganizerDisplayName string `json:"organizerDisplayName,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req conferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	in := confservice.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Topics:      req.Topics,
	}
	if req.MaxAttendees != nil {
		in.MaxAttendees = *req.MaxAttendees
	}

	var err error
	if in.StartDate, err = parseDate(req.StartDate); err != nil {
		shared.WriteError(w, err)
		return
	}
	if in.EndDate, err = parseDate(req.EndDate); err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.confs.Create(ctx, middleware.GetUserID(ctx), middleware.GetEmail(ctx), in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, conferenceResponse{Conference: c})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conferenceID := chi.URLParam(r, "conferenceID")

	var req conferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	in := confservice.UpdateInput{
		Topics:       req.Topics,
		MaxAttendees: req.MaxAttendees,
	}
	if req.Name != "" {
		in.Name = &req.Name
	}
	if req.Description != "" {
		in.Description = &req.Description
	}
	if req.City != "" {
		in.City = &req.City
	}
	if req.StartDate != "" {
		d, err := parseDate(req.StartDate)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		in.StartDate = &d
	}
	if req.EndDate != "" {
		d, err := parseDate(req.EndDate)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		in.EndDate = &d
	}

	c, err := h.confs.Update(ctx, middleware.GetUserID(ctx), conferenceID, in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, conferenceResponse{Conference: c})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.confs.Get(ctx, chi.URLParam(r, "conferenceID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, conferenceResponse{
		Conference:           res.Conference,
		OrganizerDisplayName: res.Organizer,
	})
}

func (h *Handler) handleListCreated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	confs, err := h.confs.ListCreated(ctx, middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": confs})
}

// handleQuery dispatches on the query parameter: ?city= or ?topic=.
func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		confs []*conference.Conference
		err   error
	)
	switch {
	case r.URL.Query().Get("city") != "":
		confs, err = h.confs.ListByCity(ctx, r.URL.Query().Get("city"))
	case r.URL.Query().Get("topic") != "":
		confs, err = h.confs.ListByTopic(ctx, r.URL.Query().Get("topic"))
	default:
		err = dErrors.New(dErrors.CodeBadRequest, "query requires 'city' or 'topic'")
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": confs})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeBadRequest, "invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}
