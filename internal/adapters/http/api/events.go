package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/okian/presale/internal/domain/bonus"
	"github.com/okian/presale/internal/domain/types"
)

// EventDependencies defines the service operations behind the bonus event
// routes.
type EventDependencies interface {
	Events(ctx context.Context) []bonus.Entry
	SetBonus(ctx context.Context, id int, percent float64) error
	AddBonus(ctx context.Context, name string, c types.Category, percent float64) (bonus.Entry, error)
	DeleteBonus(ctx context.Context, id int) error
}

// EventsHandler handles bonus event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type addEventRequest struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Percent *float64 `json:"percent"`
}

func (r addEventRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Percent == nil {
		return errors.New("percent is required")
	}
	return nil
}

type percentRequest struct {
	Percent *float64 `json:"percent"`
}

// HandleListEvents handles GET /api/events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Events(r.Context()))
}

// HandleAddEvent handles POST /api/events requests.
func (h *EventsHandler) HandleAddEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_event"
	var req addEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	c, err := types.ParseCategory(req.Type)
	if err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	e, err := h.deps.AddBonus(r.Context(), req.Name, c, *req.Percent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// HandleSetEvent handles PUT /api/events/{id} requests.
func (h *EventsHandler) HandleSetEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_event"
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	var req percentRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	if req.Percent == nil {
		writeDomainError(w, badRequest(op, errors.New("percent is required")))
		return
	}
	if err := h.deps.SetBonus(r.Context(), id, *req.Percent); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Events(r.Context()))
}

// HandleDeleteEvent handles DELETE /api/events/{id} requests.
func (h *EventsHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_event"
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	if err := h.deps.DeleteBonus(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("id %q must be an integer", raw)
	}
	return id, nil
}
