package api

import (
	"context"
	"net/http"

	"github.com/okian/presale/internal/domain/presale"
)

// PresaleDependencies defines the service operations behind the lock
// period routes.
type PresaleDependencies interface {
	PresaleEvents(ctx context.Context) []presale.Event
	AddPresaleEvent(ctx context.Context) presale.Event
	UpdatePresaleEvent(ctx context.Context, id int, patch presale.Patch) (presale.Event, error)
	DeletePresaleEvent(ctx context.Context, id int) error
}

// PresaleHandler handles lock period requests.
type PresaleHandler struct {
	deps PresaleDependencies
}

// NewPresaleHandler creates a new lock period handler.
func NewPresaleHandler(deps PresaleDependencies) *PresaleHandler {
	return &PresaleHandler{deps: deps}
}

// HandleListPresaleEvents handles GET /api/presale-events requests.
func (h *PresaleHandler) HandleListPresaleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.PresaleEvents(r.Context()))
}

// HandleAddPresaleEvent handles POST /api/presale-events requests. The new
// period is dated today.
func (h *PresaleHandler) HandleAddPresaleEvent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.deps.AddPresaleEvent(r.Context()))
}

// HandleUpdatePresaleEvent handles PATCH /api/presale-events/{id} requests.
func (h *PresaleHandler) HandleUpdatePresaleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_presale_event"
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	var patch presale.Patch
	if err := decodeBody(r, &patch); err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	e, err := h.deps.UpdatePresaleEvent(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleDeletePresaleEvent handles DELETE /api/presale-events/{id} requests.
func (h *PresaleHandler) HandleDeletePresaleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_presale_event"
	id, err := pathID(r)
	if err != nil {
		writeDomainError(w, badRequest(op, err))
		return
	}
	if err := h.deps.DeletePresaleEvent(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
