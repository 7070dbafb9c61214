package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"ringforge/internal/entities"
	"ringforge/internal/repositories"
	"ringforge/internal/services"
)

// RingHandler translates HTTP requests into ring service calls and service
// outcomes back into status codes. Validation and quota failures surface
// their message verbatim; store failures stay opaque.
type RingHandler struct {
	service services.RingServiceInterface
}

// NewRingHandler creates a new RingHandler.
func NewRingHandler(service services.RingServiceInterface) *RingHandler {
	return &RingHandler{service: service}
}

// Routes mounts the ring API onto the router.
func (h *RingHandler) Routes(r chi.Router) {
	r.Post("/rings", h.Create)
	r.Get("/rings", h.List)
	r.Get("/rings/{id}", h.GetByID)
	r.Put("/rings/{id}", h.Update)
	r.Delete("/rings/{id}", h.Delete)
	r.Get("/forgers/count", h.CountByForger)
}

type createRingRequest struct {
	Name     string `json:"name"`
	Power    string `json:"power"`
	Bearer   string `json:"bearer"`
	ForgedBy string `json:"forgedBy" validate:"required"`
	Image    string `json:"image"`
}

// Create handles POST /rings.
func (h *RingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, requestErrorMessage(err))
		return
	}

	ring, err := h.service.CreateRing(r.Context(), &entities.Ring{
		Name:     req.Name,
		Power:    req.Power,
		Bearer:   req.Bearer,
		ForgedBy: req.ForgedBy,
		Image:    req.Image,
	})
	if err != nil {
		var verr *services.ValidationError
		var qerr *services.QuotaExceededError
		switch {
		case errors.As(err, &verr), errors.As(err, &qerr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("create ring failed: %v", err)
			writeError(w, http.StatusInternalServerError, "error creating ring")
		}
		return
	}

	writeJSON(w, http.StatusCreated, ring)
}

// List handles GET /rings.
func (h *RingHandler) List(w http.ResponseWriter, r *http.Request) {
	rings, err := h.service.ListRings(r.Context())
	if err != nil {
		log.Printf("list rings failed: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching rings")
		return
	}
	if rings == nil {
		rings = []*entities.Ring{}
	}
	writeJSON(w, http.StatusOK, rings)
}

// GetByID handles GET /rings/{id}. A non-numeric id resolves nothing, so
// it gets the same 404 as an unknown one.
func (h *RingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "ring not found")
		return
	}

	ring, err := h.service.GetRing(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		writeError(w, http.StatusNotFound, "ring not found")
		return
	}
	if err != nil {
		log.Printf("get ring %d failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "error fetching ring")
		return
	}

	writeJSON(w, http.StatusOK, ring)
}

// Update handles PUT /rings/{id}. Updating an unknown id is a no-op 204.
func (h *RingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ring id")
		return
	}

	var patch entities.RingPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, requestErrorMessage(err))
		return
	}

	if err := h.service.UpdateRing(r.Context(), id, &patch); err != nil {
		log.Printf("update ring %d failed: %v", id, err)
		writeError(w, http.StatusBadRequest, "error updating ring")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /rings/{id}. Deleting an unknown id is a no-op 204.
func (h *RingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ring id")
		return
	}

	if err := h.service.DeleteRing(r.Context(), id); err != nil {
		log.Printf("delete ring %d failed: %v", id, err)
		writeError(w, http.StatusBadRequest, "error deleting ring")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type countResponse struct {
	Count int `json:"count"`
}

// CountByForger handles GET /forgers/count?forgedBy=label.
func (h *RingHandler) CountByForger(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("forgedBy")
	if label == "" {
		writeError(w, http.StatusBadRequest, "forgedBy query parameter is required")
		return
	}

	count, err := h.service.CountByForger(r.Context(), label)
	if err != nil {
		log.Printf("count rings for %q failed: %v", label, err)
		writeError(w, http.StatusInternalServerError, "error counting rings")
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

// requestErrorMessage turns decode/validation failures into client-facing
// messages without leaking struct internals.
func requestErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if verrs[0].Field() == "ForgedBy" {
			return "forgedBy is required"
		}
		return "invalid request"
	}
	return "malformed request body"
}
