package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/scottkoskoski/gardening-app/internal/security/audit"
	"github.com/scottkoskoski/gardening-app/internal/service"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// GardenHandler serves /user_gardens. Every route is owner-scoped.
type GardenHandler struct {
	gardens *service.GardenService
	audit   *audit.Logger
	logger  *slog.Logger
}

func NewGardenHandler(gardens *service.GardenService, auditLog *audit.Logger, logger *slog.Logger) *GardenHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GardenHandler{gardens: gardens, audit: auditLog, logger: logger}
}

func (h *GardenHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req validation.GardenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	g, err := h.gardens.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGardenView(g))
}

func (h *GardenHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	gardens, err := h.gardens.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]GardenView, 0, len(gardens))
	for _, g := range gardens {
		out = append(out, newGardenView(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *GardenHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	g, err := h.gardens.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newGardenView(g))
}

// Update handles PUT /user_gardens/{id}. Only allow-listed fields decode.
func (h *GardenHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req validation.GardenUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	g, err := h.gardens.Update(r.Context(), userID, id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newGardenView(g))
}

func (h *GardenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.gardens.Delete(r.Context(), userID, id); err != nil {
		h.audit.LogDeletion(r.Context(), userID, "garden", strconv.FormatInt(id, 10), "failed")
		writeError(w, r, h.logger, err)
		return
	}
	h.audit.LogDeletion(r.Context(), userID, "garden", strconv.FormatInt(id, 10), "success")
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Garden deleted successfully"})
}

// GardenPlantHandler serves /user_garden_plants.
type GardenPlantHandler struct {
	plants *service.GardenPlantService
	audit  *audit.Logger
	logger *slog.Logger
}

func NewGardenPlantHandler(plants *service.GardenPlantService, auditLog *audit.Logger, logger *slog.Logger) *GardenPlantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GardenPlantHandler{plants: plants, audit: auditLog, logger: logger}
}

func (h *GardenPlantHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req validation.GardenPlantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	gp, err := h.plants.Add(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGardenPlantView(gp))
}

// ListForGarden handles GET /user_garden_plants/{gardenId}
func (h *GardenPlantHandler) ListForGarden(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	gardenID, err := pathID(r, "gardenId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	items, err := h.plants.ListForGarden(r.Context(), userID, gardenID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]GardenPlantView, 0, len(items))
	for _, gp := range items {
		out = append(out, newGardenPlantView(gp))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *GardenPlantHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req validation.GardenPlantUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	gp, err := h.plants.Update(r.Context(), userID, id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newGardenPlantView(gp))
}

func (h *GardenPlantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.plants.Remove(r.Context(), userID, id); err != nil {
		h.audit.LogDeletion(r.Context(), userID, "garden_plant", strconv.FormatInt(id, 10), "failed")
		writeError(w, r, h.logger, err)
		return
	}
	h.audit.LogDeletion(r.Context(), userID, "garden_plant", strconv.FormatInt(id, 10), "success")
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Plant removed from garden"})
}
