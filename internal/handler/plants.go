package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/service"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// PlantListResponse wraps the catalog listing.
type PlantListResponse struct {
	Plants []PlantView `json:"plants"`
}

// CreatedResponse carries the identifier of a new row.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// PlantHandler serves the /plants routes.
type PlantHandler struct {
	plants *service.PlantService
	logger *slog.Logger
}

func NewPlantHandler(plants *service.PlantService, logger *slog.Logger) *PlantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlantHandler{plants: plants, logger: logger}
}

// List handles GET /plants/get_plants?zone=&greenhouse=&containers=&name=
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PlantFilter{
		Zone:         q.Get("zone"),
		NameContains: q.Get("name"),
	}
	var err error
	if filter.RequiresGreenhouse, err = boolParam(q.Get("greenhouse"), "greenhouse"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if filter.ContainerSuitable, err = boolParam(q.Get("containers"), "containers"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	plants, err := h.plants.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := PlantListResponse{Plants: make([]PlantView, 0, len(plants))}
	for _, p := range plants {
		out.Plants = append(out.Plants, newPlantView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /plants/{id}
func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	p, err := h.plants.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlantView(p))
}

// Create handles POST /plants
func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req validation.PlantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	p, err := h.plants.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: p.ID})
}

// boolParam treats an absent parameter as false.
func boolParam(raw, name string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.BadRequest(name + " must be true or false")
	}
	return b, nil
}

// GardenTypeHandler serves the read-only /garden_types routes.
type GardenTypeHandler struct {
	types  *service.GardenTypeService
	logger *slog.Logger
}

func NewGardenTypeHandler(types *service.GardenTypeService, logger *slog.Logger) *GardenTypeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GardenTypeHandler{types: types, logger: logger}
}

// List handles GET /garden_types
func (h *GardenTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]GardenTypeView, 0, len(types))
	for _, gt := range types {
		out = append(out, newGardenTypeView(gt))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /garden_types/{id}
func (h *GardenTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	gt, err := h.types.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newGardenTypeView(gt))
}
