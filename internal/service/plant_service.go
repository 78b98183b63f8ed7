package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// PlantService serves the public plant catalog.
type PlantService struct {
	store     domain.Store
	validator *validation.Validator
	logger    *slog.Logger
}

func NewPlantService(store domain.Store, validator *validation.Validator, logger *slog.Logger) *PlantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlantService{store: store, validator: validator, logger: logger}
}

// List applies every predicate of filter together.
func (s *PlantService) List(ctx context.Context, filter domain.PlantFilter) ([]*domain.Plant, error) {
	filter.Zone = strings.TrimSpace(filter.Zone)
	filter.NameContains = strings.TrimSpace(filter.NameContains)
	return s.store.Plants().List(ctx, filter)
}

func (s *PlantService) Get(ctx context.Context, id int64) (*domain.Plant, error) {
	p, err := s.store.Plants().GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("plant not found")
	}
	return p, err
}

// Create adds a catalog entry. A duplicate name is a Conflict.
func (s *PlantService) Create(ctx context.Context, req validation.PlantRequest) (*domain.Plant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := req.CrossFields(); err != nil {
		return nil, err
	}

	p := req.Plant()
	if err := s.store.InTx(ctx, func(tx domain.Store) error {
		return tx.Plants().Create(ctx, p)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("plant created", slog.Int64("plant_id", p.ID), slog.String("name", p.Name))
	return p, nil
}
