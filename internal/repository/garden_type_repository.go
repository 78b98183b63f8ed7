package repository

import (
	"context"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// PostgresGardenTypeRepository implements domain.GardenTypeRepository
type PostgresGardenTypeRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresGardenTypeRepository(db DBTX, logger *slog.Logger) *PostgresGardenTypeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGardenTypeRepository{db: db, logger: logger}
}

const gardenTypeColumns = `id, name, description, ideal_soil_type, space_requirements, maintenance_level`

func scanGardenType(row rowScanner) (*domain.GardenType, error) {
	gt := &domain.GardenType{}
	err := row.Scan(&gt.ID, &gt.Name, &gt.Description, &gt.IdealSoilType, &gt.SpaceRequirements, &gt.MaintenanceLevel)
	return gt, err
}

func (r *PostgresGardenTypeRepository) List(ctx context.Context) ([]*domain.GardenType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+gardenTypeColumns+` FROM garden_types ORDER BY id`)
	if err != nil {
		return nil, translate(err, "garden type")
	}
	defer rows.Close()

	types := []*domain.GardenType{}
	for rows.Next() {
		gt, err := scanGardenType(rows)
		if err != nil {
			return nil, translate(err, "garden type")
		}
		types = append(types, gt)
	}
	return types, rows.Err()
}

func (r *PostgresGardenTypeRepository) GetByID(ctx context.Context, id int64) (*domain.GardenType, error) {
	gt, err := scanGardenType(r.db.QueryRowContext(ctx, `SELECT `+gardenTypeColumns+` FROM garden_types WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "garden type")
	}
	return gt, nil
}

func (r *PostgresGardenTypeRepository) GetByName(ctx context.Context, name domain.GardenTypeName) (*domain.GardenType, error) {
	gt, err := scanGardenType(r.db.QueryRowContext(ctx, `SELECT `+gardenTypeColumns+` FROM garden_types WHERE name = $1`, name))
	if err != nil {
		return nil, translate(err, "garden type")
	}
	return gt, nil
}

func (r *PostgresGardenTypeRepository) Create(ctx context.Context, gt *domain.GardenType) error {
	query := `
		INSERT INTO garden_types (name, description, ideal_soil_type, space_requirements, maintenance_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		gt.Name, gt.Description, gt.IdealSoilType, gt.SpaceRequirements, gt.MaintenanceLevel,
	).Scan(&gt.ID)
	if err != nil {
		return translate(err, "garden type")
	}
	return nil
}
