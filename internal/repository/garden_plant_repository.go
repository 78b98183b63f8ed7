package repository

import (
	"context"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// PostgresGardenPlantRepository implements domain.GardenPlantRepository
type PostgresGardenPlantRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresGardenPlantRepository(db DBTX, logger *slog.Logger) *PostgresGardenPlantRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGardenPlantRepository{db: db, logger: logger}
}

const gardenPlantSelect = `
	SELECT gp.id, gp.garden_id, gp.plant_id, p.name, gp.planted_at, gp.expected_harvest_date, gp.growth_stage
	FROM user_garden_plants gp
	JOIN plants p ON p.id = gp.plant_id
`

func scanGardenPlant(row rowScanner) (*domain.UserGardenPlant, error) {
	gp := &domain.UserGardenPlant{}
	err := row.Scan(&gp.ID, &gp.GardenID, &gp.PlantID, &gp.PlantName, &gp.PlantedAt, &gp.ExpectedHarvestDate, &gp.GrowthStage)
	return gp, err
}

func (r *PostgresGardenPlantRepository) Create(ctx context.Context, gp *domain.UserGardenPlant) error {
	query := `
		INSERT INTO user_garden_plants (garden_id, plant_id, planted_at, expected_harvest_date, growth_stage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, (SELECT name FROM plants WHERE id = $2)
	`

	err := r.db.QueryRowContext(ctx, query,
		gp.GardenID, gp.PlantID, gp.PlantedAt, gp.ExpectedHarvestDate, gp.GrowthStage,
	).Scan(&gp.ID, &gp.PlantName)
	if err != nil {
		r.logger.Error("failed to add plant to garden",
			slog.Int64("garden_id", gp.GardenID),
			slog.Int64("plant_id", gp.PlantID),
			slog.String("error", err.Error()),
		)
		return translate(err, "garden plant")
	}
	return nil
}

func (r *PostgresGardenPlantRepository) GetByID(ctx context.Context, id int64) (*domain.UserGardenPlant, error) {
	gp, err := scanGardenPlant(r.db.QueryRowContext(ctx, gardenPlantSelect+` WHERE gp.id = $1`, id))
	if err != nil {
		return nil, translate(err, "garden plant")
	}
	return gp, nil
}

func (r *PostgresGardenPlantRepository) ListByGarden(ctx context.Context, gardenID int64) ([]*domain.UserGardenPlant, error) {
	rows, err := r.db.QueryContext(ctx, gardenPlantSelect+` WHERE gp.garden_id = $1 ORDER BY gp.id`, gardenID)
	if err != nil {
		return nil, translate(err, "garden plant")
	}
	defer rows.Close()

	out := []*domain.UserGardenPlant{}
	for rows.Next() {
		gp, err := scanGardenPlant(rows)
		if err != nil {
			return nil, translate(err, "garden plant")
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}

func (r *PostgresGardenPlantRepository) Update(ctx context.Context, gp *domain.UserGardenPlant) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_garden_plants SET expected_harvest_date = $1, growth_stage = $2 WHERE id = $3`,
		gp.ExpectedHarvestDate, gp.GrowthStage, gp.ID,
	)
	if err != nil {
		return translate(err, "garden plant")
	}
	return expectOne(res, "garden plant")
}

func (r *PostgresGardenPlantRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_garden_plants WHERE id = $1`, id)
	if err != nil {
		return translate(err, "garden plant")
	}
	return expectOne(res, "garden plant")
}

func (r *PostgresGardenPlantRepository) DeleteByGarden(ctx context.Context, gardenID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_garden_plants WHERE garden_id = $1`, gardenID); err != nil {
		return translate(err, "garden plant")
	}
	return nil
}
