package repository

import (
	"context"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// PostgresGardenRepository implements domain.GardenRepository. Plant lists are
// stored comma-joined and split back on every read.
type PostgresGardenRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresGardenRepository(db DBTX, logger *slog.Logger) *PostgresGardenRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGardenRepository{db: db, logger: logger}
}

const gardenSelect = `
	SELECT g.id, g.user_id, g.garden_name, g.garden_type_id, t.name, g.is_community_garden, g.is_rooftop_garden,
	       g.garden_size, g.garden_dimensions, g.soil_type, g.water_source, g.pest_protection, g.hardiness_zone,
	       g.preferred_plants, g.current_plants, g.created_at, g.updated_at
	FROM user_gardens g
	JOIN garden_types t ON t.id = g.garden_type_id
`

func scanGarden(row rowScanner) (*domain.UserGarden, error) {
	g := &domain.UserGarden{}
	var preferred, current *string
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.GardenTypeID,
		&g.GardenType,
		&g.IsCommunityGarden,
		&g.IsRooftopGarden,
		&g.Size,
		&g.Dimensions,
		&g.SoilType,
		&g.WaterSource,
		&g.PestProtection,
		&g.HardinessZone,
		&preferred,
		&current,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.PreferredPlants = domain.DecodePlantList(preferred)
	g.CurrentPlants = domain.DecodePlantList(current)
	return g, nil
}

func (r *PostgresGardenRepository) Create(ctx context.Context, g *domain.UserGarden) error {
	query := `
		INSERT INTO user_gardens (user_id, garden_name, garden_type_id, is_community_garden, is_rooftop_garden,
			garden_size, garden_dimensions, soil_type, water_source, pest_protection, hardiness_zone,
			preferred_plants, current_plants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		g.UserID,
		g.Name,
		g.GardenTypeID,
		g.IsCommunityGarden,
		g.IsRooftopGarden,
		g.Size,
		g.Dimensions,
		g.SoilType,
		g.WaterSource,
		g.PestProtection,
		g.HardinessZone,
		domain.EncodePlantList(g.PreferredPlants),
		domain.EncodePlantList(g.CurrentPlants),
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create garden", slog.Int64("user_id", g.UserID), slog.String("error", err.Error()))
		return translate(err, "garden")
	}
	return nil
}

func (r *PostgresGardenRepository) GetByID(ctx context.Context, id int64) (*domain.UserGarden, error) {
	g, err := scanGarden(r.db.QueryRowContext(ctx, gardenSelect+` WHERE g.id = $1`, id))
	if err != nil {
		return nil, translate(err, "garden")
	}
	return g, nil
}

func (r *PostgresGardenRepository) ListByOwner(ctx context.Context, userID int64) ([]*domain.UserGarden, error) {
	rows, err := r.db.QueryContext(ctx, gardenSelect+` WHERE g.user_id = $1 ORDER BY g.id`, userID)
	if err != nil {
		return nil, translate(err, "garden")
	}
	defer rows.Close()

	gardens := []*domain.UserGarden{}
	for rows.Next() {
		g, err := scanGarden(rows)
		if err != nil {
			return nil, translate(err, "garden")
		}
		gardens = append(gardens, g)
	}
	return gardens, rows.Err()
}

// Update writes every mutable column; callers apply a domain.GardenPatch first.
func (r *PostgresGardenRepository) Update(ctx context.Context, g *domain.UserGarden) error {
	query := `
		UPDATE user_gardens
		SET garden_name = $1, garden_type_id = $2, is_community_garden = $3, is_rooftop_garden = $4,
		    garden_size = $5, garden_dimensions = $6, soil_type = $7, water_source = $8,
		    pest_protection = $9, hardiness_zone = $10, preferred_plants = $11, current_plants = $12,
		    updated_at = now()
		WHERE id = $13
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		g.Name,
		g.GardenTypeID,
		g.IsCommunityGarden,
		g.IsRooftopGarden,
		g.Size,
		g.Dimensions,
		g.SoilType,
		g.WaterSource,
		g.PestProtection,
		g.HardinessZone,
		domain.EncodePlantList(g.PreferredPlants),
		domain.EncodePlantList(g.CurrentPlants),
		g.ID,
	).Scan(&g.UpdatedAt)
	if err != nil {
		return translate(err, "garden")
	}
	return nil
}

func (r *PostgresGardenRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_gardens WHERE id = $1`, id)
	if err != nil {
		return translate(err, "garden")
	}
	return expectOne(res, "garden")
}
