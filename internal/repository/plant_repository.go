package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// PostgresPlantRepository implements domain.PlantRepository
type PostgresPlantRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresPlantRepository(db DBTX, logger *slog.Logger) *PostgresPlantRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPlantRepository{db: db, logger: logger}
}

const plantColumns = `id, name, scientific_name, hardiness_min, hardiness_max, best_temperature_min, best_temperature_max,
	requires_greenhouse, suitable_for_containers, growing_season, water_needs, sunlight, space_required,
	sowing_method, spread, row_spacing, height, description, image_url`

func scanPlant(row rowScanner) (*domain.Plant, error) {
	p := &domain.Plant{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.ScientificName,
		&p.HardinessMin,
		&p.HardinessMax,
		&p.BestTemperatureMin,
		&p.BestTemperatureMax,
		&p.RequiresGreenhouse,
		&p.SuitableForContainers,
		&p.GrowingSeason,
		&p.WaterNeeds,
		&p.Sunlight,
		&p.SpaceRequired,
		&p.SowingMethod,
		&p.Spread,
		&p.RowSpacing,
		&p.Height,
		&p.Description,
		&p.ImageURL,
	)
	return p, err
}

func (r *PostgresPlantRepository) Create(ctx context.Context, p *domain.Plant) error {
	query := `
		INSERT INTO plants (name, scientific_name, hardiness_min, hardiness_max, best_temperature_min,
			best_temperature_max, requires_greenhouse, suitable_for_containers, growing_season, water_needs,
			sunlight, space_required, sowing_method, spread, row_spacing, height, description, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		p.Name,
		p.ScientificName,
		p.HardinessMin,
		p.HardinessMax,
		p.BestTemperatureMin,
		p.BestTemperatureMax,
		p.RequiresGreenhouse,
		p.SuitableForContainers,
		p.GrowingSeason,
		p.WaterNeeds,
		p.Sunlight,
		p.SpaceRequired,
		p.SowingMethod,
		p.Spread,
		p.RowSpacing,
		p.Height,
		p.Description,
		p.ImageURL,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error("failed to create plant", slog.String("name", p.Name), slog.String("error", err.Error()))
		return translate(err, "plant")
	}
	return nil
}

func (r *PostgresPlantRepository) GetByID(ctx context.Context, id int64) (*domain.Plant, error) {
	p, err := scanPlant(r.db.QueryRowContext(ctx, `SELECT `+plantColumns+` FROM plants WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "plant")
	}
	return p, nil
}

func (r *PostgresPlantRepository) GetByName(ctx context.Context, name string) (*domain.Plant, error) {
	p, err := scanPlant(r.db.QueryRowContext(ctx, `SELECT `+plantColumns+` FROM plants WHERE name = $1`, name))
	if err != nil {
		return nil, translate(err, "plant")
	}
	return p, nil
}

func (r *PostgresPlantRepository) List(ctx context.Context, filter domain.PlantFilter) ([]*domain.Plant, error) {
	query, args := buildPlantQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list plants", slog.String("error", err.Error()))
		return nil, translate(err, "plant")
	}
	defer rows.Close()

	plants := []*domain.Plant{}
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, translate(err, "plant")
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

// buildPlantQuery ANDs every active predicate. Zone bounds compare bytewise
// (COLLATE "C") so results match the in-memory filter.
func buildPlantQuery(f domain.PlantFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Zone != "" {
		args = append(args, f.Zone)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`hardiness_min COLLATE "C" <= $%d AND hardiness_max COLLATE "C" >= $%d`, n, n))
	}
	if f.RequiresGreenhouse {
		conds = append(conds, `requires_greenhouse`)
	}
	if f.ContainerSuitable {
		conds = append(conds, `suitable_for_containers`)
	}
	if f.NameContains != "" {
		args = append(args, "%"+escapeLike(f.NameContains)+"%")
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d`, len(args)))
	}

	query := `SELECT ` + plantColumns + ` FROM plants`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	return query + ` ORDER BY name`, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
