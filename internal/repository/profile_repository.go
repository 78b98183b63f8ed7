package repository

import (
	"context"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// PostgresProfileRepository implements domain.ProfileRepository
type PostgresProfileRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresProfileRepository(db DBTX, logger *slog.Logger) *PostgresProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProfileRepository{db: db, logger: logger}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	query := `
		SELECT id, user_id, hardiness_zone, zip_code, city, state, has_irrigation,
		       sunlight_hours, soil_ph, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	p := &domain.UserProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.HardinessZone,
		&p.ZipCode,
		&p.City,
		&p.State,
		&p.HasIrrigation,
		&p.SunlightHours,
		&p.SoilPH,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err, "profile")
	}
	return p, nil
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, hardiness_zone, zip_code, city, state, has_irrigation, sunlight_hours, soil_ph)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.HardinessZone, p.ZipCode, p.City, p.State, p.HasIrrigation, p.SunlightHours, p.SoilPH,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create profile", slog.Int64("user_id", p.UserID), slog.String("error", err.Error()))
		return translate(err, "profile")
	}
	return nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p *domain.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET hardiness_zone = $1, zip_code = $2, city = $3, state = $4, has_irrigation = $5,
		    sunlight_hours = $6, soil_ph = $7, updated_at = now()
		WHERE user_id = $8
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.HardinessZone, p.ZipCode, p.City, p.State, p.HasIrrigation, p.SunlightHours, p.SoilPH, p.UserID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return translate(err, "profile")
	}
	return nil
}
