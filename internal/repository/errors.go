package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// Postgres SQLSTATE codes we translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
	codeBadEncoding         = "22021"
)

// constraintFields names the request field behind each unique constraint.
var constraintFields = map[string]string{
	"users_username_key":        "username",
	"users_email_key":           "email",
	"users_email_lower_idx":     "email",
	"plants_name_key":           "name",
	"garden_types_name_key":     "name",
	"user_profiles_user_id_key": "userId",
}

// foreignKeyEntities names the referenced entity for each foreign key.
var foreignKeyEntities = map[string]string{
	"user_profiles_user_id_fkey":        "user",
	"user_gardens_user_id_fkey":         "user",
	"user_gardens_garden_type_id_fkey":  "garden type",
	"user_garden_plants_garden_id_fkey": "garden",
	"user_garden_plants_plant_id_fkey":  "plant",
}

// translate maps driver errors onto the domain taxonomy. entity names the row
// kind for not-found messages.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(entity + " not found")
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("failed to access %s: %w", entity, err)
	}

	switch string(pqErr.Code) {
	case codeUniqueViolation:
		field := constraintField(pqErr.Constraint)
		return domain.Conflict(field, field+" already exists")
	case codeForeignKeyViolation:
		ref, ok := foreignKeyEntities[pqErr.Constraint]
		if !ok {
			ref = "referenced row"
		}
		return domain.NotFound(ref + " not found")
	case codeCheckViolation, codeNotNullViolation, codeStringTooLong, codeBadEncoding:
		field := pqErr.Column
		if field == "" {
			field = entity
		}
		return domain.Validation(map[string][]string{field: {"violates a storage constraint"}})
	default:
		return fmt.Errorf("failed to access %s: %w", entity, err)
	}
}

func constraintField(constraint string) string {
	if f, ok := constraintFields[constraint]; ok {
		return f
	}
	f := strings.TrimSuffix(constraint, "_key")
	if i := strings.LastIndex(f, "_"); i >= 0 {
		f = f[i+1:]
	}
	return f
}

// expectOne turns a zero-row UPDATE or DELETE into NotFound.
func expectOne(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFound(entity + " not found")
	}
	return nil
}
