package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"experience-booking/internal/data/entity"
	"experience-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ExperienceRepository interface {
	// FindBookable matches the internal id or the display id of an active experience.
	FindBookable(ctx context.Context, idOrExperienceID string) (*entity.Experience, error)
	List(ctx context.Context, filter entity.ExperienceFilter) ([]*entity.Experience, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, experience *entity.Experience) error
}

type experienceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewExperienceRepository(db database.PgxIface, log *zap.Logger) ExperienceRepository {
	return &experienceRepository{
		db:  db,
		log: log.With(zap.String("repository", "experience")),
	}
}

const experienceColumns = `
	id, experience_id, title, description, short_description, category,
	city, latitude, longitude, images, price, is_active, created_at, updated_at`

func scanExperience(row pgx.Row) (*entity.Experience, error) {
	var e entity.Experience
	err := row.Scan(
		&e.ID,
		&e.ExperienceID,
		&e.Title,
		&e.Description,
		&e.ShortDescription,
		&e.Category,
		&e.Location.City,
		&e.Location.Latitude,
		&e.Location.Longitude,
		&e.Images,
		&e.Price,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *experienceRepository) FindBookable(ctx context.Context, idOrExperienceID string) (*entity.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE experience_id = $1 AND is_active = TRUE`
	args := []any{idOrExperienceID}

	if id, err := uuid.Parse(idOrExperienceID); err == nil {
		query = `SELECT ` + experienceColumns + `
			FROM experiences
			WHERE (id = $1 OR experience_id = $2) AND is_active = TRUE
			LIMIT 1`
		args = []any{id, idOrExperienceID}
	}

	experience, err := scanExperience(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find experience",
			zap.Error(err),
			zap.String("experience_id", idOrExperienceID),
		)
		return nil, fmt.Errorf("find experience %s: %w", idOrExperienceID, err)
	}

	return experience, nil
}

// buildExperienceListQuery renders the active-catalog query for filter.
// Search matches title, description or short description case-insensitively.
func buildExperienceListQuery(filter entity.ExperienceFilter) (string, []any) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + experienceColumns + ` FROM experiences WHERE is_active = TRUE`)

	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != nil {
		queryBuilder.WriteString(" AND category = " + next(string(*filter.Category)))
	}
	if filter.City != "" {
		queryBuilder.WriteString(" AND city ILIKE " + next(containsPattern(filter.City)))
	}
	if filter.MinPrice != nil {
		queryBuilder.WriteString(" AND price >= " + next(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		queryBuilder.WriteString(" AND price <= " + next(*filter.MaxPrice))
	}
	if filter.Search != "" {
		p := next(containsPattern(filter.Search))
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (title ILIKE %s OR description ILIKE %s OR short_description ILIKE %s)", p, p, p))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	return queryBuilder.String(), args
}

func (r *experienceRepository) List(ctx context.Context, filter entity.ExperienceFilter) ([]*entity.Experience, error) {
	query, args := buildExperienceListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list experiences",
			zap.Error(err),
			zap.String("city", filter.City),
			zap.String("search", filter.Search),
		)
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	experiences := []*entity.Experience{}
	for rows.Next() {
		experience, err := scanExperience(rows)
		if err != nil {
			r.log.Error("Failed to scan experience row", zap.Error(err))
			return nil, fmt.Errorf("scan experience row: %w", err)
		}
		experiences = append(experiences, experience)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experience rows: %w", err)
	}

	return experiences, nil
}

func (r *experienceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM experiences`).Scan(&count); err != nil {
		r.log.Error("Failed to count experiences", zap.Error(err))
		return 0, fmt.Errorf("count experiences: %w", err)
	}
	return count, nil
}

func (r *experienceRepository) Create(ctx context.Context, e *entity.Experience) error {
	query := `
		INSERT INTO experiences (id, experience_id, title, description, short_description, category,
		                         city, latitude, longitude, images, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	images := e.Images
	if images == nil {
		images = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.ExperienceID,
		e.Title,
		e.Description,
		e.ShortDescription,
		e.Category,
		e.Location.City,
		e.Location.Latitude,
		e.Location.Longitude,
		images,
		e.Price,
		e.IsActive,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create experience",
			zap.Error(err),
			zap.String("experience_id", e.ExperienceID),
		)
		return fmt.Errorf("create experience %s: %w", e.ExperienceID, err)
	}

	return nil
}
