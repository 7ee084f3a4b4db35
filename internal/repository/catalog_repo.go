package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skill-radar/internal/domain"
)

// CatalogRepository persiste las versiones del cuestionario (datos de referencia).
type CatalogRepository interface {
	Upsert(ctx context.Context, catalog domain.Catalog) error
	GetByID(ctx context.Context, id string) (domain.Catalog, error)
}

// PgCatalogRepository implementa CatalogRepository usando pgxpool.
type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

func (r *PgCatalogRepository) Upsert(ctx context.Context, catalog domain.Catalog) error {
	const query = `
		INSERT INTO catalogs (id, measurements, questions, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			measurements = EXCLUDED.measurements,
			questions = EXCLUDED.questions,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		catalog.ID,
		catalog.Measurements,
		catalog.Questions,
		catalog.UpdatedAt,
	)
	return err
}

func (r *PgCatalogRepository) GetByID(ctx context.Context, id string) (domain.Catalog, error) {
	const query = `
		SELECT id, measurements, questions, updated_at
		FROM catalogs
		WHERE id = $1
	`
	var c domain.Catalog
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Measurements,
		&c.Questions,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Catalog{}, err
	}
	return c, err
}
