package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"skill-radar/internal/domain"
)

// AnswerRepository lee el historial personal de respuestas. Cada entrega
// lleva un snapshot de puntajes en una columna vector para busquedas por
// similitud; la lectura del historial nunca depende de ese snapshot. Las
// escrituras pasan por SubmissionStore.
type AnswerRepository interface {
	ListByUser(ctx context.Context, userID, catalogID string, limit int) ([]domain.Submission, error)
	FindSimilar(ctx context.Context, userID, catalogID string, scores pgvector.Vector, k int) ([]domain.SimilarProfile, error)
}

type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

// ListByUser devuelve las entregas mas recientes primero. limit <= 0 trae todas.
func (r *PgAnswerRepository) ListByUser(ctx context.Context, userID, catalogID string, limit int) ([]domain.Submission, error) {
	const query = `
		SELECT id, user_id, catalog_id, answers, submitted_at
		FROM answer_sets
		WHERE user_id = $1 AND catalog_id = $2
		ORDER BY submitted_at DESC, id DESC
		LIMIT $3
	`
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := r.pool.Query(ctx, query, userID, catalogID, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

func (r *PgAnswerRepository) FindSimilar(ctx context.Context, userID, catalogID string, scores pgvector.Vector, k int) ([]domain.SimilarProfile, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT user_id, scores, scores <-> $4 AS distance, submitted_at
		FROM (
			SELECT DISTINCT ON (user_id) user_id, scores, submitted_at
			FROM answer_sets
			WHERE catalog_id = $1 AND user_id <> $2 AND vector_dims(scores) = $3
			ORDER BY user_id, submitted_at DESC
		) latest
		ORDER BY distance
		LIMIT $5
	`
	rows, err := r.pool.Query(ctx, query, catalogID, userID, len(scores.Slice()), scores, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.SimilarProfile{}
	for rows.Next() {
		var p domain.SimilarProfile
		var vec pgvector.Vector
		if err := rows.Scan(&p.UserID, &vec, &p.Distance, &p.SubmittedAt); err != nil {
			return nil, err
		}
		p.Scores = FromVector(vec)
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ToVector convierte un vector de puntajes al tipo de columna de pgvector.
func ToVector(scores []float64) pgvector.Vector {
	out := make([]float32, len(scores))
	for i, v := range scores {
		out[i] = float32(v)
	}
	return pgvector.NewVector(out)
}

func FromVector(v pgvector.Vector) []float64 {
	in := v.Slice()
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = float64(x)
	}
	return out
}

func scanSubmissions(rows pgxRows) ([]domain.Submission, error) {
	subs := []domain.Submission{}
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.CatalogID,
			&s.Answers,
			&s.SubmittedAt,
		); err != nil {
			return nil, err
		}
		s.Key = s.UserID
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
