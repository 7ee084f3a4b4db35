package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skill-radar/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.SessionSummary, error)
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, session domain.Session) error {
	const query = `
		INSERT INTO sessions (id, owner, catalog_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.Owner,
		session.CatalogID,
		session.CreatedAt,
	)
	return err
}

// GetByID devuelve la sesion con el snapshot completo de sus entregas.
func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	const sessionQuery = `
		SELECT id, owner, catalog_id, created_at
		FROM sessions
		WHERE id = $1
	`
	var session domain.Session
	err := r.pool.QueryRow(ctx, sessionQuery, id).Scan(
		&session.ID,
		&session.Owner,
		&session.CatalogID,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, err
	}
	if err != nil {
		return domain.Session{}, err
	}

	const submissionsQuery = `
		SELECT submission_key, id, user_id, answers, submitted_at
		FROM session_submissions
		WHERE session_id = $1
	`
	rows, err := r.pool.Query(ctx, submissionsQuery, id)
	if err != nil {
		return domain.Session{}, err
	}
	defer rows.Close()

	session.Submissions = make(map[string]domain.Submission)
	for rows.Next() {
		sub := domain.Submission{CatalogID: session.CatalogID}
		if err := rows.Scan(
			&sub.Key,
			&sub.ID,
			&sub.UserID,
			&sub.Answers,
			&sub.SubmittedAt,
		); err != nil {
			return domain.Session{}, err
		}
		session.Submissions[sub.Key] = sub
	}
	if err := rows.Err(); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (r *PgSessionRepository) ListByOwner(ctx context.Context, owner string) ([]domain.SessionSummary, error) {
	const query = `
		SELECT s.id, s.owner, s.catalog_id, s.created_at, COUNT(ss.submission_key)
		FROM sessions s
		LEFT JOIN session_submissions ss ON ss.session_id = s.id
		WHERE s.owner = $1
		GROUP BY s.id
		ORDER BY s.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.SessionSummary{}
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(
			&s.ID,
			&s.Owner,
			&s.CatalogID,
			&s.CreatedAt,
			&s.SubmissionCount,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
