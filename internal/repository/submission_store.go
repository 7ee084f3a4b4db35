package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"skill-radar/internal/domain"
)

// SubmissionStore persiste una entrega completa. Con sessionID la fila del
// historial y la entrada de la sesion se escriben en la misma transaccion:
// o quedan las dos o ninguna.
type SubmissionStore interface {
	Save(ctx context.Context, sub domain.Submission, scores pgvector.Vector, sessionID string) error
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgSubmissionStore struct {
	db txBeginner
}

func NewPgSubmissionStore(pool *pgxpool.Pool) *PgSubmissionStore {
	return &PgSubmissionStore{db: pool}
}

func (s *PgSubmissionStore) Save(ctx context.Context, sub domain.Submission, scores pgvector.Vector, sessionID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin submission tx: %w", err)
	}
	// Rollback despues de Commit no hace nada.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertAnswerSet(ctx, tx, sub, scores); err != nil {
		return fmt.Errorf("insert answer set: %w", err)
	}
	if sessionID != "" {
		if err := upsertSessionSubmission(ctx, tx, sessionID, sub); err != nil {
			return fmt.Errorf("upsert session submission: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func insertAnswerSet(ctx context.Context, db execer, sub domain.Submission, scores pgvector.Vector) error {
	const query = `
		INSERT INTO answer_sets (id, user_id, catalog_id, answers, scores, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Exec(ctx, query,
		sub.ID,
		sub.UserID,
		sub.CatalogID,
		sub.Answers,
		scores,
		sub.SubmittedAt,
	)
	return err
}

// upsertSessionSubmission reemplaza la entrega previa del mismo participante.
func upsertSessionSubmission(ctx context.Context, db execer, sessionID string, sub domain.Submission) error {
	const query = `
		INSERT INTO session_submissions (session_id, submission_key, id, user_id, answers, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, submission_key)
		DO UPDATE SET
			id = EXCLUDED.id,
			user_id = EXCLUDED.user_id,
			answers = EXCLUDED.answers,
			submitted_at = EXCLUDED.submitted_at
	`
	_, err := db.Exec(ctx, query,
		sessionID,
		sub.Key,
		sub.ID,
		sub.UserID,
		sub.Answers,
		sub.SubmittedAt,
	)
	return err
}
