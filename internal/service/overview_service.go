package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skill-radar/internal/domain"
	"skill-radar/internal/repository"
	"skill-radar/internal/scoring"
)

var ErrOverviewServiceNotConfigured = errors.New("overview service not configured")

// OverviewService builds the personal before/after view for a user.
type OverviewService struct {
	catalogs     repository.CatalogRepository
	answers      repository.AnswerRepository
	catalogID    string
	similarLimit int
	logger       *zap.Logger
}

func NewOverviewService(
	catalogs repository.CatalogRepository,
	answers repository.AnswerRepository,
	catalogID string,
	similarLimit int,
	logger *zap.Logger,
) *OverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if similarLimit <= 0 {
		similarLimit = 5
	}
	return &OverviewService{
		catalogs:     catalogs,
		answers:      answers,
		catalogID:    catalogID,
		similarLimit: similarLimit,
		logger:       logger,
	}
}

type OverviewResult struct {
	Measurements        []domain.Measurement           `json:"measurements"`
	Current             scoring.ScoreVector            `json:"current"`
	Previous            scoring.ScoreVector            `json:"previous,omitempty"`
	HasPrevious         bool                           `json:"has_previous"`
	CurrentSubmittedAt  time.Time                      `json:"current_submitted_at"`
	PreviousSubmittedAt *time.Time                     `json:"previous_submitted_at,omitempty"`
	Breakdown           []scoring.MeasurementBreakdown `json:"breakdown"`
}

// Overview compares the user's two latest submissions. A user without any
// submission gets scoring.ErrInsufficientHistory.
func (s *OverviewService) Overview(ctx context.Context, userID string) (OverviewResult, error) {
	c, history, err := s.load(ctx, userID, 2)
	if err != nil {
		return OverviewResult{}, err
	}

	ov, err := scoring.Compare(history, c.Measurements)
	if err != nil {
		return OverviewResult{}, err
	}

	res := OverviewResult{
		Measurements:       c.Measurements,
		Current:            ov.Current,
		Previous:           ov.Previous,
		HasPrevious:        ov.HasPrevious,
		CurrentSubmittedAt: history[0].SubmittedAt,
		Breakdown:          scoring.Breakdown(history[0].Answers, c),
	}
	if ov.HasPrevious {
		at := history[1].SubmittedAt
		res.PreviousSubmittedAt = &at
	}
	return res, nil
}

// Similar lists other users whose latest scores are closest to the user's
// latest submission.
func (s *OverviewService) Similar(ctx context.Context, userID string) ([]domain.SimilarProfile, error) {
	c, history, err := s.load(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("similar: %w", scoring.ErrInsufficientHistory)
	}
	scores := scoring.ScoreAnswers(history[0].Answers, c.Measurements)
	profiles, err := s.answers.FindSimilar(ctx, history[0].UserID, c.ID, repository.ToVector(scores), s.similarLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar profiles: %w", err)
	}
	return profiles, nil
}

// load fetches the catalog and the latest submissions concurrently.
func (s *OverviewService) load(ctx context.Context, userID string, limit int) (domain.Catalog, []domain.Submission, error) {
	if s == nil || s.catalogs == nil || s.answers == nil {
		return domain.Catalog{}, nil, ErrOverviewServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Catalog{}, nil, fmt.Errorf("%w: missing user", ErrInvalidSelection)
	}

	var (
		c       domain.Catalog
		history []domain.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.catalogs.GetByID(gctx, s.catalogID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCatalogNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.answers.ListByUser(gctx, userID, s.catalogID, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrCatalogNotFound) {
			return domain.Catalog{}, nil, err
		}
		return domain.Catalog{}, nil, fmt.Errorf("failed to load overview data: %w", err)
	}
	s.logger.Debug("overview data loaded", zap.String("user_id", userID), zap.Int("history", len(history)))
	return c, history, nil
}
