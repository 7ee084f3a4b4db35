package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"skill-radar/internal/catalog"
	"skill-radar/internal/domain"
	"skill-radar/internal/repository"
	"skill-radar/internal/scoring"
)

var (
	ErrQuestionnaireNotConfigured = errors.New("questionnaire service not configured")
	ErrCatalogNotFound            = errors.New("catalog not found")
	ErrInvalidSelection           = errors.New("invalid answer selection")
	ErrSessionNotFound            = errors.New("session not found")
	ErrSubmitRateLimited          = errors.New("too many submissions")
)

// QuestionnaireService resolves answer selections against the catalog,
// scores them and stores submissions in the user's history and, when asked,
// in a shared session.
type QuestionnaireService struct {
	catalogs    repository.CatalogRepository
	sessions    repository.SessionRepository
	submissions repository.SubmissionStore
	notifier    SessionNotifier
	metrics     Metrics
	limiter     SubmissionLimiter
	logger      *zap.Logger
	catalogID   string
	now         func() time.Time
}

func NewQuestionnaireService(
	catalogs repository.CatalogRepository,
	sessions repository.SessionRepository,
	submissions repository.SubmissionStore,
	notifier SessionNotifier,
	metrics Metrics,
	limiter SubmissionLimiter,
	logger *zap.Logger,
	catalogID string,
) *QuestionnaireService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &QuestionnaireService{
		catalogs:    catalogs,
		sessions:    sessions,
		submissions: submissions,
		notifier:    notifier,
		metrics:     metrics,
		limiter:     limiter,
		logger:      logger,
		catalogID:   catalogID,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type SubmitInput struct {
	SessionID string
	// Selections maps question id -> answer id.
	Selections map[string]string
}

type SubmitResult struct {
	Submission   domain.Submission    `json:"submission"`
	Measurements []domain.Measurement `json:"measurements"`
	Scores       scoring.ScoreVector  `json:"scores"`
	SessionID    string               `json:"session_id,omitempty"`
}

type Preview struct {
	Measurements []domain.Measurement `json:"measurements"`
	Scores       scoring.ScoreVector  `json:"scores"`
}

// Catalog returns the configured questionnaire version.
func (s *QuestionnaireService) Catalog(ctx context.Context) (domain.Catalog, error) {
	if s == nil || s.catalogs == nil {
		return domain.Catalog{}, ErrQuestionnaireNotConfigured
	}
	return s.loadCatalog(ctx, s.catalogID)
}

// SeedCatalog stores a catalog loaded from reference files.
func (s *QuestionnaireService) SeedCatalog(ctx context.Context, c domain.Catalog) error {
	if s == nil || s.catalogs == nil {
		return ErrQuestionnaireNotConfigured
	}
	if err := catalog.Validate(c); err != nil {
		return err
	}
	if unknown := catalog.UnknownMeasurements(c); len(unknown) > 0 {
		s.logger.Warn("catalog answers reference unknown measurements",
			zap.String("catalog_id", c.ID),
			zap.Strings("measurements", unknown),
		)
	}
	c.UpdatedAt = s.now()
	if err := s.catalogs.Upsert(ctx, c); err != nil {
		return fmt.Errorf("failed to store catalog: %w", err)
	}
	s.logger.Info("catalog stored",
		zap.String("catalog_id", c.ID),
		zap.Int("questions", len(c.Questions)),
		zap.Int("measurements", len(c.Measurements)),
	)
	return nil
}

// Preview scores a partial selection without storing anything.
func (s *QuestionnaireService) Preview(ctx context.Context, selections map[string]string) (Preview, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return Preview{}, err
	}
	answers, err := ResolveSelections(c, selections)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Measurements: c.Measurements,
		Scores:       scoring.ScoreAnswers(answers, c.Measurements),
	}, nil
}

// Submit stores a complete answer set for user. With a session id the same
// answers also replace the user's entry in that session and watchers of the
// session are notified. Only requests that resolve to a valid submission
// count against the rate limit, and a failed write gives the slot back.
func (s *QuestionnaireService) Submit(ctx context.Context, user domain.User, input SubmitInput) (SubmitResult, error) {
	if s == nil || s.catalogs == nil || s.submissions == nil {
		return SubmitResult{}, ErrQuestionnaireNotConfigured
	}
	userID := strings.TrimSpace(user.ID)
	if userID == "" {
		return SubmitResult{}, fmt.Errorf("%w: missing user", ErrInvalidSelection)
	}
	if len(input.Selections) == 0 {
		return SubmitResult{}, fmt.Errorf("%w: no answers", ErrInvalidSelection)
	}

	sessionID := strings.TrimSpace(input.SessionID)
	catalogID := s.catalogID
	if sessionID != "" {
		if s.sessions == nil {
			return SubmitResult{}, ErrQuestionnaireNotConfigured
		}
		session, err := s.sessions.GetByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return SubmitResult{}, ErrSessionNotFound
			}
			return SubmitResult{}, fmt.Errorf("failed to load session: %w", err)
		}
		catalogID = session.CatalogID
	}

	c, err := s.loadCatalog(ctx, catalogID)
	if err != nil {
		return SubmitResult{}, err
	}
	answers, err := ResolveSelections(c, input.Selections)
	if err != nil {
		return SubmitResult{}, err
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, userID) {
		return SubmitResult{}, ErrSubmitRateLimited
	}

	sub := domain.Submission{
		ID:          uuid.NewString(),
		Key:         userID,
		UserID:      userID,
		CatalogID:   c.ID,
		Answers:     answers,
		SubmittedAt: s.now(),
	}
	scores := scoring.ScoreAnswers(answers, c.Measurements)

	if err := s.submissions.Save(ctx, sub, repository.ToVector(scores), sessionID); err != nil {
		if s.limiter != nil {
			s.limiter.Release(ctx, userID)
		}
		return SubmitResult{}, fmt.Errorf("failed to store submission: %w", err)
	}
	s.metrics.IncSubmissions("personal")

	if sessionID != "" {
		s.metrics.IncSubmissions("session")
		if s.notifier != nil {
			if err := s.notifier.Publish(ctx, sessionID); err != nil {
				s.logger.Warn("session update not published", zap.String("session_id", sessionID), zap.Error(err))
			}
		}
	}

	s.logger.Info("answers submitted",
		zap.String("user_id", userID),
		zap.String("catalog_id", c.ID),
		zap.String("session_id", sessionID),
		zap.Int("answers", len(answers)),
	)

	return SubmitResult{
		Submission:   sub,
		Measurements: c.Measurements,
		Scores:       scores,
		SessionID:    sessionID,
	}, nil
}

func (s *QuestionnaireService) loadCatalog(ctx context.Context, id string) (domain.Catalog, error) {
	c, err := s.catalogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Catalog{}, ErrCatalogNotFound
		}
		return domain.Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return c, nil
}

// ResolveSelections turns question id -> answer id pairs into the answer
// options of c. Unknown questions or answers are rejected.
func ResolveSelections(c domain.Catalog, selections map[string]string) (domain.SelectedAnswers, error) {
	questionIDs := make([]string, 0, len(selections))
	for qid := range selections {
		questionIDs = append(questionIDs, qid)
	}
	sort.Strings(questionIDs)

	answers := make(domain.SelectedAnswers, len(selections))
	for _, qid := range questionIDs {
		aid := selections[qid]
		opt, ok := c.FindAnswer(qid, aid)
		if !ok {
			return nil, fmt.Errorf("%w: question %q has no answer %q", ErrInvalidSelection, qid, aid)
		}
		answers[qid] = opt
	}
	return answers, nil
}
