package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"skill-radar/internal/domain"
	"skill-radar/internal/repository"
	"skill-radar/internal/scoring"
)

var ErrSessionServiceNotConfigured = errors.New("session service not configured")

// SessionService manages shared sessions and computes their comparative
// results from the full submission snapshot on every call.
type SessionService struct {
	sessions  repository.SessionRepository
	catalogs  repository.CatalogRepository
	notifier  SessionNotifier
	metrics   Metrics
	palette   scoring.Palette
	catalogID string
	logger    *zap.Logger
	now       func() time.Time
}

func NewSessionService(
	sessions repository.SessionRepository,
	catalogs repository.CatalogRepository,
	notifier SessionNotifier,
	metrics Metrics,
	palette scoring.Palette,
	catalogID string,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if len(palette) == 0 {
		palette = scoring.DefaultPalette
	}
	return &SessionService{
		sessions:  sessions,
		catalogs:  catalogs,
		notifier:  notifier,
		metrics:   metrics,
		palette:   palette,
		catalogID: catalogID,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type ParticipantResult struct {
	Key         string              `json:"key"`
	UserID      string              `json:"user_id"`
	Identity    string              `json:"identity"`
	Scores      scoring.ScoreVector `json:"scores"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

type SessionResults struct {
	SessionID       string               `json:"session_id"`
	Owner           string               `json:"owner"`
	CatalogID       string               `json:"catalog_id"`
	Measurements    []domain.Measurement `json:"measurements"`
	Participants    []ParticipantResult  `json:"participants"`
	Sum             scoring.ScoreVector  `json:"sum"`
	Average         scoring.ScoreVector  `json:"average"`
	AverageDisplay  []string             `json:"average_display"`
	SubmissionCount int                  `json:"submission_count"`
}

// Start creates an empty session owned by owner.
func (s *SessionService) Start(ctx context.Context, owner domain.User) (domain.Session, error) {
	if s == nil || s.sessions == nil {
		return domain.Session{}, ErrSessionServiceNotConfigured
	}
	ownerID := strings.TrimSpace(owner.ID)
	if ownerID == "" {
		return domain.Session{}, fmt.Errorf("%w: missing owner", ErrInvalidSelection)
	}
	session := domain.Session{
		ID:          uuid.NewString(),
		Owner:       ownerID,
		CatalogID:   s.catalogID,
		Submissions: map[string]domain.Submission{},
		CreatedAt:   s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("session started", zap.String("session_id", session.ID), zap.String("owner", ownerID))
	return session, nil
}

// List returns the sessions owned by owner, newest first.
func (s *SessionService) List(ctx context.Context, owner string) ([]domain.SessionSummary, error) {
	if s == nil || s.sessions == nil {
		return nil, ErrSessionServiceNotConfigured
	}
	return s.sessions.ListByOwner(ctx, owner)
}

// Results loads the current snapshot of a session and aggregates it.
func (s *SessionService) Results(ctx context.Context, sessionID string) (SessionResults, error) {
	if s == nil || s.sessions == nil || s.catalogs == nil {
		return SessionResults{}, ErrSessionServiceNotConfigured
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionResults{}, ErrSessionNotFound
		}
		return SessionResults{}, fmt.Errorf("failed to load session: %w", err)
	}
	c, err := s.catalogs.GetByID(ctx, session.CatalogID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionResults{}, ErrCatalogNotFound
		}
		return SessionResults{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	results, err := BuildSessionResults(session, c.Measurements, s.palette)
	if err != nil {
		return SessionResults{}, err
	}
	s.metrics.ObserveParticipants(results.SubmissionCount)
	return results, nil
}

// SessionFeed streams the results of one session. Initial holds the
// snapshot loaded when the feed was opened.
type SessionFeed struct {
	Initial SessionResults

	svc       *SessionService
	sessionID string
	updates   <-chan struct{}
	cancel    func()
}

// Open subscribes to change notifications of a session and loads its current
// results. An unknown session fails here, before any stream is set up.
func (s *SessionService) Open(ctx context.Context, sessionID string) (*SessionFeed, error) {
	if s == nil || s.notifier == nil {
		return nil, ErrSessionServiceNotConfigured
	}
	updates, cancel, err := s.notifier.Subscribe(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to session: %w", err)
	}
	results, err := s.Results(ctx, sessionID)
	if err != nil {
		cancel()
		return nil, err
	}
	return &SessionFeed{
		Initial:   results,
		svc:       s,
		sessionID: sessionID,
		updates:   updates,
		cancel:    cancel,
	}, nil
}

// Close drops the subscription. Safe to call more than once.
func (f *SessionFeed) Close() {
	f.cancel()
}

// Run calls fn with Initial and again after every change notification,
// until ctx is done or fn fails.
func (f *SessionFeed) Run(ctx context.Context, fn func(SessionResults) error) error {
	if err := fn(f.Initial); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.updates:
			results, err := f.svc.Results(ctx, f.sessionID)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if err := fn(results); err != nil {
				return err
			}
		}
	}
}

// BuildSessionResults scores every submission of session and aggregates the
// vectors. Participants are listed in the same sorted order used to hand out
// identities, so the output never depends on map iteration.
func BuildSessionResults(session domain.Session, measurements []domain.Measurement, palette scoring.Palette) (SessionResults, error) {
	keys := scoring.SortedKeys(session.Submissions)
	identities := scoring.AssignIdentities(session.ID, keys, palette)

	participants := make([]ParticipantResult, 0, len(keys))
	vectors := make([]scoring.ScoreVector, 0, len(keys))
	for _, key := range keys {
		sub := session.Submissions[key]
		v := scoring.ScoreAnswers(sub.Answers, measurements)
		vectors = append(vectors, v)
		participants = append(participants, ParticipantResult{
			Key:         key,
			UserID:      sub.UserID,
			Identity:    identities[key],
			Scores:      v,
			SubmittedAt: sub.SubmittedAt,
		})
	}

	sum, err := scoring.Sum(vectors, len(measurements))
	if err != nil {
		return SessionResults{}, fmt.Errorf("session %s: %w", session.ID, err)
	}
	avg, err := scoring.Average(vectors, len(measurements))
	if err != nil {
		return SessionResults{}, fmt.Errorf("session %s: %w", session.ID, err)
	}

	return SessionResults{
		SessionID:       session.ID,
		Owner:           session.Owner,
		CatalogID:       session.CatalogID,
		Measurements:    measurements,
		Participants:    participants,
		Sum:             sum,
		Average:         avg,
		AverageDisplay:  avg.Display(),
		SubmissionCount: len(participants),
	}, nil
}
