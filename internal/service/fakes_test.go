package service

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"skill-radar/internal/domain"
)

type fakeCatalogRepo struct {
	catalogs map[string]domain.Catalog
	err      error
}

func newFakeCatalogRepo(catalogs ...domain.Catalog) *fakeCatalogRepo {
	repo := &fakeCatalogRepo{catalogs: map[string]domain.Catalog{}}
	for _, c := range catalogs {
		repo.catalogs[c.ID] = c
	}
	return repo
}

func (f *fakeCatalogRepo) Upsert(_ context.Context, c domain.Catalog) error {
	if f.err != nil {
		return f.err
	}
	f.catalogs[c.ID] = c
	return nil
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, id string) (domain.Catalog, error) {
	if f.err != nil {
		return domain.Catalog{}, f.err
	}
	c, ok := f.catalogs[id]
	if !ok {
		return domain.Catalog{}, pgx.ErrNoRows
	}
	return c, nil
}

type storedAnswer struct {
	sub    domain.Submission
	scores pgvector.Vector
}

type fakeAnswerRepo struct {
	mu       sync.Mutex
	items    []storedAnswer
	similar  []domain.SimilarProfile
	lastUser string
	lastVec  pgvector.Vector
	lastK    int
	err      error
}

func (f *fakeAnswerRepo) add(sub domain.Submission, scores pgvector.Vector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, storedAnswer{sub: sub, scores: scores})
	return nil
}

func (f *fakeAnswerRepo) ListByUser(_ context.Context, userID, catalogID string, limit int) ([]domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Submission
	for _, it := range f.items {
		if it.sub.UserID == userID && it.sub.CatalogID == catalogID {
			out = append(out, it.sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAnswerRepo) FindSimilar(_ context.Context, userID, _ string, scores pgvector.Vector, k int) ([]domain.SimilarProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser = userID
	f.lastVec = scores
	f.lastK = k
	return f.similar, f.err
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	err      error
	writeErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]domain.Session{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, s domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if s.Submissions == nil {
		s.Submissions = map[string]domain.Submission{}
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Session{}, f.err
	}
	s, ok := f.sessions[id]
	if !ok {
		return domain.Session{}, pgx.ErrNoRows
	}
	copied := s
	copied.Submissions = make(map[string]domain.Submission, len(s.Submissions))
	for k, v := range s.Submissions {
		copied.Submissions[k] = v
	}
	return copied, nil
}

func (f *fakeSessionRepo) ListByOwner(_ context.Context, owner string) ([]domain.SessionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.SessionSummary{}
	for _, s := range f.sessions {
		if s.Owner == owner {
			out = append(out, domain.SessionSummary{
				ID:              s.ID,
				Owner:           s.Owner,
				CatalogID:       s.CatalogID,
				SubmissionCount: len(s.Submissions),
				CreatedAt:       s.CreatedAt,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSessionRepo) putSubmission(sessionID string, sub domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	s, ok := f.sessions[sessionID]
	if !ok {
		return pgx.ErrNoRows
	}
	s.Submissions[sub.Key] = sub
	return nil
}

// fakeSubmissionStore escribe en los fakes de historial y sesion como una
// unidad: si falla una parte no queda nada escrito.
type fakeSubmissionStore struct {
	answers  *fakeAnswerRepo
	sessions *fakeSessionRepo
	err      error
	saves    int
}

func (f *fakeSubmissionStore) Save(_ context.Context, sub domain.Submission, scores pgvector.Vector, sessionID string) error {
	f.saves++
	if f.err != nil {
		return f.err
	}
	f.answers.mu.Lock()
	historyErr := f.answers.err
	f.answers.mu.Unlock()
	if historyErr != nil {
		return historyErr
	}
	if sessionID != "" {
		if err := f.sessions.putSubmission(sessionID, sub); err != nil {
			return err
		}
	}
	return f.answers.add(sub, scores)
}

type recordingNotifier struct {
	SessionNotifier
	mu        sync.Mutex
	published []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{SessionNotifier: NewMemorySessionNotifier()}
}

func (r *recordingNotifier) Publish(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	r.published = append(r.published, sessionID)
	r.mu.Unlock()
	return r.SessionNotifier.Publish(ctx, sessionID)
}

type countingMetrics struct {
	mu           sync.Mutex
	submissions  map[string]int
	participants []int
}

func (m *countingMetrics) IncSubmissions(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submissions == nil {
		m.submissions = map[string]int{}
	}
	m.submissions[kind]++
}

func (m *countingMetrics) ObserveParticipants(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants = append(m.participants, n)
}

func sportCatalog() domain.Catalog {
	return domain.Catalog{
		ID:           "sport",
		Measurements: []domain.Measurement{"Strength", "Endurance"},
		Questions: []domain.Question{
			{ID: "q1", Text: "Push-ups?", Answers: []domain.AnswerOption{
				{ID: "q1-low", Text: "Few", Measurement: "Strength", Value: 1},
				{ID: "q1-high", Text: "Many", Measurement: "Strength", Value: 3},
			}},
			{ID: "q2", Text: "Pull-ups?", Answers: []domain.AnswerOption{
				{ID: "q2-low", Text: "None", Measurement: "Strength", Value: 0},
				{ID: "q2-high", Text: "Ten", Measurement: "Strength", Value: 4},
			}},
			{ID: "q3", Text: "Running?", Answers: []domain.AnswerOption{
				{ID: "q3-low", Text: "Rarely", Measurement: "Endurance", Value: 2},
				{ID: "q3-high", Text: "Daily", Measurement: "Endurance", Value: 4},
			}},
		},
	}
}

func pgvectorOf(values ...float32) pgvector.Vector {
	return pgvector.NewVector(values)
}
