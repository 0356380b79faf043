package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/ingest"
	"career-pilot/internal/llm"
	"career-pilot/internal/repository"
)

type mockUserRepo struct {
	users map[string]domain.User
}

func (m *mockUserRepo) Create(_ context.Context, u domain.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, u domain.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

type mockSourceRepo struct {
	sources map[string]*domain.DataSource
	// historial de transiciones por fuente, en orden
	transitions map[string][]string
}

func newMockSourceRepo() *mockSourceRepo {
	return &mockSourceRepo{
		sources:     make(map[string]*domain.DataSource),
		transitions: make(map[string][]string),
	}
}

func (m *mockSourceRepo) Create(_ context.Context, s domain.DataSource) error {
	copied := s
	m.sources[s.ID] = &copied
	return nil
}

func (m *mockSourceRepo) GetByID(_ context.Context, id string) (domain.DataSource, error) {
	s, ok := m.sources[id]
	if !ok {
		return domain.DataSource{}, repository.ErrNotFound
	}
	return *s, nil
}

func (m *mockSourceRepo) GetByIDForUser(ctx context.Context, id, userID string) (domain.DataSource, error) {
	s, err := m.GetByID(ctx, id)
	if err != nil || s.UserID != userID {
		return domain.DataSource{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *mockSourceRepo) ListByUser(_ context.Context, userID string) ([]domain.DataSource, error) {
	var out []domain.DataSource
	for _, s := range m.sources {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSourceRepo) ListByUserAndStatus(_ context.Context, userID, status string) ([]domain.DataSource, error) {
	var out []domain.DataSource
	for _, s := range m.sources {
		if s.UserID == userID && s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSourceRepo) ListCompletedWithData(_ context.Context, userID string) ([]domain.DataSource, error) {
	var out []domain.DataSource
	for _, s := range m.sources {
		if s.UserID == userID && s.Status == domain.SourceStatusCompleted && s.ParsedData != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSourceRepo) ListStale(_ context.Context, olderThan time.Time) ([]domain.DataSource, error) {
	var out []domain.DataSource
	for _, s := range m.sources {
		if s.LastScrapedAt != nil && s.LastScrapedAt.Before(olderThan) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSourceRepo) UpdateStatus(_ context.Context, id, status, errorMessage string) error {
	s, ok := m.sources[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	s.ErrorMessage = errorMessage
	m.transitions[id] = append(m.transitions[id], status)
	return nil
}

func (m *mockSourceRepo) SaveScraped(_ context.Context, id, html string) error {
	s, ok := m.sources[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.ScrapedHTML = html
	return nil
}

func (m *mockSourceRepo) SaveParsed(_ context.Context, id string, record *domain.ParsedSourceRecord, scrapedAt time.Time) error {
	s, ok := m.sources[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.ParsedData = record
	s.Status = domain.SourceStatusCompleted
	s.LastScrapedAt = &scrapedAt
	s.ErrorMessage = ""
	m.transitions[id] = append(m.transitions[id], domain.SourceStatusCompleted)
	return nil
}

func (m *mockSourceRepo) SetConfirmed(_ context.Context, id string, confirmed bool) error {
	s, ok := m.sources[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsConfirmed = confirmed
	return nil
}

func (m *mockSourceRepo) Delete(_ context.Context, id string) error {
	delete(m.sources, id)
	return nil
}

type mockScoreRepo struct {
	scores  []domain.CareerScore
	history []domain.ScoreHistoryEntry
	err     error
}

func (m *mockScoreRepo) CreateWithHistory(_ context.Context, score domain.CareerScore, entry domain.ScoreHistoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.scores = append(m.scores, score)
	m.history = append(m.history, entry)
	return nil
}

func (m *mockScoreRepo) LatestByUser(_ context.Context, userID string) (domain.CareerScore, error) {
	for i := len(m.scores) - 1; i >= 0; i-- {
		if m.scores[i].UserID == userID {
			return m.scores[i], nil
		}
	}
	return domain.CareerScore{}, repository.ErrNotFound
}

func (m *mockScoreRepo) GetByIDForUser(_ context.Context, id, userID string) (domain.CareerScore, error) {
	for _, s := range m.scores {
		if s.ID == id && s.UserID == userID {
			return s, nil
		}
	}
	return domain.CareerScore{}, repository.ErrNotFound
}

func (m *mockScoreRepo) HistoryByUser(_ context.Context, userID string, _ int) ([]domain.ScoreHistoryEntry, error) {
	var out []domain.ScoreHistoryEntry
	for _, h := range m.history {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockScoreRepo) CategoryAverage(context.Context, string) (float64, int, error) {
	return 50, len(m.scores), nil
}

type mockFetcher struct {
	result ingest.FetchResult
	err    error
}

func (m *mockFetcher) Fetch(context.Context, string) (ingest.FetchResult, error) {
	return m.result, m.err
}

func newTestPipeline(
	users *mockUserRepo,
	sources *mockSourceRepo,
	scores *mockScoreRepo,
	fetcher ingest.Fetcher,
	client llm.Client,
	actionRepo repository.ActionRepository,
) *AnalysisPipeline {
	logger := zap.NewNop()
	parser := ingest.NewParser(client, logger)
	calibration := NewCalibrationService(client, logger)
	actions := NewActionService(client, actionRepo, logger)
	return NewAnalysisPipeline(users, sources, scores, fetcher, parser, calibration, actions, logger)
}

func seedUser() *mockUserRepo {
	return &mockUserRepo{users: map[string]domain.User{
		"u1": {ID: "u1", Email: "dev@example.com", JobCategory: "dev", YearsOfExp: 4},
	}}
}

func TestProcessSource_HappyPathReachesCompleted(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), domain.DataSource{
		ID: "src1", UserID: "u1", Platform: domain.PlatformGitHub,
		SourceURL: "https://github.com/dev", Status: domain.SourceStatusPending,
	})

	client := &llm.MockClient{Response: `{"platform": "github", "followers": 10, "data_quality": "medium"}`}
	fetcher := &mockFetcher{result: ingest.FetchResult{RawHTML: "<html>x</html>", CleanedText: "profile text"}}

	p := newTestPipeline(seedUser(), sources, &mockScoreRepo{}, fetcher, client, &mockActionRepo{})
	if err := p.ProcessSource(context.Background(), "src1"); err != nil {
		t.Fatalf("process: %v", err)
	}

	got := sources.sources["src1"]
	if got.Status != domain.SourceStatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.ParsedData == nil || got.ParsedData.Followers.Int() != 10 {
		t.Fatalf("parsed data lost: %+v", got.ParsedData)
	}
	if got.LastScrapedAt == nil || got.ErrorMessage != "" {
		t.Fatalf("completion bookkeeping wrong: %+v", got)
	}

	wantOrder := []string{
		domain.SourceStatusScraping,
		domain.SourceStatusParsing,
		domain.SourceStatusCompleted,
	}
	trans := sources.transitions["src1"]
	if len(trans) != len(wantOrder) {
		t.Fatalf("transitions = %v", trans)
	}
	for i, want := range wantOrder {
		if trans[i] != want {
			t.Fatalf("transition %d = %s, want %s", i, trans[i], want)
		}
	}
}

func TestProcessSource_ScrapeFailureMarksFailed(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), domain.DataSource{
		ID: "src1", UserID: "u1", Status: domain.SourceStatusPending, SourceURL: "https://example.com",
	})

	fetcher := &mockFetcher{err: errors.New("connection refused")}
	p := newTestPipeline(seedUser(), sources, &mockScoreRepo{}, fetcher, &llm.MockClient{}, &mockActionRepo{})

	if err := p.ProcessSource(context.Background(), "src1"); err != nil {
		t.Fatalf("failed source is not a pipeline error: %v", err)
	}

	got := sources.sources["src1"]
	if got.Status != domain.SourceStatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.ErrorMessage == "" {
		t.Fatalf("expected error message on failed source")
	}
}

func TestProcessSource_DegradedParserStillCompletes(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), domain.DataSource{
		ID: "src1", UserID: "u1", Platform: domain.PlatformVelog,
		SourceURL: "https://velog.io/@dev", Status: domain.SourceStatusPending,
	})

	// Sin API key el parser degrada a un stub en vez de fallar la fuente.
	client := &llm.MockClient{Err: llm.ErrNotConfigured}
	fetcher := &mockFetcher{result: ingest.FetchResult{CleanedText: "blog text"}}
	p := newTestPipeline(seedUser(), sources, &mockScoreRepo{}, fetcher, client, &mockActionRepo{})

	if err := p.ProcessSource(context.Background(), "src1"); err != nil {
		t.Fatalf("process: %v", err)
	}

	got := sources.sources["src1"]
	if got.Status != domain.SourceStatusCompleted {
		t.Fatalf("degraded parse should complete, got %s", got.Status)
	}
	if got.ParsedData == nil || !got.ParsedData.Degraded {
		t.Fatalf("expected degraded stub record: %+v", got.ParsedData)
	}
	if got.ParsedData.DataQuality != domain.DataQualityLow {
		t.Fatalf("degraded record quality = %s, want low", got.ParsedData.DataQuality)
	}
}

func TestProcessSource_UnusablePayloadFails(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), domain.DataSource{
		ID: "src1", UserID: "u1", Platform: domain.PlatformGitHub,
		SourceURL: "https://github.com/dev", Status: domain.SourceStatusPending,
	})

	client := &llm.MockClient{Response: "sorry, no structured data here"}
	fetcher := &mockFetcher{result: ingest.FetchResult{CleanedText: "text"}}
	p := newTestPipeline(seedUser(), sources, &mockScoreRepo{}, fetcher, client, &mockActionRepo{})

	if err := p.ProcessSource(context.Background(), "src1"); err != nil {
		t.Fatalf("process: %v", err)
	}

	if got := sources.sources["src1"]; got.Status != domain.SourceStatusFailed {
		t.Fatalf("unusable payload should fail the source, got %s", got.Status)
	}
}

func TestRunScoring_NoDataRefused(t *testing.T) {
	p := newTestPipeline(seedUser(), newMockSourceRepo(), &mockScoreRepo{}, &mockFetcher{}, &llm.MockClient{}, &mockActionRepo{})

	if _, err := p.RunScoring(context.Background(), "u1"); !errors.Is(err, ErrNoScorableData) {
		t.Fatalf("expected ErrNoScorableData, got %v", err)
	}
}

func completedSource(id string) domain.DataSource {
	return domain.DataSource{
		ID: id, UserID: "u1", Platform: domain.PlatformGitHub,
		Status: domain.SourceStatusCompleted,
		ParsedData: &domain.ParsedSourceRecord{
			Platform:    domain.PlatformGitHub,
			DataQuality: domain.DataQualityMedium,
			Skills:      []string{"Go", "Python"},
			Followers:   200,
			PublicRepos: 12,
		},
	}
}

func TestRunScoring_PersistsSnapshotWithHistory(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), completedSource("src1"))

	scores := &mockScoreRepo{}
	actionRepo := &mockActionRepo{}
	client := &llm.MockClient{Err: llm.ErrNotConfigured}
	p := newTestPipeline(seedUser(), sources, scores, &mockFetcher{}, client, actionRepo)

	score, err := p.RunScoring(context.Background(), "u1")
	if err != nil {
		t.Fatalf("run scoring: %v", err)
	}

	if len(scores.scores) != 1 || len(scores.history) != 1 {
		t.Fatalf("expected one snapshot + one history entry, got %d/%d", len(scores.scores), len(scores.history))
	}
	entry := scores.history[0]
	if entry.ScoreID != score.ID || entry.UserID != "u1" {
		t.Fatalf("history not linked: %+v", entry)
	}
	if entry.Snapshot.Total != score.Scores.Total {
		t.Fatalf("snapshot total mismatch")
	}
	if entry.Snapshot.SalaryMin != score.EstimatedSalaryMin || entry.Snapshot.SalaryMax != score.EstimatedSalaryMax {
		t.Fatalf("snapshot salary mismatch")
	}
	if score.EstimatedSalaryMin <= 0 || score.EstimatedSalaryMax < score.EstimatedSalaryMin {
		t.Fatalf("invalid salary band (%d,%d)", score.EstimatedSalaryMin, score.EstimatedSalaryMax)
	}
	if score.AIInsights.BaseScores.Total == 0 {
		t.Fatalf("insights must carry base scores")
	}
	if len(actionRepo.saved) == 0 {
		t.Fatalf("expected action recommendations for the new score")
	}
}

func TestRunScoring_HistoryIsAppendOnly(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), completedSource("src1"))

	scores := &mockScoreRepo{}
	client := &llm.MockClient{Err: llm.ErrNotConfigured}
	p := newTestPipeline(seedUser(), sources, scores, &mockFetcher{}, client, &mockActionRepo{})

	first, err := p.RunScoring(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := p.RunScoring(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("each run must produce a fresh snapshot")
	}
	if len(scores.history) != 2 {
		t.Fatalf("history entries = %d, want 2", len(scores.history))
	}
}

func TestRunScoring_ActionFailureDoesNotInvalidateScore(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), completedSource("src1"))

	scores := &mockScoreRepo{}
	client := &llm.MockClient{Err: llm.ErrNotConfigured}
	actionRepo := &mockActionRepo{err: errors.New("db down")}
	p := newTestPipeline(seedUser(), sources, scores, &mockFetcher{}, client, actionRepo)

	score, err := p.RunScoring(context.Background(), "u1")
	if err != nil {
		t.Fatalf("action failure must not fail the run: %v", err)
	}
	if score == nil || len(scores.scores) != 1 {
		t.Fatalf("snapshot should persist despite action failure")
	}
}

func TestRescan_OnlyTerminalSources(t *testing.T) {
	sources := newMockSourceRepo()
	sources.Create(context.Background(), domain.DataSource{ID: "done", UserID: "u1", Status: domain.SourceStatusCompleted})
	sources.Create(context.Background(), domain.DataSource{ID: "busy", UserID: "u1", Status: domain.SourceStatusParsing})

	p := newTestPipeline(seedUser(), sources, &mockScoreRepo{}, &mockFetcher{}, &llm.MockClient{}, &mockActionRepo{})

	if err := p.Rescan(context.Background(), "done"); err != nil {
		t.Fatalf("rescan terminal source: %v", err)
	}
	if sources.sources["done"].Status != domain.SourceStatusPending {
		t.Fatalf("rescan should reset to pending")
	}

	if err := p.Rescan(context.Background(), "busy"); err == nil {
		t.Fatalf("in-flight source must not be rescanned")
	}
}
