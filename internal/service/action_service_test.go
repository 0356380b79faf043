package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/llm"
	"career-pilot/internal/repository"
)

type mockActionRepo struct {
	saved []domain.ActionRecommendation
	err   error
}

func (m *mockActionRepo) CreateBatch(_ context.Context, actions []domain.ActionRecommendation) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, actions...)
	return nil
}

func (m *mockActionRepo) ListByUser(context.Context, string, repository.ActionFilter) ([]domain.ActionRecommendation, error) {
	return m.saved, nil
}

func (m *mockActionRepo) GetByIDForUser(context.Context, string, string) (domain.ActionRecommendation, error) {
	return domain.ActionRecommendation{}, repository.ErrNotFound
}

func (m *mockActionRepo) SetCompleted(context.Context, string, bool, *time.Time) error { return nil }
func (m *mockActionRepo) SetBookmarked(context.Context, string, bool) error            { return nil }

func actionFixtures() (*domain.User, *domain.CareerScore) {
	user := &domain.User{ID: "u1", JobCategory: "dev", YearsOfExp: 4}
	score := &domain.CareerScore{
		ID:     "s1",
		UserID: "u1",
		Scores: domain.ScoreSet{Expertise: 70, Influence: 40, Consistency: 55, Marketability: 60, Potential: 65, Total: 58.5},
		AIInsights: domain.ScoreInsights{
			InsightBundle: domain.InsightBundle{
				OverallSummary: "요약",
				Strengths:      []string{"백엔드 전문성"},
				Weaknesses:     []string{"낮은 영향력"},
			},
		},
		ScoredAt: time.Now().UTC(),
	}
	return user, score
}

func TestGenerateForScore_ValidatesAndPersists(t *testing.T) {
	mock := &llm.MockClient{Response: `{"actions": [
		{"title": "컨퍼런스 발표", "impact_percent": 99, "target_area": "influence", "difficulty": "hard", "strategy": "weakness"},
		{"title": "", "impact_percent": "7", "target_area": "invalid-area", "difficulty": "impossible"}
	]}`}
	repo := &mockActionRepo{}
	svc := NewActionService(mock, repo, zap.NewNop())
	user, score := actionFixtures()

	actions, err := svc.GenerateForScore(context.Background(), user, score, []string{"Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(actions) != 2 || len(repo.saved) != 2 {
		t.Fatalf("expected 2 persisted actions, got %d/%d", len(actions), len(repo.saved))
	}

	first := actions[0]
	if first.ImpactPercent != 15 {
		t.Errorf("impact = %d, want clamp to 15", first.ImpactPercent)
	}
	if first.ScoreID != "s1" || first.UserID != "u1" {
		t.Errorf("action not linked to snapshot: %+v", first)
	}
	if first.ID == "" {
		t.Errorf("missing generated id")
	}

	second := actions[1]
	if second.TargetArea != domain.DimensionExpertise {
		t.Errorf("invalid area should default to expertise, got %s", second.TargetArea)
	}
	if second.Difficulty != domain.DifficultyMedium {
		t.Errorf("invalid difficulty should default to medium, got %s", second.Difficulty)
	}
	if second.ImpactPercent != 7 {
		t.Errorf("string impact lost: %d", second.ImpactPercent)
	}
	if second.Title == "" {
		t.Errorf("empty title should get placeholder")
	}
}

func TestGenerateForScore_DefaultsOnLLMFailure(t *testing.T) {
	mock := &llm.MockClient{Err: llm.ErrNotConfigured}
	repo := &mockActionRepo{}
	svc := NewActionService(mock, repo, zap.NewNop())
	user, score := actionFixtures()

	actions, err := svc.GenerateForScore(context.Background(), user, score, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(actions) != 5 {
		t.Fatalf("default set should have 5 actions, got %d", len(actions))
	}
	for _, a := range actions {
		if !domain.IsValidDimension(a.TargetArea) || !domain.IsValidDifficulty(a.Difficulty) {
			t.Errorf("default action with invalid enums: %+v", a)
		}
		if a.ImpactPercent < 1 || a.ImpactPercent > 15 {
			t.Errorf("default impact out of range: %d", a.ImpactPercent)
		}
		if a.ScoreID != "s1" {
			t.Errorf("default action not linked to score")
		}
	}
}

func TestGenerateForScore_PromptCarriesScoresAndInsights(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("down")}
	svc := NewActionService(mock, &mockActionRepo{}, zap.NewNop())
	user, score := actionFixtures()

	if _, err := svc.GenerateForScore(context.Background(), user, score, []string{"Python", "Go"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, want := range []string{"dev", "백엔드 전문성", "낮은 영향력", "Go, Python"} {
		if !strings.Contains(mock.LastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateForScore_PersistErrorPropagates(t *testing.T) {
	mock := &llm.MockClient{Err: llm.ErrNotConfigured}
	repo := &mockActionRepo{err: errors.New("db down")}
	svc := NewActionService(mock, repo, zap.NewNop())
	user, score := actionFixtures()

	if _, err := svc.GenerateForScore(context.Background(), user, score, nil); err == nil {
		t.Fatalf("expected persistence error")
	}
}
