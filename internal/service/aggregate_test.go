package service

import (
	"reflect"
	"testing"

	"career-pilot/internal/domain"
)

func TestBuildUnifiedProfile_Empty(t *testing.T) {
	p := BuildUnifiedProfile(nil)
	if !p.IsEmpty() {
		t.Fatalf("expected empty profile, got %+v", p)
	}
	if p.SourceCount != 0 || len(p.DataQualities) != 0 {
		t.Fatalf("expected zero sources, got %+v", p)
	}
}

func TestBuildUnifiedProfile_MergesSkillsWithoutDuplicates(t *testing.T) {
	records := []*domain.ParsedSourceRecord{
		{
			Platform:    domain.PlatformLinkedIn,
			DataQuality: domain.DataQualityHigh,
			Skills:      []string{"Python", "Django"},
		},
		{
			Platform:     domain.PlatformGitHub,
			DataQuality:  domain.DataQualityMedium,
			Skills:       []string{"Python"},
			TopLanguages: []string{"Go", "Python"},
		},
	}

	p := BuildUnifiedProfile(records)

	want := []string{"Python", "Django", "Go"}
	if !reflect.DeepEqual(p.Skills, want) {
		t.Fatalf("skills = %v, want %v", p.Skills, want)
	}
	if !reflect.DeepEqual(p.TopLanguages, []string{"Go", "Python"}) {
		t.Fatalf("top languages = %v", p.TopLanguages)
	}
	if p.SourceCount != 2 {
		t.Fatalf("source count = %d, want 2", p.SourceCount)
	}
}

func TestBuildUnifiedProfile_AdditiveCounts(t *testing.T) {
	records := []*domain.ParsedSourceRecord{
		{
			Platform:    domain.PlatformLinkedIn,
			DataQuality: domain.DataQualityHigh,
			Experience: []domain.ExperienceItem{
				{Title: "Backend Engineer", Company: "A"},
				{Title: "Engineer", Company: "B"},
			},
			Certifications:      []string{"AWS SAA"},
			RecommendationCount: 3,
		},
		{
			Platform:    domain.PlatformGitHub,
			DataQuality: domain.DataQualityMedium,
			Followers:   120,
			PublicRepos: 14,
			PinnedRepos: []domain.RepoItem{
				{Name: "svc", Stars: 40},
				{Name: "lib", Stars: 15},
			},
		},
		{
			Platform:    domain.PlatformVelog,
			DataQuality: domain.DataQualityMedium,
			TotalPosts:  32,
			RecentPosts: []domain.PostItem{{Title: "a"}, {Title: "b"}, {Title: "c"}},
			Series:      []string{"go-basics"},
		},
	}

	p := BuildUnifiedProfile(records)

	if p.ExperienceCount != 2 || p.CertificationCount != 1 || p.RecommendationCount != 3 {
		t.Fatalf("linkedin counts wrong: %+v", p)
	}
	if p.Followers != 120 || p.PublicRepos != 14 || p.Stars != 55 {
		t.Fatalf("github counts wrong: %+v", p)
	}
	if p.PostCount != 32 || p.RecentPostCount != 3 || p.SeriesCount != 1 {
		t.Fatalf("blog counts wrong: %+v", p)
	}
	if p.ProjectCount != 2 {
		t.Fatalf("pinned repos should count as projects, got %d", p.ProjectCount)
	}
	if len(p.PlatformsUsed) != 3 {
		t.Fatalf("platforms = %v", p.PlatformsUsed)
	}
}

func TestBuildUnifiedProfile_QuantMetricsAndDefaults(t *testing.T) {
	records := []*domain.ParsedSourceRecord{
		{
			// plataforma y calidad ausentes
			QuantitativeMetrics: &domain.QuantMetrics{Followers: 50, PostCount: 7},
		},
		nil,
	}

	p := BuildUnifiedProfile(records)

	if p.SourceCount != 1 {
		t.Fatalf("nil records must not count, got %d", p.SourceCount)
	}
	if p.Followers != 50 || p.PostCount != 7 {
		t.Fatalf("quantitative metrics not folded in: %+v", p)
	}
	if len(p.PlatformsUsed) != 1 || p.PlatformsUsed[0] != domain.PlatformOther {
		t.Fatalf("empty platform should default to other, got %v", p.PlatformsUsed)
	}
	if len(p.DataQualities) != 1 || p.DataQualities[0] != domain.DataQualityLow {
		t.Fatalf("empty quality should default to low, got %v", p.DataQualities)
	}
}
