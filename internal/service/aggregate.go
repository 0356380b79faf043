package service

import (
	"strings"

	"career-pilot/internal/domain"
)

// BuildUnifiedProfile fusiona los records parseados de todas las fuentes de
// un usuario en un solo agregado inmutable. Es una funcion pura: cada corrida
// construye un valor fresco, sin estado compartido entre corridas.
//
// Campos desconocidos o ausentes en un record se tratan como ausentes y nunca
// fallan; con cero records devuelve un perfil cero que los scorers puntuan
// en el extremo bajo.
func BuildUnifiedProfile(records []*domain.ParsedSourceRecord) domain.UnifiedProfile {
	var p domain.UnifiedProfile

	skillSet := make(map[string]struct{})
	langSet := make(map[string]struct{})
	platformSet := make(map[string]struct{})

	addSkill := func(s string) {
		if strings.TrimSpace(s) == "" {
			return
		}
		if _, ok := skillSet[s]; ok {
			return
		}
		skillSet[s] = struct{}{}
		p.Skills = append(p.Skills, s)
	}

	for _, src := range records {
		if src == nil {
			continue
		}
		p.SourceCount++

		platform := src.Platform
		if platform == "" {
			platform = domain.PlatformOther
		}
		if _, ok := platformSet[platform]; !ok {
			platformSet[platform] = struct{}{}
			p.PlatformsUsed = append(p.PlatformsUsed, platform)
		}

		dq := src.DataQuality
		if dq == "" {
			dq = domain.DataQualityLow
		}
		p.DataQualities = append(p.DataQualities, dq)

		for _, s := range src.Skills {
			addSkill(s)
		}
		for _, lang := range src.TopLanguages {
			addSkill(lang)
			if _, ok := langSet[lang]; !ok && strings.TrimSpace(lang) != "" {
				langSet[lang] = struct{}{}
				p.TopLanguages = append(p.TopLanguages, lang)
			}
		}

		p.ExperienceCount += len(src.Experience)
		p.EducationCount += len(src.Education)
		p.CertificationCount += len(src.Certifications)
		p.ProjectCount += len(src.Projects) + len(src.PinnedRepos)

		p.Followers += src.Followers.Int()
		p.PublicRepos += src.PublicRepos.Int()
		p.RecommendationCount += src.RecommendationCount.Int()
		p.PostCount += src.TotalPosts.Int()

		for _, repo := range src.PinnedRepos {
			p.Stars += repo.Stars.Int()
		}

		p.RecentPostCount += len(src.RecentPosts)

		if src.ContributionSummary != "" {
			p.ContributionSummary += " " + src.ContributionSummary
		}
		if src.PostingFrequency != "" {
			p.PostingFrequency += " " + src.PostingFrequency
		}

		p.SeriesCount += len(src.Series)

		if qm := src.QuantitativeMetrics; qm != nil {
			p.Followers += qm.Followers.Int()
			p.PostCount += qm.PostCount.Int()
		}
	}

	return p
}
