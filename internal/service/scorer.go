package service

import (
	"math"
	"strings"

	"career-pilot/internal/domain"
	"career-pilot/internal/market"
)

// Scorer calcula los scores base de las cinco dimensiones a partir del
// perfil unificado mas direccion de carrera y años de experiencia. Todas las
// funciones son puras y cada salida queda recortada a [0,100] sin importar
// el desborde intermedio.
type Scorer struct {
	Profile     domain.UnifiedProfile
	JobCategory string
	Years       int
}

// NewScorer normaliza direccion vacia a "other" y años negativos a cero.
func NewScorer(profile domain.UnifiedProfile, jobCategory string, years int) Scorer {
	if jobCategory == "" {
		jobCategory = "other"
	}
	if years < 0 {
		years = 0
	}
	return Scorer{Profile: profile, JobCategory: jobCategory, Years: years}
}

// Skills modernos / de alta demanda usados por el score de potencial.
var modernSkills = map[string]struct{}{
	"ai/ml": {}, "llm": {}, "machine learning": {}, "deep learning": {},
	"typescript": {}, "rust": {}, "go": {}, "kubernetes": {}, "next.js": {},
	"react": {}, "flutter": {}, "aws": {}, "cloud": {}, "devops": {}, "figma": {},
	"product design": {}, "data analysis": {}, "growth hacking": {},
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ScoreExpertise: amplitud y demanda de skills 30%, profundidad de
// experiencia/proyectos 30%, años 20% (satura a 15), certificaciones 20%.
func (s Scorer) ScoreExpertise() float64 {
	p := s.Profile

	var skillScore float64
	if len(p.Skills) > 0 {
		var demandSum float64
		for _, skill := range p.Skills {
			demandSum += float64(market.GetSkillDemand(s.JobCategory, skill))
		}
		avgDemand := demandSum / float64(len(p.Skills))
		// 10 skills marcan el tope del sub-score de cantidad.
		skillScore = math.Min(float64(len(p.Skills))/10, 1.0)*50 + (avgDemand/10)*50
	}

	depthScore := math.Min(float64(p.ExperienceCount*15+p.ProjectCount*10), 100)
	yearsScore := math.Min(float64(s.Years)/15*100, 100)
	certScore := math.Min(float64(p.CertificationCount*25), 100)

	total := skillScore*0.30 + depthScore*0.30 + yearsScore*0.20 + certScore*0.20
	return round1(clamp(total, 0, 100))
}

// ScoreInfluence: followers 30% (satura a 1000), posts 25% (a 50),
// open source 25% (repos a 30 + stars a 100, mitad cada uno),
// recomendaciones 20% (a 5).
func (s Scorer) ScoreInfluence() float64 {
	p := s.Profile

	followerScore := math.Min(float64(p.Followers)/1000*100, 100)
	postScore := math.Min(float64(p.PostCount)/50*100, 100)
	repoScore := math.Min(float64(p.PublicRepos)/30*50, 50)
	starScore := math.Min(float64(p.Stars)/100*50, 50)
	recScore := math.Min(float64(p.RecommendationCount)/5*100, 100)

	total := followerScore*0.30 + postScore*0.25 + (repoScore+starScore)*0.25 + recScore*0.20
	return round1(clamp(total, 0, 100))
}

// ScoreConsistency: clasificacion de actividad 35%, frecuencia de posteo 30%,
// heuristica de permanencia 20%, series 15%.
func (s Scorer) ScoreConsistency() float64 {
	p := s.Profile

	contrib := strings.ToLower(p.ContributionSummary)
	var activityScore float64
	switch {
	case containsAny(contrib, "daily", "매일", "every day", "active"):
		activityScore = 90
	case containsAny(contrib, "weekly", "주간", "regular", "consistent"):
		activityScore = 70
	case containsAny(contrib, "monthly", "월간"):
		activityScore = 50
	case strings.TrimSpace(contrib) != "":
		activityScore = 40
	case p.PublicRepos > 0:
		activityScore = 10
	}

	freq := strings.ToLower(p.PostingFrequency)
	var postingScore float64
	switch {
	case containsAny(freq, "weekly", "주간", "매주"):
		postingScore = 85
	case containsAny(freq, "bi-weekly", "격주", "2주"):
		postingScore = 70
	case containsAny(freq, "monthly", "월간", "매월"):
		postingScore = 55
	case p.RecentPostCount >= 5:
		postingScore = 50
	case p.RecentPostCount > 0:
		postingScore = 30
	}

	// Pocos cambios de empresa con mas años modelan baja rotacion.
	var tenureScore float64
	switch {
	case s.Years >= 5 && p.ExperienceCount <= 3:
		tenureScore = 80
	case s.Years >= 3:
		tenureScore = 60
	case s.Years >= 1:
		tenureScore = 40
	default:
		tenureScore = 20
	}

	seriesScore := math.Min(float64(p.SeriesCount*20), 100)

	total := activityScore*0.35 + postingScore*0.30 + tenureScore*0.20 + seriesScore*0.15
	return round1(clamp(total, 0, 100))
}

// ScoreMarketability: demanda media de skills 50%, proporcion de skills de
// alta demanda 30%, diversidad de plataformas 20% (satura a 4). Sin skills
// cae a 30 + 2×años: la ausencia de datos es señal debil, no descalificacion.
func (s Scorer) ScoreMarketability() float64 {
	p := s.Profile

	if len(p.Skills) == 0 {
		return round1(clamp(30+float64(s.Years)*2, 0, 100))
	}

	var demandSum float64
	highDemand := 0
	for _, skill := range p.Skills {
		d := market.GetSkillDemand(s.JobCategory, skill)
		demandSum += float64(d)
		if d >= 8 {
			highDemand++
		}
	}
	avgDemand := demandSum / float64(len(p.Skills))

	demandScore := (avgDemand / 10) * 100
	highDemandScore := float64(highDemand) / float64(len(p.Skills)) * 100
	platformScore := math.Min(float64(len(p.PlatformsUsed))/4*100, 100)

	total := demandScore*0.50 + highDemandScore*0.30 + platformScore*0.20
	return round1(clamp(total, 0, 100))
}

// ScorePotential: proporcion de skills modernos 35% (50% de cobertura marca
// el tope), actividad reciente 30%, educacion/certificaciones 20%, calidad
// de datos 15%.
func (s Scorer) ScorePotential() float64 {
	p := s.Profile

	modernScore := 20.0
	if len(p.Skills) > 0 {
		modernCount := 0
		for _, skill := range p.Skills {
			if _, ok := modernSkills[strings.ToLower(skill)]; ok {
				modernCount++
			}
		}
		ratio := float64(modernCount) / float64(len(p.Skills))
		modernScore = math.Min(ratio*200, 100)
	}

	var trendScore float64
	switch {
	case p.RecentPostCount >= 10:
		trendScore = 90
	case p.RecentPostCount >= 5:
		trendScore = 70
	case p.RecentPostCount >= 2:
		trendScore = 50
	case p.RecentPostCount >= 1:
		trendScore = 30
	default:
		trendScore = 10
	}

	learningScore := math.Min(float64(p.EducationCount*20+p.CertificationCount*25), 100)

	quality := 20.0
	if len(p.DataQualities) > 0 {
		qualityMap := map[string]float64{
			domain.DataQualityHigh:   100,
			domain.DataQualityMedium: 60,
			domain.DataQualityLow:    30,
		}
		var sum float64
		for _, q := range p.DataQualities {
			v, ok := qualityMap[q]
			if !ok {
				v = 30
			}
			sum += v
		}
		quality = sum / float64(len(p.DataQualities))
	}

	total := modernScore*0.35 + trendScore*0.30 + learningScore*0.20 + quality*0.15
	return round1(clamp(total, 0, 100))
}

// CalculateAll computa las cinco dimensiones, el total con pesos fijos y la
// precision del analisis derivada de la calidad de los datos. Con cero
// fuentes la precision queda fija en 30.0.
func (s Scorer) CalculateAll() domain.ScoreSet {
	set := domain.ScoreSet{
		Expertise:     s.ScoreExpertise(),
		Influence:     s.ScoreInfluence(),
		Consistency:   s.ScoreConsistency(),
		Marketability: s.ScoreMarketability(),
		Potential:     s.ScorePotential(),
	}

	var total float64
	for _, dim := range domain.Dimensions {
		total += set.Get(dim) * domain.DimensionWeights[dim]
	}
	set.Total = round1(total)

	if len(s.Profile.DataQualities) > 0 {
		qualityMap := map[string]float64{
			domain.DataQualityHigh:   90,
			domain.DataQualityMedium: 65,
			domain.DataQualityLow:    40,
		}
		var sum float64
		for _, q := range s.Profile.DataQualities {
			v, ok := qualityMap[q]
			if !ok {
				v = 40
			}
			sum += v
		}
		accuracy := sum / float64(len(s.Profile.DataQualities))
		bonus := math.Min(float64(s.Profile.SourceCount*3), 10)
		set.AnalysisAccuracy = round1(math.Min(accuracy+bonus, 100))
	} else {
		set.AnalysisAccuracy = 30.0
	}

	return set
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
