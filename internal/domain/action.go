package domain

import "time"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	StrategyWeakness = "weakness"
	StrategyStrength = "strength"
)

// IsValidDifficulty valida el enum de dificultad.
func IsValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// ActionRecommendation es una accion de mejora ligada al snapshot que la
// genero. Los toggles de completado/bookmark mutan despues, pero el vinculo
// score_id no cambia nunca.
type ActionRecommendation struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	ScoreID           string     `json:"score_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	ImpactPercent     int        `json:"impact_percent"`
	TargetArea        string     `json:"target_area"`
	Difficulty        string     `json:"difficulty"`
	EstimatedDuration string     `json:"estimated_duration,omitempty"`
	Tags              []string   `json:"tags"`
	CTALabel          string     `json:"cta_label,omitempty"`
	CTAUrl            string     `json:"cta_url,omitempty"`
	Strategy          string     `json:"strategy,omitempty"`
	IsCompleted       bool       `json:"is_completed"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	IsBookmarked      bool       `json:"is_bookmarked"`
	CreatedAt         time.Time  `json:"created_at"`
}
