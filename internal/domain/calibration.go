package domain

// CalibrationResult es la señal cualitativa externa ya validada: ajustes por
// dimension acotados a [-10,10], porcentaje de ajuste salarial en [-15,15] y
// percentil de mercado en [1,99]. Se produce una vez por corrida y no muta.
type CalibrationResult struct {
	Adjustments              map[string]int `json:"adjustments"`
	Insights                 InsightBundle  `json:"insights"`
	SalaryAdjustmentPercent  int            `json:"salary_adjustment_percent"`
	MarketPositionPercentile int            `json:"market_position_percentile"`
}

// InsightBundle es el paquete de texto libre que acompaña la calibracion.
type InsightBundle struct {
	OverallSummary      string   `json:"overall_summary"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	ExpertiseDetail     string   `json:"expertise_detail,omitempty"`
	InfluenceDetail     string   `json:"influence_detail,omitempty"`
	ConsistencyDetail   string   `json:"consistency_detail,omitempty"`
	MarketabilityDetail string   `json:"marketability_detail,omitempty"`
	PotentialDetail     string   `json:"potential_detail,omitempty"`
}

// ScoreInsights es el blob que se persiste junto al snapshot: el bundle de
// insights mas los scores base, los ajustes aplicados y el percentil,
// embebidos tal cual para auditoria.
type ScoreInsights struct {
	InsightBundle
	BaseScores               ScoreSet       `json:"base_scores"`
	Adjustments              map[string]int `json:"adjustments"`
	MarketPositionPercentile int            `json:"market_position_percentile"`
}
