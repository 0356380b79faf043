package domain

import "time"

// Las cinco dimensiones evaluadas.
const (
	DimensionExpertise     = "expertise"
	DimensionInfluence     = "influence"
	DimensionConsistency   = "consistency"
	DimensionMarketability = "marketability"
	DimensionPotential     = "potential"
)

// Dimensions lista las dimensiones en el orden canonico de reporte.
var Dimensions = []string{
	DimensionExpertise,
	DimensionInfluence,
	DimensionConsistency,
	DimensionMarketability,
	DimensionPotential,
}

// DimensionWeights son los pesos fijos del score total; suman 1.0.
var DimensionWeights = map[string]float64{
	DimensionExpertise:     0.25,
	DimensionInfluence:     0.20,
	DimensionConsistency:   0.20,
	DimensionMarketability: 0.20,
	DimensionPotential:     0.15,
}

// IsValidDimension valida el enum de dimensiones.
func IsValidDimension(d string) bool {
	_, ok := DimensionWeights[d]
	return ok
}

// ScoreSet agrupa las cinco dimensiones mas el total ponderado y la
// precision estimada del analisis. Todos los valores viven en [0,100].
type ScoreSet struct {
	Expertise        float64 `json:"expertise"`
	Influence        float64 `json:"influence"`
	Consistency      float64 `json:"consistency"`
	Marketability    float64 `json:"marketability"`
	Potential        float64 `json:"potential"`
	Total            float64 `json:"total"`
	AnalysisAccuracy float64 `json:"analysis_accuracy"`
}

// Get devuelve el valor de una dimension por nombre.
func (s ScoreSet) Get(dimension string) float64 {
	switch dimension {
	case DimensionExpertise:
		return s.Expertise
	case DimensionInfluence:
		return s.Influence
	case DimensionConsistency:
		return s.Consistency
	case DimensionMarketability:
		return s.Marketability
	case DimensionPotential:
		return s.Potential
	}
	return 0
}

// Set asigna el valor de una dimension por nombre.
func (s *ScoreSet) Set(dimension string, value float64) {
	switch dimension {
	case DimensionExpertise:
		s.Expertise = value
	case DimensionInfluence:
		s.Influence = value
	case DimensionConsistency:
		s.Consistency = value
	case DimensionMarketability:
		s.Marketability = value
	case DimensionPotential:
		s.Potential = value
	}
}

// CareerScore es el snapshot inmutable de una corrida de scoring completa.
// Nunca se actualiza en sitio: cada corrida agrega uno nuevo.
type CareerScore struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	Scores             ScoreSet      `json:"scores"`
	EstimatedSalaryMin int           `json:"estimated_salary_min"`
	EstimatedSalaryMax int           `json:"estimated_salary_max"`
	AIInsights         ScoreInsights `json:"ai_insights"`
	ScoredAt           time.Time     `json:"scored_at"`
	CreatedAt          time.Time     `json:"created_at"`
}

// ScoreHistoryEntry es la copia desnormalizada append-only de los campos
// numericos de un snapshot, para consultas de tendencia.
type ScoreHistoryEntry struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	ScoreID   string        `json:"score_id"`
	Snapshot  ScoreSnapshot `json:"snapshot"`
	CreatedAt time.Time     `json:"created_at"`
}

// ScoreSnapshot son los numeros que ScoreHistoryEntry congela por corrida.
type ScoreSnapshot struct {
	ScoreSet
	SalaryMin int `json:"salary_min"`
	SalaryMax int `json:"salary_max"`
}
