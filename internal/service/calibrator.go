package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/llm"
)

const calibrationSystemPrompt = `You are a career analysis expert who evaluates professionals across 5 key areas.
You provide calibration adjustments to rule-based scores and generate actionable insights.
Always respond in valid JSON format. Write insights in Korean (한국어).`

const calibrationPromptTemplate = `Based on the following career data, provide score adjustments and insights.

== User Profile ==
직군: %s
경력: %d년

== Collected Data Summary ==
보유 스킬: %s
경력 수: %d개 회사/역할
프로젝트/레포: %d개
블로그 포스팅: %d개
팔로워: %d명
추천서: %d개
자격증: %d개
활용 플랫폼: %s

== Rule-based Scores (0-100) ==
전문성 (Expertise): %.1f
영향력 (Influence): %.1f
지속성 (Consistency): %.1f
시장성 (Marketability): %.1f
성장성 (Potential): %.1f
종합: %.1f

== Detailed Source Data ==
%s

Return JSON with this exact structure:
{
  "adjustments": {
    "expertise": <int between -10 and 10>,
    "influence": <int between -10 and 10>,
    "consistency": <int between -10 and 10>,
    "marketability": <int between -10 and 10>,
    "potential": <int between -10 and 10>
  },
  "insights": {
    "overall_summary": "2-3문장 종합 분석",
    "strengths": ["강점 1", "강점 2", "강점 3"],
    "weaknesses": ["약점 1", "약점 2"],
    "expertise_detail": "전문성 영역 상세 분석 (2문장)",
    "influence_detail": "영향력 영역 상세 분석 (2문장)",
    "consistency_detail": "지속성 영역 상세 분석 (2문장)",
    "marketability_detail": "시장성 영역 상세 분석 (2문장)",
    "potential_detail": "성장성 영역 상세 분석 (2문장)"
  },
  "salary_adjustment_percent": <int between -15 and 15>,
  "market_position_percentile": <int between 1 and 99>
}`

// CalibrationService pide a la capacidad externa de texto una correccion
// cualitativa de los scores base. Nunca falla la corrida: ante cualquier
// problema degrada a un fallback deterministico.
type CalibrationService struct {
	llmClient llm.Client
	logger    *zap.Logger
}

func NewCalibrationService(llmClient llm.Client, logger *zap.Logger) *CalibrationService {
	return &CalibrationService{llmClient: llmClient, logger: logger}
}

// Calibrate construye el prompt acotado, invoca el LLM y devuelve el
// resultado validado campo por campo. La respuesta es señal no confiable:
// cada ajuste se recorta a [-10,10] de forma independiente aunque el payload
// ya declare el rango, y un campo invalido vale 0 sin descartar el resto.
func (s *CalibrationService) Calibrate(
	ctx context.Context,
	records []*domain.ParsedSourceRecord,
	profile domain.UnifiedProfile,
	baseScores domain.ScoreSet,
	jobCategory string,
	years int,
) domain.CalibrationResult {
	prompt := s.buildPrompt(records, profile, baseScores, jobCategory, years)

	raw, err := s.llmClient.Generate(ctx, calibrationSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("calibration degraded to fallback", zap.Error(err))
		return DefaultCalibration(baseScores)
	}

	result, ok := parseCalibrationResponse(raw)
	if !ok {
		s.logger.Warn("calibration response unusable, using fallback")
		return DefaultCalibration(baseScores)
	}
	return result
}

func (s *CalibrationService) buildPrompt(
	records []*domain.ParsedSourceRecord,
	profile domain.UnifiedProfile,
	baseScores domain.ScoreSet,
	jobCategory string,
	years int,
) string {
	skills := append([]string(nil), profile.Skills...)
	sort.Strings(skills)
	if len(skills) > 30 {
		skills = skills[:30]
	}
	skillList := strings.Join(skills, ", ")
	if skillList == "" {
		skillList = "정보 없음"
	}

	platforms := append([]string(nil), profile.PlatformsUsed...)
	sort.Strings(platforms)
	platformList := strings.Join(platforms, ", ")
	if platformList == "" {
		platformList = "없음"
	}

	var detailParts []string
	for _, src := range records {
		if src == nil {
			continue
		}
		blob, err := json.Marshal(src)
		if err != nil {
			continue
		}
		summary := llm.TruncateRunes(string(blob), 1500)
		detailParts = append(detailParts, fmt.Sprintf("[%s] %s", src.Platform, summary))
	}
	details := llm.TruncateRunes(strings.Join(detailParts, "\n\n"), 8000)

	return fmt.Sprintf(calibrationPromptTemplate,
		jobCategory, years,
		skillList,
		profile.ExperienceCount,
		profile.ProjectCount,
		profile.PostCount,
		profile.Followers,
		profile.RecommendationCount,
		profile.CertificationCount,
		platformList,
		baseScores.Expertise,
		baseScores.Influence,
		baseScores.Consistency,
		baseScores.Marketability,
		baseScores.Potential,
		baseScores.Total,
		details,
	)
}

// parseCalibrationResponse valida y recorta el payload del LLM. Devuelve
// false solo cuando no hay JSON usable; un campo invalido no descarta el
// resto de la respuesta.
func parseCalibrationResponse(raw string) (domain.CalibrationResult, bool) {
	candidate := llm.ExtractFirstJSONObject(llm.StripCodeFences(raw))
	if candidate == "" {
		candidate = llm.ExtractFirstJSONObject(raw)
	}
	if candidate == "" {
		return domain.CalibrationResult{}, false
	}

	var payload struct {
		Adjustments map[string]domain.LooseInt `json:"adjustments"`
		Insights    domain.InsightBundle       `json:"insights"`
		SalaryAdj   domain.LooseInt            `json:"salary_adjustment_percent"`
		Percentile  domain.LooseInt            `json:"market_position_percentile"`
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return domain.CalibrationResult{}, false
	}

	adjustments := make(map[string]int, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		adj := payload.Adjustments[dim].Int()
		adjustments[dim] = clampInt(adj, -10, 10)
	}

	percentile := payload.Percentile.Int()
	if percentile < 1 || percentile > 99 {
		percentile = 50
	}

	return domain.CalibrationResult{
		Adjustments:              adjustments,
		Insights:                 payload.Insights,
		SalaryAdjustmentPercent:  clampInt(payload.SalaryAdj.Int(), -15, 15),
		MarketPositionPercentile: percentile,
	}, true
}

// DefaultCalibration es el fallback deterministico cuando la capacidad
// externa no esta disponible o su salida es inutilizable: ajustes en cero,
// percentil por bucket del total y placeholders de insights.
func DefaultCalibration(baseScores domain.ScoreSet) domain.CalibrationResult {
	position := 30
	switch {
	case baseScores.Total >= 70:
		position = 75
	case baseScores.Total >= 50:
		position = 50
	}

	adjustments := make(map[string]int, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		adjustments[dim] = 0
	}

	return domain.CalibrationResult{
		Adjustments: adjustments,
		Insights: domain.InsightBundle{
			OverallSummary:      "데이터를 기반으로 한 기본 분석 결과입니다. AI 분석을 연동하면 더 정교한 인사이트를 받을 수 있습니다.",
			Strengths:           []string{"프로필 데이터를 등록하여 분석을 시작했습니다"},
			Weaknesses:          []string{"더 많은 데이터 소스를 연동하면 분석 정확도가 높아집니다"},
			ExpertiseDetail:     "보유 스킬과 경력 데이터를 기반으로 전문성을 평가했습니다.",
			InfluenceDetail:     "온라인 활동과 팔로워 데이터를 기반으로 영향력을 평가했습니다.",
			ConsistencyDetail:   "활동 빈도와 포스팅 주기를 기반으로 지속성을 평가했습니다.",
			MarketabilityDetail: "보유 스킬의 시장 수요를 기반으로 시장성을 평가했습니다.",
			PotentialDetail:     "최신 기술 비율과 학습 이력을 기반으로 성장성을 평가했습니다.",
		},
		SalaryAdjustmentPercent:  0,
		MarketPositionPercentile: position,
	}
}

// ApplyCalibration fusiona los ajustes sobre los scores base y recalcula el
// total desde las dimensiones finales; nunca se copia el total base.
func ApplyCalibration(baseScores domain.ScoreSet, calibration domain.CalibrationResult) domain.ScoreSet {
	final := domain.ScoreSet{AnalysisAccuracy: baseScores.AnalysisAccuracy}

	var total float64
	for _, dim := range domain.Dimensions {
		adj := clampInt(calibration.Adjustments[dim], -10, 10)
		v := round1(clamp(baseScores.Get(dim)+float64(adj), 0, 100))
		final.Set(dim, v)
		total += v * domain.DimensionWeights[dim]
	}
	final.Total = round1(total)

	return final
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
