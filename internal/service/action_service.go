package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/llm"
	"career-pilot/internal/repository"
)

const actionSystemPrompt = `You are a career growth strategist.
Based on career analysis data, generate actionable growth recommendations.
Each action should be specific, measurable, and achievable.
Always respond in valid JSON. Write all content in Korean (한국어).`

const actionPromptTemplate = `Based on the following career analysis, generate personalized growth actions.

== Profile ==
직군: %s
경력: %d년

== 5대 영역 스코어 (0-100) ==
전문성 (Expertise): %.1f
영향력 (Influence): %.1f
지속성 (Consistency): %.1f
시장성 (Marketability): %.1f
성장성 (Potential): %.1f
종합: %.1f

== 강점/약점 ==
강점: %s
약점: %s

== 보유 스킬 ==
%s

== 분석 인사이트 ==
%s

Generate 5-8 specific action recommendations following BOTH strategies:
1. 약점 보완 (2-3 actions): Focus on weakest areas
2. 강점 극대화 (3-5 actions): Leverage strongest areas for maximum impact

Return JSON array:
{
  "actions": [
    {
      "title": "구체적인 액션 제목 (20자 이내)",
      "description": "액션의 상세 설명과 이유 (2-3문장)",
      "impact_percent": <1-15 사이 정수, 예상 가치 상승 효과>,
      "target_area": "<expertise|influence|consistency|marketability|potential>",
      "difficulty": "<easy|medium|hard>",
      "estimated_duration": "예상 소요 기간 (예: 2주, 1개월, 3개월)",
      "tags": ["태그1", "태그2"],
      "cta_label": "CTA 버튼 텍스트 (예: 학습 시작하기)",
      "cta_url": null,
      "strategy": "<weakness|strength>"
    }
  ]
}`

// ActionService genera recomendaciones de crecimiento ligadas a un snapshot
// de score. Como la calibracion, nunca propaga fallas del LLM: degrada a un
// set de acciones por defecto.
type ActionService struct {
	llmClient llm.Client
	actions   repository.ActionRepository
	logger    *zap.Logger
}

func NewActionService(llmClient llm.Client, actions repository.ActionRepository, logger *zap.Logger) *ActionService {
	return &ActionService{llmClient: llmClient, actions: actions, logger: logger}
}

// GenerateForScore produce y persiste el batch de acciones para un score
// recien creado. Las acciones quedan ligadas al score_id del snapshot que
// las origino.
func (s *ActionService) GenerateForScore(
	ctx context.Context,
	user *domain.User,
	score *domain.CareerScore,
	skills []string,
) ([]domain.ActionRecommendation, error) {
	prompt := s.buildPrompt(user, score, skills)

	proposals := s.requestActions(ctx, prompt)

	now := time.Now().UTC()
	recommendations := make([]domain.ActionRecommendation, 0, len(proposals))
	for _, p := range proposals {
		recommendations = append(recommendations, domain.ActionRecommendation{
			ID:                uuid.NewString(),
			UserID:            user.ID,
			ScoreID:           score.ID,
			Title:             p.Title,
			Description:       p.Description,
			ImpactPercent:     p.ImpactPercent,
			TargetArea:        p.TargetArea,
			Difficulty:        p.Difficulty,
			EstimatedDuration: p.EstimatedDuration,
			Tags:              p.Tags,
			CTALabel:          p.CTALabel,
			CTAUrl:            p.CTAUrl,
			Strategy:          p.Strategy,
			CreatedAt:         now,
		})
	}

	if err := s.actions.CreateBatch(ctx, recommendations); err != nil {
		return nil, fmt.Errorf("persisting action batch: %w", err)
	}

	s.logger.Info("action recommendations generated",
		zap.String("user_id", user.ID),
		zap.String("score_id", score.ID),
		zap.Int("count", len(recommendations)),
	)
	return recommendations, nil
}

func (s *ActionService) buildPrompt(user *domain.User, score *domain.CareerScore, skills []string) string {
	strengths := strings.Join(score.AIInsights.Strengths, ", ")
	if strengths == "" {
		strengths = "정보 없음"
	}
	weaknesses := strings.Join(score.AIInsights.Weaknesses, ", ")
	if weaknesses == "" {
		weaknesses = "정보 없음"
	}

	sorted := append([]string(nil), skills...)
	sort.Strings(sorted)
	if len(sorted) > 30 {
		sorted = sorted[:30]
	}
	skillList := strings.Join(sorted, ", ")
	if skillList == "" {
		skillList = "정보 없음"
	}

	category := user.JobCategory
	if category == "" {
		category = "other"
	}

	return fmt.Sprintf(actionPromptTemplate,
		category, user.YearsOfExp,
		score.Scores.Expertise,
		score.Scores.Influence,
		score.Scores.Consistency,
		score.Scores.Marketability,
		score.Scores.Potential,
		score.Scores.Total,
		strengths,
		weaknesses,
		skillList,
		score.AIInsights.OverallSummary,
	)
}

type actionProposal struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	ImpactPercent     int      `json:"-"`
	TargetArea        string   `json:"target_area"`
	Difficulty        string   `json:"difficulty"`
	EstimatedDuration string   `json:"estimated_duration"`
	Tags              []string `json:"tags"`
	CTALabel          string   `json:"cta_label"`
	CTAUrl            string   `json:"cta_url"`
	Strategy          string   `json:"strategy"`
}

func (s *ActionService) requestActions(ctx context.Context, prompt string) []actionProposal {
	raw, err := s.llmClient.Generate(ctx, actionSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("action generation degraded to defaults", zap.Error(err))
		return defaultActionProposals()
	}

	proposals, ok := parseActionResponse(raw)
	if !ok {
		s.logger.Warn("action response unusable, using defaults")
		return defaultActionProposals()
	}
	return proposals
}

// parseActionResponse valida el payload accion por accion: enums fuera del
// dominio caen al valor por defecto y el impacto se recorta a [1,15], sin
// descartar el resto del batch.
func parseActionResponse(raw string) ([]actionProposal, bool) {
	candidate := llm.ExtractFirstJSONObject(llm.StripCodeFences(raw))
	if candidate == "" {
		candidate = llm.ExtractFirstJSONObject(raw)
	}
	if candidate == "" {
		return nil, false
	}

	var payload struct {
		Actions []struct {
			actionProposal
			ImpactPercent domain.LooseInt `json:"impact_percent"`
		} `json:"actions"`
	}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, false
	}
	if len(payload.Actions) == 0 {
		return nil, false
	}

	proposals := make([]actionProposal, 0, len(payload.Actions))
	for _, a := range payload.Actions {
		p := a.actionProposal
		if !domain.IsValidDimension(p.TargetArea) {
			p.TargetArea = domain.DimensionExpertise
		}
		if !domain.IsValidDifficulty(p.Difficulty) {
			p.Difficulty = domain.DifficultyMedium
		}
		if p.Title == "" {
			p.Title = "추천 액션"
		}
		p.ImpactPercent = clampInt(a.ImpactPercent.Int(), 1, 15)
		proposals = append(proposals, p)
	}
	return proposals, true
}

// defaultActionProposals es el set fijo que se entrega cuando la capacidad
// externa no esta disponible o su salida es inutilizable.
func defaultActionProposals() []actionProposal {
	return []actionProposal{
		{
			Title:             "기술 블로그 시작하기",
			Description:       "주 1회 기술 블로그를 작성하여 학습 내용을 정리하고, 온라인 영향력을 키우세요. 꾸준한 글쓰기는 전문성과 영향력 모두를 높여줍니다.",
			ImpactPercent:     8,
			TargetArea:        domain.DimensionInfluence,
			Difficulty:        domain.DifficultyMedium,
			EstimatedDuration: "지속",
			Tags:              []string{"글쓰기", "브랜딩"},
			CTALabel:          "블로그 시작하기",
			Strategy:          domain.StrategyStrength,
		},
		{
			Title:             "오픈소스 프로젝트 기여",
			Description:       "관심 있는 오픈소스 프로젝트에 기여하여 실무 경험과 커뮤니티 인지도를 동시에 높이세요.",
			ImpactPercent:     10,
			TargetArea:        domain.DimensionExpertise,
			Difficulty:        domain.DifficultyHard,
			EstimatedDuration: "3개월",
			Tags:              []string{"스킬업", "네트워킹"},
			CTALabel:          "프로젝트 찾기",
			Strategy:          domain.StrategyStrength,
		},
		{
			Title:             "사이드 프로젝트 완성",
			Description:       "개인 프로젝트를 하나 완성하여 포트폴리오를 강화하세요. 기획부터 배포까지 경험이 시장성을 높여줍니다.",
			ImpactPercent:     12,
			TargetArea:        domain.DimensionMarketability,
			Difficulty:        domain.DifficultyHard,
			EstimatedDuration: "2개월",
			Tags:              []string{"스킬업", "포트폴리오"},
			CTALabel:          "프로젝트 계획하기",
			Strategy:          domain.StrategyWeakness,
		},
		{
			Title:             "온라인 강의 수강",
			Description:       "최신 기술 트렌드에 맞는 온라인 강의를 수강하여 성장성을 높이세요. 수료증은 프로필에 추가할 수 있습니다.",
			ImpactPercent:     6,
			TargetArea:        domain.DimensionPotential,
			Difficulty:        domain.DifficultyEasy,
			EstimatedDuration: "1개월",
			Tags:              []string{"스킬업", "자격증"},
			CTALabel:          "강의 찾기",
			Strategy:          domain.StrategyWeakness,
		},
		{
			Title:             "LinkedIn 프로필 최적화",
			Description:       "LinkedIn 프로필의 헤드라인, 소개, 경력 설명을 최적화하여 리크루터 노출을 높이세요.",
			ImpactPercent:     5,
			TargetArea:        domain.DimensionMarketability,
			Difficulty:        domain.DifficultyEasy,
			EstimatedDuration: "1주",
			Tags:              []string{"브랜딩", "채용"},
			CTALabel:          "프로필 수정하기",
			Strategy:          domain.StrategyWeakness,
		},
	}
}
