package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/llm"
)

const parserSystemPrompt = `You are a career data extraction specialist.
You analyze scraped web page content and extract structured career-related information.
Always respond in valid JSON format. Be thorough but only include information that is actually present in the data.
If certain fields cannot be determined, use null instead of guessing.`

var platformPrompts = map[string]string{
	domain.PlatformLinkedIn: `Analyze this LinkedIn profile page content and extract structured data.

Return JSON with this exact structure:
{
  "platform": "linkedin",
  "name": "string or null",
  "current_title": "string or null",
  "company": "string or null",
  "headline": "string or null",
  "skills": ["list of skills found"],
  "experience": [{"title": "string", "company": "string", "duration": "string or null", "description": "string or null"}],
  "education": [{"school": "string", "degree": "string or null", "field": "string or null", "years": "string or null"}],
  "certifications": ["list of certifications"],
  "recommendation_count": "number or null",
  "activity_summary": "brief summary of recent activity",
  "data_quality": "high/medium/low"
}`,

	domain.PlatformGitHub: `Analyze this GitHub profile page content and extract structured data.

Return JSON with this exact structure:
{
  "platform": "github",
  "name": "string or null",
  "followers": "number or null",
  "public_repos": "number or null",
  "pinned_repos": [{"name": "string", "description": "string or null", "language": "string or null", "stars": "number or null"}],
  "top_languages": ["list of programming languages"],
  "contribution_summary": "string describing contribution activity",
  "data_quality": "high/medium/low"
}`,

	domain.PlatformVelog: `Analyze this Velog blog profile page content and extract structured data.

Return JSON with this exact structure:
{
  "platform": "velog",
  "name": "string or null",
  "total_posts": "number or null",
  "recent_posts": [{"title": "string", "date": "string or null", "tags": ["list of tags"], "brief": "string or null"}],
  "main_topics": ["list of main writing topics"],
  "posting_frequency": "string describing how often they post",
  "series": ["list of series names"],
  "data_quality": "high/medium/low"
}`,

	domain.PlatformTistory: `Analyze this Tistory blog page content and extract structured data.

Return JSON with this exact structure:
{
  "platform": "tistory",
  "name": "string or null",
  "total_posts": "number or null",
  "recent_posts": [{"title": "string", "date": "string or null"}],
  "main_topics": ["list of main writing topics"],
  "posting_frequency": "string describing how often they post",
  "data_quality": "high/medium/low"
}`,
}

const genericPrompt = `Analyze this web page content and extract any career-related structured data.
This page could be a portfolio, personal blog, resume page, or any professional profile.

Return JSON with this exact structure:
{
  "platform": "other",
  "name": "string or null",
  "skills": ["list of skills found"],
  "projects": [{"name": "string", "description": "string or null", "technologies": ["list of tech used"]}],
  "education": [{"school": "string"}],
  "activity_summary": "brief summary of what this page shows",
  "quantitative_metrics": {"followers": "number or null", "post_count": "number or null", "project_count": "number or null"},
  "data_quality": "high/medium/low"
}`

// ErrUnusablePayload marca una respuesta que no pudo recuperarse como JSON
// con ningun fallback: la fuente es realmente inutilizable y debe fallar.
var ErrUnusablePayload = errors.New("parser payload unusable")

// Parser estructura texto scrapeado en un ParsedSourceRecord usando la
// capacidad externa de texto.
type Parser struct {
	llmClient llm.Client
	logger    *zap.Logger
}

func NewParser(llmClient llm.Client, logger *zap.Logger) *Parser {
	return &Parser{llmClient: llmClient, logger: logger}
}

// Parse devuelve el record estructurado de una fuente. La distincion
// importa: capacidad ausente o caida produce un record stub con
// degraded=true (la fuente completa con calidad baja), mientras que un
// payload irreparable devuelve ErrUnusablePayload y la fuente falla.
func (p *Parser) Parse(ctx context.Context, scrapedText, platform, url string) (*domain.ParsedSourceRecord, bool, error) {
	prompt, ok := platformPrompts[platform]
	if !ok {
		prompt = genericPrompt
	}

	scrapedText = llm.TruncateRunes(scrapedText, 12000)

	userMessage := fmt.Sprintf("URL: %s\nPlatform: %s\n\n=== PAGE CONTENT START ===\n%s\n=== PAGE CONTENT END ===\n\n%s",
		url, platform, scrapedText, prompt)

	raw, err := p.llmClient.Generate(ctx, parserSystemPrompt, userMessage)
	if err != nil {
		p.logger.Warn("source parsing degraded", zap.String("platform", platform), zap.Error(err))
		return p.degradedRecord(platform, url), true, nil
	}

	record, ok := decodeRecord(raw)
	if !ok {
		return nil, false, ErrUnusablePayload
	}

	record.Platform = platform
	record.ProfileURL = url
	if record.DataQuality == "" {
		record.DataQuality = domain.DataQualityLow
	}
	return record, false, nil
}

func decodeRecord(raw string) (*domain.ParsedSourceRecord, bool) {
	for _, candidate := range []string{
		llm.ExtractFirstJSONObject(llm.StripCodeFences(raw)),
		llm.ExtractFirstJSONObject(raw),
	} {
		if candidate == "" {
			continue
		}
		var record domain.ParsedSourceRecord
		if err := json.Unmarshal([]byte(candidate), &record); err == nil {
			return &record, true
		}
	}
	return nil, false
}

// degradedRecord es el stub que mantiene viva la fuente cuando la capacidad
// de parsing no esta disponible; el scorer la puntua con calidad baja.
func (p *Parser) degradedRecord(platform, url string) *domain.ParsedSourceRecord {
	return &domain.ParsedSourceRecord{
		Platform:    platform,
		ProfileURL:  url,
		DataQuality: domain.DataQualityLow,
		Degraded:    true,
	}
}
