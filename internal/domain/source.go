package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Estados del ciclo de vida de una fuente de datos.
// Solo avanzan hacia adelante; un rescan explicito devuelve
// completed|failed a pending.
const (
	SourceStatusPending   = "pending"
	SourceStatusScraping  = "scraping"
	SourceStatusParsing   = "parsing"
	SourceStatusCompleted = "completed"
	SourceStatusFailed    = "failed"
)

// Plataformas conocidas; cualquier otra URL cae en "other".
const (
	PlatformLinkedIn = "linkedin"
	PlatformGitHub   = "github"
	PlatformVelog    = "velog"
	PlatformTistory  = "tistory"
	PlatformOther    = "other"
)

const (
	DataQualityHigh   = "high"
	DataQualityMedium = "medium"
	DataQualityLow    = "low"
)

type DataSource struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Platform      string              `json:"platform"`
	SourceURL     string              `json:"source_url"`
	ScrapedHTML   string              `json:"-"`
	ParsedData    *ParsedSourceRecord `json:"parsed_data,omitempty"`
	IsConfirmed   bool                `json:"is_confirmed"`
	LastScrapedAt *time.Time          `json:"last_scraped_at,omitempty"`
	Status        string              `json:"status"`
	ErrorMessage  string              `json:"error_message,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// IsTerminal indica si la fuente ya no va a avanzar por si sola.
func (s *DataSource) IsTerminal() bool {
	return s.Status == SourceStatusCompleted || s.Status == SourceStatusFailed
}

// ParsedSourceRecord es el documento estructurado que produce el parser por
// fuente. Es una variante cerrada etiquetada por Platform: cada plataforma
// llena solo los campos que le aplican y el agregador ignora los ausentes.
type ParsedSourceRecord struct {
	Platform    string `json:"platform"`
	ProfileURL  string `json:"profile_url,omitempty"`
	Name        string `json:"name,omitempty"`
	DataQuality string `json:"data_quality,omitempty"`

	// linkedin
	CurrentTitle        string           `json:"current_title,omitempty"`
	Company             string           `json:"company,omitempty"`
	Headline            string           `json:"headline,omitempty"`
	Skills              []string         `json:"skills,omitempty"`
	Experience          []ExperienceItem `json:"experience,omitempty"`
	Education           []EducationItem  `json:"education,omitempty"`
	Certifications      []string         `json:"certifications,omitempty"`
	RecommendationCount LooseInt         `json:"recommendation_count,omitempty"`
	ActivitySummary     string           `json:"activity_summary,omitempty"`

	// github
	Followers           LooseInt   `json:"followers,omitempty"`
	PublicRepos         LooseInt   `json:"public_repos,omitempty"`
	PinnedRepos         []RepoItem `json:"pinned_repos,omitempty"`
	TopLanguages        []string   `json:"top_languages,omitempty"`
	ContributionSummary string     `json:"contribution_summary,omitempty"`

	// velog / tistory
	TotalPosts       LooseInt   `json:"total_posts,omitempty"`
	RecentPosts      []PostItem `json:"recent_posts,omitempty"`
	MainTopics       []string   `json:"main_topics,omitempty"`
	PostingFrequency string     `json:"posting_frequency,omitempty"`
	Series           []string   `json:"series,omitempty"`

	// other (portfolio, resume, blog generico)
	Projects            []ProjectItem `json:"projects,omitempty"`
	QuantitativeMetrics *QuantMetrics `json:"quantitative_metrics,omitempty"`

	Degraded bool `json:"degraded,omitempty"`
}

type ExperienceItem struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type EducationItem struct {
	School string `json:"school,omitempty"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
	Years  string `json:"years,omitempty"`
}

type RepoItem struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	Stars       LooseInt `json:"stars,omitempty"`
}

type PostItem struct {
	Title string   `json:"title,omitempty"`
	Date  string   `json:"date,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Brief string   `json:"brief,omitempty"`
}

type ProjectItem struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

type QuantMetrics struct {
	Followers    LooseInt `json:"followers,omitempty"`
	PostCount    LooseInt `json:"post_count,omitempty"`
	ProjectCount LooseInt `json:"project_count,omitempty"`
}

// LooseInt tolera numeros, strings numericos y null en payloads que vienen
// de una capacidad externa no confiable. Cualquier cosa no interpretable
// queda en cero en vez de romper el unmarshal del record completo.
type LooseInt int

func (n *LooseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = LooseInt(int(v))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = LooseInt(int(f))
	return nil
}

func (n LooseInt) Int() int { return int(n) }
