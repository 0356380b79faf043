package domain

// UnifiedProfile es el agregado efimero que une todos los records parseados
// de un usuario para una corrida de scoring. Se construye fresco en cada
// corrida y no se persiste ni se muta despues de construido.
type UnifiedProfile struct {
	Skills              []string
	TopLanguages        []string
	ExperienceCount     int
	EducationCount      int
	CertificationCount  int
	ProjectCount        int
	PostCount           int
	Followers           int
	PublicRepos         int
	Stars               int
	RecommendationCount int
	RecentPostCount     int
	ContributionSummary string
	PostingFrequency    string
	SeriesCount         int
	PlatformsUsed       []string
	DataQualities       []string
	SourceCount         int
}

// IsEmpty indica un perfil cero: sin fuentes aportando datos.
func (p UnifiedProfile) IsEmpty() bool {
	return p.SourceCount == 0
}
