package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/ingest"
	"career-pilot/internal/repository"
)

// ErrNoScorableData indica que el usuario no tiene ninguna fuente
// completada con datos parseados: la corrida de scoring se rechaza sin
// producir snapshot.
var ErrNoScorableData = errors.New("no completed sources with parsed data")

// AnalysisPipeline orquesta el ciclo completo: scraping, parsing,
// agregacion, scoring, calibracion, salario y persistencia atomica del
// snapshot con su entrada de historial.
type AnalysisPipeline struct {
	users       repository.UserRepository
	sources     repository.SourceRepository
	scores      repository.ScoreRepository
	fetcher     ingest.Fetcher
	parser      *ingest.Parser
	calibration *CalibrationService
	actions     *ActionService
	logger      *zap.Logger
}

func NewAnalysisPipeline(
	users repository.UserRepository,
	sources repository.SourceRepository,
	scores repository.ScoreRepository,
	fetcher ingest.Fetcher,
	parser *ingest.Parser,
	calibration *CalibrationService,
	actions *ActionService,
	logger *zap.Logger,
) *AnalysisPipeline {
	return &AnalysisPipeline{
		users:       users,
		sources:     sources,
		scores:      scores,
		fetcher:     fetcher,
		parser:      parser,
		calibration: calibration,
		actions:     actions,
		logger:      logger,
	}
}

// ProcessSource avanza una fuente por su maquina de estados:
// pending → scraping → parsing → completed, o failed en cualquier paso.
// Solo una falla de transporte o un payload irreparable marcan failed; un
// parser degradado guarda el stub y la fuente completa con calidad baja.
func (p *AnalysisPipeline) ProcessSource(ctx context.Context, sourceID string) error {
	source, err := p.sources.GetByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("loading source %s: %w", sourceID, err)
	}

	if err := p.sources.UpdateStatus(ctx, sourceID, domain.SourceStatusScraping, ""); err != nil {
		return fmt.Errorf("marking source scraping: %w", err)
	}

	p.logger.Info("scraping source",
		zap.String("source_id", sourceID),
		zap.String("platform", source.Platform),
		zap.String("url", source.SourceURL),
	)

	fetched, err := p.fetcher.Fetch(ctx, source.SourceURL)
	if err != nil {
		p.logger.Warn("scraping failed", zap.String("source_id", sourceID), zap.Error(err))
		return p.failSource(ctx, sourceID, fmt.Sprintf("scraping failed: %v", err))
	}

	if err := p.sources.SaveScraped(ctx, sourceID, fetched.RawHTML); err != nil {
		return fmt.Errorf("saving scraped html: %w", err)
	}

	if err := p.sources.UpdateStatus(ctx, sourceID, domain.SourceStatusParsing, ""); err != nil {
		return fmt.Errorf("marking source parsing: %w", err)
	}

	record, degraded, err := p.parser.Parse(ctx, fetched.CleanedText, source.Platform, source.SourceURL)
	if err != nil {
		p.logger.Warn("parsing failed", zap.String("source_id", sourceID), zap.Error(err))
		return p.failSource(ctx, sourceID, fmt.Sprintf("parsing failed: %v", err))
	}
	if degraded {
		p.logger.Info("source parsed in degraded mode", zap.String("source_id", sourceID))
	}

	if err := p.sources.SaveParsed(ctx, sourceID, record, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving parsed data: %w", err)
	}

	p.logger.Info("source processing completed", zap.String("source_id", sourceID))
	return nil
}

func (p *AnalysisPipeline) failSource(ctx context.Context, sourceID, message string) error {
	if err := p.sources.UpdateStatus(ctx, sourceID, domain.SourceStatusFailed, message); err != nil {
		return fmt.Errorf("marking source failed: %w", err)
	}
	return nil
}

// ProcessAllPending procesa todas las fuentes pending del usuario y luego
// ejecuta el scoring. Una fuente fallida no corta el batch.
func (p *AnalysisPipeline) ProcessAllPending(ctx context.Context, userID string) (*domain.CareerScore, error) {
	pending, err := p.sources.ListByUserAndStatus(ctx, userID, domain.SourceStatusPending)
	if err != nil {
		return nil, fmt.Errorf("listing pending sources: %w", err)
	}

	for _, src := range pending {
		if err := p.ProcessSource(ctx, src.ID); err != nil {
			p.logger.Error("source processing errored",
				zap.String("source_id", src.ID),
				zap.Error(err),
			)
		}
	}

	return p.RunScoring(ctx, userID)
}

// RunScoring ejecuta la corrida completa de scoring sobre las fuentes
// completadas del usuario y persiste un snapshot nuevo. El historial es
// append-only: cada corrida agrega, nunca sobreescribe.
func (p *AnalysisPipeline) RunScoring(ctx context.Context, userID string) (*domain.CareerScore, error) {
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", userID, err)
	}

	completed, err := p.sources.ListCompletedWithData(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing completed sources: %w", err)
	}

	var records []*domain.ParsedSourceRecord
	for _, src := range completed {
		if src.ParsedData != nil {
			records = append(records, src.ParsedData)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoScorableData
	}

	category := user.JobCategory
	if category == "" {
		category = "other"
	}

	profile := BuildUnifiedProfile(records)
	scorer := NewScorer(profile, category, user.YearsOfExp)
	baseScores := scorer.CalculateAll()

	p.logger.Info("base scores calculated",
		zap.String("user_id", userID),
		zap.Float64("total", baseScores.Total),
		zap.Float64("accuracy", baseScores.AnalysisAccuracy),
	)

	calibration := p.calibration.Calibrate(ctx, records, profile, baseScores, category, user.YearsOfExp)
	finalScores := ApplyCalibration(baseScores, calibration)

	salaryMin, salaryMax := EstimateSalary(finalScores, category, user.YearsOfExp, calibration.SalaryAdjustmentPercent)

	now := time.Now().UTC()
	score := domain.CareerScore{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Scores:             finalScores,
		EstimatedSalaryMin: salaryMin,
		EstimatedSalaryMax: salaryMax,
		AIInsights: domain.ScoreInsights{
			InsightBundle:            calibration.Insights,
			BaseScores:               baseScores,
			Adjustments:              calibration.Adjustments,
			MarketPositionPercentile: calibration.MarketPositionPercentile,
		},
		ScoredAt:  now,
		CreatedAt: now,
	}

	history := domain.ScoreHistoryEntry{
		ID:      uuid.NewString(),
		UserID:  userID,
		ScoreID: score.ID,
		Snapshot: domain.ScoreSnapshot{
			ScoreSet:  finalScores,
			SalaryMin: salaryMin,
			SalaryMax: salaryMax,
		},
		CreatedAt: now,
	}

	if err := p.scores.CreateWithHistory(ctx, score, history); err != nil {
		return nil, fmt.Errorf("persisting score snapshot: %w", err)
	}

	p.logger.Info("scoring completed",
		zap.String("user_id", userID),
		zap.Float64("total", finalScores.Total),
		zap.Int("salary_min", salaryMin),
		zap.Int("salary_max", salaryMax),
	)

	// Las recomendaciones son best-effort: una falla se loguea y no
	// invalida el snapshot ya persistido.
	if p.actions != nil {
		if _, err := p.actions.GenerateForScore(ctx, &user, &score, profile.Skills); err != nil {
			p.logger.Error("action generation failed",
				zap.String("user_id", userID),
				zap.String("score_id", score.ID),
				zap.Error(err),
			)
		}
	}

	return &score, nil
}

// Rescan devuelve una fuente terminal a pending para reprocesarla. Una
// fuente todavia en vuelo no se toca.
func (p *AnalysisPipeline) Rescan(ctx context.Context, sourceID string) error {
	source, err := p.sources.GetByID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("loading source %s: %w", sourceID, err)
	}
	if !source.IsTerminal() {
		return fmt.Errorf("source %s is still processing (status=%s)", sourceID, source.Status)
	}
	if err := p.sources.UpdateStatus(ctx, sourceID, domain.SourceStatusPending, ""); err != nil {
		return fmt.Errorf("resetting source: %w", err)
	}
	return nil
}
