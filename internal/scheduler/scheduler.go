// Package scheduler arma el cron que reescanea periodicamente las fuentes
// confirmadas cuyos datos quedaron viejos.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/repository"
	"career-pilot/internal/service"
)

type Scheduler struct {
	cron       *cron.Cron
	sources    repository.SourceRepository
	worker     *service.Worker
	spec       string
	staleAfter time.Duration
	logger     *zap.Logger
}

// New crea un Scheduler que dispara cada intervalHours horas y considera
// vieja una fuente no escaneada en ese mismo intervalo.
func New(sources repository.SourceRepository, worker *service.Worker, intervalHours int, logger *zap.Logger) *Scheduler {
	if intervalHours < 1 {
		intervalHours = 24
	}
	return &Scheduler{
		cron:       cron.New(),
		sources:    sources,
		worker:     worker,
		spec:       fmt.Sprintf("@every %dh", intervalHours),
		staleAfter: time.Duration(intervalHours) * time.Hour,
		logger:     logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRescan(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("rescan scheduler started", zap.String("spec", s.spec))
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("rescan scheduler stopped")
}

// runRescan devuelve a pending las fuentes terminales viejas y las
// reencola. Una fuente que falle al resetear no corta el ciclo.
func (s *Scheduler) runRescan(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.staleAfter)
	stale, err := s.sources.ListStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("listing stale sources failed", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	s.logger.Info("rescan cycle started", zap.Int("sources", len(stale)))
	for _, src := range stale {
		if !src.IsTerminal() {
			continue
		}
		if err := s.sources.UpdateStatus(ctx, src.ID, domain.SourceStatusPending, ""); err != nil {
			s.logger.Warn("resetting stale source failed",
				zap.String("source_id", src.ID),
				zap.Error(err),
			)
			continue
		}
		s.worker.Enqueue(service.Job{Kind: service.JobProcessSource, SourceID: src.ID})
	}
	s.logger.Info("rescan cycle complete")
}
