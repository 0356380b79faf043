package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Tipos de trabajo que acepta la cola de fondo.
const (
	JobProcessSource = "process_source"
	JobScoreUser     = "score_user"
)

// Job es una unidad de trabajo encolada por los handlers HTTP o el
// scheduler de rescan.
type Job struct {
	Kind     string
	SourceID string
	UserID   string
}

// Worker consume la cola de analisis en segundo plano. El encolado es
// fire-and-forget: el handler responde al instante y el estado de la fuente
// cuenta la historia.
type Worker struct {
	pipeline    *AnalysisPipeline
	jobQueue    chan Job
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	logger      *zap.Logger
}

func NewWorker(pipeline *AnalysisPipeline, concurrency int, logger *zap.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		pipeline:    pipeline,
		jobQueue:    make(chan Job, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting analysis worker", zap.Int("concurrency", w.concurrency))
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping analysis worker")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("analysis worker stopped")
	})
}

// Enqueue agrega un trabajo a la cola. Devuelve false si la cola esta llena
// o el worker ya se detuvo; el llamador decide si eso es un error.
func (w *Worker) Enqueue(job Job) bool {
	select {
	case <-w.stopChan:
		w.logger.Warn("worker stopped, job dropped", zap.String("kind", job.Kind))
		return false
	default:
	}

	select {
	case w.jobQueue <- job:
		return true
	default:
		w.logger.Warn("job queue full, job dropped", zap.String("kind", job.Kind))
		return false
	}
}

func (w *Worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobQueue:
			w.handle(ctx, workerID, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, workerID int, job Job) {
	log := w.logger.With(zap.Int("worker", workerID), zap.String("kind", job.Kind))

	switch job.Kind {
	case JobProcessSource:
		if err := w.pipeline.ProcessSource(ctx, job.SourceID); err != nil {
			log.Error("source job failed", zap.String("source_id", job.SourceID), zap.Error(err))
		}
	case JobScoreUser:
		if _, err := w.pipeline.ProcessAllPending(ctx, job.UserID); err != nil {
			log.Error("scoring job failed", zap.String("user_id", job.UserID), zap.Error(err))
		}
	default:
		log.Warn("unknown job kind dropped")
	}
}
