package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/repository"
	"career-pilot/internal/service"
)

// AnalysisHandler mantiene dependencias para endpoints de la corrida de
// analisis.
type AnalysisHandler struct {
	logger  *zap.Logger
	sources repository.SourceRepository
	worker  *service.Worker
}

func NewAnalysisHandler(logger *zap.Logger, sources repository.SourceRepository, worker *service.Worker) *AnalysisHandler {
	return &AnalysisHandler{logger: logger, sources: sources, worker: worker}
}

// Run maneja POST /analysis/run: procesa todas las fuentes pending del
// usuario y despues corre el scoring, en segundo plano.
func (h *AnalysisHandler) Run(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sources, err := h.sources.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list sources failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sources"})
		return
	}
	if len(sources) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no sources registered"})
		return
	}

	h.worker.Enqueue(service.Job{Kind: service.JobScoreUser, UserID: claims.UserID})

	c.JSON(http.StatusOK, gin.H{
		"status":        "processing",
		"message":       "Analysis started",
		"total_sources": len(sources),
	})
}

// Status maneja GET /analysis/status. El progreso cuenta fuentes terminales
// (completed o failed) sobre el total.
func (h *AnalysisHandler) Status(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sources, err := h.sources.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list sources failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sources"})
		return
	}

	breakdown := map[string]int{}
	terminal := 0
	for _, src := range sources {
		breakdown[src.Status]++
		if src.Status == domain.SourceStatusCompleted || src.Status == domain.SourceStatusFailed {
			terminal++
		}
	}

	progress := 0
	if len(sources) > 0 {
		progress = terminal * 100 / len(sources)
	}

	c.JSON(http.StatusOK, gin.H{
		"progress":         progress,
		"is_done":          progress == 100,
		"total":            len(sources),
		"status_breakdown": breakdown,
	})
}
