package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/ingest"
	"career-pilot/internal/repository"
	"career-pilot/internal/service"
)

// SourceHandler mantiene dependencias para endpoints de fuentes de datos.
type SourceHandler struct {
	logger   *zap.Logger
	sources  repository.SourceRepository
	pipeline *service.AnalysisPipeline
	worker   *service.Worker
}

func NewSourceHandler(
	logger *zap.Logger,
	sources repository.SourceRepository,
	pipeline *service.AnalysisPipeline,
	worker *service.Worker,
) *SourceHandler {
	return &SourceHandler{
		logger:   logger,
		sources:  sources,
		pipeline: pipeline,
		worker:   worker,
	}
}

// Create maneja POST /sources. Registra la URL y encola el procesamiento en
// segundo plano; la respuesta vuelve con la fuente en pending.
func (h *SourceHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		URL      string `json:"url" binding:"required,url"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform == "" {
		platform = ingest.DetectPlatform(req.URL)
	}

	source := domain.DataSource{
		ID:        uuid.NewString(),
		UserID:    claims.UserID,
		Platform:  platform,
		SourceURL: req.URL,
		Status:    domain.SourceStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.sources.Create(c.Request.Context(), source); err != nil {
		h.logger.Error("create source failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register source"})
		return
	}

	h.worker.Enqueue(service.Job{Kind: service.JobProcessSource, SourceID: source.ID})

	c.JSON(http.StatusCreated, gin.H{"source": source})
}

// List maneja GET /sources.
func (h *SourceHandler) List(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"count": len(sources), "sources": sources})
}

// Rescan maneja POST /sources/:id/rescan. Devuelve la fuente a pending y la
// reencola; una fuente aun en vuelo se rechaza.
func (h *SourceHandler) Rescan(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sourceID := c.Param("id")

	if _, err := h.sources.GetByIDForUser(c.Request.Context(), sourceID, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
			return
		}
		h.logger.Error("load source failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load source"})
		return
	}

	if err := h.pipeline.Rescan(c.Request.Context(), sourceID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	h.worker.Enqueue(service.Job{Kind: service.JobProcessSource, SourceID: sourceID})

	c.JSON(http.StatusOK, gin.H{"status": "rescanning", "source_id": sourceID})
}

// Delete maneja DELETE /sources/:id.
func (h *SourceHandler) Delete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sourceID := c.Param("id")

	if _, err := h.sources.GetByIDForUser(c.Request.Context(), sourceID, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
			return
		}
		h.logger.Error("load source failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load source"})
		return
	}

	if err := h.sources.Delete(c.Request.Context(), sourceID); err != nil {
		h.logger.Error("delete source failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete source"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Preview maneja GET /sources/:id/preview: muestra los datos parseados antes
// de confirmar la fuente.
func (h *SourceHandler) Preview(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sourceID := c.Param("id")

	source, err := h.sources.GetByIDForUser(c.Request.Context(), sourceID, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
			return
		}
		h.logger.Error("load source failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load source"})
		return
	}

	dataQuality := ""
	if source.ParsedData != nil {
		dataQuality = source.ParsedData.DataQuality
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           source.ID,
		"platform":     source.Platform,
		"source_url":   source.SourceURL,
		"parsed_data":  source.ParsedData,
		"data_quality": dataQuality,
	})
}

// Confirm maneja PATCH /sources/:id/confirm.
func (h *SourceHandler) Confirm(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sourceID := c.Param("id")

	source, err := h.sources.GetByIDForUser(c.Request.Context(), sourceID, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
			return
		}
		h.logger.Error("load source failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load source"})
		return
	}

	if err := h.sources.SetConfirmed(c.Request.Context(), sourceID, true); err != nil {
		h.logger.Error("confirm source failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not confirm source"})
		return
	}

	source.IsConfirmed = true
	c.JSON(http.StatusOK, gin.H{"source": source})
}
