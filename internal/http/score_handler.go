package http

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-pilot/internal/domain"
	"career-pilot/internal/repository"
	"career-pilot/internal/service"
)

// ScoreHandler mantiene dependencias para endpoints de scores.
type ScoreHandler struct {
	logger   *zap.Logger
	scores   repository.ScoreRepository
	sources  repository.SourceRepository
	userServ *service.UserService
	worker   *service.Worker
}

func NewScoreHandler(
	logger *zap.Logger,
	scores repository.ScoreRepository,
	sources repository.SourceRepository,
	userServ *service.UserService,
	worker *service.Worker,
) *ScoreHandler {
	return &ScoreHandler{
		logger:   logger,
		scores:   scores,
		sources:  sources,
		userServ: userServ,
		worker:   worker,
	}
}

// Latest maneja GET /scores/latest.
func (h *ScoreHandler) Latest(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	score, err := h.scores.LatestByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"has_score": false, "message": "아직 분석 결과가 없습니다."})
			return
		}
		h.logger.Error("load latest score failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load score"})
		return
	}

	c.JSON(http.StatusOK, scoreResponse(score, true))
}

// History maneja GET /scores/history.
func (h *ScoreHandler) History(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entries, err := h.scores.HistoryByUser(c.Request.Context(), claims.UserID, 20)
	if err != nil {
		h.logger.Error("load score history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(entries), "history": entries})
}

// Detail maneja GET /scores/detail/:id.
func (h *ScoreHandler) Detail(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	score, err := h.scores.GetByIDForUser(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "score not found"})
			return
		}
		h.logger.Error("load score failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load score"})
		return
	}

	c.JSON(http.StatusOK, scoreResponse(score, false))
}

// MarketPosition maneja GET /scores/market-position: percentil del ultimo
// score mas el promedio de la misma categoria.
func (h *ScoreHandler) MarketPosition(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.userServ.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	score, err := h.scores.LatestByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no score data available"})
			return
		}
		h.logger.Error("load latest score failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load score"})
		return
	}

	avgTotal, userCount, err := h.scores.CategoryAverage(c.Request.Context(), user.JobCategory)
	if err != nil {
		h.logger.Warn("category average unavailable", zap.Error(err))
		avgTotal, userCount = 50.0, 0
	}
	if userCount == 0 {
		avgTotal = 50.0
	}

	percentile := score.AIInsights.MarketPositionPercentile
	if percentile == 0 {
		percentile = 50
	}

	c.JSON(http.StatusOK, gin.H{
		"my_total_score":      score.Scores.Total,
		"job_category":        user.JobCategory,
		"years_of_experience": user.YearsOfExp,
		"percentile":          percentile,
		"category_avg_score":  math.Round(avgTotal*10) / 10,
		"category_user_count": userCount,
		"insights": gin.H{
			"strengths":       score.AIInsights.Strengths,
			"weaknesses":      score.AIInsights.Weaknesses,
			"overall_summary": score.AIInsights.OverallSummary,
		},
	})
}

// Recalculate maneja POST /scores/recalculate: encola una corrida nueva de
// scoring si hay fuentes completadas.
func (h *ScoreHandler) Recalculate(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	completed, err := h.sources.ListByUserAndStatus(c.Request.Context(), claims.UserID, domain.SourceStatusCompleted)
	if err != nil {
		h.logger.Error("list sources failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sources"})
		return
	}
	if len(completed) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no completed source data available for scoring"})
		return
	}

	h.worker.Enqueue(service.Job{Kind: service.JobScoreUser, UserID: claims.UserID})

	c.JSON(http.StatusOK, gin.H{
		"status":  "processing",
		"message": "Scoring recalculation started",
	})
}

func scoreResponse(score domain.CareerScore, withFlag bool) gin.H {
	resp := gin.H{
		"id": score.ID,
		"scores": gin.H{
			"expertise":     score.Scores.Expertise,
			"influence":     score.Scores.Influence,
			"consistency":   score.Scores.Consistency,
			"marketability": score.Scores.Marketability,
			"potential":     score.Scores.Potential,
			"total":         score.Scores.Total,
		},
		"salary": gin.H{
			"min": score.EstimatedSalaryMin,
			"max": score.EstimatedSalaryMax,
		},
		"analysis_accuracy": score.Scores.AnalysisAccuracy,
		"insights":          score.AIInsights,
		"scored_at":         score.ScoredAt,
	}
	if withFlag {
		resp["has_score"] = true
	}
	return resp
}
