package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-pilot/internal/repository"
	"career-pilot/internal/service"
)

// ActionHandler mantiene dependencias para endpoints de acciones
// recomendadas.
type ActionHandler struct {
	logger  *zap.Logger
	actions repository.ActionRepository
	worker  *service.Worker
}

func NewActionHandler(logger *zap.Logger, actions repository.ActionRepository, worker *service.Worker) *ActionHandler {
	return &ActionHandler{logger: logger, actions: actions, worker: worker}
}

// List maneja GET /actions con filtros y orden opcionales.
func (h *ActionHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filter := repository.ActionFilter{
		TargetArea: c.Query("area"),
		Tag:        c.Query("tag"),
		Sort:       c.DefaultQuery("sort", "impact"),
	}
	if v := c.Query("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completed filter"})
			return
		}
		filter.Completed = &b
	}
	if v := c.Query("bookmarked"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bookmarked filter"})
			return
		}
		filter.Bookmarked = &b
	}

	actions, err := h.actions.ListByUser(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		h.logger.Error("list actions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list actions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(actions), "actions": actions})
}

// ToggleComplete maneja PATCH /actions/:id/complete. Completar una accion
// dispara una recalculada de score en segundo plano.
func (h *ActionHandler) ToggleComplete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	actionID := c.Param("id")

	action, err := h.actions.GetByIDForUser(c.Request.Context(), actionID, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "action not found"})
			return
		}
		h.logger.Error("load action failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load action"})
		return
	}

	completed := !action.IsCompleted
	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := h.actions.SetCompleted(c.Request.Context(), actionID, completed, completedAt); err != nil {
		h.logger.Error("toggle complete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update action"})
		return
	}

	message := "액션 완료를 취소했습니다."
	if completed {
		message = "액션을 완료했습니다! 점수가 곧 업데이트됩니다."
		h.worker.Enqueue(service.Job{Kind: service.JobScoreUser, UserID: claims.UserID})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           actionID,
		"is_completed": completed,
		"completed_at": completedAt,
		"message":      message,
	})
}

// ToggleBookmark maneja PATCH /actions/:id/bookmark.
func (h *ActionHandler) ToggleBookmark(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	actionID := c.Param("id")

	action, err := h.actions.GetByIDForUser(c.Request.Context(), actionID, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "action not found"})
			return
		}
		h.logger.Error("load action failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load action"})
		return
	}

	bookmarked := !action.IsBookmarked
	if err := h.actions.SetBookmarked(c.Request.Context(), actionID, bookmarked); err != nil {
		h.logger.Error("toggle bookmark failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update action"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            actionID,
		"is_bookmarked": bookmarked,
	})
}
