package handlers

import (
	"context"
	"errors"
	"net/http"

	"studyplan-service/internal/models"
	"studyplan-service/internal/repository"
	"studyplan-service/internal/review"
	"studyplan-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Service      *service.ReviewService
	ProgressRepo *repository.ModuleProgressRepository
}

func NewReviewHandler(s *service.ReviewService, progressRepo *repository.ModuleProgressRepository) *ReviewHandler {
	return &ReviewHandler{Service: s, ProgressRepo: progressRepo}
}

// NextItem serves the next review flashcard or activity. A learner
// with nothing unlocked gets an explicit unavailable result, not an
// error.
func (h *ReviewHandler) NextItem(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	courseID := c.Query("course_id")
	if courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
		return
	}

	result, err := h.Service.GetNextItem(context.Background(), userID, courseID)
	if err != nil {
		if errors.Is(err, review.ErrNoItemsAvailable) {
			c.JSON(http.StatusOK, gin.H{
				"available": false,
				"message":   "No review items available yet",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to select review item",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available": true,
		"item":      result,
	})
}

// RateItem records the learner's difficulty rating for a served item.
func (h *ReviewHandler) RateItem(c *gin.Context) {
	var req struct {
		Difficulty string `json:"difficulty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	err := h.Service.RateItem(context.Background(), c.Param("id"), models.Difficulty(req.Difficulty))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to rate review item",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
}

// Progress returns the running items-reviewed counter.
func (h *ReviewHandler) Progress(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	courseID := c.Query("course_id")
	if courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
		return
	}

	progress, err := h.Service.GetProgress(context.Background(), userID, courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load review progress",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// MarkModuleLearned flips a module's learn status, unlocking it for
// review and dropping it from the daily learn selection.
func (h *ReviewHandler) MarkModuleLearned(c *gin.Context) {
	var req struct {
		Learned bool `json:"learned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	userID := c.GetHeader("X-User-ID")
	status := models.StatusNotLearned
	if req.Learned {
		status = models.StatusLearned
	}
	if err := h.ProgressRepo.SetLearnStatus(context.Background(), userID, c.Param("moduleId"), status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update module progress",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Module progress updated"})
}
