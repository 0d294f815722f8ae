package handlers

import (
	"context"
	"net/http"
	"time"

	"studyplan-service/internal/models"
	"studyplan-service/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	Service *service.PlanService
}

func NewPlanHandler(s *service.PlanService) *PlanHandler {
	return &PlanHandler{Service: s}
}

// Configure creates or updates the study plan settings and regenerates
// the plan from them.
func (h *PlanHandler) Configure(c *gin.Context) {
	var req struct {
		CourseID           string  `json:"course_id" binding:"required"`
		ExamDate           string  `json:"exam_date" binding:"required"`
		StudyHoursPerWeek  float64 `json:"study_hours_per_week" binding:"required"`
		SelfRating         string  `json:"self_rating"`
		PreferredStudyDays []int   `json:"preferred_study_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid exam date, expected YYYY-MM-DD",
			"details": err.Error(),
		})
		return
	}

	rating := models.SelfRating(req.SelfRating)
	if rating == "" {
		rating = models.RatingMedium
	}

	result, err := h.Service.Configure(context.Background(), &models.PlanSettings{
		UserID:             userID,
		CourseID:           req.CourseID,
		ExamDate:           examDate,
		StudyHoursPerWeek:  req.StudyHoursPerWeek,
		SelfRating:         rating,
		PreferredStudyDays: req.PreferredStudyDays,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to configure study plan",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Regenerate rebuilds the plan from the stored settings.
func (h *PlanHandler) Regenerate(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	courseID := c.Query("course_id")
	if courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
		return
	}

	result, err := h.Service.RegeneratePlan(context.Background(), userID, courseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to regenerate plan",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// TodaysPlan returns the four-slot daily view.
func (h *PlanHandler) TodaysPlan(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	courseID := c.Query("course_id")
	if courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
		return
	}

	plan, err := h.Service.GetTodaysPlan(context.Background(), userID, courseID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to build today's plan",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// WeeklyPlan returns the plan grouped into week buckets.
func (h *PlanHandler) WeeklyPlan(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	courseID := c.Query("course_id")
	if courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
		return
	}

	weeks, err := h.Service.GetWeeklyPlan(context.Background(), userID, courseID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to load weekly plan",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"weeks": weeks})
}

// UpdateEntryStatus marks a block pending, in progress or completed.
func (h *PlanHandler) UpdateEntryStatus(c *gin.Context) {
	var req struct {
		Status                 string `json:"status" binding:"required"`
		ActualTimeSpentSeconds int    `json:"actual_time_spent_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	err := h.Service.UpdateEntryStatus(context.Background(), c.Param("id"), models.EntryStatus(req.Status), req.ActualTimeSpentSeconds)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to update entry",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry updated"})
}

// BehindSchedule runs the capacity and pace checks.
func (h *PlanHandler) BehindSchedule(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	courseID := c.Query("course_id")
	if courseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
		return
	}

	report, err := h.Service.CheckBehindSchedule(context.Background(), userID, courseID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to check schedule",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}
