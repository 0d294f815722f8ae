package schedule

import (
	"studyplan-service/internal/models"
	"time"
)

// One block is a fixed 30 minute unit of study time.
const BlockMinutes = 30

// Phase 3 always claims the final two weeks before the exam when the
// horizon allows it.
const PracticeReservedWeeks = 2

// PhasePlan is the week-level split of the horizon into learn/review
// and practice time.
type PhasePlan struct {
	TotalWeeks    int  `json:"total_weeks"`
	PracticeWeeks int  `json:"practice_weeks"`
	StudyWeeks    int  `json:"study_weeks"` // weeks carrying learn+review blocks
	OmitPhase1    bool `json:"omit_phase1"`
}

// FeasibilityReport compares available capacity against the course's
// minimum study time. Advisory fields are zero-valued when capacity is
// sufficient.
type FeasibilityReport struct {
	WeeksUntilExam        int      `json:"weeks_until_exam"`
	BlocksPerWeek         int      `json:"blocks_per_week"`
	BlocksAvailable       int      `json:"blocks_available"`
	MinimumStudyTime      int      `json:"minimum_study_time"`
	MeetsMinimum          bool     `json:"meets_minimum"`
	DeficitBlocks         int      `json:"deficit_blocks"`
	RequiredHoursPerWeek  float64  `json:"required_hours_per_week,omitempty"`
	SuggestChangeExamDate bool     `json:"suggest_change_exam_date,omitempty"`
	Warnings              []string `json:"warnings"`
}

// GenerateInput carries everything the block generator needs. Modules
// must be in course order.
type GenerateInput struct {
	Settings *models.PlanSettings
	Modules  []models.CourseModule
	Now      time.Time
}

// GenerateResult is the full ordered block list plus the flags the
// caller surfaces to the learner.
type GenerateResult struct {
	Blocks      []models.PlanEntry
	Phases      PhasePlan
	Feasibility *FeasibilityReport
}
