package models

import "time"

type SelfRating string

const (
	RatingLow    SelfRating = "low"
	RatingMedium SelfRating = "medium"
	RatingHigh   SelfRating = "high"
)

// PlanSettings holds the per user+course study plan configuration.
// PlanCreatedAt is fixed at first creation and preserved across
// regenerations so week numbering never shifts.
type PlanSettings struct {
	ID                 string     `bson:"_id,omitempty" json:"id"`
	UserID             string     `bson:"user_id" json:"user_id"`
	CourseID           string     `bson:"course_id" json:"course_id"`
	ExamDate           time.Time  `bson:"exam_date" json:"exam_date"`
	StudyHoursPerWeek  float64    `bson:"study_hours_per_week" json:"study_hours_per_week"`
	SelfRating         SelfRating `bson:"self_rating" json:"self_rating"`
	PreferredStudyDays []int      `bson:"preferred_study_days" json:"preferred_study_days"`
	PlanCreatedAt      time.Time  `bson:"plan_created_at" json:"plan_created_at"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}

// SelfRatingMultipliers scales the learning-phase block estimate per
// self-assessed prior knowledge. Lower rating means more learn time.
var SelfRatingMultipliers = map[SelfRating]float64{
	RatingLow:    1.25,
	RatingMedium: 1.0,
	RatingHigh:   0.8,
}

// LearnMultiplier returns the block-sizing multiplier for the rating,
// falling back to medium for unknown values.
func (s SelfRating) LearnMultiplier() float64 {
	if m, exists := SelfRatingMultipliers[s]; exists {
		return m
	}
	return 1.0
}
