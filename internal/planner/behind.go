package planner

import (
	"fmt"
	"math"
)

// BehindScheduleInput carries the raw counts both checks read.
type BehindScheduleInput struct {
	BlocksAvailable  int
	MinimumStudyTime int
	PendingToday     int
	DaysUntilExam    int
	TotalWeeks       int
}

// BehindScheduleReport is the detector outcome. Both checks can fire
// on the same plan.
type BehindScheduleReport struct {
	IsBehind            bool     `json:"is_behind"`
	Warnings            []string `json:"warnings,omitempty"`
	Suggestions         []string `json:"suggestions,omitempty"`
	RequiredExtraHours  float64  `json:"required_extra_hours,omitempty"`
	CapacityCheckFailed bool     `json:"capacity_check_failed"`
	PaceCheckFailed     bool     `json:"pace_check_failed"`
}

// pendingTaskTolerance is how many open tasks a day may carry before
// the pace check considers the learner behind.
const pendingTaskTolerance = 2

// CheckBehindSchedule runs the capacity and pace checks
// independently.
func CheckBehindSchedule(in BehindScheduleInput) *BehindScheduleReport {
	report := &BehindScheduleReport{}

	if in.BlocksAvailable < in.MinimumStudyTime {
		deficit := in.MinimumStudyTime - in.BlocksAvailable
		report.CapacityCheckFailed = true
		report.IsBehind = true
		report.RequiredExtraHours = math.Ceil(float64(deficit) / 2)
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("weekly capacity is %d blocks short, add %.0f hours per week", deficit, report.RequiredExtraHours))
	}

	halfHorizon := in.TotalWeeks * 7 / 2
	if in.PendingToday > pendingTaskTolerance && in.DaysUntilExam < halfHorizon {
		report.PaceCheckFailed = true
		report.IsBehind = true
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d tasks still pending today with %d days left", in.PendingToday, in.DaysUntilExam))
		report.Suggestions = append(report.Suggestions,
			"mark modules as learned if you already covered them elsewhere",
			"increase your weekly study hours",
			"consider moving the exam date",
		)
	}

	return report
}
