package schedule

import (
	"fmt"
	"math"
	"time"
)

// WeeksUntilExam returns the horizon in whole weeks, rounding up. An
// exam date at or before the anchor is a fatal configuration error.
func WeeksUntilExam(examDate, anchor time.Time) (int, error) {
	days := examDate.Sub(anchor).Hours() / 24
	weeks := int(math.Ceil(days / 7))
	if weeks <= 0 {
		return 0, fmt.Errorf("exam date %s is not in the future", examDate.Format("2006-01-02"))
	}
	return weeks, nil
}

// BlocksPerWeek maps weekly study hours to 30 minute blocks. The
// mapping is monotonic non-decreasing in hours.
func BlocksPerWeek(studyHoursPerWeek float64) int {
	if studyHoursPerWeek <= 0 {
		return 0
	}
	return int(math.Floor(studyHoursPerWeek * 60 / BlockMinutes))
}

// PhaseDistribution splits the horizon into study and practice weeks.
// With at least 3 weeks the final 2 are reserved for practice; at
// exactly 2 weeks practice collapses into review; under 2 weeks the
// learning phase is omitted entirely and all time goes to review.
func PhaseDistribution(weeksUntilExam int) PhasePlan {
	plan := PhasePlan{TotalWeeks: weeksUntilExam}

	switch {
	case weeksUntilExam >= PracticeReservedWeeks+1:
		plan.PracticeWeeks = PracticeReservedWeeks
		plan.StudyWeeks = weeksUntilExam - PracticeReservedWeeks
	case weeksUntilExam == PracticeReservedWeeks:
		plan.PracticeWeeks = 0
		plan.StudyWeeks = weeksUntilExam
	default:
		plan.PracticeWeeks = 0
		plan.StudyWeeks = weeksUntilExam
		plan.OmitPhase1 = true
	}

	return plan
}

// Week1StartDate returns the Monday of the calendar week containing
// planCreatedAt. This anchor is permanent: week numbering is always
// computed from it, never from the exam date.
func Week1StartDate(planCreatedAt time.Time) time.Time {
	t := time.Date(planCreatedAt.Year(), planCreatedAt.Month(), planCreatedAt.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}

// WeekIndex returns the zero-based week bucket of date relative to the
// week 1 anchor. Dates before the anchor land in week 0.
func WeekIndex(date, week1Start time.Time) int {
	days := int(date.Sub(week1Start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}
