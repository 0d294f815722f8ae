package schedule

import (
	"fmt"
	"math"
	"time"
)

// Analyze compares the capacity implied by the exam horizon and weekly
// hours against the course's minimum study time. The exam date must be
// strictly in the future; everything else is advisory.
func Analyze(examDate, now time.Time, studyHoursPerWeek float64, minimumStudyTime int) (*FeasibilityReport, error) {
	weeks, err := WeeksUntilExam(examDate, now)
	if err != nil {
		return nil, err
	}

	bpw := BlocksPerWeek(studyHoursPerWeek)
	report := &FeasibilityReport{
		WeeksUntilExam:   weeks,
		BlocksPerWeek:    bpw,
		BlocksAvailable:  weeks * bpw,
		MinimumStudyTime: minimumStudyTime,
		Warnings:         []string{},
	}

	if report.BlocksAvailable >= minimumStudyTime {
		report.MeetsMinimum = true
		return report, nil
	}

	report.DeficitBlocks = minimumStudyTime - report.BlocksAvailable
	report.Warnings = append(report.Warnings,
		fmt.Sprintf("plan is %d blocks short of the course minimum (%d available, %d required)",
			report.DeficitBlocks, report.BlocksAvailable, minimumStudyTime))

	// A deficit beyond one week of capacity is severe enough to suggest
	// a concrete fix rather than just a shortfall count.
	if report.DeficitBlocks > bpw {
		report.RequiredHoursPerWeek = requiredHours(minimumStudyTime, weeks)
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("studying %.1f hours per week would close the gap", report.RequiredHoursPerWeek))

		if report.RequiredHoursPerWeek > studyHoursPerWeek*2 {
			report.SuggestChangeExamDate = true
			report.Warnings = append(report.Warnings,
				"required pace is more than double the configured hours, consider moving the exam date")
		}
	}

	return report, nil
}

// requiredHours is the weekly hours needed to fit minimumStudyTime
// blocks into the remaining weeks, rounded up to the half hour.
func requiredHours(minimumStudyTime, weeks int) float64 {
	blocksPerWeekNeeded := float64(minimumStudyTime) / float64(weeks)
	hours := blocksPerWeekNeeded * BlockMinutes / 60
	return math.Ceil(hours*2) / 2
}
