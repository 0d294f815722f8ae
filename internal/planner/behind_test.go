package planner

import "testing"

func TestCheckBehindSchedule(t *testing.T) {
	testCases := []struct {
		name         string
		input        BehindScheduleInput
		isBehind     bool
		capacityFail bool
		paceFail     bool
		extraHours   float64
	}{
		{
			"on track",
			BehindScheduleInput{BlocksAvailable: 96, MinimumStudyTime: 40, PendingToday: 1, DaysUntilExam: 50, TotalWeeks: 8},
			false, false, false, 0,
		},
		{
			"capacity short",
			BehindScheduleInput{BlocksAvailable: 30, MinimumStudyTime: 40, PendingToday: 0, DaysUntilExam: 50, TotalWeeks: 8},
			true, true, false, 5, // ceil(10/2)
		},
		{
			"behind pace in the second half",
			BehindScheduleInput{BlocksAvailable: 96, MinimumStudyTime: 40, PendingToday: 3, DaysUntilExam: 20, TotalWeeks: 8},
			true, false, true, 0,
		},
		{
			"many pending but still early",
			BehindScheduleInput{BlocksAvailable: 96, MinimumStudyTime: 40, PendingToday: 5, DaysUntilExam: 40, TotalWeeks: 8},
			false, false, false, 0,
		},
		{
			"exactly at the pending tolerance",
			BehindScheduleInput{BlocksAvailable: 96, MinimumStudyTime: 40, PendingToday: 2, DaysUntilExam: 10, TotalWeeks: 8},
			false, false, false, 0,
		},
		{
			"both checks fire",
			BehindScheduleInput{BlocksAvailable: 30, MinimumStudyTime: 40, PendingToday: 4, DaysUntilExam: 10, TotalWeeks: 8},
			true, true, true, 5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := CheckBehindSchedule(tc.input)
			if report.IsBehind != tc.isBehind {
				t.Errorf("expected IsBehind=%v, got %v", tc.isBehind, report.IsBehind)
			}
			if report.CapacityCheckFailed != tc.capacityFail {
				t.Errorf("expected capacity check %v", tc.capacityFail)
			}
			if report.PaceCheckFailed != tc.paceFail {
				t.Errorf("expected pace check %v", tc.paceFail)
			}
			if report.RequiredExtraHours != tc.extraHours {
				t.Errorf("expected %.0f extra hours, got %.0f", tc.extraHours, report.RequiredExtraHours)
			}
			if tc.paceFail && len(report.Suggestions) == 0 {
				t.Error("pace failure must carry suggestions")
			}
			if !tc.isBehind && len(report.Warnings) != 0 {
				t.Errorf("on-track report should carry no warnings, got %v", report.Warnings)
			}
		})
	}
}
