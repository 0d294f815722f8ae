package planner

import (
	"testing"
	"time"

	"studyplan-service/internal/models"
)

func TestBucketByWeek(t *testing.T) {
	anchor := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	modules := []models.CourseModule{
		{ID: "mod-1", Order: 1, Title: "Foundations"},
	}
	entries := []models.PlanEntry{
		entryAt(anchor, models.TaskLearn, "mod-1", 0, models.StatusPending),
		entryAt(anchor.AddDate(0, 0, 2), models.TaskReview, "", 0, models.StatusPending),
		entryAt(anchor.AddDate(0, 0, 9), models.TaskReview, "", 0, models.StatusPending),
	}

	buckets := BucketByWeek(entries, anchor, modules)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 week buckets, got %d", len(buckets))
	}
	if buckets[0].WeekNumber != 1 || len(buckets[0].Entries) != 2 {
		t.Errorf("week 1 should hold 2 entries, got %d (week %d)", len(buckets[0].Entries), buckets[0].WeekNumber)
	}
	if buckets[1].WeekNumber != 2 || len(buckets[1].Entries) != 1 {
		t.Errorf("week 2 should hold 1 entry, got %d (week %d)", len(buckets[1].Entries), buckets[1].WeekNumber)
	}
	if !buckets[0].StartDate.Equal(anchor) {
		t.Errorf("week 1 starts at the anchor, got %s", buckets[0].StartDate)
	}
	if buckets[0].ModuleTitles["mod-1"] != "Foundations" {
		t.Error("module metadata should be merged into the bucket")
	}
}

func TestNeedsRegeneration(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		entries  []models.PlanEntry
		expected bool
	}{
		{"no entries at all", nil, true},
		{
			"entries but no review blocks",
			[]models.PlanEntry{entryAt(day, models.TaskLearn, "mod-1", 0, models.StatusPending)},
			true,
		},
		{
			"healthy plan",
			[]models.PlanEntry{
				entryAt(day, models.TaskLearn, "mod-1", 0, models.StatusPending),
				entryAt(day, models.TaskReview, "", 1, models.StatusPending),
			},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsRegeneration(tc.entries); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}
