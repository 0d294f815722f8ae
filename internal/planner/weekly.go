package planner

import (
	"time"

	"studyplan-service/internal/models"
	"studyplan-service/internal/schedule"
)

// WeekBucket is one display week of the plan: a 7 day window starting
// Monday, numbered from the permanent week 1 anchor.
type WeekBucket struct {
	WeekNumber   int                `json:"week_number"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      time.Time          `json:"end_date"`
	Entries      []models.PlanEntry `json:"entries"`
	ModuleTitles map[string]string  `json:"module_titles"`
}

// BucketByWeek groups entries into 7 day windows relative to the week 1
// anchor and merges in module display metadata. Entries must already be
// sorted by date then order.
func BucketByWeek(entries []models.PlanEntry, week1Start time.Time, modules []models.CourseModule) []WeekBucket {
	titles := make(map[string]string, len(modules))
	for i := range modules {
		titles[modules[i].ID] = modules[i].Title
	}

	byWeek := make(map[int][]models.PlanEntry)
	maxWeek := 0
	for _, e := range entries {
		week := schedule.WeekIndex(e.Date, week1Start)
		byWeek[week] = append(byWeek[week], e)
		if week > maxWeek {
			maxWeek = week
		}
	}

	var buckets []WeekBucket
	for week := 0; week <= maxWeek; week++ {
		weekEntries, exists := byWeek[week]
		if !exists {
			continue
		}
		start := week1Start.AddDate(0, 0, week*7)
		bucket := WeekBucket{
			WeekNumber:   week + 1,
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, 6),
			Entries:      weekEntries,
			ModuleTitles: make(map[string]string),
		}
		for _, e := range weekEntries {
			if e.TargetModuleID != "" {
				if title, ok := titles[e.TargetModuleID]; ok {
					bucket.ModuleTitles[e.TargetModuleID] = title
				}
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// NeedsRegeneration reports whether a fetched plan looks like the
// leftovers of a partially failed write: no entries at all, or a plan
// with no review blocks.
func NeedsRegeneration(entries []models.PlanEntry) bool {
	if len(entries) == 0 {
		return true
	}
	for _, e := range entries {
		if e.TaskType == models.TaskReview {
			return false
		}
	}
	return true
}
