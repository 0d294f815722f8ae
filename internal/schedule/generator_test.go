package schedule

import (
	"testing"
	"time"

	"studyplan-service/internal/models"
)

func testModules() []models.CourseModule {
	return []models.CourseModule{
		{
			ID:              "mod-1",
			CourseID:        "course-1",
			Title:           "Foundations",
			Order:           1,
			EstimatedBlocks: 14,
			FlashcardIDs:    []string{"fc-1", "fc-2", "fc-3"},
			ActivityIDs:     []string{"act-1"},
			QuizIDs:         []string{"quiz-1"},
		},
		{
			ID:              "mod-2",
			CourseID:        "course-1",
			Title:           "Core Concepts",
			Order:           2,
			EstimatedBlocks: 13,
			FlashcardIDs:    []string{"fc-4", "fc-5"},
			ActivityIDs:     []string{"act-2", "act-3"},
			QuizIDs:         []string{"quiz-2"},
		},
		{
			ID:              "mod-3",
			CourseID:        "course-1",
			Title:           "Advanced Topics",
			Order:           3,
			EstimatedBlocks: 13,
			FlashcardIDs:    []string{"fc-6"},
			ActivityIDs:     []string{"act-4"},
			QuizIDs:         []string{"quiz-3"},
		},
	}
}

func testSettings(now time.Time, weeks int, hours float64) *models.PlanSettings {
	return &models.PlanSettings{
		UserID:            "user-1",
		CourseID:          "course-1",
		ExamDate:          now.AddDate(0, 0, weeks*7),
		StudyHoursPerWeek: hours,
		SelfRating:        models.RatingMedium,
		PlanCreatedAt:     now,
	}
}

// End-to-end example: exam in 8 weeks, 6 hours/week, 3 modules with 40
// blocks minimum. Learn blocks finish before week 6, review covers
// every study week, practice fills weeks 7 and 8.
func TestGenerateEightWeekPlan(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	result, err := Generate(GenerateInput{
		Settings: testSettings(now, 8, 6),
		Modules:  testModules(),
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Feasibility.MeetsMinimum {
		t.Error("96 blocks available vs 40 required should be feasible")
	}
	if result.Phases.OmitPhase1 {
		t.Error("8 week horizon must not omit the learning phase")
	}

	anchor := Week1StartDate(now)
	learnModules := make(map[string]bool)
	reviewWeeks := make(map[int]bool)

	for _, b := range result.Blocks {
		week := WeekIndex(b.Date, anchor)
		switch b.TaskType {
		case models.TaskLearn:
			learnModules[b.TargetModuleID] = true
			if week >= 6 {
				t.Errorf("learn block for %s scheduled in week %d, must finish before week 6", b.TargetModuleID, week+1)
			}
		case models.TaskReview:
			reviewWeeks[week] = true
			if week >= 6 {
				t.Errorf("review block scheduled in practice week %d", week+1)
			}
		case models.TaskPractice:
			if week < 6 {
				t.Errorf("practice block scheduled in study week %d", week+1)
			}
		}
	}

	for _, m := range testModules() {
		if !learnModules[m.ID] {
			t.Errorf("module %s has no learn blocks", m.ID)
		}
	}
	for week := 0; week < 6; week++ {
		if !reviewWeeks[week] {
			t.Errorf("study week %d has no review block", week+1)
		}
	}
}

func TestGenerateOrderStrictlyIncreasingPerDate(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	result, err := Generate(GenerateInput{
		Settings: testSettings(now, 8, 6),
		Modules:  testModules(),
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]map[int]bool)
	for _, b := range result.Blocks {
		key := b.Date.Format("2006-01-02")
		if seen[key] == nil {
			seen[key] = make(map[int]bool)
		}
		if seen[key][b.Order] {
			t.Fatalf("duplicate order %d on date %s", b.Order, key)
		}
		seen[key][b.Order] = true
	}
}

func TestGenerateBlockKeysUnique(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	result, err := Generate(GenerateInput{
		Settings: testSettings(now, 8, 6),
		Modules:  testModules(),
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys := make(map[string]bool)
	for _, b := range result.Blocks {
		if b.BlockKey == "" {
			t.Fatal("generated block missing block key")
		}
		if keys[b.BlockKey] {
			t.Fatalf("duplicate block key %s", b.BlockKey)
		}
		keys[b.BlockKey] = true
	}
}

// Half of all review blocks, rounded up, are flashcard sessions.
func TestGenerateReviewSubtypeSplit(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	result, err := Generate(GenerateInput{
		Settings: testSettings(now, 8, 6),
		Modules:  testModules(),
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	flashcards, activities := 0, 0
	for _, b := range result.Blocks {
		if b.TaskType != models.TaskReview {
			continue
		}
		switch b.ReviewSubtype {
		case models.SubtypeFlashcard:
			flashcards++
		case models.SubtypeActivity:
			activities++
		default:
			t.Fatalf("review block without subtype: %+v", b)
		}
	}

	total := flashcards + activities
	expected := (total + 1) / 2
	if flashcards != expected {
		t.Errorf("expected %d flashcard blocks of %d total, got %d", expected, total, flashcards)
	}
}

// Exam in 1 week: the learning phase is omitted and the plan contains
// only review blocks.
func TestGenerateOmitPhase1(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	result, err := Generate(GenerateInput{
		Settings: testSettings(now, 1, 6),
		Modules:  testModules(),
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Phases.OmitPhase1 {
		t.Fatal("1 week horizon must omit the learning phase")
	}
	for _, b := range result.Blocks {
		if b.TaskType == models.TaskLearn {
			t.Fatalf("learn block generated despite omitted phase 1: %+v", b)
		}
	}
	if len(result.Blocks) == 0 {
		t.Fatal("omitting phase 1 must still leave review blocks")
	}
}

// Low prior knowledge inflates the learning share.
func TestGenerateSelfRatingShiftsLearnShare(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	countLearn := func(rating models.SelfRating) int {
		settings := testSettings(now, 8, 6)
		settings.SelfRating = rating
		result, err := Generate(GenerateInput{Settings: settings, Modules: testModules(), Now: now})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		blocks := 0
		for _, b := range result.Blocks {
			if b.TaskType == models.TaskLearn {
				blocks += b.EstimatedBlocks
			}
		}
		return blocks
	}

	low := countLearn(models.RatingLow)
	medium := countLearn(models.RatingMedium)
	high := countLearn(models.RatingHigh)

	if !(low > medium && medium > high) {
		t.Errorf("learn blocks should decrease with rating: low=%d medium=%d high=%d", low, medium, high)
	}
}

func TestGeneratePreferredStudyDays(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	settings := testSettings(now, 4, 4)
	settings.PreferredStudyDays = []int{1, 3} // Tuesday and Thursday

	result, err := Generate(GenerateInput{Settings: settings, Modules: testModules(), Now: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, b := range result.Blocks {
		wd := b.Date.Weekday()
		if wd != time.Tuesday && wd != time.Thursday {
			t.Fatalf("block scheduled on %s outside preferred days", wd)
		}
	}
}

// Regenerating weeks into the plan must place blocks from the current
// week through the exam week, not slide them back to the creation
// week. The anchor stays fixed so week numbering and block keys for
// the surviving weeks are unchanged.
func TestGenerateMidPlanRegeneration(t *testing.T) {
	created := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	settings := testSettings(created, 8, 6)                // exam 2026-04-27
	now := created.AddDate(0, 0, 21)                       // regenerate 3 weeks in

	result, err := Generate(GenerateInput{
		Settings: settings,
		Modules:  testModules(),
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Blocks) == 0 {
		t.Fatal("no blocks generated")
	}

	anchor := Week1StartDate(created)
	practiceWeekFirst := WeekIndex(settings.ExamDate, anchor) - PracticeReservedWeeks

	for _, b := range result.Blocks {
		if b.Date.Before(now) {
			t.Errorf("block dated %s before regeneration time %s", b.Date.Format("2006-01-02"), now.Format("2006-01-02"))
		}
		if !b.Date.Before(settings.ExamDate) {
			t.Errorf("block dated %s on or after the exam", b.Date.Format("2006-01-02"))
		}
		week := WeekIndex(b.Date, anchor)
		if b.TaskType == models.TaskPractice && week < practiceWeekFirst {
			t.Errorf("practice block in week %d, reserved weeks start at %d", week+1, practiceWeekFirst+1)
		}
	}

	lastPractice := time.Time{}
	for _, b := range result.Blocks {
		if b.TaskType == models.TaskPractice && b.Date.After(lastPractice) {
			lastPractice = b.Date
		}
	}
	if lastPractice.IsZero() {
		t.Fatal("regenerated plan has no practice blocks")
	}
	if settings.ExamDate.Sub(lastPractice) > 14*24*time.Hour {
		t.Errorf("last practice block %s is more than 2 weeks before the exam", lastPractice.Format("2006-01-02"))
	}
}

func TestGenerateRejectsZeroHours(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	settings := testSettings(now, 8, 0)
	if _, err := Generate(GenerateInput{Settings: settings, Modules: testModules(), Now: now}); err == nil {
		t.Fatal("expected error for zero study hours")
	}
}
