package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"

	"studyplan-service/internal/models"
)

// defaultStudyDays are the day offsets from Monday a week's blocks are
// spread over when the learner has no preference.
var defaultStudyDays = []int{0, 1, 2, 3, 4}

// maxFlashcardsPerBlock bounds how many flashcards a single review
// block targets.
const maxFlashcardsPerBlock = 5

// Generate produces the complete ordered block list spanning the
// current week through the exam week: learn blocks per module in order,
// a steady review cadence over every study week, and practice blocks
// in the reserved final weeks.
func Generate(in GenerateInput) (*GenerateResult, error) {
	s := in.Settings
	if s == nil {
		return nil, fmt.Errorf("plan settings are required")
	}

	report, err := Analyze(s.ExamDate, in.Now, s.StudyHoursPerWeek, MinimumStudyTime(in.Modules))
	if err != nil {
		return nil, err
	}
	if report.BlocksPerWeek <= 0 {
		return nil, fmt.Errorf("study hours per week must be positive")
	}

	phases := PhaseDistribution(report.WeeksUntilExam)

	anchor := Week1StartDate(s.PlanCreatedAt)
	g := &generator{
		settings:    s,
		modules:     in.Modules,
		bpw:         report.BlocksPerWeek,
		anchor:      anchor,
		baseWeek:    WeekIndex(in.Now, anchor),
		studyDays:   studyDays(s.PreferredStudyDays),
		orderByDate: make(map[string]int),
		dayCursor:   make(map[int]int),
	}

	learnUsed := make(map[int]int)
	if !phases.OmitPhase1 {
		learnUsed = g.allocateLearn(phases.StudyWeeks)
	}
	g.allocateReview(phases.StudyWeeks, learnUsed)
	g.allocatePractice(phases)

	return &GenerateResult{
		Blocks:      g.blocks,
		Phases:      phases,
		Feasibility: report,
	}, nil
}

// MinimumStudyTime sums the per-module block estimates of the content
// inventory.
func MinimumStudyTime(modules []models.CourseModule) int {
	total := 0
	for i := range modules {
		total += modules[i].EstimatedStudyBlocks()
	}
	return total
}

type generator struct {
	settings    *models.PlanSettings
	modules     []models.CourseModule
	bpw         int
	anchor      time.Time
	baseWeek    int
	studyDays   []int
	orderByDate map[string]int
	dayCursor   map[int]int
	blocks      []models.PlanEntry
}

// allocateLearn emits learn blocks for every module in course order.
// A module's blocks stay packed: when starting it in the current week
// would spread it over more weeks than the minimum its size requires,
// the module waits for the next week instead.
func (g *generator) allocateLearn(studyWeeks int) map[int]int {
	used := make(map[int]int)
	week := 0
	multiplier := g.settings.SelfRating.LearnMultiplier()

	for i := range g.modules {
		module := &g.modules[i]
		need := int(math.Ceil(float64(module.EstimatedStudyBlocks()) * multiplier))
		if need < 1 {
			need = 1
		}

		week = g.packStartWeek(week, need, used, studyWeeks)

		remaining := need
		for remaining > 0 {
			if used[week] >= g.bpw && week < studyWeeks-1 {
				week++
			}
			size := 2
			if remaining < 2 {
				size = 1
			}
			g.place(week, models.PlanEntry{
				TaskType:        models.TaskLearn,
				TargetModuleID:  module.ID,
				EstimatedBlocks: size,
			})
			used[week] += size
			remaining -= size
		}
	}

	return used
}

// packStartWeek decides which week a module of the given size starts
// in so it never spans more weeks than ceil(need/bpw).
func (g *generator) packStartWeek(week, need int, used map[int]int, studyWeeks int) int {
	if week >= studyWeeks-1 {
		return week
	}
	free := g.bpw - used[week]
	if free <= 0 {
		return week + 1
	}
	minSpan := (need + g.bpw - 1) / g.bpw
	spanIfNow := 1
	if need > free {
		spanIfNow += (need - free + g.bpw - 1) / g.bpw
	}
	if spanIfNow > minSpan {
		return week + 1
	}
	return week
}

// allocateReview fills every study week's remaining capacity with one
// block review entries, at least one per week so no study week goes
// without spaced repetition. Subtypes alternate starting flashcard,
// which puts the round-up half on the flashcard side.
func (g *generator) allocateReview(studyWeeks int, learnUsed map[int]int) {
	reviewIdx := 0
	for week := 0; week < studyWeeks; week++ {
		count := g.bpw - learnUsed[week]
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			entry := models.PlanEntry{
				TaskType:        models.TaskReview,
				EstimatedBlocks: 1,
			}
			if reviewIdx%2 == 0 {
				entry.ReviewSubtype = models.SubtypeFlashcard
				moduleID, cards := g.flashcardTargets(reviewIdx)
				entry.TargetModuleID = moduleID
				entry.TargetFlashcardIDs = cards
			} else {
				entry.ReviewSubtype = models.SubtypeActivity
				moduleID, activityID := g.activityTarget(reviewIdx)
				entry.TargetModuleID = moduleID
				entry.TargetContentItemID = activityID
			}
			g.place(week, entry)
			reviewIdx++
		}
	}
}

// allocatePractice fills the reserved final weeks with practice blocks
// targeting the course's quizzes.
func (g *generator) allocatePractice(phases PhasePlan) {
	quizIDs := g.collectQuizIDs()
	quizIdx := 0
	for week := phases.StudyWeeks; week < phases.TotalWeeks; week++ {
		remaining := g.bpw
		for remaining > 0 {
			size := 2
			if remaining < 2 {
				size = 1
			}
			entry := models.PlanEntry{
				TaskType:        models.TaskPractice,
				EstimatedBlocks: size,
			}
			if len(quizIDs) > 0 {
				entry.TargetQuizID = quizIDs[quizIdx%len(quizIDs)]
				quizIdx++
			}
			g.place(week, entry)
			remaining -= size
		}
	}
}

// place dates the entry on the week's next study day and stamps the
// strictly increasing per-date order.
func (g *generator) place(week int, entry models.PlanEntry) {
	dates := g.weekDates(week)
	cursor := g.dayCursor[week]
	date := dates[cursor%len(dates)]
	g.dayCursor[week] = cursor + 1

	key := date.Format("2006-01-02")
	entry.Date = date
	entry.Order = g.orderByDate[key]
	g.orderByDate[key]++
	if entry.Status == "" {
		entry.Status = models.StatusPending
	}
	entry.EnsureBlockKey()
	g.blocks = append(g.blocks, entry)
}

// weekDates resolves a generation week to concrete dates. Generation
// week 0 is the week containing Now, not the anchor week: the horizon
// is measured from Now, so a regeneration weeks into the plan must
// place its blocks from the current week through the exam week instead
// of sliding them back to the anchor.
func (g *generator) weekDates(week int) []time.Time {
	dates := make([]time.Time, len(g.studyDays))
	for i, day := range g.studyDays {
		dates[i] = g.anchor.AddDate(0, 0, (g.baseWeek+week)*7+day)
	}
	return dates
}

// flashcardTargets cycles modules that have flashcards and returns a
// bounded slice of their card ids.
func (g *generator) flashcardTargets(idx int) (string, []string) {
	withCards := make([]*models.CourseModule, 0, len(g.modules))
	for i := range g.modules {
		if len(g.modules[i].FlashcardIDs) > 0 {
			withCards = append(withCards, &g.modules[i])
		}
	}
	if len(withCards) == 0 {
		return "", []string{}
	}
	module := withCards[idx%len(withCards)]
	cards := module.FlashcardIDs
	if len(cards) > maxFlashcardsPerBlock {
		cards = cards[:maxFlashcardsPerBlock]
	}
	return module.ID, cards
}

// activityTarget cycles modules that have learning activities.
func (g *generator) activityTarget(idx int) (string, string) {
	withActivities := make([]*models.CourseModule, 0, len(g.modules))
	for i := range g.modules {
		if len(g.modules[i].ActivityIDs) > 0 {
			withActivities = append(withActivities, &g.modules[i])
		}
	}
	if len(withActivities) == 0 {
		return "", ""
	}
	module := withActivities[idx%len(withActivities)]
	return module.ID, module.ActivityIDs[idx%len(module.ActivityIDs)]
}

func (g *generator) collectQuizIDs() []string {
	var ids []string
	for i := range g.modules {
		ids = append(ids, g.modules[i].QuizIDs...)
	}
	return ids
}

// studyDays normalizes the learner's preferred day offsets (0 =
// Monday) into a valid non-empty ordered set.
func studyDays(preferred []int) []int {
	seen := make(map[int]bool)
	var days []int
	for _, d := range preferred {
		if d >= 0 && d <= 6 && !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return defaultStudyDays
	}
	sort.Ints(days)
	return days
}
