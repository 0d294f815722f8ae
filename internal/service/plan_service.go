package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"studyplan-service/internal/cache"
	"studyplan-service/internal/models"
	"studyplan-service/internal/planner"
	"studyplan-service/internal/repository"
	"studyplan-service/internal/schedule"

	"go.mongodb.org/mongo-driver/mongo"
)

// insertBatchSize bounds plan-entry writes per insert call.
const insertBatchSize = 100

// PlanService owns the plan lifecycle: configuration, regeneration
// with completion carry-forward, and the read-side views.
type PlanService struct {
	SettingsRepo *repository.PlanSettingsRepository
	EntryRepo    *repository.PlanEntryRepository
	ProgressRepo *repository.ModuleProgressRepository
	CourseRepo   *repository.CourseRepository
	Cache        *cache.PlanCache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPlanService(
	settingsRepo *repository.PlanSettingsRepository,
	entryRepo *repository.PlanEntryRepository,
	progressRepo *repository.ModuleProgressRepository,
	courseRepo *repository.CourseRepository,
	planCache *cache.PlanCache,
) *PlanService {
	return &PlanService{
		SettingsRepo: settingsRepo,
		EntryRepo:    entryRepo,
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		Cache:        planCache,
		locks:        make(map[string]*sync.Mutex),
	}
}

// isNotFound reports whether the error means the document does not
// exist, as opposed to the read itself failing.
func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// lockFor serializes regenerations per (user, course). Two racing
// regenerations would interleave deletes and inserts and corrupt the
// completion carry-forward.
func (s *PlanService) lockFor(userID, courseID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + ":" + courseID
	if _, exists := s.locks[key]; !exists {
		s.locks[key] = &sync.Mutex{}
	}
	return s.locks[key]
}

// ConfigureResult is what the settings endpoint returns: the stored
// settings plus the feasibility view of them.
type ConfigureResult struct {
	Settings    *models.PlanSettings        `json:"settings"`
	Feasibility *schedule.FeasibilityReport `json:"feasibility"`
	Regenerated *RegenerateResult           `json:"plan,omitempty"`
}

// Configure creates or updates the plan settings and regenerates the
// schedule from them. On update the original planCreatedAt is kept so
// week numbering never shifts.
func (s *PlanService) Configure(ctx context.Context, settings *models.PlanSettings) (*ConfigureResult, error) {
	if settings.StudyHoursPerWeek <= 0 {
		return nil, fmt.Errorf("study hours per week must be positive")
	}
	if !settings.ExamDate.After(time.Now()) {
		return nil, fmt.Errorf("exam date must be in the future")
	}

	existing, err := s.SettingsRepo.FindByUserAndCourse(ctx, settings.UserID, settings.CourseID)
	if err != nil && !isNotFound(err) {
		// A transient read failure must not fall into the create path:
		// a duplicate settings row would carry a fresh planCreatedAt and
		// shift the permanent week anchor.
		return nil, fmt.Errorf("failed to read plan settings: %w", err)
	}
	if existing != nil {
		settings.ID = existing.ID
		settings.PlanCreatedAt = existing.PlanCreatedAt
		if err := s.SettingsRepo.UpdateMutable(ctx, existing.ID, settings); err != nil {
			return nil, fmt.Errorf("failed to update plan settings: %w", err)
		}
	} else {
		if err := s.SettingsRepo.Create(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to create plan settings: %w", err)
		}
	}

	regenerated, err := s.RegeneratePlan(ctx, settings.UserID, settings.CourseID)
	if err != nil {
		return nil, err
	}

	return &ConfigureResult{
		Settings:    settings,
		Feasibility: regenerated.Feasibility,
		Regenerated: regenerated,
	}, nil
}

// RegenerateResult carries the advisory outcome of a regeneration.
type RegenerateResult struct {
	Feasibility    *schedule.FeasibilityReport `json:"feasibility"`
	OmitPhase1     bool                        `json:"omit_phase1"`
	ExpectedCount  int                         `json:"expected_count"`
	InsertedCount  int                         `json:"inserted_count"`
	CarriedForward int                         `json:"carried_forward"`
	Warnings       []string                    `json:"warnings"`
}

// RegeneratePlan rebuilds the full schedule for (user, course).
// Regeneration is a full replace: existing entries are deleted and the
// new generation inserted in bounded batches, with completed status
// carried forward by block key. Inserts are best-effort durable; a
// later batch failure leaves earlier batches standing and is reported
// through InsertedCount.
func (s *PlanService) RegeneratePlan(ctx context.Context, userID, courseID string) (*RegenerateResult, error) {
	lock := s.lockFor(userID, courseID)
	lock.Lock()
	defer lock.Unlock()

	settings, err := s.SettingsRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("plan settings not found: %w", err)
	}
	modules, err := s.CourseRepo.FindModules(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course modules: %w", err)
	}

	generated, err := schedule.Generate(schedule.GenerateInput{
		Settings: settings,
		Modules:  modules,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	for i := range generated.Blocks {
		generated.Blocks[i].UserID = userID
		generated.Blocks[i].CourseID = courseID
	}

	oldEntries, err := s.EntryRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing plan: %w", err)
	}
	merged := planner.MergeCompletion(oldEntries, generated.Blocks)

	if _, err := s.EntryRepo.DeleteByUserAndCourse(ctx, userID, courseID); err != nil {
		return nil, fmt.Errorf("failed to clear previous plan: %w", err)
	}

	result := &RegenerateResult{
		Feasibility:    generated.Feasibility,
		OmitPhase1:     generated.Phases.OmitPhase1,
		ExpectedCount:  len(merged.Entries),
		CarriedForward: merged.CarriedForward,
		Warnings:       append([]string{}, generated.Feasibility.Warnings...),
	}

	for _, batch := range planner.Chunk(merged.Entries, insertBatchSize) {
		inserted, err := s.EntryRepo.InsertBatch(ctx, batch)
		result.InsertedCount += inserted
		if err != nil {
			// Earlier batches stand; report the shortfall instead of
			// failing the whole regeneration.
			log.Printf("plan insert batch failed for user=%s course=%s: %v", userID, courseID, err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("only %d of %d plan entries were saved", result.InsertedCount, result.ExpectedCount))
			break
		}
	}

	moduleIDs := make([]string, len(modules))
	for i := range modules {
		moduleIDs[i] = modules[i].ID
	}
	if err := s.ProgressRepo.EnsureExists(ctx, userID, moduleIDs); err != nil {
		log.Printf("module progress upsert failed for user=%s course=%s: %v", userID, courseID, err)
	}

	s.Cache.Invalidate(ctx, userID, courseID)

	return result, nil
}

// GetWeeklyPlan returns the persisted plan grouped into week buckets.
// An empty or review-less result regenerates the plan once before
// giving up, which heals partially failed earlier writes.
func (s *PlanService) GetWeeklyPlan(ctx context.Context, userID, courseID string) ([]planner.WeekBucket, error) {
	var cached []planner.WeekBucket
	if s.Cache.Get(ctx, userID, courseID, "weekly", &cached) {
		return cached, nil
	}

	settings, err := s.SettingsRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("plan settings not found: %w", err)
	}

	entries, err := s.EntryRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	if planner.NeedsRegeneration(entries) {
		// One self-heal attempt only, never a retry loop.
		if _, err := s.RegeneratePlan(ctx, userID, courseID); err != nil {
			return nil, err
		}
		entries, err = s.EntryRepo.FindByUserAndCourse(ctx, userID, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to read regenerated plan: %w", err)
		}
	}

	modules, err := s.CourseRepo.FindModules(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course modules: %w", err)
	}

	buckets := planner.BucketByWeek(entries, schedule.Week1StartDate(settings.PlanCreatedAt), modules)
	s.Cache.Set(ctx, userID, courseID, "weekly", buckets)
	return buckets, nil
}

// GetTodaysPlan builds the four-slot daily view from the current
// week's entries.
func (s *PlanService) GetTodaysPlan(ctx context.Context, userID, courseID string, now time.Time) (*planner.DailyPlan, error) {
	settings, err := s.SettingsRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("plan settings not found: %w", err)
	}

	anchor := schedule.Week1StartDate(settings.PlanCreatedAt)
	week := schedule.WeekIndex(now, anchor)
	weekStart := anchor.AddDate(0, 0, week*7)

	entries, err := s.EntryRepo.FindByDateRange(ctx, userID, courseID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to read current week: %w", err)
	}

	modules, err := s.CourseRepo.FindModules(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course modules: %w", err)
	}
	moduleIDs := make([]string, len(modules))
	for i := range modules {
		moduleIDs[i] = modules[i].ID
	}
	learnStatus, err := s.ProgressRepo.LearnStatusMap(ctx, userID, moduleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load module progress: %w", err)
	}

	return planner.BuildDailyPlan(entries, learnStatus, modules), nil
}

// UpdateEntryStatus records the learner checking a block off.
func (s *PlanService) UpdateEntryStatus(ctx context.Context, entryID string, status models.EntryStatus, actualTimeSpentSeconds int) error {
	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
	default:
		return fmt.Errorf("invalid entry status %q", status)
	}

	entry, err := s.EntryRepo.FindByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("plan entry not found: %w", err)
	}
	if err := s.EntryRepo.UpdateStatus(ctx, entryID, status, actualTimeSpentSeconds); err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	s.Cache.Invalidate(ctx, entry.UserID, entry.CourseID)
	return nil
}

// CheckBehindSchedule runs the capacity and pace checks against the
// live plan.
func (s *PlanService) CheckBehindSchedule(ctx context.Context, userID, courseID string, now time.Time) (*planner.BehindScheduleReport, error) {
	settings, err := s.SettingsRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("plan settings not found: %w", err)
	}
	modules, err := s.CourseRepo.FindModules(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course modules: %w", err)
	}

	totalWeeks, err := schedule.WeeksUntilExam(settings.ExamDate, schedule.Week1StartDate(settings.PlanCreatedAt))
	if err != nil {
		return nil, err
	}
	daysUntilExam := int(settings.ExamDate.Sub(now).Hours() / 24)
	if daysUntilExam < 0 {
		daysUntilExam = 0
	}

	pending, err := s.EntryRepo.CountPendingOnDate(ctx, userID, courseID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	return planner.CheckBehindSchedule(planner.BehindScheduleInput{
		BlocksAvailable:  totalWeeks * schedule.BlocksPerWeek(settings.StudyHoursPerWeek),
		MinimumStudyTime: schedule.MinimumStudyTime(modules),
		PendingToday:     int(pending),
		DaysUntilExam:    daysUntilExam,
		TotalWeeks:       totalWeeks,
	}), nil
}
