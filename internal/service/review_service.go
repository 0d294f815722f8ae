package service

import (
	"context"
	"fmt"
	"time"

	"studyplan-service/internal/models"
	"studyplan-service/internal/repository"
	"studyplan-service/internal/review"
)

// ReviewService drives the endless spaced-repetition queue. It is
// decoupled from the schedule: only module-learned status gates what
// is servable.
type ReviewService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ModuleProgressRepository
	ItemRepo     *repository.ReviewItemRepository
	ReviewRepo   *repository.ReviewProgressRepository
	selector     *review.Selector
}

func NewReviewService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ModuleProgressRepository,
	itemRepo *repository.ReviewItemRepository,
	reviewRepo *repository.ReviewProgressRepository,
) *ReviewService {
	return &ReviewService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		ItemRepo:     itemRepo,
		ReviewRepo:   reviewRepo,
		selector:     review.NewSelector(),
	}
}

// NextItemResult is one served review item.
type NextItemResult struct {
	Item      *models.ReviewItem    `json:"item"`
	ItemType  models.ReviewItemType `json:"item_type"`
	ContentID string                `json:"content_id"`
	ModuleID  string                `json:"module_id"`
	Unseen    bool                  `json:"unseen"`
}

// GetNextItem serves the next flashcard or activity for the learner:
// unseen items first across all unlocked modules, then weighted
// random over the seen pool. Every serve updates the item record and
// the course-level counter.
func (s *ReviewService) GetNextItem(ctx context.Context, userID, courseID string) (*NextItemResult, error) {
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

	unlocked := review.UnlockedModuleIDs(modules, learnStatus)
	candidates := review.Candidates(modules, unlocked)

	seen, err := s.ItemRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review records: %w", err)
	}

	selection, err := s.selector.Pick(candidates, seen)
	if err != nil {
		return nil, err
	}

	var item *models.ReviewItem
	now := time.Now().UTC()
	if selection.Unseen {
		// First serve creates the record lazily.
		item = &models.ReviewItem{
			UserID:            userID,
			CourseID:          courseID,
			ModuleID:          selection.Candidate.ModuleID,
			ItemType:          selection.Candidate.ItemType,
			TimesServed:       1,
			ProbabilityWeight: models.DefaultProbabilityWeight,
			LastServedAt:      &now,
		}
		if selection.Candidate.ItemType == models.ItemFlashcard {
			item.FlashcardID = selection.Candidate.ContentID
		} else {
			item.ActivityID = selection.Candidate.ContentID
		}
		if err := s.ItemRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create review record: %w", err)
		}
	} else {
		item = selection.Existing
		if err := s.ItemRepo.MarkServed(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("failed to update review record: %w", err)
		}
		item.TimesServed++
		item.LastServedAt = &now
	}

	if err := s.ReviewRepo.RecordServe(ctx, userID, courseID, item.ID); err != nil {
		return nil, fmt.Errorf("failed to update review progress: %w", err)
	}

	return &NextItemResult{
		Item:      item,
		ItemType:  selection.Candidate.ItemType,
		ContentID: selection.Candidate.ContentID,
		ModuleID:  selection.Candidate.ModuleID,
		Unseen:    selection.Unseen,
	}, nil
}

// RateItem overwrites the item's selection weight from the reported
// difficulty: easy halves the resurface chance, medium resets it,
// hard raises it by 30%.
func (s *ReviewService) RateItem(ctx context.Context, itemID string, difficulty models.Difficulty) error {
	weight, exists := models.DifficultyWeights[difficulty]
	if !exists {
		return fmt.Errorf("invalid difficulty %q", difficulty)
	}
	if _, err := s.ItemRepo.FindByID(ctx, itemID); err != nil {
		return fmt.Errorf("review item not found: %w", err)
	}
	if err := s.ItemRepo.SetDifficulty(ctx, itemID, difficulty, weight); err != nil {
		return fmt.Errorf("failed to rate review item: %w", err)
	}
	return nil
}

// GetProgress exposes the running "items reviewed" counter.
func (s *ReviewService) GetProgress(ctx context.Context, userID, courseID string) (*models.ReviewProgress, error) {
	progress, err := s.ReviewRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		// A learner who never reviewed has no record yet.
		return &models.ReviewProgress{UserID: userID, CourseID: courseID}, nil
	}
	return progress, nil
}
