package planner

import (
	"sort"

	"studyplan-service/internal/models"
)

// A day targets at most 6 blocks (3 hours) spread over four fixed
// session slots.
const dailyBlockCap = 6

// DailyPlan is today's actionable selection placed into the four named
// session slots. Slot target sizes are 1, 2, 1, 2 blocks; each slot
// holds at most one item.
type DailyPlan struct {
	SessionCourte               *models.PlanEntry `json:"sessionCourte,omitempty"`
	SessionLongue               *models.PlanEntry `json:"sessionLongue,omitempty"`
	SessionCourteSupplementaire *models.PlanEntry `json:"sessionCourteSupplementaire,omitempty"`
	SessionLongueSupplementaire *models.PlanEntry `json:"sessionLongueSupplementaire,omitempty"`
	TotalBlocks                 int               `json:"total_blocks"`
	Phase1ModuleID              string            `json:"phase1_module_id,omitempty"`
}

// BuildDailyPlan selects today's items from the current week: the
// learn blocks of the first module not yet learned, plus every review
// block of the week, learn first, capped at 6 blocks total.
//
// Slot 3 is reserved with a one-block review item before any other
// slot fills. A greedy left-to-right fill would hand every review
// block to slots 1 and 2 whenever learn content is scarce and leave
// the short supplementary session empty; the reservation keeps the
// spaced-repetition slot alive whenever the week has any review block.
func BuildDailyPlan(weekEntries []models.PlanEntry, learnStatus map[string]models.LearnStatus, modules []models.CourseModule) *DailyPlan {
	plan := &DailyPlan{}

	phase1Module := firstUnlearnedModule(modules, learnStatus)
	plan.Phase1ModuleID = phase1Module

	var learnCandidates, reviewCandidates, completedReview []models.PlanEntry
	for _, e := range weekEntries {
		switch e.TaskType {
		case models.TaskLearn:
			if phase1Module != "" && e.TargetModuleID == phase1Module && e.Status != models.StatusCompleted {
				learnCandidates = append(learnCandidates, e)
			}
		case models.TaskReview:
			if e.Status == models.StatusCompleted {
				completedReview = append(completedReview, e)
			} else {
				reviewCandidates = append(reviewCandidates, e)
			}
		}
	}

	// Learn first, then review, capped at the daily block budget.
	candidates := capBlocks(append(learnCandidates, reviewCandidates...), dailyBlockCap)

	used := make(map[string]bool)

	// Reserve the short supplementary review before anything else. The
	// reservation may reach past the cap into the full week pool so
	// slot 3 never starves while review exists anywhere in the week.
	reserved := pickFirst(candidates, used, func(e *models.PlanEntry) bool {
		return e.TaskType == models.TaskReview && e.EstimatedBlocks <= 1
	})
	if reserved == nil {
		reserved = pickFirst(reviewCandidates, used, func(e *models.PlanEntry) bool {
			return e.EstimatedBlocks <= 1
		})
	}
	if reserved == nil && len(reviewCandidates) > 0 {
		reserved = pickFirst(reviewCandidates, used, func(e *models.PlanEntry) bool { return true })
	}
	// A week whose review blocks are all checked off still keeps the
	// slot filled: re-serving a finished review is spaced repetition
	// working as intended, not a scheduling error.
	if reserved == nil && len(completedReview) > 0 {
		reserved = pickFirst(completedReview, used, func(e *models.PlanEntry) bool {
			return e.EstimatedBlocks <= 1
		})
		if reserved == nil {
			reserved = pickFirst(completedReview, used, func(e *models.PlanEntry) bool { return true })
		}
	}

	// Slot 1: short session, prefer learn.
	slot1 := pickFirst(candidates, used, func(e *models.PlanEntry) bool {
		return e.TaskType == models.TaskLearn && e.EstimatedBlocks <= 1
	})
	if slot1 == nil {
		slot1 = pickFirst(candidates, used, func(e *models.PlanEntry) bool {
			return e.EstimatedBlocks <= 1
		})
	}

	// Slot 2: long session, prefer learn.
	slot2 := pickFirst(candidates, used, func(e *models.PlanEntry) bool {
		return e.TaskType == models.TaskLearn && e.EstimatedBlocks <= 2
	})
	if slot2 == nil {
		slot2 = pickFirst(candidates, used, func(e *models.PlanEntry) bool {
			return e.EstimatedBlocks <= 2
		})
	}

	// Slot 4: long supplementary, any remaining item.
	slot4 := pickFirst(candidates, used, func(e *models.PlanEntry) bool { return true })

	plan.SessionCourte = slot1
	plan.SessionLongue = slot2
	plan.SessionCourteSupplementaire = reserved
	plan.SessionLongueSupplementaire = slot4

	for _, e := range []*models.PlanEntry{slot1, slot2, reserved, slot4} {
		if e != nil {
			plan.TotalBlocks += e.EstimatedBlocks
		}
	}
	return plan
}

// firstUnlearnedModule returns the id of the first module by course
// order the learner has not finished.
func firstUnlearnedModule(modules []models.CourseModule, learnStatus map[string]models.LearnStatus) string {
	ordered := make([]models.CourseModule, len(modules))
	copy(ordered, modules)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	for i := range ordered {
		if learnStatus[ordered[i].ID] != models.StatusLearned {
			return ordered[i].ID
		}
	}
	return ""
}

// capBlocks keeps the leading entries whose block sizes fit the budget.
func capBlocks(entries []models.PlanEntry, budget int) []models.PlanEntry {
	var out []models.PlanEntry
	total := 0
	for _, e := range entries {
		if total+e.EstimatedBlocks > budget {
			break
		}
		out = append(out, e)
		total += e.EstimatedBlocks
	}
	return out
}

// pickFirst returns the first unused entry matching the predicate and
// marks it used. Entries are identified by block key.
func pickFirst(entries []models.PlanEntry, used map[string]bool, match func(*models.PlanEntry) bool) *models.PlanEntry {
	for i := range entries {
		e := &entries[i]
		e.EnsureBlockKey()
		if used[e.BlockKey] {
			continue
		}
		if match(e) {
			used[e.BlockKey] = true
			picked := *e
			return &picked
		}
	}
	return nil
}
