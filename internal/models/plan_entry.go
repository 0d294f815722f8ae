package models

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

type TaskType string

const (
	TaskLearn    TaskType = "learn"
	TaskReview   TaskType = "review"
	TaskPractice TaskType = "practice"
)

type ReviewSubtype string

const (
	SubtypeFlashcard ReviewSubtype = "flashcard"
	SubtypeActivity  ReviewSubtype = "activity"
)

type EntryStatus string

const (
	StatusPending    EntryStatus = "pending"
	StatusInProgress EntryStatus = "in_progress"
	StatusCompleted  EntryStatus = "completed"
)

// PlanEntry is one scheduled study block. Entries for a (user, course)
// are always regenerated together; BlockKey is the stable identity used
// to carry completion status across regenerations.
type PlanEntry struct {
	ID                     string        `bson:"_id,omitempty" json:"id"`
	UserID                 string        `bson:"user_id" json:"user_id"`
	CourseID               string        `bson:"course_id" json:"course_id"`
	BlockKey               string        `bson:"block_key" json:"block_key"`
	Date                   time.Time     `bson:"date" json:"date"`
	TaskType               TaskType      `bson:"task_type" json:"task_type"`
	ReviewSubtype          ReviewSubtype `bson:"review_subtype,omitempty" json:"review_subtype,omitempty"`
	TargetModuleID         string        `bson:"target_module_id,omitempty" json:"target_module_id,omitempty"`
	TargetContentItemID    string        `bson:"target_content_item_id,omitempty" json:"target_content_item_id,omitempty"`
	TargetQuizID           string        `bson:"target_quiz_id,omitempty" json:"target_quiz_id,omitempty"`
	TargetFlashcardIDs     []string      `bson:"target_flashcard_ids,omitempty" json:"target_flashcard_ids,omitempty"`
	EstimatedBlocks        int           `bson:"estimated_blocks" json:"estimated_blocks"`
	Order                  int           `bson:"order" json:"order"`
	Status                 EntryStatus   `bson:"status" json:"status"`
	ActualTimeSpentSeconds int           `bson:"actual_time_spent_seconds,omitempty" json:"actual_time_spent_seconds,omitempty"`
	CompletedAt            *time.Time    `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// ComputeBlockKey derives the synthetic identity key for an entry.
// Two review blocks on the same date with identical (empty) targets get
// distinct keys through seq, the order within the day, so completion
// carry-forward never matches the wrong row.
func ComputeBlockKey(date time.Time, taskType TaskType, moduleID, contentItemID, quizID string, seq int) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%d",
		date.Format("2006-01-02"), taskType, moduleID, contentItemID, quizID, seq)
	return fmt.Sprintf("%016x", h.Sum64())
}

// EnsureBlockKey fills BlockKey when absent, using Order as the
// within-day sequence.
func (e *PlanEntry) EnsureBlockKey() {
	if strings.TrimSpace(e.BlockKey) == "" {
		e.BlockKey = ComputeBlockKey(e.Date, e.TaskType, e.TargetModuleID, e.TargetContentItemID, e.TargetQuizID, e.Order)
	}
}
