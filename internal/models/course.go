package models

import "time"

// Course is the read-only content inventory consumed by the scheduler.
// CRUD for courses lives in the content service; this service only
// reads the shape it needs for sizing and feasibility.
type Course struct {
	ID                     string    `bson:"_id,omitempty" json:"id"`
	Title                  string    `bson:"title" json:"title"`
	MinimumStudyTimeBlocks int       `bson:"minimum_study_time_blocks" json:"minimum_study_time_blocks"`
	IsActive               bool      `bson:"is_active" json:"is_active"`
	CreatedAt              time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time `bson:"updated_at" json:"updated_at"`
}

// CourseModule is one ordered module of a course with its content
// inventory counts and item ids.
type CourseModule struct {
	ID              string   `bson:"_id,omitempty" json:"id"`
	CourseID        string   `bson:"course_id" json:"course_id"`
	Title           string   `bson:"title" json:"title"`
	Order           int      `bson:"order" json:"order"`
	ContentItemIDs  []string `bson:"content_item_ids" json:"content_item_ids"`
	FlashcardIDs    []string `bson:"flashcard_ids" json:"flashcard_ids"`
	ActivityIDs     []string `bson:"activity_ids" json:"activity_ids"`
	QuizIDs         []string `bson:"quiz_ids" json:"quiz_ids"`
	EstimatedBlocks int      `bson:"estimated_blocks" json:"estimated_blocks"`
}

// EstimatedStudyBlocks returns the module sizing estimate, deriving one
// from the content-item count when no explicit estimate is stored.
func (m *CourseModule) EstimatedStudyBlocks() int {
	if m.EstimatedBlocks > 0 {
		return m.EstimatedBlocks
	}
	// Two blocks per content item is the platform's default estimate.
	if n := len(m.ContentItemIDs); n > 0 {
		return n * 2
	}
	return 2
}
