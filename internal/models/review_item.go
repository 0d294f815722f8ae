package models

import "time"

type ReviewItemType string

const (
	ItemFlashcard ReviewItemType = "flashcard"
	ItemActivity  ReviewItemType = "activity"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyWeights maps a reported difficulty to the selection weight
// it overwrites on the item. Weights replace, they never accumulate.
var DifficultyWeights = map[Difficulty]float64{
	DifficultyEasy:   0.5,
	DifficultyMedium: 1.0,
	DifficultyHard:   1.3,
}

const DefaultProbabilityWeight = 1.0

// ReviewItem is the per user+item spaced-repetition record, created
// lazily the first time an item is served.
type ReviewItem struct {
	ID                string         `bson:"_id,omitempty" json:"id"`
	UserID            string         `bson:"user_id" json:"user_id"`
	CourseID          string         `bson:"course_id" json:"course_id"`
	ModuleID          string         `bson:"module_id" json:"module_id"`
	ItemType          ReviewItemType `bson:"item_type" json:"item_type"`
	FlashcardID       string         `bson:"flashcard_id,omitempty" json:"flashcard_id,omitempty"`
	ActivityID        string         `bson:"activity_id,omitempty" json:"activity_id,omitempty"`
	TimesServed       int            `bson:"times_served" json:"times_served"`
	LastDifficulty    Difficulty     `bson:"last_difficulty,omitempty" json:"last_difficulty,omitempty"`
	ProbabilityWeight float64        `bson:"probability_weight" json:"probability_weight"`
	LastServedAt      *time.Time     `bson:"last_served_at,omitempty" json:"last_served_at,omitempty"`
}

// ContentRef returns the single flashcard or activity id the item
// points at.
func (r *ReviewItem) ContentRef() string {
	if r.ItemType == ItemFlashcard {
		return r.FlashcardID
	}
	return r.ActivityID
}

// ReviewProgress is the per user+course review counter, upserted on
// every serve.
type ReviewProgress struct {
	ID                 string `bson:"_id,omitempty" json:"id"`
	UserID             string `bson:"user_id" json:"user_id"`
	CourseID           string `bson:"course_id" json:"course_id"`
	TotalItemsReviewed int    `bson:"total_items_reviewed" json:"total_items_reviewed"`
	LastItemID         string `bson:"last_item_id,omitempty" json:"last_item_id,omitempty"`
}
