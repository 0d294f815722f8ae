package models

import "time"

type LearnStatus string

const (
	StatusNotLearned LearnStatus = "not_learned"
	StatusLearned    LearnStatus = "learned"
)

// ModuleProgress tracks per user+module learning state. Written when a
// learner finishes a module; read by the generator and review selector.
type ModuleProgress struct {
	ID             string      `bson:"_id,omitempty" json:"id"`
	UserID         string      `bson:"user_id" json:"user_id"`
	ModuleID       string      `bson:"module_id" json:"module_id"`
	LearnStatus    LearnStatus `bson:"learn_status" json:"learn_status"`
	LastLearnedAt  *time.Time  `bson:"last_learned_at,omitempty" json:"last_learned_at,omitempty"`
	MemoryStrength float64     `bson:"memory_strength" json:"memory_strength"`
	ErrorRate      float64     `bson:"error_rate" json:"error_rate"`
}
