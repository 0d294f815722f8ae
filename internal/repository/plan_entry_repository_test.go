package repository

import (
	"testing"
	"time"

	"studyplan-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestStatusUpdateCompletedSetsTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	update := statusUpdate(models.StatusCompleted, 1800, now)

	set := update["$set"].(bson.M)
	if set["status"] != models.StatusCompleted {
		t.Errorf("expected status completed, got %v", set["status"])
	}
	if set["completed_at"] != now {
		t.Errorf("expected completed_at %v, got %v", now, set["completed_at"])
	}
	if set["actual_time_spent_seconds"] != 1800 {
		t.Errorf("expected time spent 1800, got %v", set["actual_time_spent_seconds"])
	}
	if _, hasUnset := update["$unset"]; hasUnset {
		t.Error("completing must not unset anything")
	}
}

// Moving an entry back to pending clears the completion trail instead
// of leaving the old completed_at and time spent behind.
func TestStatusUpdateReopenClearsCompletionTrail(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	update := statusUpdate(models.StatusPending, 0, now)

	set := update["$set"].(bson.M)
	if set["status"] != models.StatusPending {
		t.Errorf("expected status pending, got %v", set["status"])
	}
	if _, has := set["completed_at"]; has {
		t.Error("reopening must not set completed_at")
	}

	unset, ok := update["$unset"].(bson.M)
	if !ok {
		t.Fatal("reopening must carry an $unset document")
	}
	if _, has := unset["completed_at"]; !has {
		t.Error("reopening must unset completed_at")
	}
	if _, has := unset["actual_time_spent_seconds"]; !has {
		t.Error("reopening without new time spent must unset the old value")
	}
}

func TestStatusUpdateInProgressKeepsNewTimeSpent(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	update := statusUpdate(models.StatusInProgress, 600, now)

	set := update["$set"].(bson.M)
	if set["actual_time_spent_seconds"] != 600 {
		t.Errorf("expected time spent 600, got %v", set["actual_time_spent_seconds"])
	}
	unset := update["$unset"].(bson.M)
	if _, has := unset["actual_time_spent_seconds"]; has {
		t.Error("a fresh time spent value must not be unset in the same update")
	}
	if _, has := unset["completed_at"]; !has {
		t.Error("in progress must still clear completed_at")
	}
}
