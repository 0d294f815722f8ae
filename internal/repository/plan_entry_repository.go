package repository

import (
	"context"
	"time"

	"studyplan-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlanEntryRepository struct {
	Col *mongo.Collection
}

func NewPlanEntryRepository(db *mongo.Database) *PlanEntryRepository {
	return &PlanEntryRepository{Col: db.Collection("plan_entries")}
}

func (r *PlanEntryRepository) FindByID(ctx context.Context, id string) (*models.PlanEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var entry models.PlanEntry
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PlanEntryRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) ([]models.PlanEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "order", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.PlanEntry
	for cur.Next(ctx) {
		var e models.PlanEntry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *PlanEntryRepository) FindByDateRange(ctx context.Context, userID, courseID string, from, to time.Time) ([]models.PlanEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "order", Value: 1}})
	filter := bson.M{
		"user_id":   userID,
		"course_id": courseID,
		"date":      bson.M{"$gte": from, "$lt": to},
	}
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.PlanEntry
	for cur.Next(ctx) {
		var e models.PlanEntry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *PlanEntryRepository) DeleteByUserAndCourse(ctx context.Context, userID, courseID string) (int64, error) {
	res, err := r.Col.DeleteMany(ctx, bson.M{"user_id": userID, "course_id": courseID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// InsertBatch inserts one bounded chunk of entries. Callers drive the
// chunking so a later failure leaves earlier chunks standing.
func (r *PlanEntryRepository) InsertBatch(ctx context.Context, entries []models.PlanEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}
	res, err := r.Col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		return len(res.InsertedIDs), err
	}
	return 0, err
}

func (r *PlanEntryRepository) UpdateStatus(ctx context.Context, id string, status models.EntryStatus, actualTimeSpentSeconds int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, statusUpdate(status, actualTimeSpentSeconds, time.Now().UTC()))
	return err
}

// statusUpdate builds the status change document. Leaving completed
// means the completion trail goes with it, so a reopened entry never
// keeps a stale completed_at or time spent.
func statusUpdate(status models.EntryStatus, actualTimeSpentSeconds int, now time.Time) bson.M {
	set := bson.M{"status": status}
	if actualTimeSpentSeconds > 0 {
		set["actual_time_spent_seconds"] = actualTimeSpentSeconds
	}
	update := bson.M{"$set": set}
	if status == models.StatusCompleted {
		set["completed_at"] = now
	} else {
		unset := bson.M{"completed_at": ""}
		if actualTimeSpentSeconds <= 0 {
			unset["actual_time_spent_seconds"] = ""
		}
		update["$unset"] = unset
	}
	return update
}

// CountPendingOnDate counts a day's unfinished tasks for the pace
// check.
func (r *PlanEntryRepository) CountPendingOnDate(ctx context.Context, userID, courseID string, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	filter := bson.M{
		"user_id":   userID,
		"course_id": courseID,
		"date":      bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)},
		"status":    bson.M{"$ne": models.StatusCompleted},
	}
	return r.Col.CountDocuments(ctx, filter)
}
