package repository

import (
	"context"

	"studyplan-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewProgressRepository struct {
	Col *mongo.Collection
}

func NewReviewProgressRepository(db *mongo.Database) *ReviewProgressRepository {
	return &ReviewProgressRepository{Col: db.Collection("review_progress")}
}

func (r *ReviewProgressRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.ReviewProgress, error) {
	var progress models.ReviewProgress
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "course_id": courseID}).Decode(&progress)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// RecordServe upserts the course-level counter on every serve: the
// monotonic total plus the last served item id.
func (r *ReviewProgressRepository) RecordServe(ctx context.Context, userID, courseID, itemID string) error {
	filter := bson.M{"user_id": userID, "course_id": courseID}
	update := bson.M{
		"$inc":         bson.M{"total_items_reviewed": 1},
		"$set":         bson.M{"last_item_id": itemID},
		"$setOnInsert": bson.M{"user_id": userID, "course_id": courseID},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
