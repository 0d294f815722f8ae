package repository

import (
	"context"
	"time"

	"studyplan-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewItemRepository struct {
	Col *mongo.Collection
}

func NewReviewItemRepository(db *mongo.Database) *ReviewItemRepository {
	return &ReviewItemRepository{Col: db.Collection("review_items")}
}

func (r *ReviewItemRepository) FindByID(ctx context.Context, id string) (*models.ReviewItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var item models.ReviewItem
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ReviewItemRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) ([]models.ReviewItem, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "course_id": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var items []models.ReviewItem
	for cur.Next(ctx) {
		var item models.ReviewItem
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *ReviewItemRepository) Create(ctx context.Context, item *models.ReviewItem) error {
	res, err := r.Col.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid.Hex()
	}
	return nil
}

// MarkServed bumps the serve counter and timestamp on an existing
// record.
func (r *ReviewItemRepository) MarkServed(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$inc": bson.M{"times_served": 1},
		"$set": bson.M{"last_served_at": time.Now().UTC()},
	})
	return err
}

// SetDifficulty overwrites the item's weight from the reported
// difficulty. Weights replace, they never accumulate.
func (r *ReviewItemRepository) SetDifficulty(ctx context.Context, id string, difficulty models.Difficulty, weight float64) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"last_difficulty":    difficulty,
		"probability_weight": weight,
	}})
	return err
}
