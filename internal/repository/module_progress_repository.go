package repository

import (
	"context"
	"time"

	"studyplan-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ModuleProgressRepository struct {
	Col *mongo.Collection
}

func NewModuleProgressRepository(db *mongo.Database) *ModuleProgressRepository {
	return &ModuleProgressRepository{Col: db.Collection("module_progress")}
}

func (r *ModuleProgressRepository) FindByUserAndModules(ctx context.Context, userID string, moduleIDs []string) ([]models.ModuleProgress, error) {
	filter := bson.M{"user_id": userID}
	if len(moduleIDs) > 0 {
		filter["module_id"] = bson.M{"$in": moduleIDs}
	}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var records []models.ModuleProgress
	for cur.Next(ctx) {
		var p models.ModuleProgress
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, nil
}

// LearnStatusMap returns module id to learn status for quick lookup.
func (r *ModuleProgressRepository) LearnStatusMap(ctx context.Context, userID string, moduleIDs []string) (map[string]models.LearnStatus, error) {
	records, err := r.FindByUserAndModules(ctx, userID, moduleIDs)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]models.LearnStatus, len(records))
	for _, p := range records {
		statuses[p.ModuleID] = p.LearnStatus
	}
	return statuses, nil
}

// EnsureExists upserts a not-learned progress record per module,
// skipping any that already exist so learner state is never reset.
func (r *ModuleProgressRepository) EnsureExists(ctx context.Context, userID string, moduleIDs []string) error {
	for _, moduleID := range moduleIDs {
		filter := bson.M{"user_id": userID, "module_id": moduleID}
		update := bson.M{"$setOnInsert": bson.M{
			"user_id":         userID,
			"module_id":       moduleID,
			"learn_status":    models.StatusNotLearned,
			"memory_strength": 0.0,
			"error_rate":      0.0,
		}}
		if _, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

func (r *ModuleProgressRepository) SetLearnStatus(ctx context.Context, userID, moduleID string, status models.LearnStatus) error {
	update := bson.M{"learn_status": status}
	if status == models.StatusLearned {
		update["last_learned_at"] = time.Now().UTC()
	}
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": userID, "module_id": moduleID},
		bson.M{"$set": update},
		options.Update().SetUpsert(true))
	return err
}
