package repository

import (
	"context"
	"time"

	"studyplan-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PlanSettingsRepository struct {
	Col *mongo.Collection
}

func NewPlanSettingsRepository(db *mongo.Database) *PlanSettingsRepository {
	return &PlanSettingsRepository{Col: db.Collection("plan_settings")}
}

func (r *PlanSettingsRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.PlanSettings, error) {
	var settings models.PlanSettings
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "course_id": courseID}).Decode(&settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *PlanSettingsRepository) Create(ctx context.Context, settings *models.PlanSettings) error {
	now := time.Now().UTC()
	settings.CreatedAt = now
	settings.UpdatedAt = now
	if settings.PlanCreatedAt.IsZero() {
		settings.PlanCreatedAt = now
	}
	res, err := r.Col.InsertOne(ctx, settings)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		settings.ID = oid.Hex()
	}
	return nil
}

// UpdateMutable updates the reconfigurable fields. PlanCreatedAt is
// deliberately excluded: the week 1 anchor never moves after first
// creation.
func (r *PlanSettingsRepository) UpdateMutable(ctx context.Context, id string, settings *models.PlanSettings) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"exam_date":            settings.ExamDate,
		"study_hours_per_week": settings.StudyHoursPerWeek,
		"self_rating":          settings.SelfRating,
		"preferred_study_days": settings.PreferredStudyDays,
		"updated_at":           time.Now().UTC(),
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	return err
}
