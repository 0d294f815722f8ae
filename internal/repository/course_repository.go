package repository

import (
	"context"

	"studyplan-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourseRepository is the read-only view over the content service's
// course inventory. This service never writes these collections.
type CourseRepository struct {
	Courses *mongo.Collection
	Modules *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{
		Courses: db.Collection("courses"),
		Modules: db.Collection("course_modules"),
	}
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.Courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindModules returns the course's modules in course order.
func (r *CourseRepository) FindModules(ctx context.Context, courseID string) ([]models.CourseModule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := r.Modules.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var modules []models.CourseModule
	for cur.Next(ctx) {
		var m models.CourseModule
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}
