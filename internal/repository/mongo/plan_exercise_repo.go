package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

// mongoPlanExerciseRepository implements repository.PlanExerciseRepository.
type mongoPlanExerciseRepository struct {
	entries *mongo.Collection
	days    *mongo.Collection
	weeks   *mongo.Collection
}

// NewMongoPlanExerciseRepository creates a new plan exercise repository.
func NewMongoPlanExerciseRepository(db *mongo.Database) repository.PlanExerciseRepository {
	return &mongoPlanExerciseRepository{
		entries: db.Collection(planExerciseCollection),
		days:    db.Collection(dayCollectionName),
		weeks:   db.Collection(weekCollectionName),
	}
}

func (r *mongoPlanExerciseRepository) Create(ctx context.Context, entry *domain.WorkoutPlanExercise) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()

	result, err := r.entries.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoPlanExerciseRepository) GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.WorkoutPlanExercise, error) {
	cursor, err := r.entries.Find(ctx, bson.M{"dayId": dayID},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.WorkoutPlanExercise
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mongoPlanExerciseRepository) GetByDayAndExercise(ctx context.Context, dayID, exerciseID primitive.ObjectID) (*domain.WorkoutPlanExercise, error) {
	var entry domain.WorkoutPlanExercise
	err := r.entries.FindOne(ctx, bson.M{"dayId": dayID, "exerciseId": exerciseID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ExistsInPlan reports whether the catalog exercise is attached to any day
// anywhere in the plan. Used by the plan-level add to prevent duplicates.
func (r *mongoPlanExerciseRepository) ExistsInPlan(ctx context.Context, planID, exerciseID primitive.ObjectID) (bool, error) {
	weekIDs, err := collectIDs(ctx, r.weeks, bson.M{"workoutPlanId": planID})
	if err != nil {
		return false, err
	}
	if len(weekIDs) == 0 {
		return false, nil
	}

	dayIDs, err := collectIDs(ctx, r.days, bson.M{"weekId": bson.M{"$in": weekIDs}})
	if err != nil {
		return false, err
	}
	if len(dayIDs) == 0 {
		return false, nil
	}

	count, err := r.entries.CountDocuments(ctx, bson.M{
		"dayId":      bson.M{"$in": dayIDs},
		"exerciseId": exerciseID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoPlanExerciseRepository) Update(ctx context.Context, entry *domain.WorkoutPlanExercise) error {
	update := bson.M{"$set": bson.M{
		"sets":  entry.Sets,
		"reps":  entry.Reps,
		"order": entry.Order,
	}}

	result, err := r.entries.UpdateOne(ctx, bson.M{"_id": entry.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanExerciseRepository) Delete(ctx context.Context, dayID, exerciseID primitive.ObjectID) error {
	result, err := r.entries.DeleteOne(ctx, bson.M{"dayId": dayID, "exerciseId": exerciseID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanExerciseIndexes creates indexes for the workout_plan_exercises collection.
func EnsurePlanExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dayId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
