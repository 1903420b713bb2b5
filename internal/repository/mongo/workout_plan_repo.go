package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

const (
	planCollectionName      = "workout_plans"
	weekCollectionName      = "workout_plan_weeks"
	dayCollectionName       = "workout_plan_days"
	planExerciseCollection  = "workout_plan_exercises"
)

// mongoWorkoutPlanRepository implements repository.WorkoutPlanRepository.
// It holds the whole hierarchy's collections so that Delete can cascade
// children-first without leaving orphans.
type mongoWorkoutPlanRepository struct {
	plans   *mongo.Collection
	weeks   *mongo.Collection
	days    *mongo.Collection
	entries *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a new workout plan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{
		plans:   db.Collection(planCollectionName),
		weeks:   db.Collection(weekCollectionName),
		days:    db.Collection(dayCollectionName),
		entries: db.Collection(planExerciseCollection),
	}
}

func (r *mongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.Name == "" || plan.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan name and owner are required")
	}
	if plan.Weeks < 1 {
		plan.Weeks = 1
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.plans.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetOwned filters on both _id and userId so a foreign plan decodes to the
// same ErrNotFound as a missing one.
func (r *mongoWorkoutPlanRepository) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *mongoWorkoutPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoWorkoutPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.plans.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *mongoWorkoutPlanRepository) GetByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	cursor, err := r.plans.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.WorkoutPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *mongoWorkoutPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	plan.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":        plan.Name,
		"description": plan.Description,
		"weeks":       plan.Weeks,
		"updatedAt":   plan.UpdatedAt,
	}}

	result, err := r.plans.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the plan and everything below it. Descendants go first so
// that an interrupted delete never strands children under a missing parent.
func (r *mongoWorkoutPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	weekIDs, err := collectIDs(ctx, r.weeks, bson.M{"workoutPlanId": id})
	if err != nil {
		return err
	}
	if len(weekIDs) > 0 {
		dayIDs, err := collectIDs(ctx, r.days, bson.M{"weekId": bson.M{"$in": weekIDs}})
		if err != nil {
			return err
		}
		if len(dayIDs) > 0 {
			if _, err := r.entries.DeleteMany(ctx, bson.M{"dayId": bson.M{"$in": dayIDs}}); err != nil {
				return err
			}
			if _, err := r.days.DeleteMany(ctx, bson.M{"weekId": bson.M{"$in": weekIDs}}); err != nil {
				return err
			}
		}
		if _, err := r.weeks.DeleteMany(ctx, bson.M{"workoutPlanId": id}); err != nil {
			return err
		}
	}

	result, err := r.plans.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// collectIDs gathers the _id values of all documents matching filter.
func collectIDs(ctx context.Context, collection *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

// EnsurePlanIndexes creates indexes for the workout_plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
