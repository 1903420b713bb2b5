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

// mongoPlanWeekRepository implements repository.PlanWeekRepository.
type mongoPlanWeekRepository struct {
	weeks   *mongo.Collection
	days    *mongo.Collection
	entries *mongo.Collection
}

// NewMongoPlanWeekRepository creates a new plan week repository.
func NewMongoPlanWeekRepository(db *mongo.Database) repository.PlanWeekRepository {
	return &mongoPlanWeekRepository{
		weeks:   db.Collection(weekCollectionName),
		days:    db.Collection(dayCollectionName),
		entries: db.Collection(planExerciseCollection),
	}
}

func (r *mongoPlanWeekRepository) Create(ctx context.Context, week *domain.WorkoutPlanWeek) (primitive.ObjectID, error) {
	week.ID = primitive.NewObjectID()

	result, err := r.weeks.InsertOne(ctx, week)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoPlanWeekRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanWeek, error) {
	var week domain.WorkoutPlanWeek
	err := r.weeks.FindOne(ctx, bson.M{"_id": id}).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

func (r *mongoPlanWeekRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WorkoutPlanWeek, error) {
	cursor, err := r.weeks.Find(ctx, bson.M{"workoutPlanId": planID},
		options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var weeks []domain.WorkoutPlanWeek
	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (r *mongoPlanWeekRepository) GetByNumber(ctx context.Context, planID primitive.ObjectID, weekNumber int) (*domain.WorkoutPlanWeek, error) {
	var week domain.WorkoutPlanWeek
	err := r.weeks.FindOne(ctx, bson.M{"workoutPlanId": planID, "weekNumber": weekNumber}).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

// Delete removes the week and cascades to its days and exercise entries.
func (r *mongoPlanWeekRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	dayIDs, err := collectIDs(ctx, r.days, bson.M{"weekId": id})
	if err != nil {
		return err
	}
	if len(dayIDs) > 0 {
		if _, err := r.entries.DeleteMany(ctx, bson.M{"dayId": bson.M{"$in": dayIDs}}); err != nil {
			return err
		}
		if _, err := r.days.DeleteMany(ctx, bson.M{"weekId": id}); err != nil {
			return err
		}
	}

	result, err := r.weeks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeekIndexes creates the compound unique index enforcing one week
// number per plan.
func EnsureWeekIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutPlanId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
