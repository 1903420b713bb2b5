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

// mongoPlanDayRepository implements repository.PlanDayRepository.
type mongoPlanDayRepository struct {
	days    *mongo.Collection
	entries *mongo.Collection
}

// NewMongoPlanDayRepository creates a new plan day repository.
func NewMongoPlanDayRepository(db *mongo.Database) repository.PlanDayRepository {
	return &mongoPlanDayRepository{
		days:    db.Collection(dayCollectionName),
		entries: db.Collection(planExerciseCollection),
	}
}

func (r *mongoPlanDayRepository) Create(ctx context.Context, day *domain.WorkoutPlanDay) (primitive.ObjectID, error) {
	day.ID = primitive.NewObjectID()

	result, err := r.days.InsertOne(ctx, day)
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

func (r *mongoPlanDayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanDay, error) {
	var day domain.WorkoutPlanDay
	err := r.days.FindOne(ctx, bson.M{"_id": id}).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

func (r *mongoPlanDayRepository) GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.WorkoutPlanDay, error) {
	cursor, err := r.days.Find(ctx, bson.M{"weekId": weekID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var days []domain.WorkoutPlanDay
	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (r *mongoPlanDayRepository) GetByLabel(ctx context.Context, weekID primitive.ObjectID, dayOfWeek string) (*domain.WorkoutPlanDay, error) {
	var day domain.WorkoutPlanDay
	err := r.days.FindOne(ctx, bson.M{"weekId": weekID, "dayOfWeek": dayOfWeek}).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// GetOwned resolves day -> week -> plan -> user in a single aggregation and
// matches the plan owner, so a day belonging to another user looks exactly
// like a day that does not exist.
func (r *mongoPlanDayRepository) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlanDay, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         weekCollectionName,
			"localField":   "weekId",
			"foreignField": "_id",
			"as":           "week",
		}}},
		bson.D{{Key: "$unwind", Value: "$week"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         planCollectionName,
			"localField":   "week.workoutPlanId",
			"foreignField": "_id",
			"as":           "plan",
		}}},
		bson.D{{Key: "$unwind", Value: "$plan"}},
		bson.D{{Key: "$match", Value: bson.M{"plan.userId": userID}}},
		bson.D{{Key: "$project", Value: bson.M{"weekId": 1, "dayOfWeek": 1}}},
	}

	cursor, err := r.days.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var days []domain.WorkoutPlanDay
	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, repository.ErrNotFound
	}
	return &days[0], nil
}

// Delete removes the day and cascades to its exercise entries.
func (r *mongoPlanDayRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.entries.DeleteMany(ctx, bson.M{"dayId": id}); err != nil {
		return err
	}

	result, err := r.days.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDayIndexes creates the compound unique index enforcing one weekday
// label per week.
func EnsureDayIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "weekId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
