package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository/memory"
)

func newLogService(store *memory.Store) WorkoutLogService {
	return NewWorkoutLogService(store.Logs(), store.Plans(), store.Exercises())
}

func TestCreateLogUnknownPlan(t *testing.T) {
	store := memory.New()
	svc := newLogService(store)

	_, err := svc.CreateLog(context.Background(), &domain.WorkoutLog{
		UserID:        primitive.NewObjectID(),
		WorkoutPlanID: primitive.NewObjectID(),
	})
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("CreateLog() error = %v, want ErrPlanNotFound", err)
	}
}

func TestCreateLogForeignPlan(t *testing.T) {
	store := memory.New()
	svc := newLogService(store)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	planID, err := store.Plans().Create(ctx, &domain.WorkoutPlan{UserID: owner, Name: "Strength", Weeks: 4})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}

	_, err = svc.CreateLog(ctx, &domain.WorkoutLog{
		UserID:        primitive.NewObjectID(),
		WorkoutPlanID: planID,
	})
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("CreateLog() on foreign plan error = %v, want ErrPlanNotFound", err)
	}
}

func TestCreateLogDefaults(t *testing.T) {
	store := memory.New()
	svc := newLogService(store)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	planID, err := store.Plans().Create(ctx, &domain.WorkoutPlan{UserID: owner, Name: "Strength", Weeks: 4})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}

	log, err := svc.CreateLog(ctx, &domain.WorkoutLog{UserID: owner, WorkoutPlanID: planID})
	if err != nil {
		t.Fatalf("CreateLog() error: %v", err)
	}
	if log.Status != "completed" {
		t.Errorf("log status = %q, want completed", log.Status)
	}
	if log.Date.IsZero() {
		t.Error("log date was not defaulted")
	}
}

func TestAddLogExercise(t *testing.T) {
	store := memory.New()
	svc := newLogService(store)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	planID, err := store.Plans().Create(ctx, &domain.WorkoutPlan{UserID: owner, Name: "Strength", Weeks: 4})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	exerciseID, err := store.Exercises().Create(ctx, &domain.Exercise{Name: "Row"})
	if err != nil {
		t.Fatalf("seed exercise: %v", err)
	}

	log, err := svc.CreateLog(ctx, &domain.WorkoutLog{UserID: owner, WorkoutPlanID: planID})
	if err != nil {
		t.Fatalf("CreateLog() error: %v", err)
	}

	entry, err := svc.AddExercise(ctx, owner, &domain.WorkoutLogExercise{
		WorkoutLogID:  log.ID,
		ExerciseID:    exerciseID,
		SetsCompleted: 3,
		RepsCompleted: 10,
		WeightUsed:    60,
	})
	if err != nil {
		t.Fatalf("AddExercise() error: %v", err)
	}
	if entry.ID.IsZero() {
		t.Error("AddExercise() returned entry with zero ID")
	}

	// Unknown catalog exercise is refused.
	_, err = svc.AddExercise(ctx, owner, &domain.WorkoutLogExercise{
		WorkoutLogID: log.ID,
		ExerciseID:   primitive.NewObjectID(),
	})
	if !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("AddExercise() unknown exercise error = %v, want ErrExerciseNotFound", err)
	}

	// A stranger cannot read or append to the log.
	stranger := primitive.NewObjectID()
	if _, err := svc.GetExercises(ctx, stranger, log.ID); !errors.Is(err, ErrLogNotFound) {
		t.Errorf("GetExercises() as stranger error = %v, want ErrLogNotFound", err)
	}

	entries, err := svc.GetExercises(ctx, owner, log.ID)
	if err != nil {
		t.Fatalf("GetExercises() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("GetExercises() returned %d entries, want 1", len(entries))
	}
}
