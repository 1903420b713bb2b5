package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository/memory"
)

func newWorkoutService(store *memory.Store) WorkoutService {
	return NewWorkoutService(store.Plans(), store.Weeks(), store.Days(), store.PlanExercises(), store.Exercises())
}

func seedExercise(t *testing.T, store *memory.Store, name string) primitive.ObjectID {
	t.Helper()
	id, err := store.Exercises().Create(context.Background(), &domain.Exercise{Name: name})
	if err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	return id
}

func seedPlan(t *testing.T, svc WorkoutService, userID primitive.ObjectID, weeks int) *domain.WorkoutPlan {
	t.Helper()
	plan, err := svc.CreatePlan(context.Background(), &domain.WorkoutPlan{
		UserID: userID,
		Name:   "Strength",
		Weeks:  weeks,
	})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func TestAddWeekBounds(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 2)

	if _, err := svc.AddWeek(ctx, owner, plan.ID, 1); err != nil {
		t.Fatalf("AddWeek(1) error: %v", err)
	}
	if _, err := svc.AddWeek(ctx, owner, plan.ID, 2); err != nil {
		t.Fatalf("AddWeek(2) error: %v", err)
	}

	var rangeErr *WeekOutOfRangeError
	if _, err := svc.AddWeek(ctx, owner, plan.ID, 3); !errors.As(err, &rangeErr) {
		t.Fatalf("AddWeek(3) error = %v, want WeekOutOfRangeError", err)
	} else if rangeErr.Max != 2 {
		t.Errorf("WeekOutOfRangeError.Max = %d, want 2", rangeErr.Max)
	}
	if _, err := svc.AddWeek(ctx, owner, plan.ID, 0); !errors.As(err, &rangeErr) {
		t.Errorf("AddWeek(0) error = %v, want WeekOutOfRangeError", err)
	}
}

func TestAddWeekDuplicate(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)

	if _, err := svc.AddWeek(ctx, owner, plan.ID, 1); err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}
	if _, err := svc.AddWeek(ctx, owner, plan.ID, 1); !errors.Is(err, ErrWeekAlreadyExists) {
		t.Errorf("AddWeek() duplicate error = %v, want ErrWeekAlreadyExists", err)
	}
}

func TestUpdatePlanCannotStrandWeeks(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)

	if _, err := svc.AddWeek(ctx, owner, plan.ID, 4); err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}

	// Shrinking below the highest scheduled week is refused.
	var shrinkErr *WeeksShrinkError
	_, err := svc.UpdatePlan(ctx, &domain.WorkoutPlan{ID: plan.ID, UserID: owner, Name: "Strength", Weeks: 2})
	if !errors.As(err, &shrinkErr) {
		t.Fatalf("UpdatePlan(weeks=2) error = %v, want WeeksShrinkError", err)
	}
	if shrinkErr.Highest != 4 {
		t.Errorf("WeeksShrinkError.Highest = %d, want 4", shrinkErr.Highest)
	}

	// Down to exactly the highest scheduled week is fine.
	updated, err := svc.UpdatePlan(ctx, &domain.WorkoutPlan{ID: plan.ID, UserID: owner, Name: "Strength", Weeks: 4})
	if err != nil {
		t.Fatalf("UpdatePlan(weeks=4) error: %v", err)
	}
	if updated.Weeks != 4 {
		t.Errorf("updated weeks = %d, want 4", updated.Weeks)
	}
}

func TestAddDayDuplicate(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)

	week, err := svc.AddWeek(ctx, owner, plan.ID, 1)
	if err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}
	if _, _, err := svc.AddDay(ctx, owner, week.ID, "Monday"); err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}
	if _, _, err := svc.AddDay(ctx, owner, week.ID, "Monday"); !errors.Is(err, ErrDayAlreadyExists) {
		t.Errorf("AddDay() duplicate error = %v, want ErrDayAlreadyExists", err)
	}
	// A different weekday is still fine.
	if _, _, err := svc.AddDay(ctx, owner, week.ID, "Wednesday"); err != nil {
		t.Errorf("AddDay(Wednesday) error: %v", err)
	}
}

func TestForeignPlanLooksMissing(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)

	if _, err := svc.GetPlanSchedule(ctx, plan.ID, stranger); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("GetPlanSchedule() as stranger error = %v, want ErrPlanNotFound", err)
	}
	if _, err := svc.AddWeek(ctx, stranger, plan.ID, 1); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("AddWeek() as stranger error = %v, want ErrPlanNotFound", err)
	}
	if err := svc.DeletePlan(ctx, plan.ID, stranger); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("DeletePlan() as stranger error = %v, want ErrPlanNotFound", err)
	}

	// The owner still sees it.
	if _, err := svc.GetPlanSchedule(ctx, plan.ID, owner); err != nil {
		t.Errorf("GetPlanSchedule() as owner error: %v", err)
	}
}

func TestForeignDayLooksMissing(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)

	week, err := svc.AddWeek(ctx, owner, plan.ID, 1)
	if err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}
	day, _, err := svc.AddDay(ctx, owner, week.ID, "Monday")
	if err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}

	if _, err := svc.GetDayExercises(ctx, stranger, day.ID); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("GetDayExercises() as stranger error = %v, want ErrDayNotFound", err)
	}
}

func TestAddExerciseToDay(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)
	exerciseID := seedExercise(t, store, "Bench Press")

	week, err := svc.AddWeek(ctx, owner, plan.ID, 1)
	if err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}
	day, _, err := svc.AddDay(ctx, owner, week.ID, "Monday")
	if err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}

	entry, err := svc.AddExerciseToDay(ctx, owner, &domain.WorkoutPlanExercise{
		DayID:      day.ID,
		ExerciseID: exerciseID,
		Sets:       4,
		Reps:       10,
		Order:      1,
	})
	if err != nil {
		t.Fatalf("AddExerciseToDay() error: %v", err)
	}
	if entry.ID.IsZero() {
		t.Error("AddExerciseToDay() returned entry with zero ID")
	}

	// Unknown catalog exercise is a 404-class failure.
	_, err = svc.AddExerciseToDay(ctx, owner, &domain.WorkoutPlanExercise{
		DayID:      day.ID,
		ExerciseID: primitive.NewObjectID(),
		Sets:       3,
		Reps:       8,
		Order:      2,
	})
	if !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("AddExerciseToDay() unknown exercise error = %v, want ErrExerciseNotFound", err)
	}

	entries, err := svc.GetDayExercises(ctx, owner, day.ID)
	if err != nil {
		t.Fatalf("GetDayExercises() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("GetDayExercises() returned %d entries, want 1", len(entries))
	}
}

func TestAddExerciseToPlanRejectsDuplicate(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)
	exerciseID := seedExercise(t, store, "Squat")

	week, err := svc.AddWeek(ctx, owner, plan.ID, 1)
	if err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}
	if _, _, err := svc.AddDay(ctx, owner, week.ID, "Monday"); err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}
	if _, _, err := svc.AddDay(ctx, owner, week.ID, "Friday"); err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}

	entry := &domain.WorkoutPlanExercise{ExerciseID: exerciseID, Sets: 3, Reps: 12, Order: 1}
	if _, err := svc.AddExerciseToPlan(ctx, owner, plan.ID, 1, "Monday", entry); err != nil {
		t.Fatalf("AddExerciseToPlan() error: %v", err)
	}

	// The same exercise on another day of the same plan is refused.
	again := &domain.WorkoutPlanExercise{ExerciseID: exerciseID, Sets: 3, Reps: 12, Order: 1}
	if _, err := svc.AddExerciseToPlan(ctx, owner, plan.ID, 1, "Friday", again); !errors.Is(err, ErrExerciseAlreadyInPlan) {
		t.Errorf("AddExerciseToPlan() duplicate error = %v, want ErrExerciseAlreadyInPlan", err)
	}
}

func TestDeletePlanCascades(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 4)
	exerciseID := seedExercise(t, store, "Deadlift")

	week, err := svc.AddWeek(ctx, owner, plan.ID, 1)
	if err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}
	day, _, err := svc.AddDay(ctx, owner, week.ID, "Monday")
	if err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}
	if _, err := svc.AddExerciseToDay(ctx, owner, &domain.WorkoutPlanExercise{
		DayID:      day.ID,
		ExerciseID: exerciseID,
		Sets:       5,
		Reps:       5,
		Order:      1,
	}); err != nil {
		t.Fatalf("AddExerciseToDay() error: %v", err)
	}

	if err := svc.DeletePlan(ctx, plan.ID, owner); err != nil {
		t.Fatalf("DeletePlan() error: %v", err)
	}

	if _, err := store.Weeks().GetByID(ctx, week.ID); err == nil {
		t.Error("week survived plan deletion")
	}
	if _, err := store.Days().GetByID(ctx, day.ID); err == nil {
		t.Error("day survived plan deletion")
	}
	entries, err := store.PlanExercises().GetByDayID(ctx, day.ID)
	if err != nil {
		t.Fatalf("GetByDayID() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("%d exercise entries survived plan deletion", len(entries))
	}
}

func TestGetPlanScheduleShape(t *testing.T) {
	store := memory.New()
	svc := newWorkoutService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	plan := seedPlan(t, svc, owner, 2)

	week, err := svc.AddWeek(ctx, owner, plan.ID, 1)
	if err != nil {
		t.Fatalf("AddWeek() error: %v", err)
	}
	if _, _, err := svc.AddDay(ctx, owner, week.ID, "Monday"); err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}
	if _, _, err := svc.AddDay(ctx, owner, week.ID, "Thursday"); err != nil {
		t.Fatalf("AddDay() error: %v", err)
	}

	schedule, err := svc.GetPlanSchedule(ctx, plan.ID, owner)
	if err != nil {
		t.Fatalf("GetPlanSchedule() error: %v", err)
	}
	if schedule.Plan.ID != plan.ID {
		t.Errorf("schedule plan ID = %s, want %s", schedule.Plan.ID.Hex(), plan.ID.Hex())
	}
	if len(schedule.Schedule) != 1 {
		t.Fatalf("schedule has %d weeks, want 1", len(schedule.Schedule))
	}
	if schedule.Schedule[0].WeekNumber != 1 {
		t.Errorf("week number = %d, want 1", schedule.Schedule[0].WeekNumber)
	}
	if len(schedule.Schedule[0].Days) != 2 {
		t.Errorf("week has %d days, want 2", len(schedule.Schedule[0].Days))
	}
}
