package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ProfileRepository defines the interface for user fitness profiles.
// UserID and ContactNumber carry unique indexes; Create surfaces ErrDuplicate
// when either is already taken.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	Update(ctx context.Context, profile *domain.UserProfile) error
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, limit int64) ([]domain.Exercise, error)
}

// WorkoutPlanRepository manages plan roots. Delete cascades to the weeks,
// days, and exercise entries below the plan.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	// GetOwned returns the plan only when it exists AND belongs to userID;
	// a plan owned by someone else is indistinguishable from a missing one.
	GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanWeekRepository manages the weeks of a plan.
type PlanWeekRepository interface {
	Create(ctx context.Context, week *domain.WorkoutPlanWeek) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanWeek, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WorkoutPlanWeek, error)
	GetByNumber(ctx context.Context, planID primitive.ObjectID, weekNumber int) (*domain.WorkoutPlanWeek, error)
	Delete(ctx context.Context, id primitive.ObjectID) error // cascades to days and entries
}

// PlanDayRepository manages the days of a week.
type PlanDayRepository interface {
	Create(ctx context.Context, day *domain.WorkoutPlanDay) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlanDay, error)
	GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.WorkoutPlanDay, error)
	GetByLabel(ctx context.Context, weekID primitive.ObjectID, dayOfWeek string) (*domain.WorkoutPlanDay, error)
	// GetOwned resolves the full ownership chain (day -> week -> plan -> user)
	// in a single joined query and returns the day only for its owner.
	GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlanDay, error)
	Delete(ctx context.Context, id primitive.ObjectID) error // cascades to entries
}

// PlanExerciseRepository manages exercise entries attached to plan days.
type PlanExerciseRepository interface {
	Create(ctx context.Context, entry *domain.WorkoutPlanExercise) (primitive.ObjectID, error)
	GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.WorkoutPlanExercise, error)
	GetByDayAndExercise(ctx context.Context, dayID, exerciseID primitive.ObjectID) (*domain.WorkoutPlanExercise, error)
	ExistsInPlan(ctx context.Context, planID, exerciseID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, entry *domain.WorkoutPlanExercise) error
	Delete(ctx context.Context, dayID, exerciseID primitive.ObjectID) error
}

// WorkoutLogRepository manages workout logs and their logged exercises.
// Deleting a log cascades to its exercises.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutLog, error)
	GetByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error)
	AddExercise(ctx context.Context, entry *domain.WorkoutLogExercise) (primitive.ObjectID, error)
	GetExercises(ctx context.Context, logID primitive.ObjectID) ([]domain.WorkoutLogExercise, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProgressRepository manages body measurement records.
type ProgressRepository interface {
	Create(ctx context.Context, progress *domain.Progress) (primitive.ObjectID, error)
	GetOwned(ctx context.Context, id, userID primitive.ObjectID) (*domain.Progress, error)
	GetByOwner(ctx context.Context, userID primitive.ObjectID) ([]domain.Progress, error)
	Update(ctx context.Context, progress *domain.Progress) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
