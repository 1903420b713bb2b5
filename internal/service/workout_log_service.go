package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

var ErrLogNotFound = errors.New("workout log not found")

// WorkoutLogService records completed sessions against a plan.
type WorkoutLogService interface {
	CreateLog(ctx context.Context, log *domain.WorkoutLog) (*domain.WorkoutLog, error)
	ListLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error)
	AddExercise(ctx context.Context, userID primitive.ObjectID, entry *domain.WorkoutLogExercise) (*domain.WorkoutLogExercise, error)
	GetExercises(ctx context.Context, userID, logID primitive.ObjectID) ([]domain.WorkoutLogExercise, error)
}

type workoutLogService struct {
	logRepo      repository.WorkoutLogRepository
	planRepo     repository.WorkoutPlanRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutLogService creates a new instance of workoutLogService.
func NewWorkoutLogService(
	logRepo repository.WorkoutLogRepository,
	planRepo repository.WorkoutPlanRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutLogService {
	return &workoutLogService{
		logRepo:      logRepo,
		planRepo:     planRepo,
		exerciseRepo: exerciseRepo,
	}
}

// CreateLog records a session. The referenced plan must exist and belong to
// the caller.
func (s *workoutLogService) CreateLog(ctx context.Context, log *domain.WorkoutLog) (*domain.WorkoutLog, error) {
	if _, err := s.planRepo.GetOwned(ctx, log.WorkoutPlanID, log.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	id, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	return log, nil
}

func (s *workoutLogService) ListLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	return s.logRepo.GetByOwner(ctx, userID)
}

// AddExercise appends a performed exercise to one of the caller's logs.
func (s *workoutLogService) AddExercise(ctx context.Context, userID primitive.ObjectID, entry *domain.WorkoutLogExercise) (*domain.WorkoutLogExercise, error) {
	if _, err := s.logRepo.GetOwned(ctx, entry.WorkoutLogID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}

	if _, err := s.exerciseRepo.GetByID(ctx, entry.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	id, err := s.logRepo.AddExercise(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

func (s *workoutLogService) GetExercises(ctx context.Context, userID, logID primitive.ObjectID) ([]domain.WorkoutLogExercise, error) {
	if _, err := s.logRepo.GetOwned(ctx, logID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return s.logRepo.GetExercises(ctx, logID)
}
