package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

var (
	ErrPlanNotFound          = errors.New("workout plan not found")
	ErrWeekNotFound          = errors.New("week not found")
	ErrDayNotFound           = errors.New("day not found")
	ErrPlanExerciseNotFound  = errors.New("exercise not found in this day")
	ErrWeekAlreadyExists     = errors.New("week already exists in this plan")
	ErrDayAlreadyExists      = errors.New("day already exists in this week")
	ErrExerciseAlreadyInPlan = errors.New("exercise is already part of this plan")
)

// WeekOutOfRangeError reports a week number outside the plan's declared span.
type WeekOutOfRangeError struct {
	Max int
}

func (e *WeekOutOfRangeError) Error() string {
	return fmt.Sprintf("invalid week number, must be between 1 and %d", e.Max)
}

// WeeksShrinkError reports a plan update whose weeks count would fall below
// an already scheduled week.
type WeeksShrinkError struct {
	Highest int
}

func (e *WeeksShrinkError) Error() string {
	return fmt.Sprintf("weeks cannot be reduced below %d, the highest scheduled week", e.Highest)
}

// ScheduleDay is a day entry in the nested plan view.
type ScheduleDay struct {
	ID        primitive.ObjectID `json:"id"`
	DayOfWeek string             `json:"day_of_week"`
}

// ScheduleWeek groups the days of one plan week.
type ScheduleWeek struct {
	WeekNumber int           `json:"week_number"`
	Days       []ScheduleDay `json:"days"`
}

// PlanSchedule is the nested view returned for a single plan.
type PlanSchedule struct {
	Plan     domain.WorkoutPlan
	Schedule []ScheduleWeek
}

// WorkoutService manages the plan hierarchy. Every operation takes the
// caller's user ID and treats resources owned by others as missing.
type WorkoutService interface {
	CreatePlan(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetPlanSchedule(ctx context.Context, planID, userID primitive.ObjectID) (*PlanSchedule, error)
	UpdatePlan(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, planID, userID primitive.ObjectID) error

	AddWeek(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int) (*domain.WorkoutPlanWeek, error)
	AddDay(ctx context.Context, userID, weekID primitive.ObjectID, dayOfWeek string) (*domain.WorkoutPlanDay, primitive.ObjectID, error)

	GetDayExercises(ctx context.Context, userID, dayID primitive.ObjectID) ([]domain.WorkoutPlanExercise, error)
	AddExerciseToDay(ctx context.Context, userID primitive.ObjectID, entry *domain.WorkoutPlanExercise) (*domain.WorkoutPlanExercise, error)
	UpdateDayExercise(ctx context.Context, userID primitive.ObjectID, entry *domain.WorkoutPlanExercise) (*domain.WorkoutPlanExercise, error)
	RemoveExerciseFromDay(ctx context.Context, userID, dayID, exerciseID primitive.ObjectID) error

	AddExerciseToPlan(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int, dayOfWeek string, entry *domain.WorkoutPlanExercise) (*domain.WorkoutPlanExercise, error)
}

type workoutService struct {
	planRepo     repository.WorkoutPlanRepository
	weekRepo     repository.PlanWeekRepository
	dayRepo      repository.PlanDayRepository
	entryRepo    repository.PlanExerciseRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	planRepo repository.WorkoutPlanRepository,
	weekRepo repository.PlanWeekRepository,
	dayRepo repository.PlanDayRepository,
	entryRepo repository.PlanExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutService {
	return &workoutService{
		planRepo:     planRepo,
		weekRepo:     weekRepo,
		dayRepo:      dayRepo,
		entryRepo:    entryRepo,
		exerciseRepo: exerciseRepo,
	}
}

func (s *workoutService) CreatePlan(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	if plan.Name == "" {
		return nil, errors.New("plan name cannot be empty")
	}
	if plan.Weeks < 1 {
		plan.Weeks = 1
	}

	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

func (s *workoutService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return s.planRepo.GetByOwner(ctx, userID)
}

// GetPlanSchedule assembles the plan with its weeks and days. Exercise
// entries are served by the day endpoint, not inlined here.
func (s *workoutService) GetPlanSchedule(ctx context.Context, planID, userID primitive.ObjectID) (*PlanSchedule, error) {
	plan, err := s.planRepo.GetOwned(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	weeks, err := s.weekRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}

	schedule := make([]ScheduleWeek, 0, len(weeks))
	for _, week := range weeks {
		days, err := s.dayRepo.GetByWeekID(ctx, week.ID)
		if err != nil {
			return nil, err
		}

		scheduleDays := make([]ScheduleDay, 0, len(days))
		for _, day := range days {
			scheduleDays = append(scheduleDays, ScheduleDay{ID: day.ID, DayOfWeek: day.DayOfWeek})
		}
		schedule = append(schedule, ScheduleWeek{WeekNumber: week.WeekNumber, Days: scheduleDays})
	}

	return &PlanSchedule{Plan: *plan, Schedule: schedule}, nil
}

func (s *workoutService) UpdatePlan(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	existing, err := s.planRepo.GetOwned(ctx, plan.ID, plan.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if plan.Name == "" {
		plan.Name = existing.Name
	}
	if plan.Description == "" {
		plan.Description = existing.Description
	}
	if plan.Weeks < 1 {
		plan.Weeks = existing.Weeks
	}

	// Shrinking the span must not strand weeks already scheduled above it.
	if plan.Weeks < existing.Weeks {
		weeks, err := s.weekRepo.GetByPlanID(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		highest := 0
		for _, week := range weeks {
			if week.WeekNumber > highest {
				highest = week.WeekNumber
			}
		}
		if plan.Weeks < highest {
			return nil, &WeeksShrinkError{Highest: highest}
		}
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes the plan and everything under it.
func (s *workoutService) DeletePlan(ctx context.Context, planID, userID primitive.ObjectID) error {
	if _, err := s.planRepo.GetOwned(ctx, planID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return s.planRepo.Delete(ctx, planID)
}

// AddWeek attaches a week to the plan. The number must fall inside the
// plan's declared span and be unused.
func (s *workoutService) AddWeek(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int) (*domain.WorkoutPlanWeek, error) {
	plan, err := s.planRepo.GetOwned(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if weekNumber < 1 || weekNumber > plan.Weeks {
		return nil, &WeekOutOfRangeError{Max: plan.Weeks}
	}

	if _, err := s.weekRepo.GetByNumber(ctx, planID, weekNumber); err == nil {
		return nil, ErrWeekAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	week := &domain.WorkoutPlanWeek{WorkoutPlanID: planID, WeekNumber: weekNumber}
	id, err := s.weekRepo.Create(ctx, week)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWeekAlreadyExists
		}
		return nil, err
	}
	week.ID = id
	return week, nil
}

// AddDay attaches a weekday to a week. A weekday label can appear at most
// once per week. The owning plan's ID is returned alongside the day so the
// caller can invalidate the plan's cached schedule.
func (s *workoutService) AddDay(ctx context.Context, userID, weekID primitive.ObjectID, dayOfWeek string) (*domain.WorkoutPlanDay, primitive.ObjectID, error) {
	week, err := s.weekOwned(ctx, userID, weekID)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}

	if _, err := s.dayRepo.GetByLabel(ctx, weekID, dayOfWeek); err == nil {
		return nil, primitive.NilObjectID, ErrDayAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, primitive.NilObjectID, err
	}

	day := &domain.WorkoutPlanDay{WeekID: weekID, DayOfWeek: dayOfWeek}
	id, err := s.dayRepo.Create(ctx, day)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, primitive.NilObjectID, ErrDayAlreadyExists
		}
		return nil, primitive.NilObjectID, err
	}
	day.ID = id
	return day, week.WorkoutPlanID, nil
}

func (s *workoutService) GetDayExercises(ctx context.Context, userID, dayID primitive.ObjectID) ([]domain.WorkoutPlanExercise, error) {
	if _, err := s.dayRepo.GetOwned(ctx, dayID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return s.entryRepo.GetByDayID(ctx, dayID)
}

// AddExerciseToDay schedules a catalog exercise on a day.
func (s *workoutService) AddExerciseToDay(ctx context.Context, userID primitive.ObjectID, entry *domain.WorkoutPlanExercise) (*domain.WorkoutPlanExercise, error) {
	if _, err := s.dayRepo.GetOwned(ctx, entry.DayID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	if _, err := s.exerciseRepo.GetByID(ctx, entry.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	id, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

func (s *workoutService) UpdateDayExercise(ctx context.Context, userID primitive.ObjectID, entry *domain.WorkoutPlanExercise) (*domain.WorkoutPlanExercise, error) {
	if _, err := s.dayRepo.GetOwned(ctx, entry.DayID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	existing, err := s.entryRepo.GetByDayAndExercise(ctx, entry.DayID, entry.ExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanExerciseNotFound
		}
		return nil, err
	}

	entry.ID = existing.ID
	if entry.Sets == 0 {
		entry.Sets = existing.Sets
	}
	if entry.Reps == 0 {
		entry.Reps = existing.Reps
	}
	if entry.Order == 0 {
		entry.Order = existing.Order
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanExerciseNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *workoutService) RemoveExerciseFromDay(ctx context.Context, userID, dayID, exerciseID primitive.ObjectID) error {
	if _, err := s.dayRepo.GetOwned(ctx, dayID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDayNotFound
		}
		return err
	}

	if err := s.entryRepo.Delete(ctx, dayID, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanExerciseNotFound
		}
		return err
	}
	return nil
}

// AddExerciseToPlan resolves a week number and weekday inside the plan and
// schedules the exercise there. Unlike the day-level add, it refuses an
// exercise already attached anywhere in the plan.
func (s *workoutService) AddExerciseToPlan(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int, dayOfWeek string, entry *domain.WorkoutPlanExercise) (*domain.WorkoutPlanExercise, error) {
	if _, err := s.planRepo.GetOwned(ctx, planID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if _, err := s.exerciseRepo.GetByID(ctx, entry.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	week, err := s.weekRepo.GetByNumber(ctx, planID, weekNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}

	day, err := s.dayRepo.GetByLabel(ctx, week.ID, dayOfWeek)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	attached, err := s.entryRepo.ExistsInPlan(ctx, planID, entry.ExerciseID)
	if err != nil {
		return nil, err
	}
	if attached {
		return nil, ErrExerciseAlreadyInPlan
	}

	entry.DayID = day.ID
	id, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

// weekOwned walks week -> plan and matches the plan owner.
func (s *workoutService) weekOwned(ctx context.Context, userID, weekID primitive.ObjectID) (*domain.WorkoutPlanWeek, error) {
	week, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}

	if _, err := s.planRepo.GetOwned(ctx, week.WorkoutPlanID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}
	return week, nil
}
