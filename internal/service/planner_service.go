package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/genai"
	"pulsefit/fitness-tracker/internal/repository"
)

var (
	ErrEmptyQuery     = errors.New("query cannot be empty")
	ErrPlanGeneration = errors.New("failed to generate workout plan")
)

const defaultGeneratedWeeks = 4

// GeneratedExercise is one scheduled exercise in a synthesized plan.
type GeneratedExercise struct {
	ExerciseID   string `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
	Sets         int    `json:"sets"`
	Reps         int    `json:"reps"`
	Order        int    `json:"order"`
}

// GeneratedDay groups the exercises of one weekday.
type GeneratedDay struct {
	Day       string              `json:"day"`
	Exercises []GeneratedExercise `json:"exercises"`
}

// GeneratedWeek groups the days of one plan week.
type GeneratedWeek struct {
	WeekNumber int            `json:"week_number"`
	Days       []GeneratedDay `json:"days"`
}

// GeneratedPlan is the model's JSON plan shape.
type GeneratedPlan struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Weeks       []GeneratedWeek `json:"weeks"`
}

// PlannerResult carries the detected intent and, for plan generation
// queries, the synthesized and persisted plan.
type PlannerResult struct {
	Intent string         `json:"intent"`
	Plan   *GeneratedPlan `json:"workout_plan,omitempty"`
	PlanID string         `json:"workout_plan_id,omitempty"`
}

// PlannerService answers free-form queries and synthesizes workout plans
// from the caller's profile and the exercise catalog.
type PlannerService interface {
	Generate(ctx context.Context, userID primitive.ObjectID, query string) (*PlannerResult, error)
}

type plannerService struct {
	generator    genai.Generator
	profileRepo  repository.ProfileRepository
	exerciseRepo repository.ExerciseRepository
	planRepo     repository.WorkoutPlanRepository
	weekRepo     repository.PlanWeekRepository
	dayRepo      repository.PlanDayRepository
	entryRepo    repository.PlanExerciseRepository
	logger       zerolog.Logger
}

// NewPlannerService creates a new instance of plannerService.
func NewPlannerService(
	generator genai.Generator,
	profileRepo repository.ProfileRepository,
	exerciseRepo repository.ExerciseRepository,
	planRepo repository.WorkoutPlanRepository,
	weekRepo repository.PlanWeekRepository,
	dayRepo repository.PlanDayRepository,
	entryRepo repository.PlanExerciseRepository,
	logger zerolog.Logger,
) PlannerService {
	return &plannerService{
		generator:    generator,
		profileRepo:  profileRepo,
		exerciseRepo: exerciseRepo,
		planRepo:     planRepo,
		weekRepo:     weekRepo,
		dayRepo:      dayRepo,
		entryRepo:    entryRepo,
		logger:       logger,
	}
}

// Generate classifies the query's intent first. Plan generation queries get
// a full plan synthesized, parsed and persisted; anything else returns the
// intent alone.
func (s *plannerService) Generate(ctx context.Context, userID primitive.ObjectID, query string) (*PlannerResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	intent, err := s.detectIntent(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &PlannerResult{Intent: intent}
	if !strings.Contains(strings.ToLower(intent), "workout plan generation") {
		return result, nil
	}

	plan, err := s.synthesizePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	planID, err := s.persistPlan(ctx, userID, plan)
	if err != nil {
		return nil, err
	}

	result.Plan = plan
	result.PlanID = planID.Hex()
	return result, nil
}

func (s *plannerService) detectIntent(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(`You are an expert who can derive a user's intent from their query. Your task is to classify the following query: %s
The intent must be one of the following categories:
1. QnA with assistant
2. Workout Plan Generation
Return only the intent and not a full response.`, query)

	intent, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(intent), nil
}

// synthesizePlan prompts the model with the caller's profile and the
// exercise catalog and parses the JSON plan it returns.
func (s *plannerService) synthesizePlan(ctx context.Context, userID primitive.ObjectID) (*GeneratedPlan, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	exercises, err := s.exerciseRepo.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	catalog, err := json.Marshal(exercises)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Generate a %d-week structured workout plan for a %d-year-old %s.
- Goal: %s
- Fitness Level: %s
- Available Time: %d minutes per session
- Include warm-ups, main workouts, and cooldowns.
- Pick exercises only from this catalog and reference them by their id: %s
- If an exercise doesn't need reps, set reps to 0.
- Format the response as JSON:
{
  "name": "AI-Generated Strength Plan",
  "description": "A %d-week program",
  "weeks": [
    {
      "week_number": 1,
      "days": [
        {
          "day": "Monday",
          "exercises": [
            {"exercise_id": "...", "exercise_name": "Bench Press", "sets": 4, "reps": 10, "order": 1}
          ]
        }
      ]
    }
  ]
}`,
		defaultGeneratedWeeks,
		profile.Age(time.Now()),
		profile.Gender,
		profile.FitnessGoal,
		profile.FitnessLevel,
		profile.AvailableTime,
		string(catalog),
		defaultGeneratedWeeks,
	)

	raw, err := s.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		s.logger.Error().Err(err).Msg("model returned unparseable plan")
		return nil, ErrPlanGeneration
	}
	if plan.Name == "" || len(plan.Weeks) == 0 {
		return nil, ErrPlanGeneration
	}
	return &plan, nil
}

// persistPlan writes the hierarchy parent-first. If any child insert fails
// the created plan is cascade deleted so no partial hierarchy survives.
func (s *plannerService) persistPlan(ctx context.Context, userID primitive.ObjectID, generated *GeneratedPlan) (primitive.ObjectID, error) {
	plan := &domain.WorkoutPlan{
		UserID:      userID,
		Name:        generated.Name,
		Description: generated.Description,
		Weeks:       defaultGeneratedWeeks,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if err := s.persistChildren(ctx, planID, generated); err != nil {
		if delErr := s.planRepo.Delete(ctx, planID); delErr != nil {
			s.logger.Error().Err(delErr).Str("plan_id", planID.Hex()).Msg("rollback of generated plan failed")
		}
		return primitive.NilObjectID, err
	}
	return planID, nil
}

func (s *plannerService) persistChildren(ctx context.Context, planID primitive.ObjectID, generated *GeneratedPlan) error {
	for _, genWeek := range generated.Weeks {
		week := &domain.WorkoutPlanWeek{WorkoutPlanID: planID, WeekNumber: genWeek.WeekNumber}
		weekID, err := s.weekRepo.Create(ctx, week)
		if err != nil {
			return err
		}

		for _, genDay := range genWeek.Days {
			day := &domain.WorkoutPlanDay{WeekID: weekID, DayOfWeek: genDay.Day}
			dayID, err := s.dayRepo.Create(ctx, day)
			if err != nil {
				return err
			}

			for _, genExercise := range genDay.Exercises {
				exerciseID, err := primitive.ObjectIDFromHex(genExercise.ExerciseID)
				if err != nil {
					return fmt.Errorf("model referenced invalid exercise id %q: %w", genExercise.ExerciseID, err)
				}
				entry := &domain.WorkoutPlanExercise{
					DayID:      dayID,
					ExerciseID: exerciseID,
					Sets:       genExercise.Sets,
					Reps:       genExercise.Reps,
					Order:      genExercise.Order,
				}
				if _, err := s.entryRepo.Create(ctx, entry); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
