package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/cache"
	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/service"
)

// WorkoutHandler serves the plan hierarchy.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	cache          cache.Cache
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, cache cache.Cache) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, cache: cache}
}

type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Weeks       int    `json:"weeks" binding:"required,gte=1"`
}

type UpdatePlanRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Weeks       int    `json:"weeks"`
}

type PlanResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Weeks       int       `json:"weeks"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PlanScheduleResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Weeks       int                    `json:"weeks"`
	Schedule    []service.ScheduleWeek `json:"schedule"`
}

type AddWeekRequest struct {
	WeekNumber int `json:"week_number" binding:"required"`
}

type WeekResponse struct {
	ID            string `json:"id"`
	WorkoutPlanID string `json:"workout_plan_id"`
	WeekNumber    int    `json:"week_number"`
}

type AddDayRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required"`
}

type DayResponse struct {
	ID        string `json:"id"`
	WeekID    string `json:"week_id"`
	DayOfWeek string `json:"day_of_week"`
}

type AddDayExerciseRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	Sets       int    `json:"sets" binding:"required,gte=1"`
	Reps       int    `json:"reps" binding:"gte=0"`
	Order      int    `json:"order" binding:"required,gte=1"`
}

type UpdateDayExerciseRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	Order      int    `json:"order"`
}

type AddPlanExerciseRequest struct {
	WeekNumber int    `json:"week_number" binding:"required"`
	DayOfWeek  string `json:"day_of_week" binding:"required"`
	ExerciseID string `json:"exercise_id" binding:"required"`
	Sets       int    `json:"sets" binding:"required,gte=1"`
	Reps       int    `json:"reps" binding:"gte=0"`
	Order      int    `json:"order" binding:"required,gte=1"`
}

type PlanExerciseResponse struct {
	ID         string `json:"id"`
	DayID      string `json:"day_id"`
	ExerciseID string `json:"exercise_id"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	Order      int    `json:"order"`
}

func (h *WorkoutHandler) CreatePlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	plan := &domain.WorkoutPlan{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Weeks:       req.Weeks,
	}

	created, err := h.workoutService.CreatePlan(c.Request.Context(), plan)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to create workout plan")
		return
	}

	invalidate(c, h.cache, cache.UserPlansKey(userID.Hex()))
	c.JSON(http.StatusCreated, mapPlanToResponse(created))
}

func (h *WorkoutHandler) ListPlans(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}

	key := cache.UserPlansKey(userID.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	plans, err := h.workoutService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list workout plans")
		return
	}

	responses := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, mapPlanToResponse(&plans[i]))
	}
	respondAndCache(c, h.cache, key, http.StatusOK, responses)
}

// GetPlan returns the plan with its nested week and day schedule.
func (h *WorkoutHandler) GetPlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	planID, ok := parseObjectID(c, "planId")
	if !ok {
		return
	}

	key := cache.PlanKey(userID.Hex(), planID.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	schedule, err := h.workoutService.GetPlanSchedule(c.Request.Context(), planID, userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to fetch workout plan")
		}
		return
	}

	respondAndCache(c, h.cache, key, http.StatusOK, PlanScheduleResponse{
		ID:          schedule.Plan.ID.Hex(),
		Name:        schedule.Plan.Name,
		Description: schedule.Plan.Description,
		Weeks:       schedule.Plan.Weeks,
		Schedule:    schedule.Schedule,
	})
}

func (h *WorkoutHandler) UpdatePlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	planID, ok := parseObjectID(c, "planId")
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	plan := &domain.WorkoutPlan{
		ID:          planID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Weeks:       req.Weeks,
	}

	updated, err := h.workoutService.UpdatePlan(c.Request.Context(), plan)
	if err != nil {
		var shrinkErr *service.WeeksShrinkError
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.As(err, &shrinkErr):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to update workout plan")
		}
		return
	}

	invalidate(c, h.cache, cache.PlanKey(userID.Hex(), planID.Hex()), cache.UserPlansKey(userID.Hex()))
	c.JSON(http.StatusOK, mapPlanToResponse(updated))
}

func (h *WorkoutHandler) DeletePlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	planID, ok := parseObjectID(c, "planId")
	if !ok {
		return
	}

	if err := h.workoutService.DeletePlan(c.Request.Context(), planID, userID); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to delete workout plan")
		}
		return
	}

	invalidate(c, h.cache, cache.PlanKey(userID.Hex(), planID.Hex()), cache.UserPlansKey(userID.Hex()))
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) AddWeek(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	planID, ok := parseObjectID(c, "planId")
	if !ok {
		return
	}

	var req AddWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	week, err := h.workoutService.AddWeek(c.Request.Context(), userID, planID, req.WeekNumber)
	if err != nil {
		var rangeErr *service.WeekOutOfRangeError
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.As(err, &rangeErr), errors.Is(err, service.ErrWeekAlreadyExists):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to add week")
		}
		return
	}

	invalidate(c, h.cache, cache.PlanKey(userID.Hex(), planID.Hex()))
	c.JSON(http.StatusCreated, WeekResponse{
		ID:            week.ID.Hex(),
		WorkoutPlanID: week.WorkoutPlanID.Hex(),
		WeekNumber:    week.WeekNumber,
	})
}

func (h *WorkoutHandler) AddDay(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	weekID, ok := parseObjectID(c, "weekId")
	if !ok {
		return
	}

	var req AddDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	day, planID, err := h.workoutService.AddDay(c.Request.Context(), userID, weekID, req.DayOfWeek)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeekNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDayAlreadyExists):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to add day")
		}
		return
	}

	invalidate(c, h.cache, cache.PlanKey(userID.Hex(), planID.Hex()))
	c.JSON(http.StatusCreated, DayResponse{
		ID:        day.ID.Hex(),
		WeekID:    day.WeekID.Hex(),
		DayOfWeek: day.DayOfWeek,
	})
}

func (h *WorkoutHandler) GetDayExercises(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	dayID, ok := parseObjectID(c, "dayId")
	if !ok {
		return
	}

	key := cache.DayExercisesKey(userID.Hex(), dayID.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	entries, err := h.workoutService.GetDayExercises(c.Request.Context(), userID, dayID)
	if err != nil {
		if errors.Is(err, service.ErrDayNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to fetch day exercises")
		}
		return
	}

	responses := make([]PlanExerciseResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, mapPlanExerciseToResponse(&entries[i]))
	}
	respondAndCache(c, h.cache, key, http.StatusOK, responses)
}

func (h *WorkoutHandler) AddExerciseToDay(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	dayID, ok := parseObjectID(c, "dayId")
	if !ok {
		return
	}

	var req AddDayExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exercise_id")
		return
	}

	entry := &domain.WorkoutPlanExercise{
		DayID:      dayID,
		ExerciseID: exerciseID,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Order:      req.Order,
	}

	created, err := h.workoutService.AddExerciseToDay(c.Request.Context(), userID, entry)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDayNotFound), errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to add exercise to day")
		}
		return
	}

	invalidate(c, h.cache, cache.DayExercisesKey(userID.Hex(), dayID.Hex()))
	c.JSON(http.StatusCreated, mapPlanExerciseToResponse(created))
}

func (h *WorkoutHandler) UpdateDayExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	dayID, ok := parseObjectID(c, "dayId")
	if !ok {
		return
	}

	var req UpdateDayExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exercise_id")
		return
	}

	entry := &domain.WorkoutPlanExercise{
		DayID:      dayID,
		ExerciseID: exerciseID,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Order:      req.Order,
	}

	updated, err := h.workoutService.UpdateDayExercise(c.Request.Context(), userID, entry)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDayNotFound), errors.Is(err, service.ErrPlanExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to update exercise")
		}
		return
	}

	invalidate(c, h.cache, cache.DayExercisesKey(userID.Hex(), dayID.Hex()))
	c.JSON(http.StatusOK, mapPlanExerciseToResponse(updated))
}

func (h *WorkoutHandler) RemoveExerciseFromDay(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	dayID, ok := parseObjectID(c, "dayId")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectID(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.workoutService.RemoveExerciseFromDay(c.Request.Context(), userID, dayID, exerciseID); err != nil {
		switch {
		case errors.Is(err, service.ErrDayNotFound), errors.Is(err, service.ErrPlanExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to remove exercise")
		}
		return
	}

	invalidate(c, h.cache, cache.DayExercisesKey(userID.Hex(), dayID.Hex()))
	c.Status(http.StatusNoContent)
}

// AddExerciseToPlan targets a week number and weekday inside the plan and
// refuses exercises already attached anywhere in it.
func (h *WorkoutHandler) AddExerciseToPlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	planID, ok := parseObjectID(c, "planId")
	if !ok {
		return
	}

	var req AddPlanExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exercise_id")
		return
	}

	entry := &domain.WorkoutPlanExercise{
		ExerciseID: exerciseID,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Order:      req.Order,
	}

	created, err := h.workoutService.AddExerciseToPlan(c.Request.Context(), userID, planID, req.WeekNumber, req.DayOfWeek, entry)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound),
			errors.Is(err, service.ErrWeekNotFound),
			errors.Is(err, service.ErrDayNotFound),
			errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseAlreadyInPlan):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to add exercise to plan")
		}
		return
	}

	invalidate(c, h.cache, cache.DayExercisesKey(userID.Hex(), created.DayID.Hex()))
	c.JSON(http.StatusCreated, mapPlanExerciseToResponse(created))
}

func mapPlanToResponse(plan *domain.WorkoutPlan) PlanResponse {
	return PlanResponse{
		ID:          plan.ID.Hex(),
		Name:        plan.Name,
		Description: plan.Description,
		Weeks:       plan.Weeks,
		CreatedAt:   plan.CreatedAt,
	}
}

func mapPlanExerciseToResponse(entry *domain.WorkoutPlanExercise) PlanExerciseResponse {
	return PlanExerciseResponse{
		ID:         entry.ID.Hex(),
		DayID:      entry.DayID.Hex(),
		ExerciseID: entry.ExerciseID.Hex(),
		Sets:       entry.Sets,
		Reps:       entry.Reps,
		Order:      entry.Order,
	}
}
