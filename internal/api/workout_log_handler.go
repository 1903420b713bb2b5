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

// WorkoutLogHandler serves session logging.
type WorkoutLogHandler struct {
	logService service.WorkoutLogService
	cache      cache.Cache
}

// NewWorkoutLogHandler creates a new WorkoutLogHandler.
func NewWorkoutLogHandler(logService service.WorkoutLogService, cache cache.Cache) *WorkoutLogHandler {
	return &WorkoutLogHandler{logService: logService, cache: cache}
}

type CreateLogRequest struct {
	WorkoutPlanID string `json:"workout_plan_id" binding:"required"`
	Date          string `json:"date"`
	Status        string `json:"status"`
	Duration      int    `json:"duration"`
	Notes         string `json:"notes"`
}

type LogResponse struct {
	ID            string    `json:"id"`
	WorkoutPlanID string    `json:"workout_plan_id"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Duration      int       `json:"duration"`
	Notes         string    `json:"notes"`
}

type AddLogExerciseRequest struct {
	ExerciseID    string  `json:"exercise_id" binding:"required"`
	SetsCompleted int     `json:"sets_completed" binding:"gte=0"`
	RepsCompleted int     `json:"reps_completed" binding:"gte=0"`
	WeightUsed    float64 `json:"weight_used" binding:"gte=0"`
}

type LogExerciseResponse struct {
	ID            string  `json:"id"`
	WorkoutLogID  string  `json:"workout_log_id"`
	ExerciseID    string  `json:"exercise_id"`
	SetsCompleted int     `json:"sets_completed"`
	RepsCompleted int     `json:"reps_completed"`
	WeightUsed    float64 `json:"weight_used"`
}

func (h *WorkoutLogHandler) CreateLog(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.WorkoutPlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid workout_plan_id")
		return
	}

	log := &domain.WorkoutLog{
		UserID:        userID,
		WorkoutPlanID: planID,
		Status:        req.Status,
		Duration:      req.Duration,
		Notes:         req.Notes,
	}
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("date must be formatted as %s", dateLayout))
			return
		}
		log.Date = date
	}

	created, err := h.logService.CreateLog(c.Request.Context(), log)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to create workout log")
		}
		return
	}

	invalidate(c, h.cache, cache.UserLogsKey(userID.Hex()))
	c.JSON(http.StatusCreated, mapLogToResponse(created))
}

func (h *WorkoutLogHandler) ListLogs(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}

	key := cache.UserLogsKey(userID.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	logs, err := h.logService.ListLogs(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list workout logs")
		return
	}

	responses := make([]LogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, mapLogToResponse(&logs[i]))
	}
	respondAndCache(c, h.cache, key, http.StatusOK, responses)
}

func (h *WorkoutLogHandler) AddExercise(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	logID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req AddLogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exercise_id")
		return
	}

	entry := &domain.WorkoutLogExercise{
		WorkoutLogID:  logID,
		ExerciseID:    exerciseID,
		SetsCompleted: req.SetsCompleted,
		RepsCompleted: req.RepsCompleted,
		WeightUsed:    req.WeightUsed,
	}

	created, err := h.logService.AddExercise(c.Request.Context(), userID, entry)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogNotFound), errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to add exercise to workout log")
		}
		return
	}

	invalidate(c, h.cache, cache.LogExercisesKey(userID.Hex(), logID.Hex()))
	c.JSON(http.StatusCreated, mapLogExerciseToResponse(created))
}

func (h *WorkoutLogHandler) GetExercises(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	logID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	key := cache.LogExercisesKey(userID.Hex(), logID.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	entries, err := h.logService.GetExercises(c.Request.Context(), userID, logID)
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to fetch workout log exercises")
		}
		return
	}

	responses := make([]LogExerciseResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, mapLogExerciseToResponse(&entries[i]))
	}
	respondAndCache(c, h.cache, key, http.StatusOK, responses)
}

func mapLogToResponse(log *domain.WorkoutLog) LogResponse {
	return LogResponse{
		ID:            log.ID.Hex(),
		WorkoutPlanID: log.WorkoutPlanID.Hex(),
		Date:          log.Date,
		Status:        log.Status,
		Duration:      log.Duration,
		Notes:         log.Notes,
	}
}

func mapLogExerciseToResponse(entry *domain.WorkoutLogExercise) LogExerciseResponse {
	return LogExerciseResponse{
		ID:            entry.ID.Hex(),
		WorkoutLogID:  entry.WorkoutLogID.Hex(),
		ExerciseID:    entry.ExerciseID.Hex(),
		SetsCompleted: entry.SetsCompleted,
		RepsCompleted: entry.RepsCompleted,
		WeightUsed:    entry.WeightUsed,
	}
}
