package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pulsefit/fitness-tracker/internal/cache"
	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/service"
)

// ExerciseHandler serves the shared exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	cache           cache.Cache
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, cache cache.Cache) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, cache: cache}
}

type CreateExerciseRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	MuscleGroup       string  `json:"muscle_group"`
	Category          string  `json:"category"`
	Difficulty        string  `json:"difficulty"`
	EquipmentNeeded   bool    `json:"equipment_needed"`
	EquipmentDetails  string  `json:"equipment_details"`
	CaloriesPerMinute float64 `json:"calories_per_minute"`
}

type ExerciseResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	MuscleGroup       string  `json:"muscle_group"`
	Category          string  `json:"category"`
	Difficulty        string  `json:"difficulty"`
	EquipmentNeeded   bool    `json:"equipment_needed"`
	EquipmentDetails  string  `json:"equipment_details"`
	CaloriesPerMinute float64 `json:"calories_per_minute"`
}

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	exercise := &domain.Exercise{
		Name:              req.Name,
		Description:       req.Description,
		MuscleGroup:       req.MuscleGroup,
		Category:          req.Category,
		Difficulty:        req.Difficulty,
		EquipmentNeeded:   req.EquipmentNeeded,
		EquipmentDetails:  req.EquipmentDetails,
		CaloriesPerMinute: req.CaloriesPerMinute,
	}

	created, err := h.exerciseService.CreateExercise(c.Request.Context(), exercise)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to create exercise")
		return
	}

	invalidate(c, h.cache, cache.ExerciseListKey())
	c.JSON(http.StatusCreated, mapExerciseToResponse(created))
}

// ListExercises supports an optional ?limit= query parameter. The unbounded
// list is the cached variant.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	key := cache.ExerciseListKey()
	if limit == 0 && serveFromCache(c, h.cache, key) {
		return
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list exercises")
		return
	}

	responses := make([]ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		responses = append(responses, mapExerciseToResponse(&exercises[i]))
	}

	if limit == 0 {
		respondAndCache(c, h.cache, key, http.StatusOK, responses)
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	key := cache.ExerciseKey(id.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to fetch exercise")
		}
		return
	}

	respondAndCache(c, h.cache, key, http.StatusOK, mapExerciseToResponse(exercise))
}

func mapExerciseToResponse(exercise *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:                exercise.ID.Hex(),
		Name:              exercise.Name,
		Description:       exercise.Description,
		MuscleGroup:       exercise.MuscleGroup,
		Category:          exercise.Category,
		Difficulty:        exercise.Difficulty,
		EquipmentNeeded:   exercise.EquipmentNeeded,
		EquipmentDetails:  exercise.EquipmentDetails,
		CaloriesPerMinute: exercise.CaloriesPerMinute,
	}
}
