package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulsefit/fitness-tracker/internal/cache"
	"pulsefit/fitness-tracker/internal/service"
)

// PlannerHandler serves AI-assisted plan generation.
type PlannerHandler struct {
	plannerService service.PlannerService
	cache          cache.Cache
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(plannerService service.PlannerService, cache cache.Cache) *PlannerHandler {
	return &PlannerHandler{plannerService: plannerService, cache: cache}
}

type GenerateRequest struct {
	Query string `json:"query" binding:"required"`
}

// Generate classifies the query and, for plan generation intents, persists
// a synthesized plan for the caller.
func (h *PlannerHandler) Generate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	result, err := h.plannerService.Generate(c.Request.Context(), userID, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, "a profile is required before generating a plan")
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to process query")
		}
		return
	}

	if result.Plan != nil {
		// A new plan appeared in the caller's collection.
		invalidate(c, h.cache, cache.UserPlansKey(userID.Hex()))
	}
	c.JSON(http.StatusOK, result)
}
