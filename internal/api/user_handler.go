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

// UserHandler serves the user directory and profile management.
type UserHandler struct {
	userService service.UserService
	cache       cache.Cache
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, cache cache.Cache) *UserHandler {
	return &UserHandler{userService: userService, cache: cache}
}

type ProfileRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	DateOfBirth   string `json:"date_of_birth" binding:"required"`
	Gender        string `json:"gender" binding:"required"`
	Height        int    `json:"height" binding:"required,gt=0"`
	Weight        int    `json:"weight" binding:"required,gt=0"`
	FitnessGoal   string `json:"fitness_goal"`
	FitnessLevel  string `json:"fitness_level"`
	AvailableTime int    `json:"available_time"`
	CountryCode   string `json:"country_code"`
	ContactNumber int64  `json:"contact_number" binding:"required"`
}

type ProfileResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth"`
	Gender        string `json:"gender"`
	Height        int    `json:"height"`
	Weight        int    `json:"weight"`
	FitnessGoal   string `json:"fitness_goal"`
	FitnessLevel  string `json:"fitness_level"`
	AvailableTime int    `json:"available_time"`
	CountryCode   string `json:"country_code"`
	ContactNumber int64  `json:"contact_number"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, MapUserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to fetch user")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// CreateProfile attaches a profile to the caller's own account. The path ID
// must match the token subject.
func (h *UserHandler) CreateProfile(c *gin.Context) {
	pathID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	if pathID != userID {
		abortWithError(c, http.StatusForbidden, "cannot create a profile for another user")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	profile, reqErr := profileFromRequest(userID, &req)
	if reqErr != nil {
		abortWithError(c, http.StatusBadRequest, reqErr.Error())
		return
	}

	created, err := h.userService.CreateProfile(c.Request.Context(), profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProfileAlreadyExists), errors.Is(err, service.ErrContactNumberConflict):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to create profile")
		}
		return
	}

	invalidate(c, h.cache, cache.ProfileKey(userID.Hex()))
	c.JSON(http.StatusCreated, mapProfileToResponse(created))
}

// UpdateProfile replaces the caller's profile fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	pathID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	if pathID != userID {
		abortWithError(c, http.StatusForbidden, "cannot update another user's profile")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	profile, reqErr := profileFromRequest(userID, &req)
	if reqErr != nil {
		abortWithError(c, http.StatusBadRequest, reqErr.Error())
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrContactNumberConflict):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	invalidate(c, h.cache, cache.ProfileKey(userID.Hex()))
	c.JSON(http.StatusOK, mapProfileToResponse(updated))
}

// GetProfile returns the caller's own profile. The path ID must match the
// token subject, a profile is never served to another user.
func (h *UserHandler) GetProfile(c *gin.Context) {
	pathID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	if pathID != userID {
		abortWithError(c, http.StatusForbidden, "cannot view another user's profile")
		return
	}

	key := cache.ProfileKey(pathID.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), pathID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	respondAndCache(c, h.cache, key, http.StatusOK, mapProfileToResponse(profile))
}

const dateLayout = "2006-01-02"

func profileFromRequest(userID primitive.ObjectID, req *ProfileRequest) (*domain.UserProfile, error) {
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("date_of_birth must be formatted as %s", dateLayout)
	}

	profile := &domain.UserProfile{
		UserID:        userID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfBirth:   dob,
		Gender:        req.Gender,
		Height:        req.Height,
		Weight:        req.Weight,
		FitnessGoal:   req.FitnessGoal,
		FitnessLevel:  req.FitnessLevel,
		AvailableTime: req.AvailableTime,
		CountryCode:   req.CountryCode,
		ContactNumber: req.ContactNumber,
	}
	return profile, nil
}

func mapProfileToResponse(profile *domain.UserProfile) ProfileResponse {
	return ProfileResponse{
		ID:            profile.ID.Hex(),
		UserID:        profile.UserID.Hex(),
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		DateOfBirth:   profile.DateOfBirth.Format(dateLayout),
		Gender:        profile.Gender,
		Height:        profile.Height,
		Weight:        profile.Weight,
		FitnessGoal:   profile.FitnessGoal,
		FitnessLevel:  profile.FitnessLevel,
		AvailableTime: profile.AvailableTime,
		CountryCode:   profile.CountryCode,
		ContactNumber: profile.ContactNumber,
	}
}
