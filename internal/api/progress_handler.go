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

// ProgressHandler serves body measurement tracking and progress photos.
type ProgressHandler struct {
	progressService service.ProgressService
	cache           cache.Cache
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService, cache cache.Cache) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, cache: cache}
}

type ProgressRequest struct {
	Date              string   `json:"date"`
	Weight            float64  `json:"weight" binding:"required,gt=0"`
	BMI               *float64 `json:"bmi"`
	BodyFatPercentage *float64 `json:"body_fat_percentage"`
	MuscleMass        *float64 `json:"muscle_mass"`
	Notes             string   `json:"notes"`
}

type ProgressResponse struct {
	ID                string    `json:"id"`
	Date              time.Time `json:"date"`
	Weight            float64   `json:"weight"`
	BMI               *float64  `json:"bmi,omitempty"`
	BodyFatPercentage *float64  `json:"body_fat_percentage,omitempty"`
	MuscleMass        *float64  `json:"muscle_mass,omitempty"`
	Notes             string    `json:"notes"`
	HasPhoto          bool      `json:"has_photo"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"content_type"`
}

type PhotoURLResponse struct {
	URL string `json:"url"`
}

func (h *ProgressHandler) CreateProgress(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	progress, reqErr := progressFromRequest(userID, &req)
	if reqErr != nil {
		abortWithError(c, http.StatusBadRequest, reqErr.Error())
		return
	}

	created, err := h.progressService.CreateProgress(c.Request.Context(), progress)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to create progress record")
		return
	}

	invalidate(c, h.cache, cache.UserProgressKey(userID.Hex()))
	c.JSON(http.StatusCreated, mapProgressToResponse(created))
}

func (h *ProgressHandler) ListProgress(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}

	key := cache.UserProgressKey(userID.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	records, err := h.progressService.ListProgress(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list progress records")
		return
	}

	responses := make([]ProgressResponse, 0, len(records))
	for i := range records {
		responses = append(responses, mapProgressToResponse(&records[i]))
	}
	respondAndCache(c, h.cache, key, http.StatusOK, responses)
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	key := cache.ProgressKey(userID.Hex(), id.Hex())
	if serveFromCache(c, h.cache, key) {
		return
	}

	progress, err := h.progressService.GetProgress(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to fetch progress record")
		}
		return
	}

	respondAndCache(c, h.cache, key, http.StatusOK, mapProgressToResponse(progress))
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	progress, reqErr := progressFromRequest(userID, &req)
	if reqErr != nil {
		abortWithError(c, http.StatusBadRequest, reqErr.Error())
		return
	}
	progress.ID = id

	updated, err := h.progressService.UpdateProgress(c.Request.Context(), progress)
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to update progress record")
		}
		return
	}

	invalidate(c, h.cache, cache.ProgressKey(userID.Hex(), id.Hex()), cache.UserProgressKey(userID.Hex()))
	c.JSON(http.StatusOK, mapProgressToResponse(updated))
}

func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.progressService.DeleteProgress(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to delete progress record")
		}
		return
	}

	invalidate(c, h.cache, cache.ProgressKey(userID.Hex(), id.Hex()), cache.UserProgressKey(userID.Hex()))
	c.Status(http.StatusNoContent)
}

// RequestPhotoUpload returns a presigned PUT URL for the record's photo.
func (h *ProgressHandler) RequestPhotoUpload(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	// The body is optional, the content type defaults when absent.
	var req PhotoUploadRequest
	_ = c.ShouldBindJSON(&req)

	uploadURL, err := h.progressService.RequestPhotoUpload(c.Request.Context(), id, userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "failed to generate upload URL")
		}
		return
	}

	invalidate(c, h.cache, cache.ProgressKey(userID.Hex(), id.Hex()), cache.UserProgressKey(userID.Hex()))
	c.JSON(http.StatusOK, PhotoURLResponse{URL: uploadURL})
}

// GetPhotoDownloadURL returns a presigned GET URL for the record's photo.
func (h *ProgressHandler) GetPhotoDownloadURL(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve caller")
		return
	}
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	downloadURL, err := h.progressService.GetPhotoDownloadURL(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgressNotFound), errors.Is(err, service.ErrNoProgressPhoto):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to generate download URL")
		}
		return
	}

	c.JSON(http.StatusOK, PhotoURLResponse{URL: downloadURL})
}

func progressFromRequest(userID primitive.ObjectID, req *ProgressRequest) (*domain.Progress, error) {
	progress := &domain.Progress{
		UserID:            userID,
		Weight:            req.Weight,
		BMI:               req.BMI,
		BodyFatPercentage: req.BodyFatPercentage,
		MuscleMass:        req.MuscleMass,
		Notes:             req.Notes,
	}
	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, fmt.Errorf("date must be formatted as %s", dateLayout)
		}
		progress.Date = date
	}
	return progress, nil
}

func mapProgressToResponse(progress *domain.Progress) ProgressResponse {
	return ProgressResponse{
		ID:                progress.ID.Hex(),
		Date:              progress.Date,
		Weight:            progress.Weight,
		BMI:               progress.BMI,
		BodyFatPercentage: progress.BodyFatPercentage,
		MuscleMass:        progress.MuscleMass,
		Notes:             progress.Notes,
		HasPhoto:          progress.PhotoObjectKey != "",
	}
}
