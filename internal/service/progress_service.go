package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
	"pulsefit/fitness-tracker/internal/storage"
)

var (
	ErrProgressNotFound = errors.New("progress record not found")
	ErrNoProgressPhoto  = errors.New("progress record has no photo")
)

// ProgressService manages body measurements and their photos. Photo bytes
// never pass through the server, clients use presigned URLs.
type ProgressService interface {
	CreateProgress(ctx context.Context, progress *domain.Progress) (*domain.Progress, error)
	ListProgress(ctx context.Context, userID primitive.ObjectID) ([]domain.Progress, error)
	GetProgress(ctx context.Context, id, userID primitive.ObjectID) (*domain.Progress, error)
	UpdateProgress(ctx context.Context, progress *domain.Progress) (*domain.Progress, error)
	DeleteProgress(ctx context.Context, id, userID primitive.ObjectID) error

	RequestPhotoUpload(ctx context.Context, id, userID primitive.ObjectID, contentType string) (uploadURL string, err error)
	GetPhotoDownloadURL(ctx context.Context, id, userID primitive.ObjectID) (string, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	fileStorage  storage.FileStorage
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(progressRepo repository.ProgressRepository, fileStorage storage.FileStorage) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		fileStorage:  fileStorage,
	}
}

func (s *progressService) CreateProgress(ctx context.Context, progress *domain.Progress) (*domain.Progress, error) {
	if progress.Weight <= 0 {
		return nil, errors.New("weight must be positive")
	}

	id, err := s.progressRepo.Create(ctx, progress)
	if err != nil {
		return nil, err
	}
	progress.ID = id
	return progress, nil
}

func (s *progressService) ListProgress(ctx context.Context, userID primitive.ObjectID) ([]domain.Progress, error) {
	return s.progressRepo.GetByOwner(ctx, userID)
}

func (s *progressService) GetProgress(ctx context.Context, id, userID primitive.ObjectID) (*domain.Progress, error) {
	progress, err := s.progressRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}

func (s *progressService) UpdateProgress(ctx context.Context, progress *domain.Progress) (*domain.Progress, error) {
	existing, err := s.progressRepo.GetOwned(ctx, progress.ID, progress.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	// The photo key is managed through the photo endpoints, not the update.
	progress.PhotoObjectKey = existing.PhotoObjectKey
	if err := s.progressRepo.Update(ctx, progress); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}

// DeleteProgress removes the record and, best effort, its stored photo.
func (s *progressService) DeleteProgress(ctx context.Context, id, userID primitive.ObjectID) error {
	progress, err := s.progressRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressNotFound
		}
		return err
	}

	if err := s.progressRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressNotFound
		}
		return err
	}

	if progress.PhotoObjectKey != "" && s.fileStorage != nil {
		// Orphaned objects expire with the bucket lifecycle policy if this
		// fails, so the error is not surfaced.
		_ = s.fileStorage.DeleteObject(ctx, progress.PhotoObjectKey)
	}
	return nil
}

// RequestPhotoUpload mints a fresh object key, stores it on the record and
// returns a presigned PUT URL for the client.
func (s *progressService) RequestPhotoUpload(ctx context.Context, id, userID primitive.ObjectID, contentType string) (string, error) {
	if s.fileStorage == nil {
		return "", errors.New("object storage is not configured")
	}

	progress, err := s.progressRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrProgressNotFound
		}
		return "", err
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectKey := fmt.Sprintf("progress/%s/%s", userID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", err
	}

	oldKey := progress.PhotoObjectKey
	progress.PhotoObjectKey = objectKey
	progress.UpdatedAt = time.Now().UTC()
	if err := s.progressRepo.Update(ctx, progress); err != nil {
		return "", err
	}

	if oldKey != "" {
		_ = s.fileStorage.DeleteObject(ctx, oldKey)
	}
	return uploadURL, nil
}

func (s *progressService) GetPhotoDownloadURL(ctx context.Context, id, userID primitive.ObjectID) (string, error) {
	if s.fileStorage == nil {
		return "", errors.New("object storage is not configured")
	}

	progress, err := s.progressRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrProgressNotFound
		}
		return "", err
	}
	if progress.PhotoObjectKey == "" {
		return "", ErrNoProgressPhoto
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, progress.PhotoObjectKey, storage.DefaultPresignedURLExpiry)
}
