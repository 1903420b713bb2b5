package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrProfileAlreadyExists  = errors.New("profile already exists for this user")
	ErrContactNumberConflict = errors.New("contact number is already in use")
)

// UserService exposes user directory and profile management.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	CreateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
}

type userService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateProfile attaches a profile to a user. Each user has at most one
// profile and contact numbers are globally unique.
func (s *userService) CreateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, profile.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.profileRepo.GetByUserID(ctx, profile.UserID); err == nil {
		return nil, ErrProfileAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	id, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactNumberConflict
		}
		return nil, err
	}
	profile.ID = id
	return profile, nil
}

// UpdateProfile replaces the mutable fields of an existing profile.
func (s *userService) UpdateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	existing, err := s.profileRepo.GetByUserID(ctx, profile.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactNumberConflict
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
