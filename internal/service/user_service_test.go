package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository/memory"
)

func seedUser(t *testing.T, store *memory.Store, username string) primitive.ObjectID {
	t.Helper()
	id, err := store.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func sampleProfile(userID primitive.ObjectID, contact int64) *domain.UserProfile {
	return &domain.UserProfile{
		UserID:        userID,
		FirstName:     "Alice",
		LastName:      "Smith",
		DateOfBirth:   time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:        "female",
		Height:        170,
		Weight:        65,
		FitnessGoal:   "muscle gain",
		FitnessLevel:  "intermediate",
		AvailableTime: 45,
		ContactNumber: contact,
	}
}

func TestCreateProfile(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store, store.Profiles())
	ctx := context.Background()
	userID := seedUser(t, store, "alice")

	created, err := svc.CreateProfile(ctx, sampleProfile(userID, 15551234567))
	if err != nil {
		t.Fatalf("CreateProfile() error: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("CreateProfile() returned profile with zero ID")
	}

	got, err := svc.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if got.FirstName != "Alice" || got.ContactNumber != 15551234567 {
		t.Errorf("GetProfile() = %+v, want the created profile", got)
	}
}

func TestCreateProfileUnknownUser(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store, store.Profiles())

	_, err := svc.CreateProfile(context.Background(), sampleProfile(primitive.NewObjectID(), 15551234567))
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("CreateProfile() error = %v, want ErrUserNotFound", err)
	}
}

func TestCreateProfileTwice(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store, store.Profiles())
	ctx := context.Background()
	userID := seedUser(t, store, "alice")

	if _, err := svc.CreateProfile(ctx, sampleProfile(userID, 15551234567)); err != nil {
		t.Fatalf("CreateProfile() error: %v", err)
	}
	_, err := svc.CreateProfile(ctx, sampleProfile(userID, 15559876543))
	if !errors.Is(err, ErrProfileAlreadyExists) {
		t.Errorf("CreateProfile() error = %v, want ErrProfileAlreadyExists", err)
	}
}

func TestCreateProfileContactConflict(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store, store.Profiles())
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	if _, err := svc.CreateProfile(ctx, sampleProfile(alice, 15551234567)); err != nil {
		t.Fatalf("CreateProfile() error: %v", err)
	}
	_, err := svc.CreateProfile(ctx, sampleProfile(bob, 15551234567))
	if !errors.Is(err, ErrContactNumberConflict) {
		t.Errorf("CreateProfile() error = %v, want ErrContactNumberConflict", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store, store.Profiles())
	ctx := context.Background()
	userID := seedUser(t, store, "alice")

	if _, err := svc.CreateProfile(ctx, sampleProfile(userID, 15551234567)); err != nil {
		t.Fatalf("CreateProfile() error: %v", err)
	}

	updated := sampleProfile(userID, 15551234567)
	updated.Weight = 63
	updated.FitnessGoal = "endurance"
	if _, err := svc.UpdateProfile(ctx, updated); err != nil {
		t.Fatalf("UpdateProfile() error: %v", err)
	}

	got, err := svc.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if got.Weight != 63 || got.FitnessGoal != "endurance" {
		t.Errorf("GetProfile() after update = %+v", got)
	}
}

func TestUpdateProfileMissing(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store, store.Profiles())
	userID := seedUser(t, store, "alice")

	_, err := svc.UpdateProfile(context.Background(), sampleProfile(userID, 15551234567))
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("UpdateProfile() error = %v, want ErrProfileNotFound", err)
	}
}

func TestGetUser(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store, store.Profiles())
	ctx := context.Background()
	userID := seedUser(t, store, "alice")

	user, err := svc.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser() error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("GetUser() username = %q, want alice", user.Username)
	}

	if _, err := svc.GetUser(ctx, primitive.NewObjectID()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() unknown error = %v, want ErrUserNotFound", err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("ListUsers() returned %d users, want 1", len(users))
	}
}
