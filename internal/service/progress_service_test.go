package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pulsefit/fitness-tracker/internal/domain"
	"pulsefit/fitness-tracker/internal/repository/memory"
)

// fakeStorage records presign and delete calls.
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func TestProgressLifecycle(t *testing.T) {
	store := memory.New()
	svc := NewProgressService(store.Progress(), &fakeStorage{})
	ctx := context.Background()
	owner := primitive.NewObjectID()

	created, err := svc.CreateProgress(ctx, &domain.Progress{UserID: owner, Weight: 82.5})
	if err != nil {
		t.Fatalf("CreateProgress() error: %v", err)
	}

	fetched, err := svc.GetProgress(ctx, created.ID, owner)
	if err != nil {
		t.Fatalf("GetProgress() error: %v", err)
	}
	if fetched.Weight != 82.5 {
		t.Errorf("weight = %v, want 82.5", fetched.Weight)
	}

	fetched.Weight = 81.0
	if _, err := svc.UpdateProgress(ctx, fetched); err != nil {
		t.Fatalf("UpdateProgress() error: %v", err)
	}

	records, err := svc.ListProgress(ctx, owner)
	if err != nil {
		t.Fatalf("ListProgress() error: %v", err)
	}
	if len(records) != 1 || records[0].Weight != 81.0 {
		t.Errorf("ListProgress() = %+v, want single record with weight 81", records)
	}

	if err := svc.DeleteProgress(ctx, created.ID, owner); err != nil {
		t.Fatalf("DeleteProgress() error: %v", err)
	}
	if _, err := svc.GetProgress(ctx, created.ID, owner); !errors.Is(err, ErrProgressNotFound) {
		t.Errorf("GetProgress() after delete error = %v, want ErrProgressNotFound", err)
	}
}

func TestProgressOwnership(t *testing.T) {
	store := memory.New()
	svc := NewProgressService(store.Progress(), &fakeStorage{})
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	created, err := svc.CreateProgress(ctx, &domain.Progress{UserID: owner, Weight: 90})
	if err != nil {
		t.Fatalf("CreateProgress() error: %v", err)
	}

	if _, err := svc.GetProgress(ctx, created.ID, stranger); !errors.Is(err, ErrProgressNotFound) {
		t.Errorf("GetProgress() as stranger error = %v, want ErrProgressNotFound", err)
	}
	if err := svc.DeleteProgress(ctx, created.ID, stranger); !errors.Is(err, ErrProgressNotFound) {
		t.Errorf("DeleteProgress() as stranger error = %v, want ErrProgressNotFound", err)
	}
	if _, err := svc.GetProgress(ctx, created.ID, owner); err != nil {
		t.Errorf("GetProgress() as owner error: %v", err)
	}
}

func TestProgressRejectsNonPositiveWeight(t *testing.T) {
	store := memory.New()
	svc := NewProgressService(store.Progress(), &fakeStorage{})

	if _, err := svc.CreateProgress(context.Background(), &domain.Progress{
		UserID: primitive.NewObjectID(),
	}); err == nil {
		t.Error("CreateProgress() with zero weight succeeded, want error")
	}
}

func TestProgressPhotoFlow(t *testing.T) {
	store := memory.New()
	fs := &fakeStorage{}
	svc := NewProgressService(store.Progress(), fs)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	created, err := svc.CreateProgress(ctx, &domain.Progress{UserID: owner, Weight: 75})
	if err != nil {
		t.Fatalf("CreateProgress() error: %v", err)
	}

	// No photo yet.
	if _, err := svc.GetPhotoDownloadURL(ctx, created.ID, owner); !errors.Is(err, ErrNoProgressPhoto) {
		t.Errorf("GetPhotoDownloadURL() error = %v, want ErrNoProgressPhoto", err)
	}

	uploadURL, err := svc.RequestPhotoUpload(ctx, created.ID, owner, "image/png")
	if err != nil {
		t.Fatalf("RequestPhotoUpload() error: %v", err)
	}
	if uploadURL == "" {
		t.Fatal("RequestPhotoUpload() returned empty URL")
	}

	downloadURL, err := svc.GetPhotoDownloadURL(ctx, created.ID, owner)
	if err != nil {
		t.Fatalf("GetPhotoDownloadURL() error: %v", err)
	}
	if downloadURL == "" {
		t.Fatal("GetPhotoDownloadURL() returned empty URL")
	}

	// Replacing the photo deletes the old object.
	if _, err := svc.RequestPhotoUpload(ctx, created.ID, owner, "image/png"); err != nil {
		t.Fatalf("RequestPhotoUpload() again error: %v", err)
	}
	fs.mu.Lock()
	deletions := len(fs.deleted)
	fs.mu.Unlock()
	if deletions != 1 {
		t.Errorf("old photo deletions = %d, want 1", deletions)
	}

	// Deleting the record removes the current photo too.
	if err := svc.DeleteProgress(ctx, created.ID, owner); err != nil {
		t.Fatalf("DeleteProgress() error: %v", err)
	}
	fs.mu.Lock()
	deletions = len(fs.deleted)
	fs.mu.Unlock()
	if deletions != 2 {
		t.Errorf("total photo deletions = %d, want 2", deletions)
	}
}
