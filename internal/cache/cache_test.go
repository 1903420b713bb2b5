package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() on empty cache error = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "k", []byte(`{"a":1}`), DefaultTTL); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get() = %s, want {\"a\":1}", got)
	}

	if err := c.Delete(ctx, "k", "other"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheCopiesValue(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	value := []byte("original")
	if err := c.Set(ctx, "k", value, 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	value[0] = 'X'

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("Get() = %s, cached value aliased the caller's slice", got)
	}
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), DefaultTTL); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	if got := UserPlansKey("u1"); got != "users:u1:plans" {
		t.Errorf("UserPlansKey() = %q", got)
	}
	if got := ProfileKey("u1"); got != "users:u1:profile" {
		t.Errorf("ProfileKey() = %q", got)
	}
	// Owner-bound item keys embed the caller, so two users never share an entry.
	if got := PlanKey("u1", "p1"); got != "users:u1:plans:p1" {
		t.Errorf("PlanKey() = %q", got)
	}
	if PlanKey("u1", "p1") == PlanKey("u2", "p1") {
		t.Error("PlanKey() collides across users")
	}
	if got := DayExercisesKey("u1", "d1"); got != "users:u1:days:d1:exercises" {
		t.Errorf("DayExercisesKey() = %q", got)
	}
	if got := LogExercisesKey("u1", "l1"); got != "users:u1:logs:l1:exercises" {
		t.Errorf("LogExercisesKey() = %q", got)
	}
	if got := ProgressKey("u1", "r1"); got != "users:u1:progress:r1" {
		t.Errorf("ProgressKey() = %q", got)
	}
}
