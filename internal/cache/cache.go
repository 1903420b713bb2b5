// Package cache defines the read-through cache used by the API layer and
// its Redis-backed implementation. Caching is best effort: a cache failure
// never fails the request, handlers fall back to the repositories.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// DefaultTTL is applied to every cached response.
const DefaultTTL = time.Hour

// Cache stores serialized API responses keyed by resource.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Key builders. Writes invalidate both the item key and the collection key
// that contains it, so the next read repopulates from the database. Every key
// for an owner-bound resource carries the caller's user ID, so one user's
// warmed entries can never answer another user's request.

func UserPlansKey(userID string) string { return fmt.Sprintf("users:%s:plans", userID) }

func PlanKey(userID, planID string) string {
	return fmt.Sprintf("users:%s:plans:%s", userID, planID)
}

func DayExercisesKey(userID, dayID string) string {
	return fmt.Sprintf("users:%s:days:%s:exercises", userID, dayID)
}

func UserLogsKey(userID string) string { return fmt.Sprintf("users:%s:logs", userID) }

func LogExercisesKey(userID, logID string) string {
	return fmt.Sprintf("users:%s:logs:%s:exercises", userID, logID)
}

func UserProgressKey(userID string) string { return fmt.Sprintf("users:%s:progress", userID) }

func ProgressKey(userID, progressID string) string {
	return fmt.Sprintf("users:%s:progress:%s", userID, progressID)
}

func ExerciseListKey() string { return "exercises" }

func ExerciseKey(exerciseID string) string { return fmt.Sprintf("exercises:%s", exerciseID) }

func ProfileKey(userID string) string { return fmt.Sprintf("users:%s:profile", userID) }
