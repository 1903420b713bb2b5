package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog records a completed or partial session against a plan.
type WorkoutLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutPlanID primitive.ObjectID `bson:"workoutPlanId" json:"workoutPlanId"`
	Date          time.Time          `bson:"date" json:"date"`
	Status        string             `bson:"status" json:"status"` // "completed" or "partial"
	Duration      int                `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// WorkoutLogExercise records what was actually performed for one exercise
// within a logged session.
type WorkoutLogExercise struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutLogID  primitive.ObjectID `bson:"workoutLogId" json:"workoutLogId"`
	ExerciseID    primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetsCompleted int                `bson:"setsCompleted,omitempty" json:"setsCompleted,omitempty"`
	RepsCompleted int                `bson:"repsCompleted,omitempty" json:"repsCompleted,omitempty"`
	WeightUsed    float64            `bson:"weightUsed,omitempty" json:"weightUsed,omitempty"` // kilograms
}
