package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is the root of the plan hierarchy. Everything below it
// (weeks, days, exercise entries) is owned transitively by UserID.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Weeks       int                `bson:"weeks" json:"weeks"` // declared length; week numbers must stay within [1, Weeks]
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutPlanWeek is one scheduled week of a plan.
// WeekNumber is unique within its plan.
type WorkoutPlanWeek struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutPlanID primitive.ObjectID `bson:"workoutPlanId" json:"workoutPlanId"`
	WeekNumber    int                `bson:"weekNumber" json:"weekNumber"`
}

// WorkoutPlanDay is one weekday inside a week. DayOfWeek is unique within its week.
type WorkoutPlanDay struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeekID    primitive.ObjectID `bson:"weekId" json:"weekId"`
	DayOfWeek string             `bson:"dayOfWeek" json:"dayOfWeek"` // e.g. "Monday"
}

// WorkoutPlanExercise attaches a catalog exercise to a plan day.
type WorkoutPlanExercise struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayID      primitive.ObjectID `bson:"dayId" json:"dayId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       int                `bson:"sets" json:"sets"`
	Reps       int                `bson:"reps" json:"reps"`
	Order      int                `bson:"order" json:"order"` // position within the day
}
