package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a catalog entry describing a single exercise.
// Catalog data is read-heavy reference material shared by all users.
type Exercise struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup       string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g. "Chest", "Legs", "Back"
	Category          string             `bson:"category,omitempty" json:"category,omitempty"`       // e.g. "Strength", "Cardio"
	Difficulty        string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g. "Beginner", "Intermediate", "Advanced"
	EquipmentNeeded   bool               `bson:"equipmentNeeded" json:"equipmentNeeded"`
	EquipmentDetails  string             `bson:"equipmentDetails,omitempty" json:"equipmentDetails,omitempty"`
	CaloriesPerMinute float64            `bson:"caloriesPerMinute,omitempty" json:"caloriesPerMinute,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
