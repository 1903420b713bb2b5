package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progress is a body measurement snapshot owned directly by a user.
type Progress struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Date              time.Time          `bson:"date" json:"date"`
	Weight            float64            `bson:"weight" json:"weight"` // kilograms
	BMI               *float64           `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BodyFatPercentage *float64           `bson:"bodyFatPercentage,omitempty" json:"bodyFatPercentage,omitempty"`
	MuscleMass        *float64           `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PhotoObjectKey    string             `bson:"photoObjectKey,omitempty" json:"-"` // S3 key of the attached photo, if any
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
