package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. Username and email are unique.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserProfile holds the fitness profile attached to an account.
// At most one profile per user, at most one profile per contact number.
type UserProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	LastName      string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	DateOfBirth   time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender        string             `bson:"gender" json:"gender"`
	Height        int                `bson:"height" json:"height"` // centimeters
	Weight        int                `bson:"weight" json:"weight"` // kilograms
	FitnessGoal   string             `bson:"fitnessGoal,omitempty" json:"fitnessGoal,omitempty"`
	FitnessLevel  string             `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`
	AvailableTime int                `bson:"availableTime,omitempty" json:"availableTime,omitempty"` // minutes per session
	CountryCode   string             `bson:"countryCode" json:"countryCode"`
	ContactNumber int64              `bson:"contactNumber" json:"contactNumber"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Age derives the user's age in whole years at the given instant.
func (p *UserProfile) Age(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	if now.YearDay() < p.DateOfBirth.YearDay() {
		years--
	}
	return years
}
