package model

import "time"

type Student struct {
	ID           int64
	Name         string
	Email        string
	Phone        *string
	PasswordHash string
	BirthDate    *time.Time
	Active       bool
	CreatedAt    time.Time
}

// Operator is a trainer/administrator account. Unlike students, operators
// carry no assessment history of their own.
type Operator struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// Assessment is a single body-measurement submission. Every numeric field
// except weight and height is optional; circumferences are centimeters,
// skinfolds millimeters.
type Assessment struct {
	ID         int64
	StudentID  int64
	RecordedAt time.Time
	CreatedAt  time.Time

	WeightKg   float64
	HeightCm   float64
	BodyFatPct *float64
	BMI        float64

	NeckCm         *float64
	RightArmCm     *float64
	LeftArmCm      *float64
	RightForearmCm *float64
	LeftForearmCm  *float64
	ChestCm        *float64
	WaistCm        *float64
	AbdomenCm      *float64
	HipCm          *float64
	RightThighCm   *float64
	LeftThighCm    *float64
	RightCalfCm    *float64
	LeftCalfCm     *float64

	BicipitalFoldMm   *float64
	TricipitalFoldMm  *float64
	SubscapularFoldMm *float64
	SuprailiacFoldMm  *float64
	AbdominalFoldMm   *float64
	ThighFoldMm       *float64

	Notes             string
	MissingItems      string
	LikedMostLeast    string
	WaterGoal         string
	WaterGoalImprove  string
	Nutrition         string
	Improvements      string
	SpecialRequest    string
	TrainingRoutine   string
	GeneralSuggestion string
}
