package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the library.
// Identity is the case-insensitive name: NameLower carries the canonical
// lookup key and is covered by a unique index, so two imports spelling the
// same movement differently always resolve to one library row.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`           // Original-cased spelling from first occurrence
	NameLower   string             `bson:"nameLower" json:"-"`         // Lower-cased unique key
	MuscleGroup string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g. "Chest", "Back", "Quads"
	Equipment   string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseSubstitution is a directed (primary, substitute) edge in the
// substitution graph. Pairs are unique; a repeated insert of the same pair
// is a no-op rather than an error.
type ExerciseSubstitution struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseID   primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`     // The prescribed exercise
	SubstituteID primitive.ObjectID `bson:"substituteId" json:"substituteId"` // The allowed replacement
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
