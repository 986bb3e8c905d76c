package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekType classifies a training week.
type WeekType string

const (
	WeekTypeIntro  WeekType = "intro"
	WeekTypeNormal WeekType = "normal"
	WeekTypeDeload WeekType = "deload"
)

// Program is the root of one imported training program.
type Program struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID         primitive.ObjectID `bson:"ownerId" json:"ownerId"` // Trainer who imported it
	Name            string             `bson:"name" json:"name"`
	WeeklyFrequency int                `bson:"weeklyFrequency" json:"weeklyFrequency"` // Intended sessions per week
	Source          string             `bson:"source,omitempty" json:"source,omitempty"` // e.g. original file name
	SourceObjectKey string             `bson:"sourceObjectKey,omitempty" json:"-"`       // S3 key of the archived workbook
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProgramBlock is a multi-week phase of a program (e.g. "Block 1 - Hypertrophy").
type ProgramBlock struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID   primitive.ObjectID `bson:"programId" json:"programId"`
	BlockNumber int                `bson:"blockNumber" json:"blockNumber"` // As parsed from the source, 1-based
	Name        string             `bson:"name" json:"name"`
	SortOrder   int                `bson:"sortOrder" json:"sortOrder"` // 0-based arrival order within the program
}

// BlockWeek is one training week within a block.
type BlockWeek struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlockID    primitive.ObjectID `bson:"blockId" json:"blockId"`
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"`
	Name       string             `bson:"name" json:"name"`
	WeekType   WeekType           `bson:"weekType" json:"weekType"`
	SortOrder  int                `bson:"sortOrder" json:"sortOrder"`
}

// WorkoutTemplate is one workout slot within a week (e.g. "Upper Body", day 2).
type WorkoutTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeekID    primitive.ObjectID `bson:"weekId" json:"weekId"`
	Name      string             `bson:"name" json:"name"`
	DayNumber int                `bson:"dayNumber" json:"dayNumber"` // 1-based position within the week
	SortOrder int                `bson:"sortOrder" json:"sortOrder"`
}

// TemplateExercise is a prescribed exercise slot within a workout template.
// It references the global Exercise library entry rather than carrying a name.
type TemplateExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	WarmupSets  int                `bson:"warmupSets" json:"warmupSets"`
	WorkingSets int                `bson:"workingSets" json:"workingSets"`
	RepRangeMin int                `bson:"repRangeMin" json:"repRangeMin"`
	RepRangeMax int                `bson:"repRangeMax" json:"repRangeMax"`
	RIR         *int               `bson:"rir,omitempty" json:"rir,omitempty"` // Reps in reserve, 0-4, absent when not prescribed
	RestSeconds int                `bson:"restSeconds" json:"restSeconds"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	SortOrder   int                `bson:"sortOrder" json:"sortOrder"`
}
