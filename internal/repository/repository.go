package repository

import (
	"context"

	"dmarchuk/liftbook/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository defines the interface for the exercise library.
// Names are case-insensitively unique; the storage layer enforces this with
// a unique index on the lowered name, so concurrent inserts of the same name
// resolve to one row.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	// FindByLowerNames returns the library entries whose lowered name is in
	// names, in one batched query.
	FindByLowerNames(ctx context.Context, names []string) ([]domain.Exercise, error)
	// FindByIDs returns the library entries for a set of IDs in one query.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	// CreateMany inserts a batch of new exercises, assigning their IDs.
	// Returns ErrConflict when any insert hit the unique name index (the
	// caller re-reads to pick up the winning rows).
	CreateMany(ctx context.Context, exercises []*domain.Exercise) error
}

// SubstitutionRepository manages the substitution graph edges.
type SubstitutionRepository interface {
	// Upsert inserts the (exercise, substitute) edge if absent. Repeating an
	// existing pair is a no-op, never an error.
	Upsert(ctx context.Context, exerciseID, substituteID primitive.ObjectID) error
	GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseSubstitution, error)
}

// ProgramRepository persists the program graph. Child batches reference
// parent IDs generated client-side before insert, so each level can be
// written in one batched statement.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Program, error)

	InsertBlocks(ctx context.Context, blocks []*domain.ProgramBlock) error
	InsertWeeks(ctx context.Context, weeks []*domain.BlockWeek) error
	InsertWorkouts(ctx context.Context, workouts []*domain.WorkoutTemplate) error
	InsertTemplateExercises(ctx context.Context, exercises []*domain.TemplateExercise) error

	GetBlocksByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramBlock, error)
	GetWeeksByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.BlockWeek, error)
	GetWorkoutsByWeekIDs(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	GetTemplateExercisesByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) ([]domain.TemplateExercise, error)

	// DeleteGraph removes a program and all of its descendants.
	DeleteGraph(ctx context.Context, programID primitive.ObjectID) error
}

// TransactionManager wraps a function in one all-or-nothing transaction.
// The context passed to fn must be used for every repository call inside it.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
