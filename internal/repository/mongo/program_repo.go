package mongo

import (
	"context"
	"errors"
	"time"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	programCollectionName          = "programs"
	blockCollectionName            = "program_blocks"
	weekCollectionName             = "block_weeks"
	workoutTemplateCollectionName  = "workout_templates"
	templateExerciseCollectionName = "template_exercises"
)

// mongoProgramRepository implements repository.ProgramRepository across the
// five collections that make up a program graph.
type mongoProgramRepository struct {
	programs          *mongo.Collection
	blocks            *mongo.Collection
	weeks             *mongo.Collection
	workouts          *mongo.Collection
	templateExercises *mongo.Collection
}

// NewMongoProgramRepository creates a program-graph repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		programs:          db.Collection(programCollectionName),
		blocks:            db.Collection(blockCollectionName),
		weeks:             db.Collection(weekCollectionName),
		workouts:          db.Collection(workoutTemplateCollectionName),
		templateExercises: db.Collection(templateExerciseCollectionName),
	}
}

// Create inserts a new program root.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.Name == "" || program.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("program name and owner ID are required")
	}

	if program.ID.IsZero() {
		program.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	result, err := r.programs.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a program root by ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	err := r.programs.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByOwnerID retrieves all programs imported by one user, newest first.
func (r *mongoProgramRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Program, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.programs.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []domain.Program
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// insertMany is the shared batched-insert path for graph levels. IDs are
// assigned client-side before the write so callers can hand them to children
// without a round trip.
func insertMany[T any](ctx context.Context, coll *mongo.Collection, items []T, assignID func(T)) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		assignID(item)
		docs = append(docs, item)
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

// InsertBlocks writes one batch of blocks for a program.
func (r *mongoProgramRepository) InsertBlocks(ctx context.Context, blocks []*domain.ProgramBlock) error {
	return insertMany(ctx, r.blocks, blocks, func(b *domain.ProgramBlock) {
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
	})
}

// InsertWeeks writes one batch of weeks.
func (r *mongoProgramRepository) InsertWeeks(ctx context.Context, weeks []*domain.BlockWeek) error {
	return insertMany(ctx, r.weeks, weeks, func(w *domain.BlockWeek) {
		if w.ID.IsZero() {
			w.ID = primitive.NewObjectID()
		}
	})
}

// InsertWorkouts writes one batch of workout templates.
func (r *mongoProgramRepository) InsertWorkouts(ctx context.Context, workouts []*domain.WorkoutTemplate) error {
	return insertMany(ctx, r.workouts, workouts, func(w *domain.WorkoutTemplate) {
		if w.ID.IsZero() {
			w.ID = primitive.NewObjectID()
		}
	})
}

// InsertTemplateExercises writes one batch of prescribed exercise slots.
func (r *mongoProgramRepository) InsertTemplateExercises(ctx context.Context, exercises []*domain.TemplateExercise) error {
	return insertMany(ctx, r.templateExercises, exercises, func(e *domain.TemplateExercise) {
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
	})
}

// findSorted loads all documents matching filter ordered by sortOrder,
// which is the parse-order index persisted at import time.
func findSorted[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	cursor, err := coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []T
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetBlocksByProgramID retrieves a program's blocks in display order.
func (r *mongoProgramRepository) GetBlocksByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramBlock, error) {
	return findSorted[domain.ProgramBlock](ctx, r.blocks, bson.M{"programId": programID})
}

// GetWeeksByBlockIDs retrieves the weeks for a set of blocks in one query.
func (r *mongoProgramRepository) GetWeeksByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.BlockWeek, error) {
	if len(blockIDs) == 0 {
		return nil, nil
	}
	return findSorted[domain.BlockWeek](ctx, r.weeks, bson.M{"blockId": bson.M{"$in": blockIDs}})
}

// GetWorkoutsByWeekIDs retrieves the workouts for a set of weeks in one query.
func (r *mongoProgramRepository) GetWorkoutsByWeekIDs(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	return findSorted[domain.WorkoutTemplate](ctx, r.workouts, bson.M{"weekId": bson.M{"$in": weekIDs}})
}

// GetTemplateExercisesByWorkoutIDs retrieves prescription slots for a set of
// workouts in one query.
func (r *mongoProgramRepository) GetTemplateExercisesByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) ([]domain.TemplateExercise, error) {
	if len(workoutIDs) == 0 {
		return nil, nil
	}
	return findSorted[domain.TemplateExercise](ctx, r.templateExercises, bson.M{"workoutId": bson.M{"$in": workoutIDs}})
}

// DeleteGraph removes a program and every descendant row, walking the levels
// top-down to collect the foreign keys for each child delete.
func (r *mongoProgramRepository) DeleteGraph(ctx context.Context, programID primitive.ObjectID) error {
	blocks, err := r.GetBlocksByProgramID(ctx, programID)
	if err != nil {
		return err
	}
	blockIDs := make([]primitive.ObjectID, len(blocks))
	for i, b := range blocks {
		blockIDs[i] = b.ID
	}

	weeks, err := r.GetWeeksByBlockIDs(ctx, blockIDs)
	if err != nil {
		return err
	}
	weekIDs := make([]primitive.ObjectID, len(weeks))
	for i, w := range weeks {
		weekIDs[i] = w.ID
	}

	workouts, err := r.GetWorkoutsByWeekIDs(ctx, weekIDs)
	if err != nil {
		return err
	}
	workoutIDs := make([]primitive.ObjectID, len(workouts))
	for i, w := range workouts {
		workoutIDs[i] = w.ID
	}

	if len(workoutIDs) > 0 {
		if _, err := r.templateExercises.DeleteMany(ctx, bson.M{"workoutId": bson.M{"$in": workoutIDs}}); err != nil {
			return err
		}
		if _, err := r.workouts.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": workoutIDs}}); err != nil {
			return err
		}
	}
	if len(weekIDs) > 0 {
		if _, err := r.weeks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": weekIDs}}); err != nil {
			return err
		}
	}
	if len(blockIDs) > 0 {
		if _, err := r.blocks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": blockIDs}}); err != nil {
			return err
		}
	}

	result, err := r.programs.DeleteOne(ctx, bson.M{"_id": programID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgramIndexes creates the foreign-key indexes for the program graph
// collections.
func EnsureProgramIndexes(ctx context.Context, db *mongo.Database) {
	ensure := func(coll string, key string) {
		_, _ = db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: key, Value: 1}, {Key: "sortOrder", Value: 1}},
		})
	}
	_, _ = db.Collection(programCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	ensure(blockCollectionName, "programId")
	ensure(weekCollectionName, "blockId")
	ensure(workoutTemplateCollectionName, "weekId")
	ensure(templateExerciseCollectionName, "workoutId")
}
