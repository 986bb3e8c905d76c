package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the library.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	exercise.NameLower = strings.ToLower(exercise.Name)
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// List retrieves the whole exercise library, sorted by name.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "nameLower", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// FindByLowerNames retrieves all library entries matching the given lowered
// names in one batched query.
func (r *mongoExerciseRepository) FindByLowerNames(ctx context.Context, names []string) ([]domain.Exercise, error) {
	if len(names) == 0 {
		return nil, nil
	}
	filter := bson.M{"nameLower": bson.M{"$in": names}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// FindByIDs retrieves library entries for a set of IDs in one query.
func (r *mongoExerciseRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// CreateMany inserts a batch of new library entries in one unordered
// InsertMany. Assigns IDs, lowered names, and timestamps up front so callers
// can reference the IDs immediately. A duplicate-key failure (another import
// won the race on the unique name index) surfaces as ErrConflict.
func (r *mongoExerciseRepository) CreateMany(ctx context.Context, exercises []*domain.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(exercises))
	for _, ex := range exercises {
		if ex.Name == "" {
			return errors.New("exercise name is required")
		}
		ex.ID = primitive.NewObjectID()
		ex.NameLower = strings.ToLower(ex.Name)
		ex.CreatedAt = now
		ex.UpdatedAt = now
		docs = append(docs, ex)
	}

	// Unordered: independent inserts keep going past a duplicate, so one
	// racing name does not abort the rest of the batch.
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			allDuplicates := len(bulkErr.WriteErrors) > 0
			for _, we := range bulkErr.WriteErrors {
				if we.Code != 11000 {
					allDuplicates = false
					break
				}
			}
			if allDuplicates {
				return repository.ErrConflict
			}
			return err
		}
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
// The unique index on nameLower is what makes case-insensitive identity hold
// across concurrent imports; the resolver's pre-check is only an optimization.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "nameLower", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "muscleGroup", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
