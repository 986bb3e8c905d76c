package mongo

import (
	"context"
	"time"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const substitutionCollectionName = "exercise_substitutions"

// mongoSubstitutionRepository implements repository.SubstitutionRepository
type mongoSubstitutionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubstitutionRepository creates a substitution-edge repository backed by MongoDB.
func NewMongoSubstitutionRepository(db *mongo.Database) repository.SubstitutionRepository {
	return &mongoSubstitutionRepository{
		collection: db.Collection(substitutionCollectionName),
	}
}

// Upsert inserts the (exercise, substitute) edge if it does not exist yet.
// $setOnInsert with upsert makes a repeated pair a clean no-op, which keeps
// re-imports of the same workbook idempotent.
func (r *mongoSubstitutionRepository) Upsert(ctx context.Context, exerciseID, substituteID primitive.ObjectID) error {
	filter := bson.M{"exerciseId": exerciseID, "substituteId": substituteID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"exerciseId":   exerciseID,
			"substituteId": substituteID,
			"createdAt":    time.Now().UTC(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// A concurrent upsert of the same pair can still trip the unique
		// index; that just means the edge exists.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}
	return nil
}

// GetByExerciseID returns the substitution edges for one exercise.
func (r *mongoSubstitutionRepository) GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseSubstitution, error) {
	filter := bson.M{"exerciseId": exerciseID}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []domain.ExerciseSubstitution
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// EnsureSubstitutionIndexes creates the unique pair index for the
// substitutions collection.
func EnsureSubstitutionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "exerciseId", Value: 1},
				{Key: "substituteId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
