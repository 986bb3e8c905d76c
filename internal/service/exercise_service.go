package service

import (
	"context"
	"errors"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("exercise validation failed")
)

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, name, muscleGroup, equipment, description string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	// GetSubstitutes resolves the substitution edges of one exercise to the
	// library entries they point at.
	GetSubstitutes(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.Exercise, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	subRepo      repository.SubstitutionRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, subRepo repository.SubstitutionRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		subRepo:      subRepo,
	}
}

// CreateExercise adds a library entry by hand, outside any import.
func (s *exerciseService) CreateExercise(ctx context.Context, name, muscleGroup, equipment, description string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Name:        name,
		MuscleGroup: muscleGroup,
		Equipment:   equipment,
		Description: description,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// The name already exists case-insensitively; hand back the
			// existing entry instead of failing.
			existing, findErr := s.exerciseRepo.FindByLowerNames(ctx, []string{exercise.NameLower})
			if findErr == nil && len(existing) == 1 {
				return &existing[0], nil
			}
		}
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single library entry.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises retrieves the whole library.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// GetSubstitutes returns the exercises that may replace the given one.
func (s *exerciseService) GetSubstitutes(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.Exercise, error) {
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	edges, err := s.subRepo.GetByExerciseID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []domain.Exercise{}, nil
	}

	ids := make([]primitive.ObjectID, len(edges))
	for i, edge := range edges {
		ids[i] = edge.SubstituteID
	}
	return s.exerciseRepo.FindByIDs(ctx, ids)
}
