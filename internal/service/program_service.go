package service

import (
	"context"
	"errors"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/repository"
	"dmarchuk/liftbook/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramAccessDenied = errors.New("access denied to this program")
	ErrNoSourceArchived    = errors.New("program has no archived source workbook")
)

// --- Tree DTOs ---

// ProgramTree is the fully nested view of one program, assembled for display
// in the same order the source workbook was parsed.
type ProgramTree struct {
	Program domain.Program
	Blocks  []BlockNode
}

type BlockNode struct {
	Block domain.ProgramBlock
	Weeks []WeekNode
}

type WeekNode struct {
	Week     domain.BlockWeek
	Workouts []WorkoutNode
}

type WorkoutNode struct {
	Workout   domain.WorkoutTemplate
	Exercises []TemplateExerciseNode
}

// TemplateExerciseNode joins the prescription slot with its resolved library
// entry so callers see the exercise name, not just a foreign key.
type TemplateExerciseNode struct {
	TemplateExercise domain.TemplateExercise
	Exercise         domain.Exercise
}

// --- Service Interface ---
type ProgramService interface {
	ListPrograms(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Program, error)
	GetProgramTree(ctx context.Context, ownerID, programID primitive.ObjectID) (*ProgramTree, error)
	DeleteProgram(ctx context.Context, ownerID, programID primitive.ObjectID) error
	// GetSourceDownloadURL returns a short-lived URL for the archived
	// original workbook.
	GetSourceDownloadURL(ctx context.Context, ownerID, programID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

type programService struct {
	programRepo  repository.ProgramRepository
	exerciseRepo repository.ExerciseRepository
	txManager    repository.TransactionManager
	fileStorage  storage.FileStorage
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	exerciseRepo repository.ExerciseRepository,
	txManager repository.TransactionManager,
	fileStorage storage.FileStorage,
) ProgramService {
	return &programService{
		programRepo:  programRepo,
		exerciseRepo: exerciseRepo,
		txManager:    txManager,
		fileStorage:  fileStorage,
	}
}

// ListPrograms retrieves the caller's programs, newest first.
func (s *programService) ListPrograms(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Program, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	return s.programRepo.GetByOwnerID(ctx, ownerID)
}

// getOwnedProgram loads a program and verifies the caller owns it.
func (s *programService) getOwnedProgram(ctx context.Context, ownerID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.OwnerID != ownerID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

// GetProgramTree loads the whole graph for one program with one batched
// query per level, then stitches the levels back together in sort order.
func (s *programService) GetProgramTree(ctx context.Context, ownerID, programID primitive.ObjectID) (*ProgramTree, error) {
	program, err := s.getOwnedProgram(ctx, ownerID, programID)
	if err != nil {
		return nil, err
	}

	blocks, err := s.programRepo.GetBlocksByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}
	blockIDs := make([]primitive.ObjectID, len(blocks))
	for i, b := range blocks {
		blockIDs[i] = b.ID
	}

	weeks, err := s.programRepo.GetWeeksByBlockIDs(ctx, blockIDs)
	if err != nil {
		return nil, err
	}
	weekIDs := make([]primitive.ObjectID, len(weeks))
	for i, w := range weeks {
		weekIDs[i] = w.ID
	}

	workouts, err := s.programRepo.GetWorkoutsByWeekIDs(ctx, weekIDs)
	if err != nil {
		return nil, err
	}
	workoutIDs := make([]primitive.ObjectID, len(workouts))
	for i, w := range workouts {
		workoutIDs[i] = w.ID
	}

	templateExercises, err := s.programRepo.GetTemplateExercisesByWorkoutIDs(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}

	// One lookup for every referenced library entry.
	exerciseIDSet := make(map[primitive.ObjectID]struct{})
	for _, te := range templateExercises {
		exerciseIDSet[te.ExerciseID] = struct{}{}
	}
	exerciseIDs := make([]primitive.ObjectID, 0, len(exerciseIDSet))
	for id := range exerciseIDSet {
		exerciseIDs = append(exerciseIDs, id)
	}
	exercises, err := s.exerciseRepo.FindByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	exerciseByID := make(map[primitive.ObjectID]domain.Exercise, len(exercises))
	for _, ex := range exercises {
		exerciseByID[ex.ID] = ex
	}

	// Group children under their parents. Each level arrives sorted by
	// sortOrder, so appending preserves display order.
	exercisesByWorkout := make(map[primitive.ObjectID][]TemplateExerciseNode)
	for _, te := range templateExercises {
		exercisesByWorkout[te.WorkoutID] = append(exercisesByWorkout[te.WorkoutID], TemplateExerciseNode{
			TemplateExercise: te,
			Exercise:         exerciseByID[te.ExerciseID],
		})
	}
	workoutsByWeek := make(map[primitive.ObjectID][]WorkoutNode)
	for _, w := range workouts {
		workoutsByWeek[w.WeekID] = append(workoutsByWeek[w.WeekID], WorkoutNode{
			Workout:   w,
			Exercises: exercisesByWorkout[w.ID],
		})
	}
	weeksByBlock := make(map[primitive.ObjectID][]WeekNode)
	for _, w := range weeks {
		weeksByBlock[w.BlockID] = append(weeksByBlock[w.BlockID], WeekNode{
			Week:     w,
			Workouts: workoutsByWeek[w.ID],
		})
	}

	tree := &ProgramTree{Program: *program}
	for _, b := range blocks {
		tree.Blocks = append(tree.Blocks, BlockNode{
			Block: b,
			Weeks: weeksByBlock[b.ID],
		})
	}
	return tree, nil
}

// DeleteProgram removes one program's whole graph plus its archived source
// file. The graph delete runs in one transaction; the S3 delete follows and
// is best-effort.
func (s *programService) DeleteProgram(ctx context.Context, ownerID, programID primitive.ObjectID) error {
	program, err := s.getOwnedProgram(ctx, ownerID, programID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.programRepo.DeleteGraph(ctx, programID)
	})
	if err != nil {
		return err
	}

	if program.SourceObjectKey != "" {
		// The program row is already gone; a dangling archive object is
		// harmless, so storage errors do not fail the delete.
		_ = s.fileStorage.DeleteObject(ctx, program.SourceObjectKey)
	}
	return nil
}

// GetSourceDownloadURL generates a presigned URL for the archived workbook.
func (s *programService) GetSourceDownloadURL(ctx context.Context, ownerID, programID primitive.ObjectID) (string, error) {
	program, err := s.getOwnedProgram(ctx, ownerID, programID)
	if err != nil {
		return "", err
	}
	if program.SourceObjectKey == "" {
		return "", ErrNoSourceArchived
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, program.SourceObjectKey, storage.DefaultPresignedURLExpiry)
}
