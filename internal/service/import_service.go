package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/importer"
	"dmarchuk/liftbook/internal/repository"
	"dmarchuk/liftbook/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkbookUnreadable = errors.New("uploaded file is not a readable workbook")
	ErrNoProgramData      = errors.New("workbook contains no recognizable program rows")
)

// ImportResult is what one successful import hands back to the caller: the
// created program root plus diagnostics about what the scan could not place.
type ImportResult struct {
	Program          *domain.Program
	ExercisesCreated int                  // New library entries this import added
	SkippedRows      []importer.SkippedRow
}

// --- Service Interface ---

// ImportService runs the spreadsheet-to-program import pipeline.
type ImportService interface {
	// ImportWorkbook archives the uploaded file, parses it into a program
	// tree, resolves exercise identities against the library, and persists
	// the whole graph in one transaction.
	ImportWorkbook(ctx context.Context, ownerID primitive.ObjectID, fileName string, file io.Reader) (*ImportResult, error)
}

// --- Service Implementation ---

type importService struct {
	programRepo  repository.ProgramRepository
	exerciseRepo repository.ExerciseRepository
	subRepo      repository.SubstitutionRepository
	txManager    repository.TransactionManager
	fileStorage  storage.FileStorage
	builder      *importer.Builder
}

// NewImportService creates a new instance of importService.
func NewImportService(
	programRepo repository.ProgramRepository,
	exerciseRepo repository.ExerciseRepository,
	subRepo repository.SubstitutionRepository,
	txManager repository.TransactionManager,
	fileStorage storage.FileStorage,
) ImportService {
	return &importService{
		programRepo:  programRepo,
		exerciseRepo: exerciseRepo,
		subRepo:      subRepo,
		txManager:    txManager,
		fileStorage:  fileStorage,
		builder:      importer.NewBuilder(),
	}
}

func (s *importService) ImportWorkbook(ctx context.Context, ownerID primitive.ObjectID, fileName string, file io.Reader) (*ImportResult, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	wb, err := importer.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbookUnreadable, err)
	}

	programName := strings.TrimSuffix(fileName, path.Ext(fileName))
	parsed := s.builder.Build(wb, programName)
	if len(parsed.Blocks) == 0 {
		return nil, ErrNoProgramData
	}

	// Archive the original file before touching the database; the program
	// row references the object key so the source can be re-downloaded.
	objectKey := path.Join("imports", ownerID.Hex(), uuid.NewString()+".xlsx")
	if err := s.fileStorage.Upload(ctx, objectKey, storage.WorkbookContentType, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("archiving workbook: %w", err)
	}

	var result *ImportResult
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		nameIDs, created, err := s.resolveExercises(ctx, parsed)
		if err != nil {
			return err
		}
		program, err := s.persistProgram(ctx, ownerID, parsed, nameIDs, objectKey)
		if err != nil {
			return err
		}
		result = &ImportResult{
			Program:          program,
			ExercisesCreated: created,
			SkippedRows:      parsed.Skipped,
		}
		return nil
	})
	if err != nil {
		// Nothing persisted; the archived file is left behind for debugging
		// a failed import and is cleaned up when the upload is retried.
		return nil, err
	}
	return result, nil
}

// resolveExercises collapses every exercise name in the tree, across primary
// and substitute roles, into one case-insensitive identity space. Names
// missing from the library are created in one batch; the returned map has an
// ID for every name the tree references.
func (s *importService) resolveExercises(ctx context.Context, parsed *importer.ParsedProgram) (map[string]primitive.ObjectID, int, error) {
	// Collect distinct lowered names, remembering the first original-cased
	// spelling and inferred category for each.
	type nameInfo struct {
		original string
		group    string
	}
	var order []string
	seen := make(map[string]nameInfo)
	note := func(name, group string) {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			return
		}
		if _, ok := seen[lower]; !ok {
			if group == "" {
				group = importer.CategoryFor(name)
			}
			seen[lower] = nameInfo{original: strings.TrimSpace(name), group: group}
			order = append(order, lower)
		}
	}
	for _, block := range parsed.Blocks {
		for _, week := range block.Weeks {
			for _, workout := range week.Workouts {
				for _, ex := range workout.Exercises {
					note(ex.Name, ex.MuscleGroup)
					for _, sub := range ex.Substitutions {
						note(sub, "")
					}
				}
			}
		}
	}
	if len(order) == 0 {
		return map[string]primitive.ObjectID{}, 0, nil
	}

	existing, err := s.exerciseRepo.FindByLowerNames(ctx, order)
	if err != nil {
		return nil, 0, err
	}
	nameIDs := make(map[string]primitive.ObjectID, len(order))
	for _, ex := range existing {
		nameIDs[ex.NameLower] = ex.ID
	}

	// Stage everything the library does not know yet.
	var staged []*domain.Exercise
	var stagedNames []string
	for _, lower := range order {
		if _, ok := nameIDs[lower]; ok {
			continue
		}
		info := seen[lower]
		staged = append(staged, &domain.Exercise{
			Name:        info.original,
			MuscleGroup: info.group,
		})
		stagedNames = append(stagedNames, lower)
	}

	created := 0
	if len(staged) > 0 {
		err := s.exerciseRepo.CreateMany(ctx, staged)
		switch {
		case err == nil:
			for _, ex := range staged {
				nameIDs[ex.NameLower] = ex.ID
			}
			created = len(staged)
		case errors.Is(err, repository.ErrConflict):
			// A concurrent import created some of these names first. The
			// unique index is the source of truth; re-read to pick up the
			// winning rows.
			winners, err := s.exerciseRepo.FindByLowerNames(ctx, stagedNames)
			if err != nil {
				return nil, 0, err
			}
			for _, ex := range winners {
				nameIDs[ex.NameLower] = ex.ID
			}
		default:
			return nil, 0, err
		}
	}

	for _, lower := range order {
		if _, ok := nameIDs[lower]; !ok {
			return nil, 0, fmt.Errorf("exercise %q did not resolve to a library entry", seen[lower].original)
		}
	}
	return nameIDs, created, nil
}

// persistProgram materializes the parsed tree level by level, parents before
// children, assigning each generated ID before any child references it.
// sort_order at every level is the 0-based arrival index from the parse, not
// the spreadsheet's own numbering, which can repeat or skip.
func (s *importService) persistProgram(ctx context.Context, ownerID primitive.ObjectID, parsed *importer.ParsedProgram, nameIDs map[string]primitive.ObjectID, objectKey string) (*domain.Program, error) {
	program := &domain.Program{
		ID:              primitive.NewObjectID(),
		OwnerID:         ownerID,
		Name:            parsed.Name,
		WeeklyFrequency: parsed.WeeklyFrequency,
		Source:          parsed.Source,
		SourceObjectKey: objectKey,
	}
	if _, err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}

	var blocks []*domain.ProgramBlock
	var weeks []*domain.BlockWeek
	var workouts []*domain.WorkoutTemplate
	var templateExercises []*domain.TemplateExercise

	type subPair struct{ exercise, substitute primitive.ObjectID }
	subSet := make(map[subPair]struct{})

	for bi, pb := range parsed.Blocks {
		block := &domain.ProgramBlock{
			ID:          primitive.NewObjectID(),
			ProgramID:   program.ID,
			BlockNumber: pb.Number,
			Name:        pb.Name,
			SortOrder:   bi,
		}
		blocks = append(blocks, block)

		for wi, pw := range pb.Weeks {
			week := &domain.BlockWeek{
				ID:         primitive.NewObjectID(),
				BlockID:    block.ID,
				WeekNumber: pw.Number,
				Name:       pw.Name,
				WeekType:   pw.Type,
				SortOrder:  wi,
			}
			weeks = append(weeks, week)

			for di, pwk := range pw.Workouts {
				workout := &domain.WorkoutTemplate{
					ID:        primitive.NewObjectID(),
					WeekID:    week.ID,
					Name:      pwk.Name,
					DayNumber: pwk.DayNumber,
					SortOrder: di,
				}
				workouts = append(workouts, workout)

				for ei, pe := range pwk.Exercises {
					exerciseID := nameIDs[strings.ToLower(pe.Name)]
					templateExercises = append(templateExercises, &domain.TemplateExercise{
						ID:          primitive.NewObjectID(),
						WorkoutID:   workout.ID,
						ExerciseID:  exerciseID,
						WarmupSets:  pe.WarmupSets,
						WorkingSets: pe.WorkingSets,
						RepRangeMin: pe.RepRangeMin,
						RepRangeMax: pe.RepRangeMax,
						RIR:         pe.RIR,
						RestSeconds: pe.RestSeconds,
						Notes:       pe.Notes,
						SortOrder:   ei,
					})
					for _, sub := range pe.Substitutions {
						subID := nameIDs[strings.ToLower(strings.TrimSpace(sub))]
						// Two spellings can collapse to the same identity;
						// a self-edge carries no information, drop it.
						if subID == exerciseID {
							continue
						}
						subSet[subPair{exercise: exerciseID, substitute: subID}] = struct{}{}
					}
				}
			}
		}
	}

	if err := s.programRepo.InsertBlocks(ctx, blocks); err != nil {
		return nil, err
	}
	if err := s.programRepo.InsertWeeks(ctx, weeks); err != nil {
		return nil, err
	}
	if err := s.programRepo.InsertWorkouts(ctx, workouts); err != nil {
		return nil, err
	}
	if err := s.programRepo.InsertTemplateExercises(ctx, templateExercises); err != nil {
		return nil, err
	}
	for pair := range subSet {
		if err := s.subRepo.Upsert(ctx, pair.exercise, pair.substitute); err != nil {
			return nil, err
		}
	}

	return program, nil
}
