package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- In-memory fakes ---

type fakeExerciseRepo struct {
	byLower map[string]domain.Exercise
	// When set, CreateMany inserts the staged rows itself (simulating a
	// concurrent import winning the race) and reports ErrConflict.
	conflictOnCreate bool
	createManyErr    error
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{byLower: make(map[string]domain.Exercise)}
}

func (r *fakeExerciseRepo) seed(name, group string) domain.Exercise {
	ex := domain.Exercise{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameLower:   strings.ToLower(name),
		MuscleGroup: group,
	}
	r.byLower[ex.NameLower] = ex
	return ex
}

func (r *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	lower := strings.ToLower(exercise.Name)
	if _, ok := r.byLower[lower]; ok {
		return primitive.NilObjectID, repository.ErrConflict
	}
	ex := *exercise
	ex.ID = primitive.NewObjectID()
	ex.NameLower = lower
	r.byLower[lower] = ex
	return ex.ID, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	for _, ex := range r.byLower {
		if ex.ID == id {
			e := ex
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) List(ctx context.Context) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range r.byLower {
		out = append(out, ex)
	}
	return out, nil
}

func (r *fakeExerciseRepo) FindByLowerNames(ctx context.Context, names []string) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, n := range names {
		if ex, ok := r.byLower[n]; ok {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, id := range ids {
		if ex, err := r.GetByID(ctx, id); err == nil {
			out = append(out, *ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) CreateMany(ctx context.Context, exercises []*domain.Exercise) error {
	if r.createManyErr != nil {
		return r.createManyErr
	}
	for _, ex := range exercises {
		lower := strings.ToLower(ex.Name)
		if _, ok := r.byLower[lower]; ok {
			return repository.ErrConflict
		}
	}
	for _, ex := range exercises {
		stored := *ex
		stored.ID = primitive.NewObjectID()
		stored.NameLower = strings.ToLower(ex.Name)
		r.byLower[stored.NameLower] = stored
		if !r.conflictOnCreate {
			ex.ID = stored.ID
			ex.NameLower = stored.NameLower
		}
	}
	if r.conflictOnCreate {
		return repository.ErrConflict
	}
	return nil
}

type subPair struct{ exercise, substitute primitive.ObjectID }

type fakeSubRepo struct {
	upserts map[subPair]int
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{upserts: make(map[subPair]int)}
}

func (r *fakeSubRepo) Upsert(ctx context.Context, exerciseID, substituteID primitive.ObjectID) error {
	r.upserts[subPair{exerciseID, substituteID}]++
	return nil
}

func (r *fakeSubRepo) GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExerciseSubstitution, error) {
	var out []domain.ExerciseSubstitution
	for pair := range r.upserts {
		if pair.exercise == exerciseID {
			out = append(out, domain.ExerciseSubstitution{
				ExerciseID:   pair.exercise,
				SubstituteID: pair.substitute,
			})
		}
	}
	return out, nil
}

type fakeProgramRepo struct {
	program           *domain.Program
	blocks            []*domain.ProgramBlock
	weeks             []*domain.BlockWeek
	workouts          []*domain.WorkoutTemplate
	templateExercises []*domain.TemplateExercise

	insertTemplateExercisesErr error
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.program = program
	return program.ID, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	if r.program != nil && r.program.ID == id {
		return r.program, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgramRepo) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Program, error) {
	if r.program != nil && r.program.OwnerID == ownerID {
		return []domain.Program{*r.program}, nil
	}
	return nil, nil
}

func (r *fakeProgramRepo) InsertBlocks(ctx context.Context, blocks []*domain.ProgramBlock) error {
	r.blocks = blocks
	return nil
}

func (r *fakeProgramRepo) InsertWeeks(ctx context.Context, weeks []*domain.BlockWeek) error {
	r.weeks = weeks
	return nil
}

func (r *fakeProgramRepo) InsertWorkouts(ctx context.Context, workouts []*domain.WorkoutTemplate) error {
	r.workouts = workouts
	return nil
}

func (r *fakeProgramRepo) InsertTemplateExercises(ctx context.Context, exercises []*domain.TemplateExercise) error {
	if r.insertTemplateExercisesErr != nil {
		return r.insertTemplateExercisesErr
	}
	r.templateExercises = exercises
	return nil
}

func (r *fakeProgramRepo) GetBlocksByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramBlock, error) {
	var out []domain.ProgramBlock
	for _, b := range r.blocks {
		if b.ProgramID == programID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) GetWeeksByBlockIDs(ctx context.Context, blockIDs []primitive.ObjectID) ([]domain.BlockWeek, error) {
	return nil, nil
}

func (r *fakeProgramRepo) GetWorkoutsByWeekIDs(ctx context.Context, weekIDs []primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	return nil, nil
}

func (r *fakeProgramRepo) GetTemplateExercisesByWorkoutIDs(ctx context.Context, workoutIDs []primitive.ObjectID) ([]domain.TemplateExercise, error) {
	return nil, nil
}

func (r *fakeProgramRepo) DeleteGraph(ctx context.Context, programID primitive.ObjectID) error {
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (s *fakeStorage) Upload(ctx context.Context, objectKey, contentType string, body io.Reader) error {
	s.uploaded = append(s.uploaded, objectKey)
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://example.com/" + objectKey, nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

// --- Workbook fixture ---

func workbookBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for ri, row := range rows {
		for ci, val := range row {
			if val == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, val); err != nil {
				t.Fatalf("SetCellValue(%s): %v", cell, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// Two weeks using the same exercises with varied casing, plus repeated and
// self-referencing substitutions.
func sampleWorkbookRows() [][]string {
	return [][]string{
		{"Block 1"},
		{"Week 1"},
		{"Upper"},
		{"", "Bench Press", "2", "3", "8-12", "2", "", "3 min", "Machine Chest Press", "", ""},
		{"", "Lat Pulldown", "1", "3", "10-15", "1", "", "2 min", "", "", ""},
		{"Week 2"},
		{"Upper"},
		{"", "BENCH PRESS", "2", "4", "8-12", "1", "", "3 min", "Machine Chest Press", "bench press", ""},
		{"", "Lat Pulldown", "1", "4", "10-15", "1", "", "2 min", "", "", ""},
	}
}

type importFixture struct {
	exerciseRepo *fakeExerciseRepo
	subRepo      *fakeSubRepo
	programRepo  *fakeProgramRepo
	storage      *fakeStorage
	service      ImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		exerciseRepo: newFakeExerciseRepo(),
		subRepo:      newFakeSubRepo(),
		programRepo:  &fakeProgramRepo{},
		storage:      &fakeStorage{},
	}
	f.service = NewImportService(f.programRepo, f.exerciseRepo, f.subRepo, fakeTxManager{}, f.storage)
	return f
}

// --- Tests ---

func TestImportWorkbookResolvesExerciseIdentityCaseInsensitively(t *testing.T) {
	fix := newImportFixture()
	// "Lat Pulldown" already exists in the library under a different casing.
	existing := fix.exerciseRepo.seed("lat pulldown", "Back")

	data := workbookBytes(t, sampleWorkbookRows())
	result, err := fix.service.ImportWorkbook(context.Background(), primitive.NewObjectID(), "My Program.xlsx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	if result.Program.Name != "My Program" {
		t.Errorf("Program.Name = %q, want extension stripped", result.Program.Name)
	}

	// New identities: "bench press" and "machine chest press". The existing
	// "lat pulldown" and the re-cased "BENCH PRESS" create nothing.
	if result.ExercisesCreated != 2 {
		t.Errorf("ExercisesCreated = %d, want 2", result.ExercisesCreated)
	}

	bench, ok := fix.exerciseRepo.byLower["bench press"]
	if !ok {
		t.Fatal("bench press was not created")
	}
	if bench.Name != "Bench Press" {
		t.Errorf("library kept casing %q, want first-seen %q", bench.Name, "Bench Press")
	}
	if bench.MuscleGroup != "Chest" {
		t.Errorf("bench MuscleGroup = %q, want Chest", bench.MuscleGroup)
	}

	// All four prescriptions must resolve, both casings to the same entry.
	if len(fix.programRepo.templateExercises) != 4 {
		t.Fatalf("got %d template exercises, want 4", len(fix.programRepo.templateExercises))
	}
	benchRefs, latRefs := 0, 0
	for _, te := range fix.programRepo.templateExercises {
		switch te.ExerciseID {
		case bench.ID:
			benchRefs++
		case existing.ID:
			latRefs++
		}
	}
	if benchRefs != 2 {
		t.Errorf("bench press referenced %d times, want 2", benchRefs)
	}
	if latRefs != 2 {
		t.Errorf("existing lat pulldown referenced %d times, want 2", latRefs)
	}

	if len(fix.storage.uploaded) != 1 {
		t.Fatalf("uploaded %d objects, want 1", len(fix.storage.uploaded))
	}
	if !strings.HasSuffix(fix.storage.uploaded[0], ".xlsx") {
		t.Errorf("archived key = %q, want .xlsx suffix", fix.storage.uploaded[0])
	}
	if fix.programRepo.program.SourceObjectKey != fix.storage.uploaded[0] {
		t.Errorf("program SourceObjectKey = %q, want %q", fix.programRepo.program.SourceObjectKey, fix.storage.uploaded[0])
	}
}

func TestImportWorkbookDeduplicatesSubstitutionEdges(t *testing.T) {
	fix := newImportFixture()

	data := workbookBytes(t, sampleWorkbookRows())
	_, err := fix.service.ImportWorkbook(context.Background(), primitive.NewObjectID(), "prog.xlsx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	bench := fix.exerciseRepo.byLower["bench press"]
	machine := fix.exerciseRepo.byLower["machine chest press"]

	// The (bench, machine) pair appears in both weeks; one edge. The
	// "bench press" substitute on the BENCH PRESS row collapses to a
	// self-reference and is dropped.
	if len(fix.subRepo.upserts) != 1 {
		t.Fatalf("got %d substitution edges, want 1: %v", len(fix.subRepo.upserts), fix.subRepo.upserts)
	}
	if _, ok := fix.subRepo.upserts[subPair{bench.ID, machine.ID}]; !ok {
		t.Errorf("missing edge bench -> machine chest press")
	}
}

func TestImportWorkbookSortOrderFollowsArrival(t *testing.T) {
	fix := newImportFixture()

	data := workbookBytes(t, sampleWorkbookRows())
	_, err := fix.service.ImportWorkbook(context.Background(), primitive.NewObjectID(), "prog.xlsx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	if len(fix.programRepo.weeks) != 2 {
		t.Fatalf("got %d weeks, want 2", len(fix.programRepo.weeks))
	}
	for i, w := range fix.programRepo.weeks {
		if w.SortOrder != i {
			t.Errorf("week %d SortOrder = %d, want %d", i, w.SortOrder, i)
		}
	}
	for _, te := range fix.programRepo.templateExercises {
		if te.SortOrder != 0 && te.SortOrder != 1 {
			t.Errorf("template exercise SortOrder = %d, want 0 or 1", te.SortOrder)
		}
	}
}

func TestImportWorkbookConcurrentNameConflict(t *testing.T) {
	fix := newImportFixture()
	fix.exerciseRepo.conflictOnCreate = true

	data := workbookBytes(t, sampleWorkbookRows())
	result, err := fix.service.ImportWorkbook(context.Background(), primitive.NewObjectID(), "prog.xlsx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	// The unique index raced; the import re-reads the winners and reports no
	// creations of its own.
	if result.ExercisesCreated != 0 {
		t.Errorf("ExercisesCreated = %d, want 0", result.ExercisesCreated)
	}
	if len(fix.programRepo.templateExercises) != 4 {
		t.Errorf("got %d template exercises, want 4", len(fix.programRepo.templateExercises))
	}
	for _, te := range fix.programRepo.templateExercises {
		if te.ExerciseID == primitive.NilObjectID {
			t.Error("template exercise references the nil ObjectID")
		}
	}
}

func TestImportWorkbookUnreadableFile(t *testing.T) {
	fix := newImportFixture()

	_, err := fix.service.ImportWorkbook(context.Background(), primitive.NewObjectID(), "junk.xlsx", strings.NewReader("not an xlsx"))
	if !errors.Is(err, ErrWorkbookUnreadable) {
		t.Errorf("err = %v, want ErrWorkbookUnreadable", err)
	}
	if len(fix.storage.uploaded) != 0 {
		t.Errorf("unreadable file was archived: %v", fix.storage.uploaded)
	}
}

func TestImportWorkbookNoProgramData(t *testing.T) {
	fix := newImportFixture()

	data := workbookBytes(t, [][]string{
		{"Program Notes: nothing to see here"},
	})
	_, err := fix.service.ImportWorkbook(context.Background(), primitive.NewObjectID(), "empty.xlsx", bytes.NewReader(data))
	if !errors.Is(err, ErrNoProgramData) {
		t.Errorf("err = %v, want ErrNoProgramData", err)
	}
	if len(fix.storage.uploaded) != 0 {
		t.Errorf("empty workbook was archived: %v", fix.storage.uploaded)
	}
}

func TestImportWorkbookPersistenceFailureIsFatal(t *testing.T) {
	fix := newImportFixture()
	wantErr := errors.New("insert failed")
	fix.programRepo.insertTemplateExercisesErr = wantErr

	data := workbookBytes(t, sampleWorkbookRows())
	result, err := fix.service.ImportWorkbook(context.Background(), primitive.NewObjectID(), "prog.xlsx", bytes.NewReader(data))
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil on failure", result)
	}
}
