package service

import (
	"context"
	"errors"
	"testing"

	"dmarchuk/liftbook/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProgramFixture(owner primitive.ObjectID, sourceKey string) (*fakeProgramRepo, *fakeStorage, ProgramService) {
	programRepo := &fakeProgramRepo{
		program: &domain.Program{
			ID:              primitive.NewObjectID(),
			OwnerID:         owner,
			Name:            "My Program",
			SourceObjectKey: sourceKey,
		},
	}
	store := &fakeStorage{}
	svc := NewProgramService(programRepo, newFakeExerciseRepo(), fakeTxManager{}, store)
	return programRepo, store, svc
}

func TestGetProgramTreeOwnership(t *testing.T) {
	owner := primitive.NewObjectID()
	programRepo, _, svc := newProgramFixture(owner, "")

	tree, err := svc.GetProgramTree(context.Background(), owner, programRepo.program.ID)
	if err != nil {
		t.Fatalf("GetProgramTree: %v", err)
	}
	if tree.Program.ID != programRepo.program.ID {
		t.Errorf("tree root = %v, want %v", tree.Program.ID, programRepo.program.ID)
	}

	_, err = svc.GetProgramTree(context.Background(), primitive.NewObjectID(), programRepo.program.ID)
	if !errors.Is(err, ErrProgramAccessDenied) {
		t.Errorf("other owner err = %v, want ErrProgramAccessDenied", err)
	}

	_, err = svc.GetProgramTree(context.Background(), owner, primitive.NewObjectID())
	if !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("unknown program err = %v, want ErrProgramNotFound", err)
	}
}

func TestDeleteProgramRemovesArchivedSource(t *testing.T) {
	owner := primitive.NewObjectID()
	programRepo, store, svc := newProgramFixture(owner, "imports/abc/source.xlsx")

	if err := svc.DeleteProgram(context.Background(), owner, programRepo.program.ID); err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "imports/abc/source.xlsx" {
		t.Errorf("deleted objects = %v, want the archived source", store.deleted)
	}
}

func TestDeleteProgramDeniedForOtherOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	programRepo, store, svc := newProgramFixture(owner, "imports/abc/source.xlsx")

	err := svc.DeleteProgram(context.Background(), primitive.NewObjectID(), programRepo.program.ID)
	if !errors.Is(err, ErrProgramAccessDenied) {
		t.Fatalf("err = %v, want ErrProgramAccessDenied", err)
	}
	if len(store.deleted) != 0 {
		t.Errorf("storage delete ran despite denial: %v", store.deleted)
	}
}

func TestGetSourceDownloadURL(t *testing.T) {
	owner := primitive.NewObjectID()
	programRepo, _, svc := newProgramFixture(owner, "imports/abc/source.xlsx")

	url, err := svc.GetSourceDownloadURL(context.Background(), owner, programRepo.program.ID)
	if err != nil {
		t.Fatalf("GetSourceDownloadURL: %v", err)
	}
	if url != "https://example.com/imports/abc/source.xlsx" {
		t.Errorf("url = %q", url)
	}
}

func TestGetSourceDownloadURLWithoutArchive(t *testing.T) {
	owner := primitive.NewObjectID()
	programRepo, _, svc := newProgramFixture(owner, "")

	_, err := svc.GetSourceDownloadURL(context.Background(), owner, programRepo.program.ID)
	if !errors.Is(err, ErrNoSourceArchived) {
		t.Errorf("err = %v, want ErrNoSourceArchived", err)
	}
}
