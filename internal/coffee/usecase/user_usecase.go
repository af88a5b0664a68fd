package usecase

import (
	"context"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/coffee/domain/repository"
	"coffee-store/internal/shared/logger"
)

// UserUsecase maps the user routes onto the users collection.
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]model.Document, error)
	CreateUser(ctx context.Context, doc model.Document) (*model.InsertResult, error)
	// RecordSignIn sets lastSignInTime on the user whose email matches body's email.
	// Missing fields are used as null; no match updates nothing.
	RecordSignIn(ctx context.Context, body model.Document) (*model.UpdateResult, error)
	DeleteUser(ctx context.Context, id string) (*model.DeleteResult, error)
}

type userUsecase struct {
	docs *documentService
}

// NewUserUsecase creates the user usecase on the users collection
func NewUserUsecase(repo repository.DocumentRepository, publisher ChangePublisher, log logger.Logger) UserUsecase {
	return &userUsecase{docs: newDocumentService(repo, publisher, log)}
}

func (uc *userUsecase) ListUsers(ctx context.Context) ([]model.Document, error) {
	return uc.docs.findAll(ctx)
}

func (uc *userUsecase) CreateUser(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	return uc.docs.insert(ctx, doc)
}

func (uc *userUsecase) RecordSignIn(ctx context.Context, body model.Document) (*model.UpdateResult, error) {
	filter := model.Document{model.FieldEmail: body[model.FieldEmail]}
	fields := model.Document{model.FieldLastSignInTime: body[model.FieldLastSignInTime]}
	return uc.docs.update(ctx, filter, fields, false, "")
}

func (uc *userUsecase) DeleteUser(ctx context.Context, id string) (*model.DeleteResult, error) {
	return uc.docs.deleteByID(ctx, id)
}
