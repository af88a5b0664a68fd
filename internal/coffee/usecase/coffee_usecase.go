package usecase

import (
	"context"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/coffee/domain/repository"
	"coffee-store/internal/shared/logger"
)

// CoffeeUsecase maps the coffee routes onto the coffee collection.
type CoffeeUsecase interface {
	ListCoffee(ctx context.Context) ([]model.Document, error)
	// GetCoffee returns nil, nil when no document has the id.
	GetCoffee(ctx context.Context, id string) (model.Document, error)
	CreateCoffee(ctx context.Context, doc model.Document) (*model.InsertResult, error)
	// ReplaceCoffee sets every field of doc on the document with the id, inserting
	// it when absent.
	ReplaceCoffee(ctx context.Context, id string, doc model.Document) (*model.UpdateResult, error)
	DeleteCoffee(ctx context.Context, id string) (*model.DeleteResult, error)
}

type coffeeUsecase struct {
	docs *documentService
}

// NewCoffeeUsecase creates the coffee usecase on the coffee collection
func NewCoffeeUsecase(repo repository.DocumentRepository, publisher ChangePublisher, log logger.Logger) CoffeeUsecase {
	return &coffeeUsecase{docs: newDocumentService(repo, publisher, log)}
}

func (uc *coffeeUsecase) ListCoffee(ctx context.Context) ([]model.Document, error) {
	return uc.docs.findAll(ctx)
}

func (uc *coffeeUsecase) GetCoffee(ctx context.Context, id string) (model.Document, error) {
	return uc.docs.findByID(ctx, id)
}

func (uc *coffeeUsecase) CreateCoffee(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	return uc.docs.insert(ctx, doc)
}

func (uc *coffeeUsecase) ReplaceCoffee(ctx context.Context, id string, doc model.Document) (*model.UpdateResult, error) {
	return uc.docs.setByID(ctx, id, doc, true)
}

func (uc *coffeeUsecase) DeleteCoffee(ctx context.Context, id string) (*model.DeleteResult, error) {
	return uc.docs.deleteByID(ctx, id)
}
