package repository

import (
	"context"

	"coffee-store/internal/coffee/domain/model"
)

// DocumentRepository is one collection of the persistence gateway. Every method maps
// to exactly one store operation; nothing is validated or retried.
type DocumentRepository interface {
	// Name returns the logical collection name (coffee, users).
	Name() string
	FindAll(ctx context.Context) ([]model.Document, error)
	// FindOne returns nil and no error when nothing matches.
	FindOne(ctx context.Context, filter model.Document) (model.Document, error)
	InsertOne(ctx context.Context, doc model.Document) (*model.InsertResult, error)
	// UpdateOne applies $set of fields to the first document matching filter.
	UpdateOne(ctx context.Context, filter, fields model.Document, upsert bool) (*model.UpdateResult, error)
	DeleteOne(ctx context.Context, filter model.Document) (*model.DeleteResult, error)
}

// Gateway holds the two collection handles opened once at startup.
type Gateway interface {
	Coffee() DocumentRepository
	Users() DocumentRepository
	Ping(ctx context.Context) error
}

// ChangeLog persists change events outside the process.
type ChangeLog interface {
	Append(ctx context.Context, event model.ChangeEvent) error
	// Recent returns up to count events of a collection, oldest first.
	Recent(ctx context.Context, collection string, count int64) ([]model.ChangeEvent, error)
	Ping(ctx context.Context) error
}
