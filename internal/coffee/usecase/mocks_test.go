package usecase

import (
	"context"
	"sync"

	"coffee-store/internal/coffee/domain/model"

	"github.com/stretchr/testify/mock"
)

// mockDocumentRepository is a shared mock for repository.DocumentRepository
type mockDocumentRepository struct {
	mock.Mock
	name string
}

func newMockRepository(name string) *mockDocumentRepository {
	return &mockDocumentRepository{name: name}
}

func (m *mockDocumentRepository) Name() string { return m.name }

func (m *mockDocumentRepository) FindAll(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *mockDocumentRepository) FindOne(ctx context.Context, filter model.Document) (model.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *mockDocumentRepository) InsertOne(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsertResult), args.Error(1)
}

func (m *mockDocumentRepository) UpdateOne(ctx context.Context, filter, fields model.Document, upsert bool) (*model.UpdateResult, error) {
	args := m.Called(ctx, filter, fields, upsert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UpdateResult), args.Error(1)
}

func (m *mockDocumentRepository) DeleteOne(ctx context.Context, filter model.Document) (*model.DeleteResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeleteResult), args.Error(1)
}

// recordingPublisher keeps every published change event
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ChangeEvent
}

func (p *recordingPublisher) PublishChange(_ context.Context, event model.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []model.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.ChangeEvent(nil), p.events...)
}

// mockChangeLog is a mock for repository.ChangeLog
type mockChangeLog struct {
	mock.Mock
}

func (m *mockChangeLog) Append(ctx context.Context, event model.ChangeEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockChangeLog) Recent(ctx context.Context, collection string, count int64) ([]model.ChangeEvent, error) {
	args := m.Called(ctx, collection, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChangeEvent), args.Error(1)
}

func (m *mockChangeLog) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
