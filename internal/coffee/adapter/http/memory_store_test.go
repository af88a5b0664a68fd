package http

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"coffee-store/internal/coffee/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryCollection mimics the equality-filter semantics of a MongoDB collection:
// a null filter value matches a missing field and an upsert seeds the new document
// from the filter.
type memoryCollection struct {
	mu   sync.Mutex
	name string
	docs []model.Document
	err  error
}

func newMemoryCollection(name string) *memoryCollection {
	return &memoryCollection{name: name}
}

func (m *memoryCollection) Name() string { return m.name }

func (m *memoryCollection) FindAll(context.Context) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Document, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d.Clone())
	}
	return out, nil
}

func (m *memoryCollection) FindOne(_ context.Context, filter model.Document) (model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if i := m.find(filter); i >= 0 {
		return m.docs[i].Clone(), nil
	}
	return nil, nil
}

func (m *memoryCollection) InsertOne(_ context.Context, doc model.Document) (*model.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored := doc.Clone()
	if _, ok := stored[model.FieldID]; !ok {
		stored[model.FieldID] = primitive.NewObjectID()
	}
	m.docs = append(m.docs, stored)
	return &model.InsertResult{Acknowledged: true, InsertedID: stored[model.FieldID]}, nil
}

func (m *memoryCollection) UpdateOne(_ context.Context, filter, fields model.Document, upsert bool) (*model.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if i := m.find(filter); i >= 0 {
		modified := int64(0)
		for k, v := range fields {
			if cur, ok := m.docs[i][k]; !ok || !reflect.DeepEqual(cur, v) {
				modified = 1
			}
			m.docs[i][k] = v
		}
		return &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
	}
	if !upsert {
		return &model.UpdateResult{Acknowledged: true}, nil
	}
	created := filter.Clone()
	for k, v := range fields {
		created[k] = v
	}
	if _, ok := created[model.FieldID]; !ok {
		created[model.FieldID] = primitive.NewObjectID()
	}
	m.docs = append(m.docs, created)
	return &model.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: created[model.FieldID]}, nil
}

func (m *memoryCollection) DeleteOne(_ context.Context, filter model.Document) (*model.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	i := m.find(filter)
	if i < 0 {
		return &model.DeleteResult{Acknowledged: true}, nil
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return &model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *memoryCollection) find(filter model.Document) int {
	for i, d := range m.docs {
		if matches(d, filter) {
			return i
		}
	}
	return -1
}

func matches(doc, filter model.Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if want == nil {
			if ok && got != nil {
				return false
			}
			continue
		}
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

var errStoreDown = errors.New("server selection error: connection refused")
