package usecase

import (
	"context"
	"time"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/coffee/domain/repository"
	"coffee-store/internal/shared/logger"
	"coffee-store/internal/shared/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// documentService runs one gateway call per operation against a single collection and
// announces the writes that touched a document.
type documentService struct {
	repo      repository.DocumentRepository
	publisher ChangePublisher
	log       logger.Logger
	now       func() time.Time
}

func newDocumentService(repo repository.DocumentRepository, publisher ChangePublisher, log logger.Logger) *documentService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &documentService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *documentService) scoped(ctx context.Context, operation string) (context.Context, logger.Logger) {
	ctx = utils.WithOperation(utils.WithCollection(ctx, s.repo.Name()), operation)
	return ctx, s.log.WithContext(ctx)
}

func (s *documentService) findAll(ctx context.Context) ([]model.Document, error) {
	ctx, _ = s.scoped(ctx, "find")
	return s.repo.FindAll(ctx)
}

func (s *documentService) findByID(ctx context.Context, id string) (model.Document, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}
	ctx, _ = s.scoped(ctx, "findOne")
	return s.repo.FindOne(ctx, model.IDFilter(oid))
}

func (s *documentService) insert(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	ctx, log := s.scoped(ctx, "insert")
	log.WithFields(map[string]interface{}{"document": doc}).Infof("Adding new %s document", s.repo.Name())

	res, err := s.repo.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	data := doc.Clone()
	if data == nil {
		data = model.Document{}
	}
	if _, ok := data[model.FieldID]; !ok {
		data[model.FieldID] = res.InsertedID
	}
	s.publish(ctx, model.ChangeTypeCreated, idString(res.InsertedID), data, res)
	return res, nil
}

func (s *documentService) setByID(ctx context.Context, id string, fields model.Document, upsert bool) (*model.UpdateResult, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, model.IDFilter(oid), fields, upsert, oid.Hex())
}

func (s *documentService) update(ctx context.Context, filter, fields model.Document, upsert bool, documentID string) (*model.UpdateResult, error) {
	ctx, _ = s.scoped(ctx, "update")
	res, err := s.repo.UpdateOne(ctx, filter, fields, upsert)
	if err != nil {
		return nil, err
	}

	data := filter.Clone()
	for k, v := range fields {
		data[k] = v
	}
	switch {
	case res.UpsertedCount > 0:
		s.publish(ctx, model.ChangeTypeCreated, idString(res.UpsertedID), data, res)
	case res.MatchedCount > 0:
		s.publish(ctx, model.ChangeTypeUpdated, documentID, data, res)
	}
	return res, nil
}

func (s *documentService) deleteByID(ctx context.Context, id string) (*model.DeleteResult, error) {
	ctx, log := s.scoped(ctx, "delete")
	log.Infof("Deleting %s document %s", s.repo.Name(), id)

	oid, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.DeleteOne(ctx, model.IDFilter(oid))
	if err != nil {
		return nil, err
	}
	if res.DeletedCount > 0 {
		s.publish(ctx, model.ChangeTypeDeleted, oid.Hex(), nil, res)
	}
	return res, nil
}

func (s *documentService) publish(ctx context.Context, changeType model.ChangeType, documentID string, data model.Document, result interface{}) {
	s.publisher.PublishChange(ctx, model.ChangeEvent{
		ID:         uuid.NewString(),
		Type:       changeType,
		Collection: s.repo.Name(),
		DocumentID: documentID,
		Data:       data.Clone(),
		Result:     result,
		Timestamp:  s.now().UTC(),
	})
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return ""
	}
}
