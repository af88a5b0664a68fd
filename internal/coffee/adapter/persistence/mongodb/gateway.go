package mongodb

import (
	"context"
	"errors"

	"coffee-store/internal/coffee/domain/model"
	"coffee-store/internal/coffee/domain/repository"
	apperrors "coffee-store/internal/shared/errors"
	"coffee-store/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoGateway implements repository.Gateway on one MongoDB database.
type MongoGateway struct {
	db     *mongo.Database
	coffee *MongoCollection
	users  *MongoCollection
}

// NewMongoGateway opens the coffee and users collection handles. The handles live as
// long as the underlying client.
func NewMongoGateway(db *mongo.Database, coffeeCollection, usersCollection string, log logger.Logger) (*MongoGateway, error) {
	if db == nil {
		return nil, errors.New("mongo database cannot be nil")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &MongoGateway{
		db:     db,
		coffee: NewMongoCollection(model.CollectionCoffee, db.Collection(coffeeCollection), log),
		users:  NewMongoCollection(model.CollectionUsers, db.Collection(usersCollection), log),
	}, nil
}

// Coffee returns the coffee collection.
func (g *MongoGateway) Coffee() repository.DocumentRepository {
	return g.coffee
}

// Users returns the users collection.
func (g *MongoGateway) Users() repository.DocumentRepository {
	return g.users
}

// Ping checks that the primary is reachable.
func (g *MongoGateway) Ping(ctx context.Context) error {
	return g.db.Client().Ping(ctx, readpref.Primary())
}

// MongoCollection implements repository.DocumentRepository for one collection.
type MongoCollection struct {
	name       string
	collection *mongo.Collection
	log        logger.Logger
}

// NewMongoCollection wraps a collection handle under a logical name.
func NewMongoCollection(name string, collection *mongo.Collection, log logger.Logger) *MongoCollection {
	return &MongoCollection{
		name:       name,
		collection: collection,
		log:        log.WithComponent("gateway").WithFields(map[string]interface{}{"collection": name}),
	}
}

// Name returns the logical collection name.
func (c *MongoCollection) Name() string {
	return c.name
}

// FindAll returns every document of the collection, never nil.
func (c *MongoCollection) FindAll(ctx context.Context) ([]model.Document, error) {
	cursor, err := c.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, c.storeError("find "+c.name, err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, c.storeError("read "+c.name+" cursor", err)
	}

	docs := make([]model.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, model.Document(m))
	}
	return docs, nil
}

// FindOne returns the first document matching filter, or nil.
func (c *MongoCollection) FindOne(ctx context.Context, filter model.Document) (model.Document, error) {
	var m bson.M
	err := c.collection.FindOne(ctx, bson.M(filter)).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, c.storeError("find one in "+c.name, err)
	}
	return model.Document(m), nil
}

// InsertOne stores doc as given; the store assigns _id when doc has none.
func (c *MongoCollection) InsertOne(ctx context.Context, doc model.Document) (*model.InsertResult, error) {
	if doc == nil {
		doc = model.Document{}
	}
	res, err := c.collection.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, c.storeError("insert into "+c.name, err)
	}
	return &model.InsertResult{
		Acknowledged: true,
		InsertedID:   res.InsertedID,
	}, nil
}

// UpdateOne applies {$set: fields} to the first match. With upsert, MongoDB seeds a
// new document from the equality fields of filter, so an _id filter keeps the id.
func (c *MongoCollection) UpdateOne(ctx context.Context, filter, fields model.Document, upsert bool) (*model.UpdateResult, error) {
	update := bson.M{"$set": bson.M(fields)}
	res, err := c.collection.UpdateOne(ctx, bson.M(filter), update, options.Update().SetUpsert(upsert))
	if err != nil {
		return nil, c.storeError("update "+c.name, err)
	}
	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

// DeleteOne removes the first document matching filter.
func (c *MongoCollection) DeleteOne(ctx context.Context, filter model.Document) (*model.DeleteResult, error) {
	res, err := c.collection.DeleteOne(ctx, bson.M(filter))
	if err != nil {
		return nil, c.storeError("delete from "+c.name, err)
	}
	return &model.DeleteResult{
		Acknowledged: true,
		DeletedCount: res.DeletedCount,
	}, nil
}

func (c *MongoCollection) storeError(operation string, err error) error {
	return apperrors.NewStoreError(operation, err).WithComponent("gateway")
}
