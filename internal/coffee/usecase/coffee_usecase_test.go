package usecase

import (
	"context"
	"errors"
	"testing"

	"coffee-store/internal/coffee/domain/model"
	apperrors "coffee-store/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoffeeUsecaseTestSuite struct {
	suite.Suite
	repo      *mockDocumentRepository
	publisher *recordingPublisher
	usecase   CoffeeUsecase
}

func (suite *CoffeeUsecaseTestSuite) SetupTest() {
	suite.repo = newMockRepository(model.CollectionCoffee)
	suite.publisher = &recordingPublisher{}
	suite.usecase = NewCoffeeUsecase(suite.repo, suite.publisher, nil)
}

func (suite *CoffeeUsecaseTestSuite) TestListCoffee() {
	docs := []model.Document{{"name": "Latte"}, {"name": "Mocha"}}
	suite.repo.On("FindAll", mock.Anything).Return(docs, nil)

	got, err := suite.usecase.ListCoffee(context.Background())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), docs, got)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *CoffeeUsecaseTestSuite) TestGetCoffee_ByObjectID() {
	id := primitive.NewObjectID()
	doc := model.Document{"_id": id, "name": "Latte"}
	suite.repo.On("FindOne", mock.Anything, model.Document{"_id": id}).Return(doc, nil)

	got, err := suite.usecase.GetCoffee(context.Background(), id.Hex())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), doc, got)
}

func (suite *CoffeeUsecaseTestSuite) TestGetCoffee_Absent() {
	suite.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)

	got, err := suite.usecase.GetCoffee(context.Background(), primitive.NewObjectID().Hex())

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *CoffeeUsecaseTestSuite) TestMalformedIDNeverReachesStore() {
	ctx := context.Background()

	_, err := suite.usecase.GetCoffee(ctx, "latte")
	assert.True(suite.T(), apperrors.IsInvalidID(err))
	_, err = suite.usecase.ReplaceCoffee(ctx, "latte", model.Document{"name": "x"})
	assert.True(suite.T(), apperrors.IsInvalidID(err))
	_, err = suite.usecase.DeleteCoffee(ctx, "latte")
	assert.True(suite.T(), apperrors.IsInvalidID(err))

	suite.repo.AssertNotCalled(suite.T(), "FindOne", mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "DeleteOne", mock.Anything, mock.Anything)
	assert.Empty(suite.T(), suite.publisher.Events())
}

func (suite *CoffeeUsecaseTestSuite) TestCreateCoffee_PassesBodyVerbatim() {
	id := primitive.NewObjectID()
	body := model.Document{"name": "Latte", "price": float64(4), "extras": []interface{}{"oat"}}
	suite.repo.On("InsertOne", mock.Anything, body).Return(&model.InsertResult{Acknowledged: true, InsertedID: id}, nil)

	res, err := suite.usecase.CreateCoffee(context.Background(), body)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, res.InsertedID)
	assert.NotContains(suite.T(), body, "_id")

	events := suite.publisher.Events()
	require.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), model.ChangeTypeCreated, events[0].Type)
	assert.Equal(suite.T(), model.CollectionCoffee, events[0].Collection)
	assert.Equal(suite.T(), id.Hex(), events[0].DocumentID)
	assert.Equal(suite.T(), id, events[0].Data["_id"])
	assert.NotEmpty(suite.T(), events[0].ID)
}

func (suite *CoffeeUsecaseTestSuite) TestCreateCoffee_StoreError() {
	boom := errors.New("connection refused")
	suite.repo.On("InsertOne", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := suite.usecase.CreateCoffee(context.Background(), model.Document{"name": "Latte"})

	assert.ErrorIs(suite.T(), err, boom)
	assert.Empty(suite.T(), suite.publisher.Events())
}

func (suite *CoffeeUsecaseTestSuite) TestReplaceCoffee_UpsertsBySetOnID() {
	id := primitive.NewObjectID()
	body := model.Document{"name": "Mocha", "price": float64(5)}
	suite.repo.On("UpdateOne", mock.Anything, model.Document{"_id": id}, body, true).
		Return(&model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil)

	res, err := suite.usecase.ReplaceCoffee(context.Background(), id.Hex(), body)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), res.ModifiedCount)

	events := suite.publisher.Events()
	require.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), model.ChangeTypeUpdated, events[0].Type)
	assert.Equal(suite.T(), id.Hex(), events[0].DocumentID)
	assert.Equal(suite.T(), "Mocha", events[0].Data["name"])
}

func (suite *CoffeeUsecaseTestSuite) TestReplaceCoffee_UpsertAnnouncesCreation() {
	id := primitive.NewObjectID()
	suite.repo.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, true).
		Return(&model.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil)

	_, err := suite.usecase.ReplaceCoffee(context.Background(), id.Hex(), model.Document{"name": "Mocha"})

	require.NoError(suite.T(), err)
	events := suite.publisher.Events()
	require.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), model.ChangeTypeCreated, events[0].Type)
	assert.Equal(suite.T(), id.Hex(), events[0].DocumentID)
}

func (suite *CoffeeUsecaseTestSuite) TestDeleteCoffee() {
	id := primitive.NewObjectID()
	suite.repo.On("DeleteOne", mock.Anything, model.Document{"_id": id}).
		Return(&model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil)

	res, err := suite.usecase.DeleteCoffee(context.Background(), id.Hex())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), res.DeletedCount)
	events := suite.publisher.Events()
	require.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), model.ChangeTypeDeleted, events[0].Type)
}

func (suite *CoffeeUsecaseTestSuite) TestDeleteCoffee_AbsentIsSilent() {
	suite.repo.On("DeleteOne", mock.Anything, mock.Anything).
		Return(&model.DeleteResult{Acknowledged: true, DeletedCount: 0}, nil)

	res, err := suite.usecase.DeleteCoffee(context.Background(), primitive.NewObjectID().Hex())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), res.DeletedCount)
	assert.Empty(suite.T(), suite.publisher.Events())
}

func TestCoffeeUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(CoffeeUsecaseTestSuite))
}
