package stories

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func storyDoc(id string, fav bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userId", Value: testUserID},
		{Key: "title", Value: "Paris"},
		{Key: "story", Value: "Louvre"},
		{Key: "visitedLocation", Value: bson.A{"Paris", "France"}},
		{Key: "imageUrl", Value: "http://x/uploads/a.png"},
		{Key: "visitedDate", Value: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Key: "isFavourite", Value: fav},
		{Key: "createdOn", Value: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		s, err := repo.Create(context.Background(), &models.Story{UserID: testUserID, Title: "Paris"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, s.ID)
		assert.False(mt, s.IsFavourite)
		assert.NotNil(mt, s.VisitedLocation)
	})

	mt.Run("delete foreign story", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Delete(context.Background(), "someone-else", testStoryID)
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("set favourite", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storyDoc(testStoryID, true)}))

		s, err := repo.SetFavourite(context.Background(), testUserID, testStoryID, true)
		require.NoError(mt, err)
		assert.True(mt, s.IsFavourite)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Update(context.Background(), &models.Story{ID: testStoryID, UserID: testUserID})
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storyDoc(testStoryID, false)}))

		s, err := repo.Delete(context.Background(), testUserID, testStoryID)
		require.NoError(mt, err)
		assert.Equal(mt, "http://x/uploads/a.png", s.ImageURL)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, storyDoc("a", true))
		second := mtest.CreateCursorResponse(0, ns, mtest.NextBatch, storyDoc("b", false))
		mt.AddMockResponses(first, second)

		got, err := repo.ListByUser(context.Background(), testUserID)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "a", got[0].ID)
		assert.Equal(mt, "b", got[1].ID)
	})

	mt.Run("search empty result", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.Search(context.Background(), testUserID, "a.b(")
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("filter by date", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, storyDoc(testStoryID, false)))

		from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		got, err := repo.ListByVisitedDate(context.Background(), testUserID, from, from.AddDate(1, 0, 0))
		require.NoError(mt, err)
		assert.Len(mt, got, 1)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(context.Background()))
	})
}
