package repository

import (
	"context"
	"testing"
	"time"

	"github.com/crmhub/crmhub/backend/go-services/internal/meeting"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mockRepo(mt *mtest.T) (*MongoRepo, string) {
	cols := DefaultCollections()
	cols.Meetings = mt.Coll.Name()
	return NewMongoRepo(mt.DB, cols), mt.DB.Name() + "." + mt.Coll.Name()
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert assigns id", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		m, err := repo.Insert(ctx, &meeting.Meeting{Agenda: "kickoff", Timestamp: time.Now()})
		require.NoError(mt, err)
		require.False(mt, m.ID.IsZero())
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"}))

		_, err := repo.Insert(ctx, &meeting.Meeting{Agenda: "kickoff"})
		require.Error(mt, err)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "agenda", Value: "kickoff"},
			{Key: "deleted", Value: false},
		}))

		m, err := repo.FindByID(ctx, id)
		require.NoError(mt, err)
		require.Equal(mt, id, m.ID)
		require.Equal(mt, "kickoff", m.Agenda)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("list decodes enriched rows", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		contact := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "agenda", Value: "kickoff"},
			{Key: "attendes", Value: bson.A{contact}},
			{Key: "contactAttendees", Value: bson.A{bson.D{{Key: "_id", Value: contact}, {Key: "fullName", Value: "Carol"}}}},
			{Key: "leadAttendees", Value: bson.A{}},
			{Key: "createdByName", Value: "alice"},
			{Key: "attendeeCount", Value: int32(1)},
		}))

		list, err := repo.List(ctx, meeting.NewListFilter(nil, nil))
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		require.Equal(mt, "kickoff", list[0].Agenda)
		require.Equal(mt, []primitive.ObjectID{contact}, list[0].Attendes)
		require.Equal(mt, "Carol", list[0].ContactAttendees[0].FullName)
		require.Equal(mt, "alice", list[0].CreatedByName)
		require.Equal(mt, 1, list[0].AttendeeCount)
	})

	mt.Run("detail empty result", func(mt *mtest.T) {
		repo, ns := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.Detail(ctx, primitive.NewObjectID())
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "agenda", Value: "renamed"},
			{Key: "attendes", Value: bson.A{}},
		}}))

		agenda := "renamed"
		m, err := repo.Update(ctx, id, meeting.Changes{Agenda: &agenda})
		require.NoError(mt, err)
		require.Equal(mt, "renamed", m.Agenda)
	})

	mt.Run("update no match", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		agenda := "renamed"
		_, err := repo.Update(ctx, primitive.NewObjectID(), meeting.Changes{Agenda: &agenda})
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("soft delete counts", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		res, err := repo.SoftDelete(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		require.EqualValues(mt, 1, res.MatchedCount)
		require.EqualValues(mt, 1, res.ModifiedCount)
	})

	mt.Run("soft delete many already deleted", func(mt *mtest.T) {
		repo, _ := mockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 0}))

		res, err := repo.SoftDeleteMany(ctx, []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()})
		require.NoError(mt, err)
		require.EqualValues(mt, 2, res.MatchedCount)
		require.EqualValues(mt, 0, res.ModifiedCount)
	})
}
