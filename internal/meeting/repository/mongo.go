package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/crmhub/crmhub/backend/go-services/internal/meeting"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository over the meetings collection and joins the
// contact, lead and user collections at read time.
type MongoRepo struct {
	db   *mongo.Database
	col  *mongo.Collection
	cols Collections
}

func NewMongoRepo(db *mongo.Database, cols Collections) *MongoRepo {
	return &MongoRepo{db: db, col: db.Collection(cols.Meetings), cols: cols}
}

// EnsureIndexes creates the index backing the list query (deleted + creator).
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "createBy", Value: 1}}}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create meetings index: %w", err)
	}
	return nil
}

func (m *MongoRepo) Insert(ctx context.Context, mt *meeting.Meeting) (*meeting.Meeting, error) {
	res, err := m.col.InsertOne(ctx, mt)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		mt.ID = oid
	}
	return mt, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*meeting.Meeting, error) {
	var out meeting.Meeting
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (m *MongoRepo) List(ctx context.Context, f meeting.ListFilter) ([]meeting.ListItem, error) {
	cur, err := m.col.Aggregate(ctx, listPipeline(f.Match(), m.cols))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []meeting.ListItem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Detail(ctx context.Context, id primitive.ObjectID) (*meeting.Detail, error) {
	cur, err := m.col.Aggregate(ctx, detailPipeline(id, m.cols))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []meeting.Detail
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (m *MongoRepo) Update(ctx context.Context, id primitive.ObjectID, c meeting.Changes) (*meeting.Meeting, error) {
	if c.Empty() {
		// $set rejects an empty document
		return m.FindByID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out meeting.Meeting
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": c.Set()}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (m *MongoRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) (*meeting.UpdateResult, error) {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return nil, err
	}
	return &meeting.UpdateResult{Acknowledged: true, MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (m *MongoRepo) SoftDeleteMany(ctx context.Context, ids []primitive.ObjectID) (*meeting.UpdateResult, error) {
	res, err := m.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": bson.M{"deleted": true}})
	if err != nil {
		return nil, err
	}
	return &meeting.UpdateResult{Acknowledged: true, MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}
