package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func lookup(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func unwindCreator() bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$users"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

// listPipeline joins each matching meeting to its contact and lead attendees
// and its creator. Meetings whose creator is missing or soft-deleted are
// dropped: a missing users.deleted never equals false.
func listPipeline(match bson.M, cols Collections) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		lookup(cols.Contacts, "attendes", "contactAttendees"),
		lookup(cols.Leads, "attendesLead", "leadAttendees"),
		lookup(cols.Users, "createBy", "users"),
		unwindCreator(),
		{{Key: "$match", Value: bson.D{{Key: "users.deleted", Value: false}}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "createdByName", Value: "$users.username"},
			{Key: "attendeeCount", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$contactAttendees", bson.A{}}}}}},
				bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$leadAttendees", bson.A{}}}}}},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "users", Value: 0}}}},
	}
}

// detailPipeline resolves a single meeting, replacing the attendee reference
// arrays with the joined records. The creator join keeps the meeting even
// when the creator is gone.
func detailPipeline(id primitive.ObjectID, cols Collections) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		lookup(cols.Contacts, "attendes", "attendes"),
		lookup(cols.Leads, "attendesLead", "attendesLead"),
		lookup(cols.Users, "createBy", "users"),
		unwindCreator(),
		{{Key: "$addFields", Value: bson.D{{Key: "createdByName", Value: "$users.username"}}}},
		{{Key: "$project", Value: bson.D{{Key: "users", Value: 0}}}},
	}
}
