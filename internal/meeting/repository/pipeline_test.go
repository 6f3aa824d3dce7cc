package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageNames(p []bson.D) []string {
	out := make([]string, 0, len(p))
	for _, s := range p {
		out = append(out, s[0].Key)
	}
	return out
}

func TestListPipeline(t *testing.T) {
	cols := DefaultCollections()
	match := bson.M{"deleted": false}
	p := listPipeline(match, cols)

	require.Equal(t, []string{"$match", "$lookup", "$lookup", "$lookup", "$unwind", "$match", "$addFields", "$project"}, stageNames(p))
	require.Equal(t, match, p[0][0].Value)

	contacts := p[1][0].Value.(bson.D).Map()
	require.Equal(t, "Contacts", contacts["from"])
	require.Equal(t, "attendes", contacts["localField"])
	require.Equal(t, "contactAttendees", contacts["as"])

	leads := p[2][0].Value.(bson.D).Map()
	require.Equal(t, "Leads", leads["from"])
	require.Equal(t, "leadAttendees", leads["as"])

	users := p[3][0].Value.(bson.D).Map()
	require.Equal(t, "User", users["from"])
	require.Equal(t, "createBy", users["localField"])

	unwind := p[4][0].Value.(bson.D).Map()
	require.Equal(t, true, unwind["preserveNullAndEmptyArrays"])

	require.Equal(t, bson.D{{Key: "users.deleted", Value: false}}, p[5][0].Value)
	require.Equal(t, bson.D{{Key: "users", Value: 0}}, p[7][0].Value)
}

func TestDetailPipeline(t *testing.T) {
	id := primitive.NewObjectID()
	p := detailPipeline(id, Collections{Meetings: "m", Contacts: "c", Leads: "l", Users: "u"})

	require.Equal(t, []string{"$match", "$lookup", "$lookup", "$lookup", "$unwind", "$addFields", "$project"}, stageNames(p))
	require.Equal(t, bson.D{{Key: "_id", Value: id}}, p[0][0].Value)

	// detail replaces the reference arrays in place
	require.Equal(t, "attendes", p[1][0].Value.(bson.D).Map()["as"])
	require.Equal(t, "attendesLead", p[2][0].Value.(bson.D).Map()["as"])
	require.Equal(t, "u", p[3][0].Value.(bson.D).Map()["from"])
}
