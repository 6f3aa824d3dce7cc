package repository

import (
	"context"
	"errors"

	"github.com/crmhub/crmhub/backend/go-services/internal/meeting"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("meeting not found")
)

// Repository is the persistence contract the meeting service depends on.
type Repository interface {
	Insert(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*meeting.Meeting, error)
	List(ctx context.Context, f meeting.ListFilter) ([]meeting.ListItem, error)
	Detail(ctx context.Context, id primitive.ObjectID) (*meeting.Detail, error)
	Update(ctx context.Context, id primitive.ObjectID, c meeting.Changes) (*meeting.Meeting, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (*meeting.UpdateResult, error)
	SoftDeleteMany(ctx context.Context, ids []primitive.ObjectID) (*meeting.UpdateResult, error)
	Ping(ctx context.Context) error
}

// Collections names the four collections a meeting read touches.
type Collections struct {
	Meetings string
	Contacts string
	Leads    string
	Users    string
}

// DefaultCollections matches the collection names used by the CRM schema.
func DefaultCollections() Collections {
	return Collections{Meetings: "Meetings", Contacts: "Contacts", Leads: "Leads", Users: "User"}
}
