package meeting

import (
	"time"

	"github.com/crmhub/crmhub/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting is the persisted meeting record. Attendee arrays are left out of
// the stored document entirely when they were not provided on create and
// render as null in JSON, while an emptied array stays [].
type Meeting struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Agenda       string               `json:"agenda" bson:"agenda"`
	Attendes     []primitive.ObjectID `json:"attendes" bson:"attendes,omitempty"`
	AttendesLead []primitive.ObjectID `json:"attendesLead" bson:"attendesLead,omitempty"`
	Location     string               `json:"location,omitempty" bson:"location,omitempty"`
	Related      string               `json:"related,omitempty" bson:"related,omitempty"`
	DateTime     *time.Time           `json:"dateTime,omitempty" bson:"dateTime,omitempty"`
	Notes        string               `json:"notes,omitempty" bson:"notes,omitempty"`
	CreateBy     *primitive.ObjectID  `json:"createBy,omitempty" bson:"createBy,omitempty"`
	Deleted      bool                 `json:"deleted" bson:"deleted"`
	Timestamp    time.Time            `json:"timestamp" bson:"timestamp"`
}

// ListItem is a meeting as returned by the list view: the reference arrays
// stay as ids and the joined attendees sit next to them.
type ListItem struct {
	Meeting          `bson:",inline"`
	ContactAttendees []models.Contact `json:"contactAttendees" bson:"contactAttendees"`
	LeadAttendees    []models.Lead    `json:"leadAttendees" bson:"leadAttendees"`
	CreatedByName    string           `json:"createdByName,omitempty" bson:"createdByName,omitempty"`
	AttendeeCount    int              `json:"attendeeCount" bson:"attendeeCount"`
}

// Detail is a single meeting with its attendee references replaced by the
// resolved contact and lead records.
type Detail struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id"`
	Agenda        string              `json:"agenda" bson:"agenda"`
	Attendes      []models.Contact    `json:"attendes" bson:"attendes"`
	AttendesLead  []models.Lead       `json:"attendesLead" bson:"attendesLead"`
	Location      string              `json:"location,omitempty" bson:"location,omitempty"`
	Related       string              `json:"related,omitempty" bson:"related,omitempty"`
	DateTime      *time.Time          `json:"dateTime,omitempty" bson:"dateTime,omitempty"`
	Notes         string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreateBy      *primitive.ObjectID `json:"createBy,omitempty" bson:"createBy,omitempty"`
	CreatedByName string              `json:"createdByName,omitempty" bson:"createdByName,omitempty"`
	Deleted       bool                `json:"deleted" bson:"deleted"`
	Timestamp     time.Time           `json:"timestamp" bson:"timestamp"`
}

// Changes is a partial update. Nil fields are left untouched; a non-nil
// attendee slice pointer replaces the stored array wholesale, even when empty.
type Changes struct {
	Agenda       *string
	Location     *string
	Related      *string
	DateTime     *time.Time
	Notes        *string
	CreateBy     *primitive.ObjectID
	Attendes     *[]primitive.ObjectID
	AttendesLead *[]primitive.ObjectID
}

// Empty reports whether no field is set.
func (c Changes) Empty() bool {
	return len(c.Set()) == 0
}

// Set renders the changes as a $set document.
func (c Changes) Set() bson.M {
	set := bson.M{}
	if c.Agenda != nil {
		set["agenda"] = *c.Agenda
	}
	if c.Location != nil {
		set["location"] = *c.Location
	}
	if c.Related != nil {
		set["related"] = *c.Related
	}
	if c.DateTime != nil {
		set["dateTime"] = *c.DateTime
	}
	if c.Notes != nil {
		set["notes"] = *c.Notes
	}
	if c.CreateBy != nil {
		set["createBy"] = *c.CreateBy
	}
	if c.Attendes != nil {
		set["attendes"] = nonNil(*c.Attendes)
	}
	if c.AttendesLead != nil {
		set["attendesLead"] = nonNil(*c.AttendesLead)
	}
	return set
}

// Apply mutates m in place the same way Set would on the store.
func (c Changes) Apply(m *Meeting) {
	if c.Agenda != nil {
		m.Agenda = *c.Agenda
	}
	if c.Location != nil {
		m.Location = *c.Location
	}
	if c.Related != nil {
		m.Related = *c.Related
	}
	if c.DateTime != nil {
		t := *c.DateTime
		m.DateTime = &t
	}
	if c.Notes != nil {
		m.Notes = *c.Notes
	}
	if c.CreateBy != nil {
		oid := *c.CreateBy
		m.CreateBy = &oid
	}
	if c.Attendes != nil {
		m.Attendes = nonNil(*c.Attendes)
	}
	if c.AttendesLead != nil {
		m.AttendesLead = nonNil(*c.AttendesLead)
	}
}

func nonNil(in []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(in))
	copy(out, in)
	return out
}

// ListFilter is the per-request list criteria. Build it with NewListFilter;
// the field map is copied so callers cannot mutate it afterwards.
type ListFilter struct {
	fields   map[string]string
	createBy *primitive.ObjectID
}

// NewListFilter returns a filter matching every field in fields by equality
// and, when createBy is non-nil, the creator id.
func NewListFilter(fields map[string]string, createBy *primitive.ObjectID) ListFilter {
	f := ListFilter{fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		f.fields[k] = v
	}
	if createBy != nil {
		oid := *createBy
		f.createBy = &oid
	}
	return f
}

// Fields returns a copy of the equality criteria.
func (f ListFilter) Fields() map[string]string {
	out := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out
}

// CreateBy returns the creator constraint, if any.
func (f ListFilter) CreateBy() (primitive.ObjectID, bool) {
	if f.createBy == nil {
		return primitive.NilObjectID, false
	}
	return *f.createBy, true
}

// Match renders the filter as a $match document. Soft-deleted meetings are
// always excluded.
func (f ListFilter) Match() bson.M {
	m := bson.M{}
	for k, v := range f.fields {
		m[k] = v
	}
	if f.createBy != nil {
		m["createBy"] = *f.createBy
	}
	m["deleted"] = false
	return m
}

// UpdateResult describes the outcome of a soft delete.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}
