package repository

import (
	"context"
	"sync"

	"github.com/crmhub/crmhub/backend/go-services/internal/meeting"
	"github.com/crmhub/crmhub/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used by unit tests and as the
// fallback when no MongoDB is configured. Its joins follow the same rules as
// the aggregation pipelines in pipeline.go.
type MemoryRepo struct {
	mu       sync.RWMutex
	order    []primitive.ObjectID
	meetings map[primitive.ObjectID]*meeting.Meeting
	contacts map[primitive.ObjectID]models.Contact
	leads    map[primitive.ObjectID]models.Lead
	users    map[primitive.ObjectID]models.User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		meetings: make(map[primitive.ObjectID]*meeting.Meeting),
		contacts: make(map[primitive.ObjectID]models.Contact),
		leads:    make(map[primitive.ObjectID]models.Lead),
		users:    make(map[primitive.ObjectID]models.User),
	}
}

// PutContact stores a contact that meetings can reference; a zero ID is assigned.
func (m *MemoryRepo) PutContact(c models.Contact) models.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	m.contacts[c.ID] = c
	return c
}

// PutLead stores a lead that meetings can reference.
func (m *MemoryRepo) PutLead(l models.Lead) models.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	m.leads[l.ID] = l
	return l
}

// PutUser stores a user that meetings can name as creator.
func (m *MemoryRepo) PutUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Deleted != nil {
		d := *u.Deleted
		u.Deleted = &d
	}
	m.users[u.ID] = u
	return u
}

func (m *MemoryRepo) Insert(ctx context.Context, mt *meeting.Meeting) (*meeting.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mt.ID.IsZero() {
		mt.ID = primitive.NewObjectID()
	}
	m.meetings[mt.ID] = clone(mt)
	m.order = append(m.order, mt.ID)
	return mt, nil
}

func (m *MemoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*meeting.Meeting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(mt), nil
}

func (m *MemoryRepo) List(ctx context.Context, f meeting.ListFilter) ([]meeting.ListItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []meeting.ListItem{}
	for _, id := range m.order {
		mt := m.meetings[id]
		if !matches(mt, f) {
			continue
		}
		creator, ok := m.creator(mt)
		if !ok || !creator.Active() {
			continue
		}
		item := meeting.ListItem{
			Meeting:          *clone(mt),
			ContactAttendees: m.joinContacts(mt.Attendes),
			LeadAttendees:    m.joinLeads(mt.AttendesLead),
			CreatedByName:    creator.Username,
		}
		item.AttendeeCount = len(item.ContactAttendees) + len(item.LeadAttendees)
		out = append(out, item)
	}
	return out, nil
}

func (m *MemoryRepo) Detail(ctx context.Context, id primitive.ObjectID) (*meeting.Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clone(mt)
	d := &meeting.Detail{
		ID:           cp.ID,
		Agenda:       cp.Agenda,
		Attendes:     m.joinContacts(cp.Attendes),
		AttendesLead: m.joinLeads(cp.AttendesLead),
		Location:     cp.Location,
		Related:      cp.Related,
		DateTime:     cp.DateTime,
		Notes:        cp.Notes,
		CreateBy:     cp.CreateBy,
		Deleted:      cp.Deleted,
		Timestamp:    cp.Timestamp,
	}
	if u, ok := m.creator(mt); ok {
		d.CreatedByName = u.Username
	}
	return d, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id primitive.ObjectID, c meeting.Changes) (*meeting.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Apply(mt)
	return clone(mt), nil
}

func (m *MemoryRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) (*meeting.UpdateResult, error) {
	return m.SoftDeleteMany(ctx, []primitive.ObjectID{id})
}

func (m *MemoryRepo) SoftDeleteMany(ctx context.Context, ids []primitive.ObjectID) (*meeting.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := &meeting.UpdateResult{Acknowledged: true}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		mt, ok := m.meetings[id]
		if !ok {
			continue
		}
		res.MatchedCount++
		if !mt.Deleted {
			mt.Deleted = true
			res.ModifiedCount++
		}
	}
	return res, nil
}

func (m *MemoryRepo) Ping(ctx context.Context) error { return nil }

func (m *MemoryRepo) creator(mt *meeting.Meeting) (models.User, bool) {
	if mt.CreateBy == nil {
		return models.User{}, false
	}
	u, ok := m.users[*mt.CreateBy]
	return u, ok
}

// clone copies mt so that neither side shares slices or pointers with the
// stored record. Nil and empty arrays stay distinct.
func clone(mt *meeting.Meeting) *meeting.Meeting {
	cp := *mt
	cp.Attendes = cloneIDs(mt.Attendes)
	cp.AttendesLead = cloneIDs(mt.AttendesLead)
	if mt.CreateBy != nil {
		oid := *mt.CreateBy
		cp.CreateBy = &oid
	}
	if mt.DateTime != nil {
		t := *mt.DateTime
		cp.DateTime = &t
	}
	return &cp
}

func cloneIDs(in []primitive.ObjectID) []primitive.ObjectID {
	if in == nil {
		return nil
	}
	return append(make([]primitive.ObjectID, 0, len(in)), in...)
}

// joinContacts mirrors $lookup: each referenced record appears once, missing
// references are skipped.
func (m *MemoryRepo) joinContacts(refs []primitive.ObjectID) []models.Contact {
	out := []models.Contact{}
	seen := map[primitive.ObjectID]bool{}
	for _, id := range refs {
		if c, ok := m.contacts[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, c)
		}
	}
	return out
}

func (m *MemoryRepo) joinLeads(refs []primitive.ObjectID) []models.Lead {
	out := []models.Lead{}
	seen := map[primitive.ObjectID]bool{}
	for _, id := range refs {
		if l, ok := m.leads[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, l)
		}
	}
	return out
}

func matches(mt *meeting.Meeting, f meeting.ListFilter) bool {
	if mt.Deleted {
		return false
	}
	if oid, ok := f.CreateBy(); ok && (mt.CreateBy == nil || *mt.CreateBy != oid) {
		return false
	}
	for k, want := range f.Fields() {
		if k == "deleted" {
			continue
		}
		got, ok := stringField(mt, k)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// stringField returns the value of a string-typed meeting field. Fields of
// other types never equal a string criterion, as in the store.
func stringField(mt *meeting.Meeting, key string) (string, bool) {
	switch key {
	case "agenda":
		return mt.Agenda, true
	case "location":
		return mt.Location, mt.Location != ""
	case "related":
		return mt.Related, mt.Related != ""
	case "notes":
		return mt.Notes, mt.Notes != ""
	}
	return "", false
}
