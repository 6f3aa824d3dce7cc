package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crmhub/crmhub/backend/go-services/internal/ids"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service defines the meeting operations used by the handler layer and the CLI.
type Service interface {
	Create(ctx context.Context, in meeting.Input) (*meeting.Meeting, error)
	List(ctx context.Context, query map[string]string) ([]meeting.ListItem, error)
	View(ctx context.Context, id string) (*meeting.Detail, error)
	Edit(ctx context.Context, id string, in meeting.Input) (*meeting.Meeting, error)
	Delete(ctx context.Context, id string) (*meeting.UpdateResult, error)
	DeleteMany(ctx context.Context, ids []string) (*meeting.UpdateResult, error)
	Ready(ctx context.Context) error
}

// New returns a Service over the given repository.
func New(repo repository.Repository) Service {
	return &meetingService{repo: repo, now: time.Now}
}

// NewMemoryService returns a Service backed by an in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by the given database.
// Caller owns the client.
func NewMongoService(db *mongo.Database, cols repository.Collections) Service {
	return New(repository.NewMongoRepo(db, cols))
}

type meetingService struct {
	repo repository.Repository
	now  func() time.Time
}

func (s *meetingService) Create(ctx context.Context, in meeting.Input) (*meeting.Meeting, error) {
	var contacts, leads []primitive.ObjectID
	var err error
	if in.Attendes.NonEmpty() {
		if contacts, err = parseAttendees("attendes", in.Attendes.Values); err != nil {
			return nil, err
		}
	}
	if in.AttendesLead.NonEmpty() {
		if leads, err = parseAttendees("attendesLead", in.AttendesLead.Values); err != nil {
			return nil, err
		}
	}
	creator, err := parseCreator(in.CreateBy)
	if err != nil {
		return nil, err
	}

	m := &meeting.Meeting{
		Agenda:       deref(in.Agenda),
		Attendes:     contacts,
		AttendesLead: leads,
		Location:     deref(in.Location),
		Related:      deref(in.Related),
		DateTime:     in.DateTime,
		Notes:        deref(in.Notes),
		CreateBy:     creator,
		Timestamp:    s.now().UTC(),
	}
	out, err := s.repo.Insert(ctx, m)
	if err != nil {
		return nil, &StorageError{Op: "create meeting", Err: err}
	}
	return out, nil
}

func (s *meetingService) List(ctx context.Context, query map[string]string) ([]meeting.ListItem, error) {
	fields := make(map[string]string, len(query))
	var creator *primitive.ObjectID
	for k, v := range query {
		if strings.HasPrefix(k, "$") {
			return nil, invalid(k, "Invalid filter key %q", k)
		}
		if k == "createBy" {
			oid, err := ids.Parse(v)
			if err != nil {
				return nil, invalid("createBy", "Invalid createBy ID in filter")
			}
			creator = &oid
			continue
		}
		fields[k] = v
	}
	out, err := s.repo.List(ctx, meeting.NewListFilter(fields, creator))
	if err != nil {
		return nil, &StorageError{Op: "list meetings", Err: err}
	}
	return out, nil
}

func (s *meetingService) View(ctx context.Context, id string) (*meeting.Detail, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, oid); err != nil {
		return nil, notFoundOr("find meeting", err)
	}
	d, err := s.repo.Detail(ctx, oid)
	if err != nil {
		return nil, notFoundOr("view meeting", err)
	}
	return d, nil
}

func (s *meetingService) Edit(ctx context.Context, id string, in meeting.Input) (*meeting.Meeting, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c := meeting.Changes{
		Agenda:   in.Agenda,
		Location: in.Location,
		Related:  in.Related,
		DateTime: in.DateTime,
		Notes:    in.Notes,
	}
	if in.Attendes.Set {
		contacts, err := parseAttendees("attendes", in.Attendes.Values)
		if err != nil {
			return nil, err
		}
		c.Attendes = &contacts
	}
	if in.AttendesLead.Set {
		leads, err := parseAttendees("attendesLead", in.AttendesLead.Values)
		if err != nil {
			return nil, err
		}
		c.AttendesLead = &leads
	}
	if c.CreateBy, err = parseCreator(in.CreateBy); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, oid, c)
	if err != nil {
		return nil, notFoundOr("update meeting", err)
	}
	return out, nil
}

func (s *meetingService) Delete(ctx context.Context, id string) (*meeting.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.SoftDelete(ctx, oid)
	if err != nil {
		return nil, &StorageError{Op: "delete meeting", Err: err}
	}
	// an already deleted meeting still matches, so repeating a delete succeeds
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}

func (s *meetingService) DeleteMany(ctx context.Context, in []string) (*meeting.UpdateResult, error) {
	oids, _, err := ids.ParseAll(in)
	if err != nil {
		return nil, invalid("ids", "Invalid meeting ID in request body")
	}
	res, err := s.repo.SoftDeleteMany(ctx, oids)
	if err != nil {
		return nil, &StorageError{Op: "delete meetings", Err: err}
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}

func (s *meetingService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func parseAttendees(field string, values []string) ([]primitive.ObjectID, error) {
	oids, _, err := ids.ParseAll(values)
	if err != nil {
		return nil, invalid(field, "Invalid attendee ID in %s array", field)
	}
	return oids, nil
}

// parseCreator treats an absent or empty createBy as not supplied.
func parseCreator(v *string) (*primitive.ObjectID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	oid, err := ids.Parse(*v)
	if err != nil {
		return nil, invalid("createBy", "Invalid createBy ID")
	}
	return &oid, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := ids.Parse(id)
	if err != nil {
		return primitive.NilObjectID, invalid("id", "Invalid meeting ID")
	}
	return oid, nil
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
