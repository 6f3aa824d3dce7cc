package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/crmhub/crmhub/backend/go-services/internal/meeting"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/repository"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/service"
	"github.com/crmhub/crmhub/backend/go-services/internal/models"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, svc service.Service, args ...string) (string, error) {
	t.Helper()
	closed := false
	cmd := newRootCmd(func(ctx context.Context, uri string) (service.Service, func(), error) {
		return svc, func() { closed = true }, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	require.True(t, closed, "store should be closed after the command")
	return out.String(), err
}

func seeded(t *testing.T) (service.Service, string, string) {
	repo := repository.NewMemoryRepo()
	u := repo.PutUser(models.User{Username: "alice", Deleted: new(bool)})
	svc := service.New(repo)
	creator := u.ID.Hex()
	agenda := "kickoff"
	m, err := svc.Create(context.Background(), meeting.Input{Agenda: &agenda, CreateBy: &creator})
	require.NoError(t, err)
	return svc, m.ID.Hex(), creator
}

func TestListAndView(t *testing.T) {
	svc, id, creator := seeded(t)

	out, err := run(t, svc, "list", "--created-by", creator)
	require.NoError(t, err)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	require.Equal(t, "alice", list[0]["createdByName"])

	out, err = run(t, svc, "view", id)
	require.NoError(t, err)
	require.Contains(t, out, "kickoff")
}

func TestListRejectsMalformedFilter(t *testing.T) {
	cmd := newRootCmd(func(ctx context.Context, uri string) (service.Service, func(), error) {
		t.Fatal("store should not be opened for a malformed filter")
		return nil, nil, nil
	})
	cmd.SetArgs([]string{"list", "--filter", "nokey"})
	require.Error(t, cmd.Execute())
}

func TestDeleteCommands(t *testing.T) {
	svc, id, _ := seeded(t)

	out, err := run(t, svc, "delete", id)
	require.NoError(t, err)
	require.Contains(t, out, "matched=1 modified=1")

	// already deleted: nothing left to modify
	_, err = run(t, svc, "delete-many", id)
	require.ErrorIs(t, err, service.ErrNotFound)
}
