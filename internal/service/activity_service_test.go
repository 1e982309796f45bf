package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/repository"
	"github.com/noah-isme/lab-manager-api/internal/testutil"
)

func TestActivityRecordMasksSecretsAndPaginates(t *testing.T) {
	store := repository.NewStore(testutil.OpenDB(t))
	svc := NewActivityService(store.ActivityLogs(), testValidator(), testLogger())
	ctx := context.Background()
	actor := Actor{UserID: "u1", Role: "TEACHER", ProfileID: "t1"}

	first, err := svc.Record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     "Lab.Created",
		EntityType: "Lab",
		EntityID:   "lab-1",
		Metadata:   map[string]interface{}{"contact_email": "a@b.c", "access_token": "xyz", "subject_code": "CS302"},
	})
	require.NoError(t, err)
	require.Equal(t, "lab.created", first.Action)
	require.Equal(t, "teacher", first.ActorRole)
	require.Equal(t, "t1", first.ActorID)
	require.Equal(t, "***", first.Metadata["contact_email"])
	require.Equal(t, "***", first.Metadata["access_token"])
	require.Equal(t, "CS302", first.Metadata["subject_code"])

	for i := 0; i < 4; i++ {
		_, err := svc.Record(ctx, ActivityEntry{Actor: actor, Action: "notice.created", EntityType: "notice"})
		require.NoError(t, err)
	}
	_, err = svc.Record(ctx, ActivityEntry{Actor: actor, EntityType: "notice"})
	require.Error(t, err)

	page, err := svc.ListForActor(ctx, "t1", dto.ActivityListRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.EqualValues(t, 5, page.Pagination.TotalItems)
	require.Equal(t, 3, page.Pagination.TotalPages)
}
