package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectSaved,
		Summary:      "Saved project",
		Details:      `{"status":"draft"}`,
	}
	entry2 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectDuplicated,
		Summary:      "Duplicated project",
		Details:      `{"source_id":"1"}`,
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.False(t, entry1.CreatedAt.IsZero())

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	formID := "f1"
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		FormID:       &formID,
		ActivityType: activity.TypeAssistApplied,
		Summary:      "Assist filled 3 field(s) on step 1",
		Details:      "{}",
	}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ProjectID:    "p2",
		ActivityType: activity.TypeExportWritten,
		Summary:      "Exported",
		Details:      "{}",
	}))

	assistType := activity.TypeAssistApplied
	entries, err := repo.List(ctx, activity.ListActivityOptions{FormID: &formID, ActivityType: &assistType})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].FormID)
	require.Equal(t, "f1", *entries[0].FormID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "p2"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Nil(t, entries[0].FormID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "none"})
	require.NoError(t, err)
	require.Empty(t, entries)
}
