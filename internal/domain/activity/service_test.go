package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ProjectID:    "proj1",
		ActivityType: activity.TypeProjectSaved,
		Summary:      "saved",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{ProjectID: "proj1", Limit: 50}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	list, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{ProjectID: "proj1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsUnknownType(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	err := svc.LogActivity(context.Background(), &activity.ActivityEntry{ActivityType: "bogus"})
	require.ErrorIs(t, err, activity.ErrInvalidInput)

	bogus := activity.ActivityType("bogus")
	_, err = svc.GetRecentActivity(context.Background(), activity.ListActivityOptions{ActivityType: &bogus})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityService_RecordEncodesDetails(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeAssistApplied && e.Details == `{"step":2}`
	})).Return(nil)

	svc := activity.NewService(repo, nil)
	svc.Record(ctx, activity.TypeAssistApplied, "", nil, "assist", map[string]int{"step": 2})
	repo.AssertExpectations(t)
}

func TestActivityService_RecordSwallowsRepositoryFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	require.NotPanics(t, func() {
		svc.Record(ctx, activity.TypeExportWritten, "1", nil, "export", nil)
	})
}
