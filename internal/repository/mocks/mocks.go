package mocks

import (
	"context"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Save(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, limit int) ([]project.Project, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Saver is a mock for form.Saver.
type Saver struct {
	mock.Mock
}

func (m *Saver) Save(ctx context.Context, proj project.Project) (*project.Project, error) {
	args := m.Called(ctx, proj)
	if saved, ok := args.Get(0).(*project.Project); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectStore is a mock for session.ProjectStore.
type ProjectStore struct {
	mock.Mock
}

func (m *ProjectStore) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Duplicate(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Save(ctx context.Context, proj project.Project) (*project.Project, error) {
	args := m.Called(ctx, proj)
	if saved, ok := args.Get(0).(*project.Project); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRecorder is a mock for session.ActivityRecorder.
type ActivityRecorder struct {
	mock.Mock
}

func (m *ActivityRecorder) Record(ctx context.Context, typ activity.ActivityType, projectID string, formID *string, summary string, details any) {
	m.Called(ctx, typ, projectID, formID, summary, details)
}
