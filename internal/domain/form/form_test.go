package form_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/form"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func clock() time.Time {
	return time.Date(2025, 10, 2, 8, 0, 0, 0, time.UTC)
}

func newForm(t *testing.T, seed *project.Project, saver form.Saver) *form.Form {
	t.Helper()
	return form.New(seed, saver, form.Options{
		Engine: assist.NewSeededEngine(11),
		Now:    clock,
	})
}

func TestValidateStep1(t *testing.T) {
	cases := []struct {
		name, unit string
		pass       bool
	}{
		{"", "", false},
		{"  ", "1 km", false},
		{"Cable", " ", false},
		{"Cable", "1 km", true},
	}
	for _, tc := range cases {
		p := project.Blank()
		p.Name = tc.name
		p.FunctionalUnit = tc.unit
		require.Equal(t, tc.pass, form.ValidateStep(1, p).Passed, "%q/%q", tc.name, tc.unit)
	}
}

func TestValidateStep2Strict(t *testing.T) {
	p := project.Blank()
	p.Name = "Test"
	p.FunctionalUnit = "1 tonne"

	r := form.ValidateStep(2, p)
	require.False(t, r.Passed)
	require.Equal(t, []string{"Metals (add at least one)"}, r.Fields)
	require.ErrorIs(t, r.Err(), form.ErrStepIncomplete)

	p.Metals = []project.MetalEntry{{ID: "metal-1", Type: "Copper"}, {ID: "metal-2", Quantity: project.Float(2)}}
	r = form.ValidateStep(2, p)
	require.Equal(t, []string{"Metal 1 quantity", "Metal 2 name"}, r.Fields)

	p.Metals[0].Quantity = project.Float(5)
	p.Metals[1].Type = "Zinc"
	require.True(t, form.ValidateStep(2, p).Passed)
	require.NoError(t, form.ValidateStep(2, p).Err())
}

func TestValidateStep3And4AlwaysPass(t *testing.T) {
	require.True(t, form.ValidateStep(3, project.Blank()).Passed)
	require.True(t, form.ValidateStep(4, project.Blank()).Passed)
	require.False(t, form.ValidateStep(5, project.Blank()).Passed)
}

func TestNextOnEmptyProjectFails(t *testing.T) {
	f := newForm(t, nil, nil)
	out, err := f.Next(context.Background())
	require.Equal(t, 1, out.Step)

	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, []string{"Project Name", "Functional Unit"}, verr.Fields)
	require.Equal(t, []string{"Project Name", "Functional Unit"}, f.Errors())
	require.Equal(t, 1, f.Step())
}

func TestNavigation(t *testing.T) {
	ctx := context.Background()
	f := newForm(t, nil, nil)

	require.Equal(t, 1, f.Prev())
	require.ErrorIs(t, f.JumpTo(3), form.ErrStepLocked)

	require.NoError(t, f.SetField("name", "Cable"))
	require.NoError(t, f.SetField("functionalUnit", "1 km"))
	out, err := f.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, out.Step)
	require.Empty(t, f.Errors())

	_, err = f.Next(ctx)
	require.ErrorIs(t, err, form.ErrStepIncomplete)

	id := f.AddMetal("Copper")
	_, err = f.UpdateMetal(project.MetalPatch{ID: id, Quantity: project.Float(5)})
	require.NoError(t, err)
	out, err = f.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, out.Step)

	require.Equal(t, 2, f.Prev())
	require.NoError(t, f.JumpTo(3))
	require.ErrorIs(t, f.JumpTo(4), form.ErrStepLocked)
	require.NoError(t, f.JumpTo(1))
	require.Equal(t, 1, f.Step())
	require.NoError(t, f.JumpTo(3), "previously validated step stays reachable")
	require.Equal(t, 3, f.Reached())
}

func TestUpdateRejectsOutOfRange(t *testing.T) {
	f := newForm(t, nil, nil)
	err := f.Update(project.Patch{TargetRecycled: project.Float(150)})

	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	require.ErrorIs(t, err, form.ErrInvalidValue)
	require.Equal(t, []string{"Target Recycled Content"}, verr.Fields)
	require.Nil(t, f.Project().TargetRecycled)

	require.ErrorIs(t, f.SetField("timeHorizon", "forever"), project.ErrInvalidInput)
	require.ErrorIs(t, f.Update(project.Patch{Status: statusPtr("archived")}), form.ErrInvalidValue)
}

func statusPtr(s string) *project.Status {
	st := project.Status(s)
	return &st
}

func completeSeed() project.Project {
	p := project.Blank()
	p.Name = "Cable"
	p.FunctionalUnit = "1 km"
	p.Metals = []project.MetalEntry{{ID: "metal-1", Type: "Copper", Quantity: project.Float(1)}}
	return p
}

func TestSubmitStampsNewRecord(t *testing.T) {
	ctx := context.Background()
	saver := &mocks.Saver{}
	var got project.Project
	saver.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(project.Project)
	}).Return(&project.Project{ID: "new-id", Created: "2025-10-02", Updated: "2025-10-02"}, nil)

	seed := completeSeed()
	f := newForm(t, &seed, saver)
	saved, err := f.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, "new-id", saved.ID)
	require.Equal(t, "2025-10-02", got.Created)
	require.Equal(t, got.Created, got.Updated)
	require.Empty(t, got.ID)

	require.Equal(t, "new-id", f.Project().ID, "later submits update the same record")
	require.Equal(t, 1, f.Step(), "submit does not reset the form")
}

func TestSubmitKeepsExistingCreated(t *testing.T) {
	ctx := context.Background()
	seed := completeSeed()
	seed.ID = "p1"
	seed.Created = "2025-01-01"

	saver := &mocks.Saver{}
	var got project.Project
	saver.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(project.Project)
	}).Return(&project.Project{ID: "p1", Created: "2025-01-01", Updated: "2025-10-02"}, nil)

	f := newForm(t, &seed, saver)
	_, err := f.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, "2025-01-01", got.Created)
	require.Equal(t, "2025-10-02", got.Updated)
}

func TestSubmitFailureLeavesFormEditable(t *testing.T) {
	ctx := context.Background()
	saver := &mocks.Saver{}
	saver.On("Save", ctx, mock.Anything).Return(nil, project.ErrInvalidInput)

	seed := completeSeed()
	f := newForm(t, &seed, saver)
	_, err := f.Submit(ctx)
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.Empty(t, f.Project().ID)
	require.Empty(t, f.Project().Updated)
	require.NoError(t, f.SetField("name", "still editable"))

	_, err = newForm(t, nil, nil).Submit(ctx)
	require.ErrorIs(t, err, form.ErrNoSaver)
}

func TestNextOnReviewSubmits(t *testing.T) {
	ctx := context.Background()
	seed := completeSeed()

	saver := &mocks.Saver{}
	saver.On("Save", ctx, mock.Anything).Return(&project.Project{ID: "x"}, nil).Once()

	f := newForm(t, &seed, saver)
	for i := 0; i < 3; i++ {
		_, err := f.Next(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 4, f.Step())

	out, err := f.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, out.Submitted)
	require.Equal(t, "x", out.Submitted.ID)
	saver.AssertExpectations(t)
}

func TestSubmitRechecksEarlierSteps(t *testing.T) {
	ctx := context.Background()
	seed := completeSeed()
	saver := &mocks.Saver{}

	f := newForm(t, &seed, saver)
	for i := 0; i < 3; i++ {
		_, err := f.Next(ctx)
		require.NoError(t, err)
	}
	require.NoError(t, f.JumpTo(2))
	_, err := f.UpdateMetal(project.MetalPatch{ID: "metal-1", Type: project.String("")})
	require.NoError(t, err)
	require.NoError(t, f.JumpTo(4))

	out, err := f.Next(ctx)
	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	require.ErrorIs(t, err, form.ErrStepIncomplete)
	require.Equal(t, 2, verr.Step)
	require.Equal(t, []string{"Metal 1 name"}, verr.Fields)
	require.Nil(t, out.Submitted)
	require.Equal(t, 2, out.Step)
	require.Equal(t, 2, f.Step())
	require.Equal(t, []string{"Metal 1 name"}, f.Errors())
	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmitFromFirstStepNeedsDetails(t *testing.T) {
	saver := &mocks.Saver{}
	f := newForm(t, nil, saver)
	_, err := f.Submit(context.Background())
	require.ErrorIs(t, err, form.ErrStepIncomplete)
	require.Equal(t, 1, f.Step())
	require.Equal(t, []string{"Project Name", "Functional Unit"}, f.Errors())

	require.NoError(t, f.SetField("name", "Cable"))
	require.NoError(t, f.SetField("functionalUnit", "1 km"))
	_, err = f.Submit(context.Background())
	require.ErrorIs(t, err, form.ErrStepIncomplete)
	require.Equal(t, 2, f.Step())
	require.Equal(t, []string{"Metals (add at least one)"}, f.Errors())
	saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSetFieldRejectsInfinity(t *testing.T) {
	f := newForm(t, nil, nil)
	require.ErrorIs(t, f.SetField("carbonBudget", "Inf"), project.ErrInvalidInput)
	require.ErrorIs(t, f.SetField("targetRecycled", "NaN"), project.ErrInvalidInput)
	require.Nil(t, f.Project().CarbonBudget)
	require.Nil(t, f.Project().TargetRecycled)
}

func TestSeedIsCopied(t *testing.T) {
	seed := project.Samples()[0]
	f := newForm(t, &seed, nil)
	require.NoError(t, f.SetField("name", "Changed"))
	require.Equal(t, "Green Copper Initiative", seed.Name)

	p := f.Project()
	p.Metals[0].Type = "Gold"
	require.Equal(t, "Copper", f.Project().Metals[0].Type)
}

func TestAssistNothingToDo(t *testing.T) {
	seed := project.Blank()
	seed.Name = "Cable"
	seed.FunctionalUnit = "1 km"
	f := newForm(t, &seed, nil)

	res, err := f.Assist(context.Background())
	require.NoError(t, err)
	require.True(t, res.NothingToDo)
	msg, ok := f.Notifier().Current()
	require.True(t, ok)
	require.Equal(t, assist.MsgNothingToDo, msg)
}

func TestAssistFillsStep1(t *testing.T) {
	f := newForm(t, nil, nil)
	res, err := f.Assist(context.Background())
	require.NoError(t, err)
	require.False(t, res.NothingToDo)
	require.Equal(t, []string{"Project Name", "Functional Unit"}, res.Missing)

	p := f.Project()
	require.NotEmpty(t, p.Name)
	require.NotEmpty(t, p.FunctionalUnit)
	require.NotEmpty(t, p.Description)
	require.True(t, form.ValidateStep(1, p).Passed)

	msg, ok := f.Notifier().Current()
	require.True(t, ok)
	require.Equal(t, assist.MsgDone, msg)

	f.Notifier().Close()
	require.Equal(t, p, f.Project(), "closing the notifier keeps the applied values")
}

func TestAssistStep2AddsCollapsedStubs(t *testing.T) {
	ctx := context.Background()
	seed := project.Blank()
	seed.Name = "Cable"
	seed.FunctionalUnit = "1 km"
	f := newForm(t, &seed, nil)
	_, err := f.Next(ctx)
	require.NoError(t, err)

	res, err := f.Assist(ctx)
	require.NoError(t, err)
	p := f.Project()
	require.NotEmpty(t, p.Metals)
	require.LessOrEqual(t, len(p.Metals), 2)
	require.Len(t, res.Patch.NewMetals, len(p.Metals))
	for _, m := range p.Metals {
		require.NotEmpty(t, m.ID)
		require.NotEmpty(t, m.Type)
		require.NotEmpty(t, m.LifecycleStages)
		require.False(t, f.Expanded(m.ID))
	}
	require.True(t, form.ValidateStep(2, p).Passed)
}

func TestAssistCancelledBeforeMerge(t *testing.T) {
	f := form.New(nil, nil, form.Options{StageDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Assist(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, f.Project().Name)
	_, visible := f.Notifier().Current()
	require.False(t, visible)
}

func TestReview(t *testing.T) {
	seed := project.Blank()
	seed.Name = "Test"
	seed.Metals = []project.MetalEntry{{ID: "metal-1", Type: "Copper"}}
	f := newForm(t, &seed, nil)

	r := f.Review()
	require.Equal(t, "Test", r.Project.Name)
	require.Equal(t, 600, r.Metrics.EstimatedEmissions)
}

func TestAssistFollowsNavigationDuringStages(t *testing.T) {
	ctx := context.Background()
	seed := project.Blank()
	seed.Name = "Cable"
	seed.FunctionalUnit = "1 km"
	f := form.New(&seed, nil, form.Options{
		Engine:     assist.NewSeededEngine(11),
		Now:        clock,
		StageDelay: 50 * time.Millisecond,
	})
	_, err := f.Next(ctx)
	require.NoError(t, err)

	done := make(chan form.AssistResult, 1)
	go func() {
		res, _ := f.Assist(ctx)
		done <- res
	}()
	require.Eventually(t, func() bool {
		_, ok := f.Notifier().Current()
		return ok
	}, time.Second, time.Millisecond)
	require.Equal(t, 1, f.Prev())

	res := <-done
	require.Equal(t, 1, res.Step)
	require.True(t, res.NothingToDo)
	require.Empty(t, f.Project().Metals, "metals are not filled from the details step")
}
