package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalcycle/lcastudio/internal/config"
	"github.com/metalcycle/lcastudio/internal/domain/session"
	"github.com/stretchr/testify/require"
)

func testConfig(path string) config.Config {
	cfg := config.Default()
	cfg.DB.Path = path
	cfg.Assist.Seed = 3
	cfg.Assist.StageDelay = 0
	return cfg
}

func TestNewSeedsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "lca.db")

	a, err := New(ctx, testConfig(path), nil)
	require.NoError(t, err)
	list, err := a.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.NoError(t, a.Close())

	// Reopening a populated store adds nothing.
	a, err = New(ctx, testConfig(path), nil)
	require.NoError(t, err)
	defer a.Close()
	list, err = a.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestNewWithoutSamples(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(":memory:")
	cfg.DB.SeedSamples = false

	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	ov, err := a.Projects.Overview(ctx)
	require.NoError(t, err)
	require.Zero(t, ov.TotalProjects)
}

func TestSessionsSaveThroughStore(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(":memory:"), nil)
	require.NoError(t, err)
	defer a.Close()

	sess, err := a.Sessions.Start(ctx, session.StartRequest{TemplateID: "tpl-copper"})
	require.NoError(t, err)

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = a.Sessions.Assist(runCtx, sess.ID)
	require.NoError(t, err)
	_, err = a.Sessions.Next(ctx, sess.ID)
	require.NoError(t, err)
	_, err = a.Sessions.Assist(runCtx, sess.ID)
	require.NoError(t, err)

	saved, err := a.Sessions.Submit(ctx, sess.ID)
	require.NoError(t, err)

	got, err := a.Projects.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, saved.Name, got.Name)
	require.NotNil(t, a.MCPServer())
}
