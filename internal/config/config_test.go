package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LCA_CONFIG_PATH", "LCA_DB_PATH", "LCA_LOG_LEVEL", "LCA_ASSIST_SEED",
		"LCA_ASSIST_STAGE_DELAY", "LCA_EXPORT_DIR", "LCA_SEED_SAMPLES",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	// Keep a stray .env in the package directory out of the picture.
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, ":memory:", cfg.DB.Path)
	require.Equal(t, 600*time.Millisecond, cfg.Assist.StageDelay)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "lca.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  path: /tmp/from-file.db
  seed_samples: false
log:
  level: debug
assist:
  seed: 7
  stage_delay: 50ms
`), 0o644))
	t.Setenv("LCA_CONFIG_PATH", path)
	t.Setenv("LCA_DB_PATH", "/tmp/from-env.db")
	t.Setenv("LCA_EXPORT_DIR", "/tmp/out")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-env.db", cfg.DB.Path)
	require.False(t, cfg.DB.SeedSamples)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel())
	require.Equal(t, uint64(7), cfg.Assist.Seed)
	require.Equal(t, 50*time.Millisecond, cfg.Assist.StageDelay)
	require.Equal(t, "/tmp/out", cfg.Export.Dir)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("LCA_ASSIST_SEED=42\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, uint64(42), cfg.Assist.Seed)
}

func TestLoadInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LCA_ASSIST_SEED":        "minus-one",
		"LCA_ASSIST_STAGE_DELAY": "soon",
		"LCA_SEED_SAMPLES":       "maybe",
		"LCA_LOG_LEVEL":          "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)

	_, err = ParseLogLevel("verbose")
	require.Error(t, err)
}
