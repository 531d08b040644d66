package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Assist AssistConfig `yaml:"assist"`
	Export ExportConfig `yaml:"export"`
}

type DBConfig struct {
	Path string `yaml:"path"`
	// SeedSamples loads the sample projects into an empty store.
	SeedSamples bool `yaml:"seed_samples"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AssistConfig struct {
	// Seed fixes the assist's random source. Zero seeds from the clock.
	Seed       uint64        `yaml:"seed"`
	StageDelay time.Duration `yaml:"stage_delay"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DB: DBConfig{
			Path:        ":memory:",
			SeedSamples: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Assist: AssistConfig{
			StageDelay: 600 * time.Millisecond,
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// Load reads configuration from the file named by LCA_CONFIG_PATH, an
// optional .env file and environment variables.
func Load() (Config, error) {
	return LoadFile(os.Getenv("LCA_CONFIG_PATH"))
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// Variables already set in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if dbPath := os.Getenv("LCA_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("LCA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if seedStr := os.Getenv("LCA_ASSIST_SEED"); seedStr != "" {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid LCA_ASSIST_SEED: %w", err)
		}
		cfg.Assist.Seed = seed
	}
	if delayStr := os.Getenv("LCA_ASSIST_STAGE_DELAY"); delayStr != "" {
		delay, err := time.ParseDuration(delayStr)
		if err != nil {
			return fmt.Errorf("invalid LCA_ASSIST_STAGE_DELAY: %w", err)
		}
		cfg.Assist.StageDelay = delay
	}
	if dir := os.Getenv("LCA_EXPORT_DIR"); dir != "" {
		cfg.Export.Dir = dir
	}
	if seedStr := os.Getenv("LCA_SEED_SAMPLES"); seedStr != "" {
		seed, err := strconv.ParseBool(seedStr)
		if err != nil {
			return fmt.Errorf("invalid LCA_SEED_SAMPLES: %w", err)
		}
		cfg.DB.SeedSamples = seed
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return errors.New("db.path is required")
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Assist.StageDelay < 0 {
		return fmt.Errorf("assist.stage_delay must not be negative: %s", c.Assist.StageDelay)
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c Config) LogLevel() slog.Level {
	level, _ := ParseLogLevel(c.Log.Level)
	return level
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
