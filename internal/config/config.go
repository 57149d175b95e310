// Package config loads airpuck settings from the environment and the table
// tuning from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/ayusman/airpuck/internal/hockey"
)

type Config struct {
	// Server
	Addr      string
	StaticDir string

	// Storage
	DataDir    string
	PluginDir  string
	TuningFile string

	// Camera
	CameraID     int
	FrameWidth   int
	FrameHeight  int
	Mirror       bool
	ActiveFPS    int
	IdleFPS      int
	IdleTimeout  time.Duration
	MotionThresh float64

	// Game
	Sound    bool
	Seed     uint64
	Headless bool

	// Plugins
	HookTimeout time.Duration

	// LogRequests logs every JSON API call.
	LogRequests bool
}

// Load reads an optional .env file and then the AIRPUCK_* environment.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	dataDir := getEnv("AIRPUCK_DATA_DIR", defaultDataDir())

	return &Config{
		Addr:      getEnv("AIRPUCK_ADDR", ":8080"),
		StaticDir: getEnv("AIRPUCK_STATIC_DIR", ""),

		DataDir:    dataDir,
		PluginDir:  getEnv("AIRPUCK_PLUGIN_DIR", filepath.Join(dataDir, "plugins")),
		TuningFile: getEnv("AIRPUCK_TUNING_FILE", filepath.Join(dataDir, "tuning.toml")),

		CameraID:     getEnvInt("AIRPUCK_CAMERA_ID", 0),
		FrameWidth:   getEnvInt("AIRPUCK_FRAME_WIDTH", 1280),
		FrameHeight:  getEnvInt("AIRPUCK_FRAME_HEIGHT", 720),
		Mirror:       getEnvBool("AIRPUCK_MIRROR", true),
		ActiveFPS:    getEnvInt("AIRPUCK_ACTIVE_FPS", 30),
		IdleFPS:      getEnvInt("AIRPUCK_IDLE_FPS", 5),
		IdleTimeout:  getEnvDuration("AIRPUCK_IDLE_TIMEOUT", 5*time.Second),
		MotionThresh: getEnvFloat("AIRPUCK_MOTION_THRESHOLD", 1.0),

		Sound:    getEnvBool("AIRPUCK_SOUND", true),
		Seed:     uint64(getEnvInt("AIRPUCK_SEED", 0)),
		Headless: getEnvBool("AIRPUCK_HEADLESS", false),

		HookTimeout: getEnvDuration("AIRPUCK_HOOK_TIMEOUT", 5*time.Second),
		LogRequests: getEnvBool("AIRPUCK_LOG_REQUESTS", false),
	}
}

// DBPath returns the location of the match history database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "airpuck.db")
}

// LoadTuning reads a table tuning file over the defaults. A missing file
// is not an error.
func LoadTuning(path string) (hockey.Table, error) {
	t := hockey.DefaultTable()
	if path == "" {
		return t, nil
	}

	if _, err := toml.DecodeFile(path, &t); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return hockey.DefaultTable(), nil
		}
		return t, fmt.Errorf("failed to decode tuning %s: %w", path, err)
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// SaveTuning writes t to path, creating parent directories as needed. An
// invalid table is not written.
func SaveTuning(path string, t hockey.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create tuning directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create tuning file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(t); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode tuning: %w", err)
	}
	return f.Close()
}

// EnsureTuning loads the tuning at path. When no file exists yet the
// defaults are written there first, so players have a file to edit.
func EnsureTuning(path string) (hockey.Table, error) {
	if path == "" {
		return hockey.DefaultTable(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := SaveTuning(path, hockey.DefaultTable()); err != nil {
			return hockey.DefaultTable(), err
		}
		log.Printf("[config] wrote default tuning to %s", path)
	}
	return LoadTuning(path)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".airpuck"
	}
	return filepath.Join(home, ".airpuck")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
