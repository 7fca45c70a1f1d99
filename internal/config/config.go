package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries the runtime settings for a game process. Flags override
// environment values; the env layer exists so the binary is configurable
// without arguments.
type Config struct {
	// SavePath is the SQLite save file location.
	SavePath string
	// ObserveAddr enables the read-only HTTP observer when non-empty.
	ObserveAddr string
	// FPS is the frame rate of the play loop.
	FPS int
	// Seed fixes the random source; 0 means seed from the clock.
	Seed int64
	// LogPath receives structured logs. The terminal belongs to the game
	// while it runs, so logs go to a file (or nowhere when empty).
	LogPath string
}

func LoadFromEnv() Config {
	return Config{
		SavePath:    envDefault("CHARTSURFER_SAVE_PATH", ""),
		ObserveAddr: envDefault("CHARTSURFER_OBSERVE_ADDR", ""),
		FPS:         envIntDefault("CHARTSURFER_FPS", 60),
		Seed:        envInt64Default("CHARTSURFER_SEED", 0),
		LogPath:     envDefault("CHARTSURFER_LOG_PATH", ""),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
