package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Paths     PathsConfig
	FFmpeg    FFmpegConfig
	Detector  DetectorConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Host string
	Port int
	// MaxUploadBytes caps the size of a single video upload.
	MaxUploadBytes int64
}

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	URL string
}

func (c DatabaseConfig) ConnectionString() string { return c.URL }

type RedisConfig struct {
	Addr     string
	CacheTTL time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type PathsConfig struct {
	Data   string
	Videos string
	Slides string
	// Inbox is watched for dropped video files; anything that lands there
	// is ingested and scanned automatically.
	Inbox string
}

type FFmpegConfig struct {
	FFprobePath string
}

// DetectorConfig carries the slide-detection thresholds that can be tuned
// per deployment; see internal/detector.DefaultConfig for the rest.
type DetectorConfig struct {
	MinSceneDuration float64
	MinAreaRatio     float64
	ResizeWidth      int
}

type RetentionConfig struct {
	// MaxAge is how long uploaded videos are kept. Zero disables the sweep.
	MaxAge time.Duration
	// Schedule is a cron expression for the retention sweep.
	Schedule string
}

func Load() *Config {
	dataDir := env("DATA_DIR", "/data")
	return &Config{
		Server: ServerConfig{
			Host:           env("HOST", "0.0.0.0"),
			Port:           envInt("PORT", 8080),
			MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 4<<30),
		},
		Database: DatabaseConfig{
			URL: env("DATABASE_URL", "postgres://slidescope:slidescope@db:5432/slidescope?sslmode=disable"),
		},
		Redis: RedisConfig{
			Addr:     env("REDIS_ADDR", "redis:6379"),
			CacheTTL: envDuration("CACHE_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			Secret:    env("JWT_SECRET", "change-me-in-production"),
			ExpiresIn: envDuration("JWT_EXPIRES_IN", 24*time.Hour),
		},
		Paths: PathsConfig{
			Data:   dataDir,
			Videos: filepath.Join(dataDir, "videos"),
			Slides: filepath.Join(dataDir, "slides"),
			Inbox:  env("INBOX_DIR", filepath.Join(dataDir, "inbox")),
		},
		FFmpeg: FFmpegConfig{
			FFprobePath: env("FFPROBE_PATH", "ffprobe"),
		},
		Detector: DetectorConfig{
			MinSceneDuration: envFloat("MIN_SCENE_DURATION", 2.0),
			MinAreaRatio:     envFloat("MIN_AREA_RATIO", 0.20),
			ResizeWidth:      envInt("RESIZE_WIDTH", 1280),
		},
		Retention: RetentionConfig{
			MaxAge:   envDuration("RETENTION_MAX_AGE", 0),
			Schedule: env("RETENTION_SCHEDULE", "@hourly"),
		},
	}
}

// MergeFromDB overlays stored settings on top of the env config. Malformed
// values are logged and skipped; the env value stays in effect.
func (c *Config) MergeFromDB(db *sql.DB) {
	rows, err := db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		log.Printf("config: settings overlay unavailable: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "min_scene_duration":
			if v, err := cast.ToFloat64E(value); err == nil && v > 0 {
				c.Detector.MinSceneDuration = v
			}
		case "min_area_ratio":
			if v, err := cast.ToFloat64E(value); err == nil && v > 0 {
				c.Detector.MinAreaRatio = v
			}
		case "resize_width":
			if v, err := cast.ToIntE(value); err == nil && v > 0 {
				c.Detector.ResizeWidth = v
			}
		case "retention_max_age":
			if v, err := cast.ToDurationE(value); err == nil && v >= 0 {
				c.Retention.MaxAge = v
			}
		case "retention_schedule":
			if value != "" {
				c.Retention.Schedule = value
			}
		default:
			log.Printf("config: ignoring unknown setting %q", key)
		}
	}
}

// EnsureDirs creates the data directories if they do not exist.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.Data, c.Paths.Videos, c.Paths.Slides, c.Paths.Inbox} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := cast.ToInt64E(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := cast.ToFloat64E(v); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := cast.ToDurationE(v); err == nil {
			return d
		}
	}
	return fallback
}
