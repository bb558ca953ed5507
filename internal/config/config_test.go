package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 2.0, cfg.Detector.MinSceneDuration)
	assert.Equal(t, 0.20, cfg.Detector.MinAreaRatio)
	assert.Equal(t, 1280, cfg.Detector.ResizeWidth)
	assert.Equal(t, "/data/videos", cfg.Paths.Videos)
	assert.Equal(t, "/data/slides", cfg.Paths.Slides)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, "@hourly", cfg.Retention.Schedule)
	assert.Zero(t, cfg.Retention.MaxAge)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_DIR", "/srv/slidescope")
	t.Setenv("MIN_AREA_RATIO", "0.35")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("RETENTION_MAX_AGE", "72h")

	cfg := Load()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/srv/slidescope/videos", cfg.Paths.Videos)
	assert.Equal(t, 0.35, cfg.Detector.MinAreaRatio)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, 72*time.Hour, cfg.Retention.MaxAge)
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("MIN_SCENE_DURATION", "soon")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2.0, cfg.Detector.MinSceneDuration)
}
