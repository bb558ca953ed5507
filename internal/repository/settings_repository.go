package repository

import (
	"database/sql"
	"fmt"

	"github.com/slidescope/slidescope/internal/models"
)

// Tunable setting keys. Values merge over the env config at startup.
const (
	SettingMinSceneDuration = "min_scene_duration"
	SettingMinAreaRatio     = "min_area_ratio"
	SettingResizeWidth      = "resize_width"
	SettingRetentionMaxAge  = "retention_max_age"
	SettingRetentionCron    = "retention_schedule"
)

var knownSettings = map[string]bool{
	SettingMinSceneDuration: true,
	SettingMinAreaRatio:     true,
	SettingResizeWidth:      true,
	SettingRetentionMaxAge:  true,
	SettingRetentionCron:    true,
}

// IsKnownSetting reports whether key is an accepted settings key.
func IsKnownSetting(key string) bool {
	return knownSettings[key]
}

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored value, or ("", nil) when the key is unset.
func (r *SettingsRepository) Get(key string) (string, error) {
	var val string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = $1`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return val, nil
}

func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepository) GetAll() ([]models.Setting, error) {
	rows, err := r.db.Query(`SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = $1`, key)
	return err
}
