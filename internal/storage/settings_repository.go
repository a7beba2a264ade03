package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/rewardtracker/bot/internal/domain"
)

// SettingsRepository handles system settings storage
type SettingsRepository struct {
	queue *DBQueue
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(queue *DBQueue) *SettingsRepository {
	return &SettingsRepository{queue: queue}
}

// GetSetting retrieves one setting value. Unknown keys return an empty
// string.
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string

	err := r.queue.Execute(func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			`SELECT value FROM system_settings WHERE key = ?`, key,
		).Scan(&value)
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	})

	if err != nil {
		return "", err
	}

	return value, nil
}

// SetSetting stores or replaces one setting
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	return r.queue.Execute(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO system_settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, time.Now(),
		)
		return err
	})
}

// GetAllSettings retrieves every setting ordered by key
func (r *SettingsRepository) GetAllSettings(ctx context.Context) ([]*domain.SystemSetting, error) {
	var settings []*domain.SystemSetting

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT key, value, updated_at FROM system_settings ORDER BY key ASC`,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var setting domain.SystemSetting
			if err := rows.Scan(&setting.Key, &setting.Value, &setting.UpdatedAt); err != nil {
				return err
			}
			settings = append(settings, &setting)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return settings, nil
}
