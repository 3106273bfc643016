package store

import (
	"database/sql"
	"fmt"
)

// Keys a household may set through the API. Anything else is rejected at the
// handler.
var SettingKeys = map[string]bool{
	"theme_mode":    true, // system | light | dark
	"theme_name":    true, // violet | blue | emerald | rose | amber
	"reward_system": true, // leaderboard | shop
}

var defaultSettings = map[string]string{
	"theme_mode":    "system",
	"theme_name":    "violet",
	"reward_system": "leaderboard",
}

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetAll returns a household's settings with defaults filled in for any key
// never written.
func (s *SettingsStore) GetAll(householdID int64) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM settings WHERE household_id = ?`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string, len(defaultSettings))
	for k, v := range defaultSettings {
		settings[k] = v
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Get(householdID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM settings WHERE household_id = ? AND key = ?`,
		householdID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		if v, ok := defaultSettings[key]; ok {
			return v, nil
		}
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(householdID int64, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (household_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(household_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		householdID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
