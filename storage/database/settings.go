package database

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/settings"
)

type settingsRepository struct {
	db *sqlx.DB
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(db *sqlx.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) LoadSettings() (settings.Settings, error) {
	var raw []byte
	err := repo.db.Get(&raw, `SELECT doc FROM settings WHERE id = 1`)
	if err == sql.ErrNoRows {
		return settings.Defaults(), nil
	} else if err != nil {
		return settings.Settings{}, err
	}

	var doc settings.Settings
	if err := json.Unmarshal(raw, &doc); err != nil {
		return settings.Settings{}, errors.Wrap(err, "decoding settings")
	}
	return doc, nil
}

func (repo *settingsRepository) SaveSettings(s settings.Settings) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	_, err = repo.db.Exec(
		`INSERT INTO settings (id, doc) VALUES (1, $1) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		doc,
	)
	return err
}
