package csvstore

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/settings"
)

type settingsRepository struct {
	store *Store
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(store *Store) *settingsRepository {
	return &settingsRepository{store: store}
}

func (repo *settingsRepository) LoadSettings() (settings.Settings, error) {
	repo.store.settingsMu.Lock()
	defer repo.store.settingsMu.Unlock()

	raw, err := os.ReadFile(repo.store.settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings.Defaults(), nil
		}
		return settings.Settings{}, errors.Wrap(err, "reading settings")
	}

	var doc settings.Settings
	if err := json.Unmarshal(raw, &doc); err != nil {
		return settings.Settings{}, errors.Wrap(err, "decoding settings")
	}
	return doc, nil
}

func (repo *settingsRepository) SaveSettings(s settings.Settings) error {
	repo.store.settingsMu.Lock()
	defer repo.store.settingsMu.Unlock()

	doc, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	return replaceFile(repo.store.settingsPath, doc)
}
