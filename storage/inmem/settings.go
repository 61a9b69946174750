package inmemdb

import (
	"github.com/arcacademy/courseflow/core/settings"
)

type settingsRepository struct {
	db *settingsTable
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) LoadSettings() (settings.Settings, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	// nil maps stay nil so the service can tell "never saved" from empty
	var doc settings.Settings
	if repo.db.doc.GradeSubmissionLock != nil {
		doc.GradeSubmissionLock = make(map[string]bool, len(repo.db.doc.GradeSubmissionLock))
		for k, v := range repo.db.doc.GradeSubmissionLock {
			doc.GradeSubmissionLock[k] = v
		}
	}
	if repo.db.doc.SubjectColors != nil {
		doc.SubjectColors = make(map[string]string, len(repo.db.doc.SubjectColors))
		for k, v := range repo.db.doc.SubjectColors {
			doc.SubjectColors[k] = v
		}
	}
	return doc, nil
}

func (repo *settingsRepository) SaveSettings(s settings.Settings) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.doc = s
	return nil
}
