package settings

import "github.com/pkg/errors"

type (
	Repository interface {
		LoadSettings() (Settings, error)
		SaveSettings(s Settings) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get loads the settings document, persisting backfilled defaults when the
// stored copy is missing maps (light migration).
func (svc *Service) Get() (Settings, error) {
	s, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	if s.normalize() {
		if err := svc.repo.SaveSettings(s); err != nil {
			return Settings{}, errors.Wrap(err, "migrating settings")
		}
	}
	return s, nil
}

// Update merges the partial update into the stored document.
func (svc *Service) Update(up UpdateSettings) (Settings, error) {
	s, err := svc.Get()
	if err != nil {
		return Settings{}, err
	}
	for grade, open := range up.GradeSubmissionLock {
		s.GradeSubmissionLock[grade] = open
	}
	for subject, color := range up.SubjectColors {
		s.SubjectColors[subject] = color
	}
	if err := svc.repo.SaveSettings(s); err != nil {
		return Settings{}, errors.Wrap(err, "saving settings")
	}
	return s, nil
}

// CanSubmit reports whether students of the given grade may save schedules.
// Grades absent from the lock map default to open.
func (svc *Service) CanSubmit(grade string) (bool, error) {
	s, err := svc.Get()
	if err != nil {
		return false, err
	}
	open, ok := s.GradeSubmissionLock[grade]
	if !ok {
		return true, nil
	}
	return open, nil
}
