package teacher

import (
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
)

var (
	// errors
	ErrNotFound       = errors.New("teacher not found")
	ErrBadCredentials = errors.New("bad email or password")
)

type (
	Repository interface {
		QueryAllTeachers() ([]Teacher, error)
		GetTeacherByEmail(email string) (Teacher, error)
		UpsertTeacher(t Teacher) error
		ReplaceTeachers(teachers []Teacher) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByEmail(email string) (Teacher, error) {
	return svc.repo.GetTeacherByEmail(core.CleanString(email, true /* lower */))
}

// Authenticate verifies a login attempt. Unknown emails and bad passwords
// are indistinguishable to the caller.
func (svc *Service) Authenticate(email, pwd string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		if err == ErrNotFound {
			return Teacher{}, ErrBadCredentials
		}
		return Teacher{}, err
	}
	if !t.CheckPassword(pwd) {
		return Teacher{}, ErrBadCredentials
	}
	return t, nil
}

// AddOrUpdate upserts a staff account with a freshly hashed password. An
// empty name keeps the stored one.
func (svc *Service) AddOrUpdate(email, name, pwd string) (Teacher, error) {
	t := Teacher{
		Email: core.CleanString(email, true /* lower */),
		Name:  core.CleanString(name),
	}
	if t.Name == "" {
		if prev, err := svc.repo.GetTeacherByEmail(t.Email); err == nil {
			t.Name = prev.Name
		}
	}
	if err := t.SetPassword(pwd); err != nil {
		return Teacher{}, errors.Wrap(err, "hashing password")
	}
	if err := svc.repo.UpsertTeacher(t); err != nil {
		return Teacher{}, err
	}
	return t, nil
}

// Replace swaps the whole staff list, used by counselor CSV uploads.
func (svc *Service) Replace(teachers []Teacher) error {
	return svc.repo.ReplaceTeachers(teachers)
}
