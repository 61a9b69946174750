package student

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
)

type (
	Repository interface {
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		CreateStudent(stu Student) (Student, error)
		DeleteStudentByID(id string) error
		ReplaceStudents(students []Student) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(core.CleanString(id))
}

// Search matches students by a case-insensitive name fragment. Queries
// shorter than 2 characters return nothing, so the lookup widget cannot
// enumerate the roster.
func (svc *Service) Search(q string) ([]Student, error) {
	q = core.CleanString(q, true /* lower */)
	if len(q) < 2 {
		return []Student{}, nil
	}
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	out := make([]Student, 0)
	for _, stu := range students {
		if strings.Contains(strings.ToLower(stu.Name), q) {
			out = append(out, stu)
		}
	}
	return out, nil
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	return svc.repo.CreateStudent(ns.student())
}

// Delete removes the roster row only. The student's schedule and approval
// rows cascade at the orchestration layer.
func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteStudentByID(core.CleanString(id))
}

// Replace swaps the whole roster, used by counselor CSV uploads.
func (svc *Service) Replace(students []Student) error {
	return svc.repo.ReplaceStudents(students)
}
