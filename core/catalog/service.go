package catalog

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("a course with this code already exists")
)

type (
	Repository interface {
		QueryAllCourses() ([]Course, error)
		GetCourseByCode(code string) (Course, error)
		CreateCourse(crs Course) (Course, error)
		UpdateCourse(crs Course) (Course, error)
		DeleteCourseByCode(code string) error
		ReplaceCourses(courses []Course) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByCode(code string) (Course, error) {
	return svc.repo.GetCourseByCode(core.CleanString(code))
}

// CodeMap indexes the whole catalog by course code. Courses persisted with
// an empty code are unreachable and skipped.
func (svc *Service) CodeMap() (map[string]Course, error) {
	courses, err := svc.repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	m := make(map[string]Course, len(courses))
	for _, crs := range courses {
		if crs.Code != "" {
			m[crs.Code] = crs
		}
	}
	return m, nil
}

func (svc *Service) Filter(filter QueryFilter) ([]Course, error) {
	filter.Clean()
	courses, err := svc.repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}

	out := make([]Course, 0, len(courses))
	for _, crs := range courses {
		if !matchesGrade(crs, filter.Grade) {
			continue
		}
		if filter.Subject != "" && !strings.Contains(strings.ToLower(crs.SubjectArea), filter.Subject) {
			continue
		}
		if filter.Name != "" {
			hay := strings.ToLower(crs.Name + " " + crs.Code)
			if !strings.Contains(hay, filter.Name) {
				continue
			}
		}
		out = append(out, crs)
	}
	return out, nil
}

// matchesGrade keeps crs when grade falls within its min/max bounds.
// Unparseable filter or bounds do not exclude (best-effort, as master data
// arrives via CSV and may carry blanks or junk).
func matchesGrade(crs Course, grade string) bool {
	if grade == "" {
		return true
	}
	g, err := strconv.Atoi(grade)
	if err != nil {
		return true
	}
	gmin, gmax := g, g
	if crs.GradeMin != "" {
		if n, err := strconv.Atoi(crs.GradeMin); err == nil {
			gmin = n
		} else {
			return true
		}
	}
	if crs.GradeMax != "" {
		if n, err := strconv.Atoi(crs.GradeMax); err == nil {
			gmax = n
		} else {
			return true
		}
	}
	return gmin <= g && g <= gmax
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	if _, err := svc.repo.GetCourseByCode(nc.Code); err == nil {
		return Course{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "course_code", Error: ErrCodeExists.Error()})
	} else if err != ErrNotFound {
		return Course{}, err
	}
	return svc.repo.CreateCourse(nc.course())
}

func (svc *Service) Update(code string, uc UpdateCourse) (Course, error) {
	orig, err := svc.repo.GetCourseByCode(core.CleanString(code))
	if err != nil {
		return Course{}, err
	}
	return svc.repo.UpdateCourse(uc.apply(orig))
}

// Delete removes a course from the catalog. Approval rows referencing the
// code are cascaded by the caller; schedule display strings referencing it
// are left as-is and degrade to "unknown course" on read.
func (svc *Service) Delete(code string) error {
	return svc.repo.DeleteCourseByCode(core.CleanString(code))
}

// Replace swaps the whole catalog, used by counselor CSV uploads.
func (svc *Service) Replace(courses []Course) error {
	return svc.repo.ReplaceCourses(courses)
}
