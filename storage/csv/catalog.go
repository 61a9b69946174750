package csvstore

import (
	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/catalog"
)

type catalogRepository struct {
	store *Store
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(store *Store) *catalogRepository {
	return &catalogRepository{store: store}
}

func (repo *catalogRepository) readAll() ([]catalog.Course, error) {
	rows, err := readRows(repo.store.coursesPath)
	if err != nil {
		return nil, err
	}
	courses := make([]catalog.Course, 0, len(rows))
	for _, row := range rows {
		if row["course_code"] == "" {
			continue
		}
		courses = append(courses, catalog.Course{
			Code:             row["course_code"],
			Name:             row["course_name"],
			SubjectArea:      row["subject_area"],
			Level:            row["level"],
			Description:      row["description"],
			TeacherName:      row["teacher_name"],
			TeacherEmail:     row["teacher_email"],
			Room:             row["room"],
			GradeMin:         row["grade_min"],
			GradeMax:         row["grade_max"],
			RequiresApproval: core.ParseBool(row["requires_approval"]),
		})
	}
	return courses, nil
}

func (repo *catalogRepository) writeAll(courses []catalog.Course) error {
	records := make([][]string, 0, len(courses))
	for _, crs := range courses {
		records = append(records, []string{
			crs.Code, crs.Name, crs.SubjectArea, crs.Level, crs.GradeMin, crs.GradeMax,
			core.FormatBool(crs.RequiresApproval), crs.TeacherName, crs.TeacherEmail, crs.Room, crs.Description,
		})
	}
	return writeRows(repo.store.coursesPath, coursesHeader, records)
}

func (repo *catalogRepository) QueryAllCourses() ([]catalog.Course, error) {
	repo.store.coursesMu.Lock()
	defer repo.store.coursesMu.Unlock()

	return repo.readAll()
}

func (repo *catalogRepository) GetCourseByCode(code string) (catalog.Course, error) {
	repo.store.coursesMu.Lock()
	defer repo.store.coursesMu.Unlock()

	courses, err := repo.readAll()
	if err != nil {
		return catalog.Course{}, err
	}
	for _, crs := range courses {
		if crs.Code == code {
			return crs, nil
		}
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *catalogRepository) CreateCourse(crs catalog.Course) (catalog.Course, error) {
	repo.store.coursesMu.Lock()
	defer repo.store.coursesMu.Unlock()

	courses, err := repo.readAll()
	if err != nil {
		return catalog.Course{}, err
	}
	courses = append(courses, crs)
	if err := repo.writeAll(courses); err != nil {
		return catalog.Course{}, err
	}
	return crs, nil
}

func (repo *catalogRepository) UpdateCourse(crs catalog.Course) (catalog.Course, error) {
	repo.store.coursesMu.Lock()
	defer repo.store.coursesMu.Unlock()

	courses, err := repo.readAll()
	if err != nil {
		return catalog.Course{}, err
	}
	for i := range courses {
		if courses[i].Code == crs.Code {
			courses[i] = crs
			if err := repo.writeAll(courses); err != nil {
				return catalog.Course{}, err
			}
			return crs, nil
		}
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *catalogRepository) DeleteCourseByCode(code string) error {
	repo.store.coursesMu.Lock()
	defer repo.store.coursesMu.Unlock()

	courses, err := repo.readAll()
	if err != nil {
		return err
	}
	kept := courses[:0]
	for _, crs := range courses {
		if crs.Code != code {
			kept = append(kept, crs)
		}
	}
	if len(kept) == len(courses) {
		return catalog.ErrNotFound
	}
	return repo.writeAll(kept)
}

func (repo *catalogRepository) ReplaceCourses(courses []catalog.Course) error {
	repo.store.coursesMu.Lock()
	defer repo.store.coursesMu.Unlock()

	return repo.writeAll(courses)
}
