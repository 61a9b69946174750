package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/arcacademy/courseflow/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

type courseRow struct {
	Code             string `db:"course_code"`
	Name             string `db:"course_name"`
	SubjectArea      string `db:"subject_area"`
	Level            string `db:"level"`
	GradeMin         string `db:"grade_min"`
	GradeMax         string `db:"grade_max"`
	RequiresApproval bool   `db:"requires_approval"`
	TeacherName      string `db:"teacher_name"`
	TeacherEmail     string `db:"teacher_email"`
	Room             string `db:"room"`
	Description      string `db:"description"`
}

func (r courseRow) course() catalog.Course {
	return catalog.Course{
		Code:             r.Code,
		Name:             r.Name,
		SubjectArea:      r.SubjectArea,
		Level:            r.Level,
		Description:      r.Description,
		TeacherName:      r.TeacherName,
		TeacherEmail:     r.TeacherEmail,
		Room:             r.Room,
		GradeMin:         r.GradeMin,
		GradeMax:         r.GradeMax,
		RequiresApproval: r.RequiresApproval,
	}
}

func courseArgs(crs catalog.Course) []interface{} {
	return []interface{}{
		crs.Code, crs.Name, crs.SubjectArea, crs.Level, crs.GradeMin, crs.GradeMax,
		crs.RequiresApproval, crs.TeacherName, crs.TeacherEmail, crs.Room, crs.Description,
	}
}

const courseInsert = `
	INSERT INTO courses
		(course_code, course_name, subject_area, level, grade_min, grade_max,
		 requires_approval, teacher_name, teacher_email, room, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (repo *catalogRepository) QueryAllCourses() ([]catalog.Course, error) {
	var rows []courseRow
	if err := repo.db.Select(&rows, `SELECT * FROM courses ORDER BY course_code`); err != nil {
		return nil, err
	}
	courses := make([]catalog.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.course())
	}
	return courses, nil
}

func (repo *catalogRepository) GetCourseByCode(code string) (catalog.Course, error) {
	var row courseRow
	err := repo.db.Get(&row, `SELECT * FROM courses WHERE course_code = $1`, code)
	if err == sql.ErrNoRows {
		return catalog.Course{}, catalog.ErrNotFound
	} else if err != nil {
		return catalog.Course{}, err
	}
	return row.course(), nil
}

func (repo *catalogRepository) CreateCourse(crs catalog.Course) (catalog.Course, error) {
	if _, err := repo.db.Exec(courseInsert, courseArgs(crs)...); err != nil {
		return catalog.Course{}, err
	}
	return crs, nil
}

func (repo *catalogRepository) UpdateCourse(crs catalog.Course) (catalog.Course, error) {
	res, err := repo.db.Exec(`
		UPDATE courses SET
			course_name = $2, subject_area = $3, level = $4, grade_min = $5, grade_max = $6,
			requires_approval = $7, teacher_name = $8, teacher_email = $9, room = $10, description = $11
		WHERE course_code = $1`,
		courseArgs(crs)...,
	)
	if err != nil {
		return catalog.Course{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Course{}, catalog.ErrNotFound
	}
	return crs, nil
}

func (repo *catalogRepository) DeleteCourseByCode(code string) error {
	res, err := repo.db.Exec(`DELETE FROM courses WHERE course_code = $1`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (repo *catalogRepository) ReplaceCourses(courses []catalog.Course) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM courses`); err != nil {
		return err
	}
	for _, crs := range courses {
		q := courseInsert + `
			ON CONFLICT (course_code) DO UPDATE SET
				course_name = EXCLUDED.course_name, subject_area = EXCLUDED.subject_area,
				level = EXCLUDED.level, grade_min = EXCLUDED.grade_min, grade_max = EXCLUDED.grade_max,
				requires_approval = EXCLUDED.requires_approval, teacher_name = EXCLUDED.teacher_name,
				teacher_email = EXCLUDED.teacher_email, room = EXCLUDED.room, description = EXCLUDED.description`
		if _, err = tx.Exec(q, courseArgs(crs)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
