package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/arcacademy/courseflow/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID         string `db:"student_id"`
	Name       string `db:"student_name"`
	GradeLevel string `db:"grade_level"`
}

func (r studentRow) student() student.Student {
	return student.Student(r)
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM students ORDER BY student_id`); err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var row studentRow
	err := repo.db.Get(&row, `SELECT * FROM students WHERE student_id = $1`, id)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	} else if err != nil {
		return student.Student{}, err
	}
	return row.student(), nil
}

func (repo *studentRepository) CreateStudent(stu student.Student) (student.Student, error) {
	_, err := repo.db.Exec(
		`INSERT INTO students (student_id, student_name, grade_level) VALUES ($1, $2, $3)`,
		stu.ID, stu.Name, stu.GradeLevel,
	)
	if err != nil {
		return student.Student{}, err
	}
	return stu, nil
}

func (repo *studentRepository) DeleteStudentByID(id string) error {
	res, err := repo.db.Exec(`DELETE FROM students WHERE student_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *studentRepository) ReplaceStudents(students []student.Student) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM students`); err != nil {
		return err
	}
	for _, stu := range students {
		_, err = tx.Exec(
			`INSERT INTO students (student_id, student_name, grade_level) VALUES ($1, $2, $3)
			 ON CONFLICT (student_id) DO UPDATE SET student_name = EXCLUDED.student_name, grade_level = EXCLUDED.grade_level`,
			stu.ID, stu.Name, stu.GradeLevel,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
