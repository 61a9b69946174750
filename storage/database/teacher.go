package database

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/arcacademy/courseflow/core/teacher"
)

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

type teacherRow struct {
	Email    string `db:"email"`
	Name     string `db:"name"`
	Password string `db:"password"`
}

func (r teacherRow) teacher() teacher.Teacher {
	return teacher.Teacher(r)
}

const teacherUpsert = `
	INSERT INTO teachers (email, name, password) VALUES ($1, $2, $3)
	ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, password = EXCLUDED.password`

func (repo *teacherRepository) QueryAllTeachers() ([]teacher.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.Select(&rows, `SELECT * FROM teachers ORDER BY email`); err != nil {
		return nil, err
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.teacher())
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByEmail(email string) (teacher.Teacher, error) {
	var row teacherRow
	err := repo.db.Get(&row, `SELECT * FROM teachers WHERE email = $1`, strings.ToLower(email))
	if err == sql.ErrNoRows {
		return teacher.Teacher{}, teacher.ErrNotFound
	} else if err != nil {
		return teacher.Teacher{}, err
	}
	return row.teacher(), nil
}

func (repo *teacherRepository) UpsertTeacher(t teacher.Teacher) error {
	_, err := repo.db.Exec(teacherUpsert, strings.ToLower(t.Email), t.Name, t.Password)
	return err
}

func (repo *teacherRepository) ReplaceTeachers(teachers []teacher.Teacher) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM teachers`); err != nil {
		return err
	}
	for _, t := range teachers {
		if _, err = tx.Exec(teacherUpsert, strings.ToLower(t.Email), t.Name, t.Password); err != nil {
			return err
		}
	}
	return tx.Commit()
}
