package inmemdb

import (
	"github.com/arcacademy/courseflow/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db.teachers}
}

func (repo *teacherRepository) QueryAllTeachers() ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]teacher.Teacher(nil), repo.db.rows...), nil
}

func (repo *teacherRepository) GetTeacherByEmail(email string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.rows {
		if t.Email == email {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpsertTeacher(t teacher.Teacher) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, row := range repo.db.rows {
		if row.Email == t.Email {
			repo.db.rows[i] = t
			return nil
		}
	}
	repo.db.rows = append(repo.db.rows, t)
	return nil
}

func (repo *teacherRepository) ReplaceTeachers(teachers []teacher.Teacher) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append([]teacher.Teacher(nil), teachers...)
	return nil
}
