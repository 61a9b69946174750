package csvstore

import (
	"strings"

	"github.com/arcacademy/courseflow/core/teacher"
)

type teacherRepository struct {
	store *Store
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(store *Store) *teacherRepository {
	return &teacherRepository{store: store}
}

func (repo *teacherRepository) readAll() ([]teacher.Teacher, error) {
	rows, err := readRows(repo.store.teachersPath)
	if err != nil {
		return nil, err
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		if row["email"] == "" {
			continue
		}
		teachers = append(teachers, teacher.Teacher{
			Email:    strings.ToLower(row["email"]),
			Name:     row["name"],
			Password: row["password"],
		})
	}
	return teachers, nil
}

func (repo *teacherRepository) writeAll(teachers []teacher.Teacher) error {
	records := make([][]string, 0, len(teachers))
	for _, tch := range teachers {
		records = append(records, []string{tch.Email, tch.Name, tch.Password})
	}
	return writeRows(repo.store.teachersPath, teachersHeader, records)
}

func (repo *teacherRepository) QueryAllTeachers() ([]teacher.Teacher, error) {
	repo.store.teachersMu.Lock()
	defer repo.store.teachersMu.Unlock()

	return repo.readAll()
}

func (repo *teacherRepository) GetTeacherByEmail(email string) (teacher.Teacher, error) {
	repo.store.teachersMu.Lock()
	defer repo.store.teachersMu.Unlock()

	teachers, err := repo.readAll()
	if err != nil {
		return teacher.Teacher{}, err
	}
	email = strings.ToLower(email)
	for _, tch := range teachers {
		if tch.Email == email {
			return tch, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpsertTeacher(t teacher.Teacher) error {
	repo.store.teachersMu.Lock()
	defer repo.store.teachersMu.Unlock()

	teachers, err := repo.readAll()
	if err != nil {
		return err
	}
	for i := range teachers {
		if teachers[i].Email == t.Email {
			teachers[i] = t
			return repo.writeAll(teachers)
		}
	}
	return repo.writeAll(append(teachers, t))
}

func (repo *teacherRepository) ReplaceTeachers(teachers []teacher.Teacher) error {
	repo.store.teachersMu.Lock()
	defer repo.store.teachersMu.Unlock()

	return repo.writeAll(teachers)
}
