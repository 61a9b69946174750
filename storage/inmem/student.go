package inmemdb

import (
	"github.com/arcacademy/courseflow/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]student.Student(nil), repo.db.rows...), nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stu := range repo.db.rows {
		if stu.ID == id {
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) CreateStudent(stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, stu)
	return stu, nil
}

func (repo *studentRepository) DeleteStudentByID(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, stu := range repo.db.rows {
		if stu.ID != id {
			kept = append(kept, stu)
		}
	}
	if len(kept) == len(repo.db.rows) {
		return student.ErrNotFound
	}
	repo.db.rows = kept
	return nil
}

func (repo *studentRepository) ReplaceStudents(students []student.Student) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append([]student.Student(nil), students...)
	return nil
}
