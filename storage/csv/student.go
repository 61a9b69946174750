package csvstore

import (
	"github.com/arcacademy/courseflow/core/student"
)

type studentRepository struct {
	store *Store
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(store *Store) *studentRepository {
	return &studentRepository{store: store}
}

func (repo *studentRepository) readAll() ([]student.Student, error) {
	rows, err := readRows(repo.store.studentsPath)
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		if row["student_id"] == "" {
			continue
		}
		students = append(students, student.Student{
			ID:         row["student_id"],
			Name:       row["student_name"],
			GradeLevel: row["grade_level"],
		})
	}
	return students, nil
}

func (repo *studentRepository) writeAll(students []student.Student) error {
	records := make([][]string, 0, len(students))
	for _, stu := range students {
		records = append(records, []string{stu.ID, stu.Name, stu.GradeLevel})
	}
	return writeRows(repo.store.studentsPath, studentsHeader, records)
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.store.studentsMu.Lock()
	defer repo.store.studentsMu.Unlock()

	return repo.readAll()
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.store.studentsMu.Lock()
	defer repo.store.studentsMu.Unlock()

	students, err := repo.readAll()
	if err != nil {
		return student.Student{}, err
	}
	for _, stu := range students {
		if stu.ID == id {
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) CreateStudent(stu student.Student) (student.Student, error) {
	repo.store.studentsMu.Lock()
	defer repo.store.studentsMu.Unlock()

	students, err := repo.readAll()
	if err != nil {
		return student.Student{}, err
	}
	students = append(students, stu)
	if err := repo.writeAll(students); err != nil {
		return student.Student{}, err
	}
	return stu, nil
}

func (repo *studentRepository) DeleteStudentByID(id string) error {
	repo.store.studentsMu.Lock()
	defer repo.store.studentsMu.Unlock()

	students, err := repo.readAll()
	if err != nil {
		return err
	}
	kept := students[:0]
	for _, stu := range students {
		if stu.ID != id {
			kept = append(kept, stu)
		}
	}
	if len(kept) == len(students) {
		return student.ErrNotFound
	}
	return repo.writeAll(kept)
}

func (repo *studentRepository) ReplaceStudents(students []student.Student) error {
	repo.store.studentsMu.Lock()
	defer repo.store.studentsMu.Unlock()

	return repo.writeAll(students)
}
