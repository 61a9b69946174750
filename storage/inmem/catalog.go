package inmemdb

import (
	"github.com/arcacademy/courseflow/core/catalog"
)

type catalogRepository struct {
	db *courseTable
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db.courses}
}

func (repo *catalogRepository) QueryAllCourses() ([]catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]catalog.Course(nil), repo.db.rows...), nil
}

func (repo *catalogRepository) GetCourseByCode(code string) (catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.rows {
		if crs.Code == code {
			return crs, nil
		}
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *catalogRepository) CreateCourse(crs catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, crs)
	return crs, nil
}

func (repo *catalogRepository) UpdateCourse(crs catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, row := range repo.db.rows {
		if row.Code == crs.Code {
			repo.db.rows[i] = crs
			return crs, nil
		}
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *catalogRepository) DeleteCourseByCode(code string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, crs := range repo.db.rows {
		if crs.Code != code {
			kept = append(kept, crs)
		}
	}
	if len(kept) == len(repo.db.rows) {
		return catalog.ErrNotFound
	}
	repo.db.rows = kept
	return nil
}

func (repo *catalogRepository) ReplaceCourses(courses []catalog.Course) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append([]catalog.Course(nil), courses...)
	return nil
}
