package inmemdb

import (
	"github.com/arcacademy/courseflow/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedules}
}

func (repo *scheduleRepository) QueryAllSchedules() ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]schedule.Schedule(nil), repo.db.rows...), nil
}

func (repo *scheduleRepository) GetScheduleByStudentID(studentID string) (schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sched := range repo.db.rows {
		if sched.StudentID == studentID {
			return sched, nil
		}
	}
	return schedule.Schedule{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) UpsertSchedule(sched schedule.Schedule) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, row := range repo.db.rows {
		if row.StudentID == sched.StudentID {
			repo.db.rows[i] = sched
			return nil
		}
	}
	repo.db.rows = append(repo.db.rows, sched)
	return nil
}

func (repo *scheduleRepository) DeleteScheduleByStudentID(studentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, sched := range repo.db.rows {
		if sched.StudentID != studentID {
			kept = append(kept, sched)
		}
	}
	if len(kept) == len(repo.db.rows) {
		return schedule.ErrNotFound
	}
	repo.db.rows = kept
	return nil
}

func (repo *scheduleRepository) ReplaceSchedules(schedules []schedule.Schedule) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append([]schedule.Schedule(nil), schedules...)
	return nil
}
