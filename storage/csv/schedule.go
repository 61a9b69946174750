package csvstore

import (
	"fmt"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/schedule"
)

type scheduleRepository struct {
	store *Store
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(store *Store) *scheduleRepository {
	return &scheduleRepository{store: store}
}

func (repo *scheduleRepository) readAll() ([]schedule.Schedule, error) {
	rows, err := readRows(repo.store.schedulesPath)
	if err != nil {
		return nil, err
	}
	schedules := make([]schedule.Schedule, 0, len(rows))
	for _, row := range rows {
		if row["student_id"] == "" {
			continue
		}
		sched := schedule.Schedule{
			StudentID:           row["student_id"],
			StudentName:         row["student_name"],
			GradeLevel:          row["grade_level"],
			SpecialInstructions: row["special_instructions"],
			Reviewed:            core.ParseBool(row["reviewed"]),
		}
		// Slot columns are fixed-width; blanks mean unused slots.
		for i := 1; i <= repo.store.conf.MaxAcademicCourses; i++ {
			if v := row[fmt.Sprintf("period_%d", i)]; v != "" {
				sched.AcademicCourses = append(sched.AcademicCourses, v)
			}
		}
		for j := 1; j <= repo.store.conf.MaxElectiveChoices; j++ {
			if v := row[fmt.Sprintf("elective_%d", j)]; v != "" {
				sched.ElectiveCourses = append(sched.ElectiveCourses, v)
			}
		}
		schedules = append(schedules, sched)
	}
	return schedules, nil
}

func (repo *scheduleRepository) writeAll(schedules []schedule.Schedule) error {
	records := make([][]string, 0, len(schedules))
	for _, sched := range schedules {
		rec := []string{sched.StudentID, sched.StudentName, sched.GradeLevel}
		for i := 0; i < repo.store.conf.MaxAcademicCourses; i++ {
			if i < len(sched.AcademicCourses) {
				rec = append(rec, sched.AcademicCourses[i])
			} else {
				rec = append(rec, "")
			}
		}
		for j := 0; j < repo.store.conf.MaxElectiveChoices; j++ {
			if j < len(sched.ElectiveCourses) {
				rec = append(rec, sched.ElectiveCourses[j])
			} else {
				rec = append(rec, "")
			}
		}
		rec = append(rec, sched.SpecialInstructions, core.FormatBool(sched.Reviewed))
		records = append(records, rec)
	}
	return writeRows(repo.store.schedulesPath, repo.store.schedulesHeader(), records)
}

func (repo *scheduleRepository) QueryAllSchedules() ([]schedule.Schedule, error) {
	repo.store.schedulesMu.Lock()
	defer repo.store.schedulesMu.Unlock()

	return repo.readAll()
}

func (repo *scheduleRepository) GetScheduleByStudentID(studentID string) (schedule.Schedule, error) {
	repo.store.schedulesMu.Lock()
	defer repo.store.schedulesMu.Unlock()

	schedules, err := repo.readAll()
	if err != nil {
		return schedule.Schedule{}, err
	}
	for _, sched := range schedules {
		if sched.StudentID == studentID {
			return sched, nil
		}
	}
	return schedule.Schedule{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) UpsertSchedule(sched schedule.Schedule) error {
	repo.store.schedulesMu.Lock()
	defer repo.store.schedulesMu.Unlock()

	schedules, err := repo.readAll()
	if err != nil {
		return err
	}
	for i := range schedules {
		if schedules[i].StudentID == sched.StudentID {
			schedules[i] = sched
			return repo.writeAll(schedules)
		}
	}
	return repo.writeAll(append(schedules, sched))
}

func (repo *scheduleRepository) DeleteScheduleByStudentID(studentID string) error {
	repo.store.schedulesMu.Lock()
	defer repo.store.schedulesMu.Unlock()

	schedules, err := repo.readAll()
	if err != nil {
		return err
	}
	kept := schedules[:0]
	for _, sched := range schedules {
		if sched.StudentID != studentID {
			kept = append(kept, sched)
		}
	}
	if len(kept) == len(schedules) {
		return schedule.ErrNotFound
	}
	return repo.writeAll(kept)
}

func (repo *scheduleRepository) ReplaceSchedules(schedules []schedule.Schedule) error {
	repo.store.schedulesMu.Lock()
	defer repo.store.schedulesMu.Unlock()

	return repo.writeAll(schedules)
}
