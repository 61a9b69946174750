package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/arcacademy/courseflow/core/schedule"
)

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *sqlx.DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

type scheduleRow struct {
	StudentID           string         `db:"student_id"`
	StudentName         string         `db:"student_name"`
	GradeLevel          string         `db:"grade_level"`
	AcademicCourses     pq.StringArray `db:"academic_courses"`
	ElectiveCourses     pq.StringArray `db:"elective_courses"`
	SpecialInstructions string         `db:"special_instructions"`
	Reviewed            bool           `db:"reviewed"`
}

func (r scheduleRow) schedule() schedule.Schedule {
	return schedule.Schedule{
		StudentID:           r.StudentID,
		StudentName:         r.StudentName,
		GradeLevel:          r.GradeLevel,
		AcademicCourses:     []string(r.AcademicCourses),
		ElectiveCourses:     []string(r.ElectiveCourses),
		SpecialInstructions: r.SpecialInstructions,
		Reviewed:            r.Reviewed,
	}
}

const scheduleUpsert = `
	INSERT INTO schedules
		(student_id, student_name, grade_level, academic_courses, elective_courses, special_instructions, reviewed)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (student_id) DO UPDATE SET
		student_name = EXCLUDED.student_name, grade_level = EXCLUDED.grade_level,
		academic_courses = EXCLUDED.academic_courses, elective_courses = EXCLUDED.elective_courses,
		special_instructions = EXCLUDED.special_instructions, reviewed = EXCLUDED.reviewed`

func scheduleArgs(sched schedule.Schedule) []interface{} {
	return []interface{}{
		sched.StudentID, sched.StudentName, sched.GradeLevel,
		pq.StringArray(sched.AcademicCourses), pq.StringArray(sched.ElectiveCourses),
		sched.SpecialInstructions, sched.Reviewed,
	}
}

func (repo *scheduleRepository) QueryAllSchedules() ([]schedule.Schedule, error) {
	var rows []scheduleRow
	if err := repo.db.Select(&rows, `SELECT * FROM schedules ORDER BY student_id`); err != nil {
		return nil, err
	}
	schedules := make([]schedule.Schedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.schedule())
	}
	return schedules, nil
}

func (repo *scheduleRepository) GetScheduleByStudentID(studentID string) (schedule.Schedule, error) {
	var row scheduleRow
	err := repo.db.Get(&row, `SELECT * FROM schedules WHERE student_id = $1`, studentID)
	if err == sql.ErrNoRows {
		return schedule.Schedule{}, schedule.ErrNotFound
	} else if err != nil {
		return schedule.Schedule{}, err
	}
	return row.schedule(), nil
}

func (repo *scheduleRepository) UpsertSchedule(sched schedule.Schedule) error {
	_, err := repo.db.Exec(scheduleUpsert, scheduleArgs(sched)...)
	return err
}

func (repo *scheduleRepository) DeleteScheduleByStudentID(studentID string) error {
	res, err := repo.db.Exec(`DELETE FROM schedules WHERE student_id = $1`, studentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}

func (repo *scheduleRepository) ReplaceSchedules(schedules []schedule.Schedule) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM schedules`); err != nil {
		return err
	}
	for _, sched := range schedules {
		if _, err = tx.Exec(scheduleUpsert, scheduleArgs(sched)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
