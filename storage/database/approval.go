package database

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/arcacademy/courseflow/core/approval"
)

type approvalRepository struct {
	db *sqlx.DB
}

var _ approval.Repository = (*approvalRepository)(nil)

func NewApprovalRepository(db *sqlx.DB) *approvalRepository {
	return &approvalRepository{db: db}
}

type approvalRow struct {
	StudentID    string       `db:"student_id"`
	CourseCode   string       `db:"course_code"`
	Status       string       `db:"status"`
	TeacherEmail string       `db:"teacher_email"`
	UpdatedAt    sql.NullTime `db:"updated_at"`
	Note         string       `db:"note"`
}

func (r approvalRow) approval() approval.Approval {
	var updatedAt time.Time
	if r.UpdatedAt.Valid {
		updatedAt = r.UpdatedAt.Time
	}
	return approval.Approval{
		StudentID:    r.StudentID,
		CourseCode:   r.CourseCode,
		Status:       r.Status,
		TeacherEmail: r.TeacherEmail,
		UpdatedAt:    updatedAt,
		Note:         r.Note,
	}
}

const approvalUpsert = `
	INSERT INTO approvals (student_id, course_code, status, teacher_email, updated_at, note)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (student_id, course_code) DO UPDATE SET
		status = EXCLUDED.status, teacher_email = EXCLUDED.teacher_email,
		updated_at = EXCLUDED.updated_at, note = EXCLUDED.note`

func approvalArgs(appr approval.Approval) []interface{} {
	updatedAt := sql.NullTime{Time: appr.UpdatedAt, Valid: !appr.UpdatedAt.IsZero()}
	return []interface{}{
		appr.StudentID, appr.CourseCode, appr.Status, appr.TeacherEmail, updatedAt, appr.Note,
	}
}

func (repo *approvalRepository) selectRows(query string, args ...interface{}) ([]approval.Approval, error) {
	var rows []approvalRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	approvals := make([]approval.Approval, 0, len(rows))
	for _, row := range rows {
		approvals = append(approvals, row.approval())
	}
	return approvals, nil
}

func (repo *approvalRepository) QueryAllApprovals() ([]approval.Approval, error) {
	return repo.selectRows(`SELECT * FROM approvals ORDER BY student_id, course_code`)
}

func (repo *approvalRepository) QueryApprovalsByStudentID(studentID string) ([]approval.Approval, error) {
	return repo.selectRows(`SELECT * FROM approvals WHERE student_id = $1 ORDER BY course_code`, studentID)
}

func (repo *approvalRepository) GetApproval(studentID, courseCode string) (approval.Approval, error) {
	var row approvalRow
	err := repo.db.Get(&row, `SELECT * FROM approvals WHERE student_id = $1 AND course_code = $2`, studentID, courseCode)
	if err == sql.ErrNoRows {
		return approval.Approval{}, approval.ErrNotFound
	} else if err != nil {
		return approval.Approval{}, err
	}
	return row.approval(), nil
}

func (repo *approvalRepository) UpsertApproval(appr approval.Approval) error {
	_, err := repo.db.Exec(approvalUpsert, approvalArgs(appr)...)
	return err
}

func (repo *approvalRepository) ReplaceStudentApprovals(studentID string, rows []approval.Approval) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM approvals WHERE student_id = $1`, studentID); err != nil {
		return err
	}
	for _, appr := range rows {
		if _, err = tx.Exec(approvalUpsert, approvalArgs(appr)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (repo *approvalRepository) DeleteApprovalsByStudentID(studentID string) error {
	_, err := repo.db.Exec(`DELETE FROM approvals WHERE student_id = $1`, studentID)
	return err
}

func (repo *approvalRepository) DeleteApprovalsByCourseCode(courseCode string) error {
	_, err := repo.db.Exec(`DELETE FROM approvals WHERE course_code = $1`, courseCode)
	return err
}

func (repo *approvalRepository) ReplaceApprovals(rows []approval.Approval) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM approvals`); err != nil {
		return err
	}
	for _, appr := range rows {
		if _, err = tx.Exec(approvalUpsert, approvalArgs(appr)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
