package csvstore

import (
	"time"

	"github.com/arcacademy/courseflow/core/approval"
)

type approvalRepository struct {
	store *Store
}

var _ approval.Repository = (*approvalRepository)(nil)

func NewApprovalRepository(store *Store) *approvalRepository {
	return &approvalRepository{store: store}
}

func (repo *approvalRepository) readAll() ([]approval.Approval, error) {
	rows, err := readRows(repo.store.approvalsPath)
	if err != nil {
		return nil, err
	}
	approvals := make([]approval.Approval, 0, len(rows))
	for _, row := range rows {
		if row["student_id"] == "" || row["course_code"] == "" {
			continue
		}
		// Rows with an unparsable timestamp keep the zero time rather
		// than failing the whole read.
		updatedAt, _ := time.Parse(approval.TimeLayout, row["updated_at"])
		approvals = append(approvals, approval.Approval{
			StudentID:    row["student_id"],
			CourseCode:   row["course_code"],
			Status:       row["status"],
			TeacherEmail: row["teacher_email"],
			UpdatedAt:    updatedAt,
			Note:         row["note"],
		})
	}
	return approvals, nil
}

func (repo *approvalRepository) writeAll(approvals []approval.Approval) error {
	records := make([][]string, 0, len(approvals))
	for _, appr := range approvals {
		updatedAt := ""
		if !appr.UpdatedAt.IsZero() {
			updatedAt = appr.UpdatedAt.Format(approval.TimeLayout)
		}
		records = append(records, []string{
			appr.StudentID, appr.CourseCode, appr.Status, appr.TeacherEmail, updatedAt, appr.Note,
		})
	}
	return writeRows(repo.store.approvalsPath, approvalsHeader, records)
}

func (repo *approvalRepository) QueryAllApprovals() ([]approval.Approval, error) {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	return repo.readAll()
}

func (repo *approvalRepository) QueryApprovalsByStudentID(studentID string) ([]approval.Approval, error) {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	approvals, err := repo.readAll()
	if err != nil {
		return nil, err
	}
	matched := make([]approval.Approval, 0, len(approvals))
	for _, appr := range approvals {
		if appr.StudentID == studentID {
			matched = append(matched, appr)
		}
	}
	return matched, nil
}

func (repo *approvalRepository) GetApproval(studentID, courseCode string) (approval.Approval, error) {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	approvals, err := repo.readAll()
	if err != nil {
		return approval.Approval{}, err
	}
	for _, appr := range approvals {
		if appr.StudentID == studentID && appr.CourseCode == courseCode {
			return appr, nil
		}
	}
	return approval.Approval{}, approval.ErrNotFound
}

func (repo *approvalRepository) UpsertApproval(appr approval.Approval) error {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	approvals, err := repo.readAll()
	if err != nil {
		return err
	}
	for i := range approvals {
		if approvals[i].StudentID == appr.StudentID && approvals[i].CourseCode == appr.CourseCode {
			approvals[i] = appr
			return repo.writeAll(approvals)
		}
	}
	return repo.writeAll(append(approvals, appr))
}

func (repo *approvalRepository) ReplaceStudentApprovals(studentID string, rows []approval.Approval) error {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	approvals, err := repo.readAll()
	if err != nil {
		return err
	}
	kept := approvals[:0]
	for _, appr := range approvals {
		if appr.StudentID != studentID {
			kept = append(kept, appr)
		}
	}
	return repo.writeAll(append(kept, rows...))
}

func (repo *approvalRepository) DeleteApprovalsByStudentID(studentID string) error {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	approvals, err := repo.readAll()
	if err != nil {
		return err
	}
	kept := approvals[:0]
	for _, appr := range approvals {
		if appr.StudentID != studentID {
			kept = append(kept, appr)
		}
	}
	return repo.writeAll(kept)
}

func (repo *approvalRepository) DeleteApprovalsByCourseCode(courseCode string) error {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	approvals, err := repo.readAll()
	if err != nil {
		return err
	}
	kept := approvals[:0]
	for _, appr := range approvals {
		if appr.CourseCode != courseCode {
			kept = append(kept, appr)
		}
	}
	return repo.writeAll(kept)
}

func (repo *approvalRepository) ReplaceApprovals(rows []approval.Approval) error {
	repo.store.approvalsMu.Lock()
	defer repo.store.approvalsMu.Unlock()

	return repo.writeAll(rows)
}
