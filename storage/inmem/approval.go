package inmemdb

import (
	"github.com/arcacademy/courseflow/core/approval"
)

type approvalRepository struct {
	db *approvalTable
}

var _ approval.Repository = (*approvalRepository)(nil) // interface compliance check

func NewApprovalRepository(db *DB) approval.Repository {
	return &approvalRepository{db: db.approvals}
}

func (repo *approvalRepository) QueryAllApprovals() ([]approval.Approval, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]approval.Approval(nil), repo.db.rows...), nil
}

func (repo *approvalRepository) QueryApprovalsByStudentID(studentID string) ([]approval.Approval, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	out := make([]approval.Approval, 0)
	for _, row := range repo.db.rows {
		if row.StudentID == studentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (repo *approvalRepository) GetApproval(studentID, courseCode string) (approval.Approval, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, row := range repo.db.rows {
		if row.StudentID == studentID && row.CourseCode == courseCode {
			return row, nil
		}
	}
	return approval.Approval{}, approval.ErrNotFound
}

func (repo *approvalRepository) UpsertApproval(appr approval.Approval) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, row := range repo.db.rows {
		if row.StudentID == appr.StudentID && row.CourseCode == appr.CourseCode {
			repo.db.rows[i] = appr
			return nil
		}
	}
	repo.db.rows = append(repo.db.rows, appr)
	return nil
}

func (repo *approvalRepository) ReplaceStudentApprovals(studentID string, rows []approval.Approval) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := make([]approval.Approval, 0, len(repo.db.rows)+len(rows))
	for _, row := range repo.db.rows {
		if row.StudentID != studentID {
			kept = append(kept, row)
		}
	}
	repo.db.rows = append(kept, rows...)
	return nil
}

func (repo *approvalRepository) DeleteApprovalsByStudentID(studentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, row := range repo.db.rows {
		if row.StudentID != studentID {
			kept = append(kept, row)
		}
	}
	repo.db.rows = kept
	return nil
}

func (repo *approvalRepository) DeleteApprovalsByCourseCode(courseCode string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, row := range repo.db.rows {
		if row.CourseCode != courseCode {
			kept = append(kept, row)
		}
	}
	repo.db.rows = kept
	return nil
}

func (repo *approvalRepository) ReplaceApprovals(rows []approval.Approval) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append([]approval.Approval(nil), rows...)
	return nil
}
