package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/schedule"
)

type (
	StudentLoginRequest struct {
		StudentID string `json:"student_id" validate:"required"`
		IDCheck   string `json:"id_check" validate:"required"`
	}

	TeacherLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	CounselorLoginRequest struct {
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	// StudentStatusResponse is everything the student portal shows after
	// login: the saved schedule, its approval-annotated items and whether
	// this grade may currently submit.
	StudentStatusResponse struct {
		Schedule      schedule.Schedule `json:"schedule"`
		Academic      []schedule.Item   `json:"academic"`
		Elective      []schedule.Item   `json:"elective"`
		PendingCount  int               `json:"pending_count"`
		RejectedCount int               `json:"rejected_count"`
		CanSubmit     bool              `json:"can_submit"`
	}

	// PendingApprovalRow joins an approval row with the student's roster
	// identity for the counselor's pending list.
	PendingApprovalRow struct {
		StudentID   string `json:"student_id"`
		StudentName string `json:"student_name"`
		GradeLevel  string `json:"grade_level"`
		CourseCode  string `json:"course_code"`
		Status      string `json:"status"`
		UpdatedAt   string `json:"updated_at"`
	}

	ReviewedRequest struct {
		Reviewed bool `json:"reviewed"`
	}
)

func (r *StudentLoginRequest) Validate(validate *validator.Validate) error {
	r.StudentID = core.CleanString(r.StudentID)
	r.IDCheck = core.CleanString(r.IDCheck)
	return validate.Struct(r)
}

func (r *TeacherLoginRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

func (r *CounselorLoginRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
