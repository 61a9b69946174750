package approval

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/arcacademy/courseflow/core"
)

// Approval statuses. A row starts pending and only a teacher decision moves
// it to approved or rejected; deselecting the course deletes the row, so
// re-adding it always starts a fresh pending request.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// TimeLayout is how UpdatedAt serializes in textual stores.
const TimeLayout = "2006-01-02 15:04:05"

// Approval is derived state keyed by (student, course code): it exists only
// while the student has an approval-required course selected. Rows are
// created and pruned by reconciliation and mutated only by teacher decisions.
type Approval struct {
	StudentID    string    `json:"student_id"`
	CourseCode   string    `json:"course_code"`
	Status       string    `json:"status"`
	TeacherEmail string    `json:"teacher_email"`
	UpdatedAt    time.Time `json:"updated_at"`
	Note         string    `json:"note"`
}

// Decision is a teacher's ruling on a pending request.
type Decision struct {
	StudentID  string `json:"student_id" validate:"required"`
	CourseCode string `json:"course_code" validate:"required"`
	Status     string `json:"status" validate:"required,decision"`
	Note       string `json:"note"`
}

func (d *Decision) Validate(validate *validator.Validate) error {
	d.StudentID = core.CleanString(d.StudentID)
	d.CourseCode = core.CleanString(d.CourseCode)
	d.Status = core.CleanString(d.Status, true /* lower */)
	d.Note = core.CleanString(d.Note)
	return validate.Struct(d)
}
