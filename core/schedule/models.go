package schedule

import (
	"github.com/go-playground/validator/v10"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/catalog"
)

// Schedule is a student's requested course list: academic slots ordered by
// period priority and elective slots ordered by preference. Entries are
// free-text display strings; the course code is derived on read. A missing
// Schedule row means "not yet scheduled", which is distinct from a saved,
// empty schedule.
type Schedule struct {
	StudentID           string   `json:"student_id"`
	StudentName         string   `json:"student_name"`
	GradeLevel          string   `json:"grade_level"`
	AcademicCourses     []string `json:"academic_courses"`
	ElectiveCourses     []string `json:"elective_courses"`
	SpecialInstructions string   `json:"special_instructions"`
	Reviewed            bool     `json:"reviewed"`
}

// SelectedDisplays returns the academic followed by the elective entries.
func (s Schedule) SelectedDisplays() []string {
	out := make([]string, 0, len(s.AcademicCourses)+len(s.ElectiveCourses))
	out = append(out, s.AcademicCourses...)
	out = append(out, s.ElectiveCourses...)
	return out
}

// Item is an approval-annotated view of one selected entry.
type Item struct {
	Display          string `json:"display"`
	CourseCode       string `json:"course_code"`
	SubjectArea      string `json:"subject_area"`
	RequiresApproval bool   `json:"requires_approval"`
	ApprovalStatus   string `json:"approval_status"`
	TeacherEmail     string `json:"teacher_email"`
}

// UpsertSchedule contains information needed to save a student's schedule.
type UpsertSchedule struct {
	StudentID           string   `json:"student_id" validate:"required"`
	StudentName         string   `json:"student_name" validate:"required"`
	GradeLevel          string   `json:"grade_level" validate:"required"`
	AcademicCourses     []string `json:"academic_courses"`
	ElectiveCourses     []string `json:"elective_courses"`
	SpecialInstructions string   `json:"special_instructions"`
}

func (up *UpsertSchedule) Validate(validate *validator.Validate) error {
	up.StudentID = core.CleanString(up.StudentID)
	up.StudentName = core.CleanString(up.StudentName)
	up.GradeLevel = core.CleanString(up.GradeLevel)
	up.SpecialInstructions = core.CleanString(up.SpecialInstructions)
	return validate.Struct(up)
}

// CheckLimits rejects oversized selections. Upsert itself silently truncates
// as a fallback, but callers are expected to reject first.
func (up *UpsertSchedule) CheckLimits(conf *core.Config) error {
	if len(up.AcademicCourses) > conf.MaxAcademicCourses {
		return core.NewValidationError(ErrSelectionTooLarge,
			core.FieldError{Field: "academic_courses", Error: ErrSelectionTooLarge.Error()})
	}
	if len(up.ElectiveCourses) > conf.MaxElectiveChoices {
		return core.NewValidationError(ErrSelectionTooLarge,
			core.FieldError{Field: "elective_courses", Error: ErrSelectionTooLarge.Error()})
	}
	return nil
}

// RosterStudent is one requester of a teacher's course.
type RosterStudent struct {
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name"`
	GradeLevel     string `json:"grade_level"`
	ApprovalStatus string `json:"approval_status"`
}

// RosterCourse groups a teacher's course with everyone requesting it.
type RosterCourse struct {
	Course   catalog.Course  `json:"course"`
	Students []RosterStudent `json:"students"`
}

// OverviewRow is a counselor's per-student summary line.
type OverviewRow struct {
	StudentID           string   `json:"student_id"`
	StudentName         string   `json:"student_name"`
	GradeLevel          string   `json:"grade_level"`
	AcademicCourses     []string `json:"academic_courses"`
	ElectiveCourses     []string `json:"elective_courses"`
	TopElective         string   `json:"top_elective"`
	Scheduled           bool     `json:"scheduled"`
	Reviewed            bool     `json:"reviewed"`
	PendingApprovals    int      `json:"pending_approvals"`
	RejectedApprovals   int      `json:"rejected_approvals"`
	SpecialInstructions string   `json:"special_instructions"`
}

// OverviewFilter narrows the counselor's student list. Name and Course are
// case-insensitive substring matches (Course over the raw display strings),
// Grade is exact.
type OverviewFilter struct {
	Name   string `query:"q_name"`
	Grade  string `query:"grade"`
	Course string `query:"course"`
}

func (of *OverviewFilter) Clean() {
	of.Name = core.CleanString(of.Name, true /* lower */)
	of.Grade = core.CleanString(of.Grade)
	of.Course = core.CleanString(of.Course, true /* lower */)
}
