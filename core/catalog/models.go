package catalog

import (
	"github.com/go-playground/validator/v10"

	"github.com/arcacademy/courseflow/core"
)

// Course is master data curated by the counselor. Code is the immutable key:
// renaming a code is not supported and is treated as delete + recreate,
// orphaning any schedule or approval references to the old code.
type Course struct {
	Code             string `json:"course_code"`
	Name             string `json:"course_name"`
	SubjectArea      string `json:"subject_area"`
	Level            string `json:"level"`
	Description      string `json:"description"`
	TeacherName      string `json:"teacher_name"`
	TeacherEmail     string `json:"teacher_email"`
	Room             string `json:"room"`
	GradeMin         string `json:"grade_min"`
	GradeMax         string `json:"grade_max"`
	RequiresApproval bool   `json:"requires_approval"`
}

// NewCourse contains information needed to register a new Course.
type NewCourse struct {
	Code             string `json:"course_code" validate:"required"`
	Name             string `json:"course_name" validate:"required"`
	SubjectArea      string `json:"subject_area"`
	Level            string `json:"level"`
	Description      string `json:"description"`
	TeacherName      string `json:"teacher_name"`
	TeacherEmail     string `json:"teacher_email" validate:"omitempty,email"`
	Room             string `json:"room"`
	GradeMin         string `json:"grade_min"`
	GradeMax         string `json:"grade_max"`
	RequiresApproval bool   `json:"requires_approval"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = core.CleanString(nc.Code)
	nc.Name = core.CleanString(nc.Name)
	nc.SubjectArea = core.CleanString(nc.SubjectArea)
	nc.Level = core.CleanString(nc.Level)
	nc.Description = core.CleanString(nc.Description)
	nc.TeacherName = core.CleanString(nc.TeacherName)
	nc.TeacherEmail = core.CleanString(nc.TeacherEmail, true /* lower */)
	nc.Room = core.CleanString(nc.Room)
	nc.GradeMin = core.CleanString(nc.GradeMin)
	nc.GradeMax = core.CleanString(nc.GradeMax)
	return validate.Struct(nc)
}

func (nc NewCourse) course() Course {
	return Course(nc)
}

// UpdateCourse defines what may be modified on an existing Course.
// Empty fields keep the stored value; the code itself cannot change.
type UpdateCourse struct {
	Name             string `json:"course_name"`
	SubjectArea      string `json:"subject_area"`
	Level            string `json:"level"`
	Description      string `json:"description"`
	TeacherName      string `json:"teacher_name"`
	TeacherEmail     string `json:"teacher_email" validate:"omitempty,email"`
	Room             string `json:"room"`
	GradeMin         string `json:"grade_min"`
	GradeMax         string `json:"grade_max"`
	RequiresApproval *bool  `json:"requires_approval"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	uc.SubjectArea = core.CleanString(uc.SubjectArea)
	uc.Level = core.CleanString(uc.Level)
	uc.Description = core.CleanString(uc.Description)
	uc.TeacherName = core.CleanString(uc.TeacherName)
	uc.TeacherEmail = core.CleanString(uc.TeacherEmail, true /* lower */)
	uc.Room = core.CleanString(uc.Room)
	uc.GradeMin = core.CleanString(uc.GradeMin)
	uc.GradeMax = core.CleanString(uc.GradeMax)
	return validate.Struct(uc)
}

func (uc UpdateCourse) apply(orig Course) Course {
	apply := func(val, fallback string) string {
		if val != "" {
			return val
		}
		return fallback
	}
	crs := Course{
		Code:         orig.Code,
		Name:         apply(uc.Name, orig.Name),
		SubjectArea:  apply(uc.SubjectArea, orig.SubjectArea),
		Level:        apply(uc.Level, orig.Level),
		Description:  apply(uc.Description, orig.Description),
		TeacherName:  apply(uc.TeacherName, orig.TeacherName),
		TeacherEmail: apply(uc.TeacherEmail, orig.TeacherEmail),
		Room:         apply(uc.Room, orig.Room),
		GradeMin:     apply(uc.GradeMin, orig.GradeMin),
		GradeMax:     apply(uc.GradeMax, orig.GradeMax),
	}
	if uc.RequiresApproval != nil {
		crs.RequiresApproval = *uc.RequiresApproval
	} else {
		crs.RequiresApproval = orig.RequiresApproval
	}
	return crs
}

// QueryFilter narrows catalog browsing. All fields AND together:
// Subject and Name match case-insensitive substrings, Grade keeps courses
// whose [GradeMin, GradeMax] range contains it (non-numeric bounds pass).
type QueryFilter struct {
	Subject string `query:"subject"`
	Grade   string `query:"grade"`
	Name    string `query:"name"`
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject, true /* lower */)
	qf.Grade = core.CleanString(qf.Grade)
	qf.Name = core.CleanString(qf.Name, true /* lower */)
}
