package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/arcacademy/courseflow/core"
)

// Student is master data managed by the counselor, keyed by the
// school-issued student ID.
type Student struct {
	ID         string `json:"student_id"`
	Name       string `json:"student_name"`
	GradeLevel string `json:"grade_level"`
}

// NewStudent contains information needed to append a Student to the roster.
type NewStudent struct {
	ID         string `json:"student_id" validate:"required"`
	Name       string `json:"student_name" validate:"required"`
	GradeLevel string `json:"grade_level" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.ID = core.CleanString(ns.ID)
	ns.Name = core.CleanString(ns.Name)
	ns.GradeLevel = core.CleanString(ns.GradeLevel)
	return validate.Struct(ns)
}

func (ns NewStudent) student() Student {
	return Student(ns)
}
