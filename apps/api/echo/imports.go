package echoapi

import (
	"encoding/csv"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
)

var errUnknownCollection = echo.NewHTTPError(http.StatusNotFound, "unknown_collection")

// uploadCollection replaces a whole collection from an uploaded CSV file
// (field name "file"). Headers must match the downloadable templates.
func (api *counselorApi) uploadCollection(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a CSV file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer f.Close()

	rows, err := readUploadRows(f)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "malformed CSV"})
	}

	switch ctx.Param("collection") {
	case "students":
		students := make([]student.Student, 0, len(rows))
		for _, row := range rows {
			if row["student_id"] == "" {
				continue
			}
			students = append(students, student.Student{
				ID:         core.CleanString(row["student_id"]),
				Name:       core.CleanString(row["student_name"]),
				GradeLevel: core.CleanString(row["grade_level"]),
			})
		}
		if err := api.deps.StudentSvc.Replace(students); err != nil {
			return errors.Wrap(err, "replacing students")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"replaced": len(students)})

	case "courses":
		courses := make([]catalog.Course, 0, len(rows))
		for _, row := range rows {
			if row["course_code"] == "" {
				continue
			}
			courses = append(courses, catalog.Course{
				Code:             core.CleanString(row["course_code"]),
				Name:             core.CleanString(row["course_name"]),
				SubjectArea:      core.CleanString(row["subject_area"]),
				Level:            core.CleanString(row["level"]),
				Description:      core.CleanString(row["description"]),
				TeacherName:      core.CleanString(row["teacher_name"]),
				TeacherEmail:     core.CleanString(row["teacher_email"], true /* lower */),
				Room:             core.CleanString(row["room"]),
				GradeMin:         core.CleanString(row["grade_min"]),
				GradeMax:         core.CleanString(row["grade_max"]),
				RequiresApproval: core.ParseBool(row["requires_approval"]),
			})
		}
		if err := api.deps.CatalogSvc.Replace(courses); err != nil {
			return errors.Wrap(err, "replacing courses")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"replaced": len(courses)})

	case "teachers":
		teachers := make([]teacher.Teacher, 0, len(rows))
		for _, row := range rows {
			if row["email"] == "" {
				continue
			}
			// passwords come in as-is; plaintext rows keep working
			// until the account is rehashed via the admin CLI
			teachers = append(teachers, teacher.Teacher{
				Email:    core.CleanString(row["email"], true /* lower */),
				Name:     core.CleanString(row["name"]),
				Password: row["password"],
			})
		}
		if err := api.deps.TeacherSvc.Replace(teachers); err != nil {
			return errors.Wrap(err, "replacing teachers")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"replaced": len(teachers)})
	}

	return errUnknownCollection
}

func readUploadRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
