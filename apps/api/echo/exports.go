package echoapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/schedule"
)

type exportApi struct {
	deps *Deps
}

func registerExportAPI(g *echo.Group, deps *Deps) {
	api := exportApi{deps: deps}

	g.GET("/templates/:collection", api.template)
	g.GET("/exports/schedules", api.exportSchedules)
	g.GET("/exports/overview", api.exportOverview)
}

// templates returns a header + one sample row for each uploadable collection
// so counselors can fill them in a spreadsheet.
var templates = map[string]struct {
	header []string
	sample []string
}{
	"students": {
		header: []string{"student_id", "student_name", "grade_level"},
		sample: []string{"100001", "Avery Johnson", "9"},
	},
	"courses": {
		header: []string{"course_code", "course_name", "subject_area", "level", "grade_min", "grade_max", "requires_approval", "teacher_name", "teacher_email", "room", "description"},
		sample: []string{"BIO", "Biology (BIO)", "Science", "", "9", "10", "TRUE", "A. Singh", "singh@school.org", "301", "Lab science with placement approval."},
	},
	"teachers": {
		header: []string{"email", "name", "password"},
		sample: []string{"singh@school.org", "A. Singh", "changeme"},
	},
}

func (api *exportApi) template(ctx echo.Context) error {
	name := ctx.Param("collection")

	// the schedules header is sized to the configured slot counts, so it
	// cannot live in the static map
	if name == "schedules" {
		header, sample := api.schedulesTemplate()
		return sendTemplate(ctx, name, header, sample)
	}

	tmpl, ok := templates[name]
	if !ok {
		return errUnknownCollection
	}
	return sendTemplate(ctx, name, tmpl.header, tmpl.sample)
}

// schedulesTemplate mirrors the on-disk schedules file: fixed-width period
// and elective slots plus the instructions and reviewed columns.
func (api *exportApi) schedulesTemplate() (header, sample []string) {
	conf := api.deps.Conf

	header = []string{"student_id", "student_name", "grade_level"}
	sample = []string{"100001", "Avery Johnson", "9"}
	periods := []string{"English I (ENG9)", "Biology (BIO)"}
	for i := 1; i <= conf.MaxAcademicCourses; i++ {
		header = append(header, fmt.Sprintf("period_%d", i))
		if i <= len(periods) {
			sample = append(sample, periods[i-1])
		} else {
			sample = append(sample, "")
		}
	}
	for j := 1; j <= conf.MaxElectiveChoices; j++ {
		header = append(header, fmt.Sprintf("elective_%d", j))
		if j == 1 {
			sample = append(sample, "Welding I (WELD1)")
		} else {
			sample = append(sample, "")
		}
	}
	header = append(header, "special_instructions", "reviewed")
	sample = append(sample, "Prefers morning classes if possible", "FALSE")
	return header, sample
}

func sendTemplate(ctx echo.Context, name string, header, sample []string) error {
	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	_ = w.Write(header)
	_ = w.Write(sample)
	w.Flush()

	return sendCSV(ctx, name+"_template.csv", buff.Bytes())
}

// exportSchedules downloads the whole schedules collection in the fixed-width
// slot format.
func (api *exportApi) exportSchedules(ctx echo.Context) error {
	schedules, err := api.deps.ScheduleSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}

	conf := api.deps.Conf
	header := []string{"student_id", "student_name", "grade_level"}
	for i := 1; i <= conf.MaxAcademicCourses; i++ {
		header = append(header, fmt.Sprintf("period_%d", i))
	}
	for j := 1; j <= conf.MaxElectiveChoices; j++ {
		header = append(header, fmt.Sprintf("elective_%d", j))
	}
	header = append(header, "special_instructions", "reviewed")

	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	_ = w.Write(header)
	for _, sched := range schedules {
		rec := []string{sched.StudentID, sched.StudentName, sched.GradeLevel}
		for i := 0; i < conf.MaxAcademicCourses; i++ {
			if i < len(sched.AcademicCourses) {
				rec = append(rec, sched.AcademicCourses[i])
			} else {
				rec = append(rec, "")
			}
		}
		for j := 0; j < conf.MaxElectiveChoices; j++ {
			if j < len(sched.ElectiveCourses) {
				rec = append(rec, sched.ElectiveCourses[j])
			} else {
				rec = append(rec, "")
			}
		}
		rec = append(rec, sched.SpecialInstructions, core.FormatBool(sched.Reviewed))
		_ = w.Write(rec)
	}
	w.Flush()

	return sendCSV(ctx, "schedules.csv", buff.Bytes())
}

// exportOverview downloads the counselor's student list, narrowed by the
// same q_name/grade/course filters the overview endpoint takes. Selections
// are pipe-joined so one row stays one student.
func (api *exportApi) exportOverview(ctx echo.Context) error {
	filter := new(schedule.OverviewFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(schedule.OverviewFilter)
	}
	filter.Clean()

	rows, err := api.deps.ScheduleSvc.StudentOverview(*filter)
	if err != nil {
		return errors.Wrap(err, "building overview")
	}

	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	_ = w.Write([]string{"student_id", "student_name", "grade_level", "scheduled", "academic_courses", "elective_priority", "special_instructions"})
	for _, row := range rows {
		scheduled := "NO"
		if row.Scheduled {
			scheduled = "YES"
		}
		_ = w.Write([]string{
			row.StudentID,
			row.StudentName,
			row.GradeLevel,
			scheduled,
			strings.Join(row.AcademicCourses, " | "),
			strings.Join(row.ElectiveCourses, " | "),
			row.SpecialInstructions,
		})
	}
	w.Flush()

	return sendCSV(ctx, "overview.csv", buff.Bytes())
}

func sendCSV(ctx echo.Context, filename string, content []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "text/csv", content)
}
