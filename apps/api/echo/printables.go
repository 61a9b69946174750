package echoapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/student"
)

//go:embed templates
var printableFS embed.FS

var printableTmpl = template.Must(
	template.New("schedule_card.gohtml").
		Funcs(template.FuncMap{"add1": func(i int) int { return i + 1 }}).
		ParseFS(printableFS, "templates/schedule_card.gohtml"),
)

type printableApi struct {
	deps *Deps
}

func registerPrintableAPI(g *echo.Group, deps *Deps) {
	api := printableApi{deps: deps}

	g.GET("/printables/schedules/:student_id", api.scheduleCard)
	g.GET("/printables/schedules", api.allScheduleCards)
}

type scheduleCard struct {
	SchoolName    string
	Student       student.Student
	Schedule      schedule.Schedule
	Academic      []schedule.Item
	Elective      []schedule.Item
	SubjectColors map[string]string
}

func (api *printableApi) buildCard(stu student.Student) (scheduleCard, error) {
	sched, err := api.deps.ScheduleSvc.GetForStudent(stu)
	if err != nil {
		return scheduleCard{}, errors.Wrap(err, "getting schedule")
	}
	academic, elective, err := api.deps.ScheduleSvc.Itemize(stu.ID, sched)
	if err != nil {
		return scheduleCard{}, errors.Wrap(err, "itemizing schedule")
	}
	doc, err := api.deps.SettingsSvc.Get()
	if err != nil {
		return scheduleCard{}, errors.Wrap(err, "getting settings")
	}
	return scheduleCard{
		SchoolName:    api.deps.Conf.SchoolName,
		Student:       stu,
		Schedule:      sched,
		Academic:      academic,
		Elective:      elective,
		SubjectColors: doc.SubjectColors,
	}, nil
}

// scheduleCard renders one student's printable card.
func (api *printableApi) scheduleCard(ctx echo.Context) error {
	stu, err := api.deps.StudentSvc.GetByID(ctx.Param("student_id"))
	if err != nil {
		return err
	}
	card, err := api.buildCard(stu)
	if err != nil {
		return err
	}

	var buff bytes.Buffer
	if err := printableTmpl.Execute(&buff, []scheduleCard{card}); err != nil {
		return errors.Wrap(err, "rendering schedule card")
	}
	return ctx.HTML(http.StatusOK, buff.String())
}

// allScheduleCards renders the whole roster as one print run, one card per
// page.
func (api *printableApi) allScheduleCards(ctx echo.Context) error {
	students, err := api.deps.StudentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	cards := make([]scheduleCard, 0, len(students))
	for _, stu := range students {
		card, err := api.buildCard(stu)
		if err != nil {
			return err
		}
		cards = append(cards, card)
	}

	var buff bytes.Buffer
	if err := printableTmpl.Execute(&buff, cards); err != nil {
		return errors.Wrap(err, "rendering schedule cards")
	}
	return ctx.HTML(http.StatusOK, buff.String())
}
