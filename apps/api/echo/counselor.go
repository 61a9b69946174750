package echoapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/settings"
	"github.com/arcacademy/courseflow/core/student"
)

type counselorApi struct {
	deps *Deps
}

func registerCounselorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := counselorApi{deps: deps}

	cg := g.Group("/counselor")

	// un-authed endpoints
	cg.POST("/login", api.login)

	// authed endpoints
	ag := cg.Group("", jwt, roleMiddleware(RoleCounselor))

	ag.GET("/settings", api.getSettings)
	ag.PUT("/settings", api.updateSettings)

	ag.GET("/students", api.queryStudents)
	ag.POST("/students", api.createStudent)
	ag.DELETE("/students/:id", api.destroyStudent)
	ag.GET("/overview", api.overview)

	ag.POST("/courses", api.createCourse)
	ag.PUT("/courses/:code", api.updateCourse)
	ag.DELETE("/courses/:code", api.destroyCourse)

	ag.GET("/schedules/:student_id", api.retrieveSchedule)
	ag.PUT("/schedules/:student_id", api.saveSchedule)
	ag.DELETE("/schedules/:student_id", api.resetSchedule)
	ag.PUT("/schedules/:student_id/reviewed", api.markReviewed)

	ag.GET("/approvals/pending", api.pendingApprovals)

	ag.POST("/uploads/:collection", api.uploadCollection)

	registerExportAPI(ag, deps)
	registerPrintableAPI(ag, deps)
}

// Handlers

// login checks the shared counselor password from config.
func (api *counselorApi) login(ctx echo.Context) error {
	var data CounselorLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CounselorLoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	want := []byte(api.deps.Conf.CounselorPassword)
	if len(want) == 0 || subtle.ConstantTimeCompare([]byte(data.Password), want) != 1 {
		return errAuthenticationFailed
	}

	token, err := GenerateToken(api.deps.Conf, GetCounselorClaims(api.deps.Conf))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *counselorApi) getSettings(ctx echo.Context) error {
	doc, err := api.deps.SettingsSvc.Get()
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *counselorApi) updateSettings(ctx echo.Context) error {
	var data settings.UpdateSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSettings")
	}
	doc, err := api.deps.SettingsSvc.Update(data)
	if err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *counselorApi) queryStudents(ctx echo.Context) error {
	students, err := api.deps.StudentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *counselorApi) createStudent(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	stu, err := api.deps.StudentSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

// destroyStudent removes the roster row and cascades to the student's
// schedule and approval rows.
func (api *counselorApi) destroyStudent(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.deps.StudentSvc.Delete(id); err != nil {
		return err
	}
	// Reset prunes the approval rows even when the student never scheduled
	if err := api.deps.ScheduleSvc.Reset(id); err != nil && errors.Cause(err) != schedule.ErrNotFound {
		return errors.Wrap(err, "resetting schedule")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *counselorApi) overview(ctx echo.Context) error {
	filter := new(schedule.OverviewFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.OverviewRow{})
	}
	filter.Clean()

	rows, err := api.deps.ScheduleSvc.StudentOverview(*filter)
	if err != nil {
		return errors.Wrap(err, "building overview")
	}
	if rows == nil {
		rows = []schedule.OverviewRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *counselorApi) createCourse(ctx echo.Context) error {
	var data catalog.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	crs, err := api.deps.CatalogSvc.Create(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *counselorApi) updateCourse(ctx echo.Context) error {
	var data catalog.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	crs, err := api.deps.CatalogSvc.Update(ctx.Param("code"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

// destroyCourse drops the course and every approval row that referenced it;
// schedule entries keep their free text and degrade to "unknown course".
func (api *counselorApi) destroyCourse(ctx echo.Context) error {
	code := ctx.Param("code")
	if err := api.deps.CatalogSvc.Delete(code); err != nil {
		return err
	}
	if err := api.deps.ApprovalSvc.DeleteForCourse(code); err != nil {
		return errors.Wrap(err, "deleting approvals")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *counselorApi) retrieveSchedule(ctx echo.Context) error {
	stu, err := api.deps.StudentSvc.GetByID(ctx.Param("student_id"))
	if err != nil {
		return err
	}
	sched, err := api.deps.ScheduleSvc.GetForStudent(stu)
	if err != nil {
		return errors.Wrap(err, "getting schedule")
	}
	academic, elective, err := api.deps.ScheduleSvc.Itemize(stu.ID, sched)
	if err != nil {
		return errors.Wrap(err, "itemizing schedule")
	}
	if academic == nil {
		academic = []schedule.Item{}
	}
	if elective == nil {
		elective = []schedule.Item{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"schedule": sched,
		"academic": academic,
		"elective": elective,
	})
}

func (api *counselorApi) saveSchedule(ctx echo.Context) error {
	stu, err := api.deps.StudentSvc.GetByID(ctx.Param("student_id"))
	if err != nil {
		return err
	}

	var data schedule.UpsertSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertSchedule")
	}
	data.StudentID = stu.ID
	data.StudentName = stu.Name
	data.GradeLevel = stu.GradeLevel
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := data.CheckLimits(api.deps.Conf); err != nil {
		return err
	}

	sched, err := api.deps.ScheduleSvc.Upsert(data)
	if err != nil {
		return errors.Wrap(err, "saving schedule")
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *counselorApi) resetSchedule(ctx echo.Context) error {
	if err := api.deps.ScheduleSvc.Reset(ctx.Param("student_id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *counselorApi) markReviewed(ctx echo.Context) error {
	var data ReviewedRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviewedRequest")
	}
	sched, err := api.deps.ScheduleSvc.MarkReviewed(ctx.Param("student_id"), data.Reviewed)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sched)
}

// pendingApprovals joins pending rows with roster identities.
func (api *counselorApi) pendingApprovals(ctx echo.Context) error {
	pending, err := api.deps.ApprovalSvc.QueryPending()
	if err != nil {
		return errors.Wrap(err, "querying pending approvals")
	}
	students, err := api.deps.StudentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	byID := make(map[string]student.Student, len(students))
	for _, stu := range students {
		byID[stu.ID] = stu
	}

	rows := make([]PendingApprovalRow, 0, len(pending))
	for _, appr := range pending {
		row := PendingApprovalRow{
			StudentID:  appr.StudentID,
			CourseCode: appr.CourseCode,
			Status:     appr.Status,
		}
		if !appr.UpdatedAt.IsZero() {
			row.UpdatedAt = appr.UpdatedAt.Format(approval.TimeLayout)
		}
		if stu, ok := byID[appr.StudentID]; ok {
			row.StudentName = stu.Name
			row.GradeLevel = stu.GradeLevel
		}
		rows = append(rows, row)
	}
	return ctx.JSON(http.StatusOK, rows)
}
