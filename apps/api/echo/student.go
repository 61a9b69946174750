package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/student"
)

type studentApi struct {
	deps *Deps
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := studentApi{deps: deps}

	sg := g.Group("/student")

	// un-authed endpoints
	sg.GET("/search", api.search)
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", jwt, roleMiddleware(RoleStudent))
	ag.GET("/status", api.status)
	ag.POST("/schedule", api.saveSchedule)
}

// Handlers

// search lets a student look up their ID by name before logging in.
func (api *studentApi) search(ctx echo.Context) error {
	students, err := api.deps.StudentSvc.Search(ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "searching students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// login issues a student token when the ID exists and the re-typed check
// matches; there is no student password.
func (api *studentApi) login(ctx echo.Context) error {
	var data StudentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if data.StudentID != data.IDCheck {
		return errAuthenticationFailed
	}

	stu, err := api.deps.StudentSvc.GetByID(data.StudentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding student")
	}

	token, err := GenerateToken(api.deps.Conf, GetStudentClaims(api.deps.Conf, stu))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *studentApi) status(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	stu, err := api.deps.StudentSvc.GetByID(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}
	return api.respondStatus(ctx, stu)
}

func (api *studentApi) saveSchedule(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	stu, err := api.deps.StudentSvc.GetByID(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}

	ok, err := api.deps.SettingsSvc.CanSubmit(stu.GradeLevel)
	if err != nil {
		return errors.Wrap(err, "checking submission lock")
	}
	if !ok {
		return errSubmissionsLocked
	}

	var data schedule.UpsertSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertSchedule")
	}
	// identity comes from the token, not the payload
	data.StudentID = stu.ID
	data.StudentName = stu.Name
	data.GradeLevel = stu.GradeLevel
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := data.CheckLimits(api.deps.Conf); err != nil {
		return err
	}

	if _, err := api.deps.ScheduleSvc.Upsert(data); err != nil {
		return errors.Wrap(err, "saving schedule")
	}
	return api.respondStatus(ctx, stu)
}

// respondStatus builds the full portal view; reading the schedule also
// self-heals its approval rows.
func (api *studentApi) respondStatus(ctx echo.Context, stu student.Student) error {
	sched, err := api.deps.ScheduleSvc.GetForStudent(stu)
	if err != nil {
		return errors.Wrap(err, "getting schedule")
	}
	academic, elective, err := api.deps.ScheduleSvc.Itemize(stu.ID, sched)
	if err != nil {
		return errors.Wrap(err, "itemizing schedule")
	}
	pending, rejected, err := api.deps.ScheduleSvc.CountPendingRejected(stu.ID, sched)
	if err != nil {
		return errors.Wrap(err, "counting approvals")
	}
	canSubmit, err := api.deps.SettingsSvc.CanSubmit(stu.GradeLevel)
	if err != nil {
		return errors.Wrap(err, "checking submission lock")
	}

	if academic == nil {
		academic = []schedule.Item{}
	}
	if elective == nil {
		elective = []schedule.Item{}
	}
	if sched.AcademicCourses == nil {
		sched.AcademicCourses = []string{}
	}
	if sched.ElectiveCourses == nil {
		sched.ElectiveCourses = []string{}
	}

	return ctx.JSON(http.StatusOK, StudentStatusResponse{
		Schedule:      sched,
		Academic:      academic,
		Elective:      elective,
		PendingCount:  pending,
		RejectedCount: rejected,
		CanSubmit:     canSubmit,
	})
}
