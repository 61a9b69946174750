package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/schedule"
)

type teacherApi struct {
	deps *Deps
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := teacherApi{deps: deps}

	tg := g.Group("/teacher")

	// un-authed endpoints
	tg.POST("/login", api.login)

	// authed endpoints
	ag := tg.Group("", jwt, roleMiddleware(RoleTeacher))
	ag.GET("/roster", api.roster)
	ag.PUT("/approvals", api.setApproval)
}

// Handlers

func (api *teacherApi) login(ctx echo.Context) error {
	var data TeacherLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeacherLoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	tch, err := api.deps.TeacherSvc.Authenticate(data.Email, data.Password)
	if err != nil {
		return err
	}

	token, err := GenerateToken(api.deps.Conf, GetTeacherClaims(api.deps.Conf, tch))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

// roster lists the teacher's approval-gated courses with every requester's
// current status; fetching it reconciles the affected schedules first.
func (api *teacherApi) roster(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	roster, err := api.deps.ScheduleSvc.TeacherRoster(claims.Email)
	if err != nil {
		return errors.Wrap(err, "building roster")
	}
	if roster == nil {
		roster = []schedule.RosterCourse{}
	}
	return ctx.JSON(http.StatusOK, roster)
}

// setApproval records a final decision on a pending request.
func (api *teacherApi) setApproval(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data approval.Decision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Decision")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	appr, err := api.deps.ApprovalSvc.SetDecision(claims.Email, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, appr)
}
