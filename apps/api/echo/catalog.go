package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/catalog"
)

type catalogApi struct {
	deps *Deps
}

// registerCatalogAPI exposes the public catalog browser; no auth, students
// consult it before they ever log in.
func registerCatalogAPI(g *echo.Group, deps *Deps) {
	api := catalogApi{deps: deps}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.GET("/:code", api.retrieve)
}

func (api *catalogApi) query(ctx echo.Context) error {
	filter := new(catalog.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []catalog.Course{})
	}
	filter.Clean()

	courses, err := api.deps.CatalogSvc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) retrieve(ctx echo.Context) error {
	crs, err := api.deps.CatalogSvc.GetByCode(ctx.Param("code"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}
