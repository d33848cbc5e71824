package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/heronix/teacherdesk/core/schedule"
	"github.com/heronix/teacherdesk/core/student"
)

type rosterApi struct {
	students  *student.Service
	schedules *schedule.Service
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := rosterApi{students: opts.StudentSvc, schedules: opts.ScheduleSvc}

	rg := g.Group("/roster", jwt)
	rg.GET("", api.roster)
	rg.GET("/search", api.search)
	rg.POST("/refresh", api.refresh)

	g.GET("/schedule", api.schedule, jwt)
	g.GET("/schedule/today", api.today, jwt)
}

func (api *rosterApi) roster(ctx echo.Context) error {
	students, err := api.students.Roster(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

// refresh forces a roster pull from the backend, replacing the local cache.
func (api *rosterApi) refresh(ctx echo.Context) error {
	if err := api.students.Refresh(ctx.Request().Context()); err != nil {
		return err
	}
	return api.roster(ctx)
}

func (api *rosterApi) search(ctx echo.Context) error {
	students, err := api.students.Search(ctx.Request().Context(), ctx.QueryParam("q"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *rosterApi) schedule(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	periods, err := api.schedules.Week(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, periods)
}

func (api *rosterApi) today(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	periods, err := api.schedules.Today(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, periods)
}
