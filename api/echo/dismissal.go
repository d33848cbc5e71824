package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/heronix/teacherdesk/core/dismissal"
	syncsvc "github.com/heronix/teacherdesk/sync"
)

type dismissalApi struct {
	svc   *dismissal.Service
	board *syncsvc.Refresher[[]dismissal.Event]
}

func registerDismissalAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := dismissalApi{svc: opts.DismissalSvc, board: opts.DismissalBoard}

	dg := g.Group("/dismissal", jwt)
	dg.GET("/board", api.boardSnapshot)
	dg.GET("/stats", api.stats)
	dg.GET("/bus-loads", api.busLoads)
	dg.POST("/events/:id/depart", api.depart)
}

// boardSnapshot serves the 15s poller's snapshot; before the first successful tick
// it falls through to a direct fetch.
func (api *dismissalApi) boardSnapshot(ctx echo.Context) error {
	if api.board != nil {
		if events, ok := api.board.Snapshot(); ok {
			return ctx.JSON(http.StatusOK, events)
		}
	}
	events, err := api.svc.Board(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *dismissalApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *dismissalApi) busLoads(ctx echo.Context) error {
	loads, err := api.svc.BusLoads(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, loads)
}

func (api *dismissalApi) depart(ctx echo.Context) error {
	ev, err := api.svc.MarkDeparted(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if api.board != nil {
		api.board.RefreshNow(ctx.Request().Context())
	}
	return ctx.JSON(http.StatusOK, ev)
}
