package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core/device"
	syncsvc "github.com/heronix/teacherdesk/sync"
)

type deviceApi struct {
	svc   *device.Service
	board *syncsvc.Refresher[[]device.Device]
}

func registerDeviceAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := deviceApi{svc: opts.DeviceSvc, board: opts.DeviceBoard}

	dg := g.Group("/devices", jwt)
	dg.GET("", api.query)
	dg.GET("/:id", api.retrieve)
	dg.POST("/:id/approve", api.approve)
	dg.POST("/:id/reject", api.reject)
	dg.POST("/:id/revoke", api.revoke)
}

// query serves the device board from the poller's snapshot when one exists,
// so the list stays readable while the admin backend flaps.
func (api *deviceApi) query(ctx echo.Context) error {
	if api.board != nil {
		if devices, ok := api.board.Snapshot(); ok {
			return ctx.JSON(http.StatusOK, devices)
		}
	}
	devices, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying devices")
	}
	return ctx.JSON(http.StatusOK, devices)
}

func (api *deviceApi) retrieve(ctx echo.Context) error {
	dev, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dev)
}

type approveRequest struct {
	StudentID string `json:"student_id"`
}

func (api *deviceApi) approve(ctx echo.Context) error {
	var data approveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to approveRequest")
	}

	dev, err := api.svc.Approve(ctx.Request().Context(), device.Approval{
		DeviceID:  ctx.Param("id"),
		StudentID: data.StudentID,
	})
	if err != nil {
		return err
	}
	api.refreshBoard(ctx)
	return ctx.JSON(http.StatusOK, dev)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (api *deviceApi) reject(ctx echo.Context) error {
	var data reasonRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to reasonRequest")
	}

	dev, err := api.svc.Reject(ctx.Request().Context(), device.Rejection{
		DeviceID: ctx.Param("id"),
		Reason:   data.Reason,
	})
	if err != nil {
		return err
	}
	api.refreshBoard(ctx)
	return ctx.JSON(http.StatusOK, dev)
}

func (api *deviceApi) revoke(ctx echo.Context) error {
	var data reasonRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to reasonRequest")
	}

	dev, err := api.svc.Revoke(ctx.Request().Context(), device.Revocation{
		DeviceID: ctx.Param("id"),
		Reason:   data.Reason,
	})
	if err != nil {
		return err
	}
	api.refreshBoard(ctx)
	return ctx.JSON(http.StatusOK, dev)
}

// refreshBoard re-snapshots the device list after a successful transition so
// the next board read shows the new state (optimistic-refresh).
func (api *deviceApi) refreshBoard(ctx echo.Context) {
	if api.board != nil {
		api.board.RefreshNow(ctx.Request().Context())
	}
}
