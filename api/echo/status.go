package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	syncsvc "github.com/heronix/teacherdesk/sync"
)

type statusApi struct {
	monitor  *syncsvc.NetworkMonitor
	autosync *syncsvc.AutoSync
}

func registerStatusAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := statusApi{monitor: opts.Monitor, autosync: opts.AutoSync}

	sg := g.Group("/status", jwt)
	sg.GET("", api.status)
	sg.POST("/sync", api.syncNow)
}

// statusResponse drives the header widgets: per-backend health icons, the
// pending-changes badge and the last-sync label.
type statusResponse struct {
	Online       bool                    `json:"online"`
	Backends     []syncsvc.BackendStatus `json:"backends"`
	PendingItems int                     `json:"pending_items"`
	LastSyncTime time.Time               `json:"last_sync_time"`
}

func (api *statusApi) status(ctx echo.Context) error {
	res := statusResponse{
		Online:   api.monitor.Online(),
		Backends: api.monitor.Statuses(),
	}
	if count, err := api.autosync.PendingCount(ctx.Request().Context()); err == nil {
		res.PendingItems = count
	}
	if t, err := api.autosync.LastSyncTime(ctx.Request().Context()); err == nil {
		res.LastSyncTime = t
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *statusApi) syncNow(ctx echo.Context) error {
	if err := api.autosync.SyncNow(ctx.Request().Context()); err != nil {
		return err
	}
	return api.status(ctx)
}
