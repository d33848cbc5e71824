package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core/discipline"
)

type incidentApi struct {
	svc *discipline.Service
}

func registerIncidentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := incidentApi{svc: opts.DisciplineSvc}

	g.POST("/incidents", api.submit, jwt)
}

type submitIncidentResponse struct {
	Queued bool `json:"queued"`
}

func (api *incidentApi) submit(ctx echo.Context) error {
	var data discipline.NewIncident
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewIncident")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	queued, err := api.svc.Submit(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusAccepted, submitIncidentResponse{Queued: queued})
}
