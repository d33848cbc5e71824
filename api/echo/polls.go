package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core/poll"
)

type pollApi struct {
	svc *poll.Service
}

func registerPollAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := pollApi{svc: opts.PollSvc}

	pg := g.Group("/polls", jwt)
	pg.POST("", api.create)
	pg.GET("", api.query)

	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/publish", api.publish)
	dg.POST("/close", api.close)
	dg.POST("/responses", api.submitResponse)
	dg.GET("/results", api.results)
}

func (api *pollApi) create(ctx echo.Context) error {
	var data poll.NewPoll
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPoll")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *pollApi) query(ctx echo.Context) error {
	polls, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying polls")
	}
	return ctx.JSON(http.StatusOK, polls)
}

func (api *pollApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *pollApi) publish(ctx echo.Context) error {
	p, err := api.svc.Publish(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *pollApi) close(ctx echo.Context) error {
	p, err := api.svc.Close(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *pollApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type submitResponseRequest struct {
	Answers []poll.Answer `json:"answers"`
}

func (api *pollApi) submitResponse(ctx echo.Context) error {
	var data submitResponseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to submitResponseRequest")
	}
	if err := api.svc.SubmitResponse(ctx.Request().Context(), ctx.Param("id"), data.Answers); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}

func (api *pollApi) results(ctx echo.Context) error {
	res, err := api.svc.Results(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
