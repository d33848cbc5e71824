package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/session"
)

type sessionApi struct {
	mgr  *session.Manager
	conf *core.Config
	opts *Options
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := sessionApi{mgr: opts.SessionMgr, conf: opts.Conf, opts: opts}

	sg := g.Group("/session")
	sg.POST("/login", api.login)

	ag := sg.Group("", jwt)
	ag.GET("", api.current)
	ag.POST("/refresh", api.refresh)
	ag.DELETE("", api.logout)
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session session.Session `json:"session"`
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data session.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	sess, err := api.mgr.Login(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == session.ErrInvalidCredentials {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return err
	}

	token, err := generateToken(getSessionClaims(sess, api.conf), api.conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, Session: sess})
}

func (api *sessionApi) current(ctx echo.Context) error {
	sess, ok := api.mgr.Current()
	if !ok {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) refresh(ctx echo.Context) error {
	if err := api.mgr.RefreshToken(ctx.Request().Context()); err != nil {
		return err
	}
	sess, _ := api.mgr.Current()
	token, err := generateToken(getSessionClaims(sess, api.conf), api.conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, Session: sess})
}

func (api *sessionApi) logout(ctx echo.Context) error {
	api.mgr.Logout()
	return ctx.NoContent(http.StatusNoContent)
}
