package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/heronix/teacherdesk/apiclient"
	"github.com/heronix/teacherdesk/core"
)

type (
	// GradeSource pulls the class grade rollup for the header widget.
	GradeSource interface {
		GradeSummaries(ctx context.Context, teacherID string) ([]apiclient.GradeSummary, error)
	}

	// InboxSource pulls the unread message count for the header badge.
	InboxSource interface {
		UnreadCount(ctx context.Context, teacherID string) (int, error)
	}
)

type workspaceApi struct {
	grades GradeSource
	inbox  InboxSource
	log    core.Logger
}

func registerWorkspaceAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := workspaceApi{grades: opts.Grades, inbox: opts.Inbox, log: opts.Logger}
	g.GET("/workspace", api.workspace, jwt)
}

type workspaceResponse struct {
	GradeSummaries []apiclient.GradeSummary `json:"grade_summaries"`
	UnreadMessages int                      `json:"unread_messages"`
}

// workspace aggregates the optional header widgets. Either backend being
// down degrades its widget to empty rather than failing the whole call.
func (api *workspaceApi) workspace(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	res := workspaceResponse{GradeSummaries: []apiclient.GradeSummary{}}

	if api.grades != nil {
		if summaries, err := api.grades.GradeSummaries(rctx, claims.Subject); err != nil {
			api.log.Warn("grade summaries unavailable", err)
		} else {
			res.GradeSummaries = summaries
		}
	}
	if api.inbox != nil {
		if unread, err := api.inbox.UnreadCount(rctx, claims.Subject); err != nil {
			api.log.Warn("unread count unavailable", err)
		} else {
			res.UnreadMessages = unread
		}
	}
	return ctx.JSON(http.StatusOK, res)
}
