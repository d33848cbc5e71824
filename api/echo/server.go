// Package echoapi is the localhost API the UI shell polls: the view layer's
// data source for boards, lists and form submissions.
package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/device"
	"github.com/heronix/teacherdesk/core/discipline"
	"github.com/heronix/teacherdesk/core/dismissal"
	"github.com/heronix/teacherdesk/core/poll"
	"github.com/heronix/teacherdesk/core/schedule"
	"github.com/heronix/teacherdesk/core/session"
	"github.com/heronix/teacherdesk/core/student"
	syncsvc "github.com/heronix/teacherdesk/sync"
)

type (
	Options struct {
		Conf           *core.Config
		DisableReqLogs bool

		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		SessionMgr    *session.Manager
		PollSvc       *poll.Service
		DeviceSvc     *device.Service
		DisciplineSvc *discipline.Service
		DismissalSvc  *dismissal.Service
		StudentSvc    *student.Service
		ScheduleSvc   *schedule.Service

		Grades GradeSource
		Inbox  InboxSource

		Monitor  *syncsvc.NetworkMonitor
		AutoSync *syncsvc.AutoSync

		DismissalBoard *syncsvc.Refresher[[]dismissal.Event]
		DeviceBoard    *syncsvc.Refresher[[]device.Device]
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := configureAuth(conf)

	registerSessionAPI(v1, jwt, s.opts)
	registerPollAPI(v1, jwt, s.opts)
	registerDeviceAPI(v1, jwt, s.opts)
	registerRosterAPI(v1, jwt, s.opts)
	registerDismissalAPI(v1, jwt, s.opts)
	registerIncidentAPI(v1, jwt, s.opts)
	registerWorkspaceAPI(v1, jwt, s.opts)
	registerStatusAPI(v1, jwt, s.opts)
}

func (s *server) Start() {
	go func() {
		<-s.shutdown
		s.opts.Logger.Error("integrity issue detected; shutting down console API")
		_ = s.Stop(context.Background())
	}()
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.Console.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Heronix Teacher Console")
}
