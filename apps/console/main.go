package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/heronix/teacherdesk/api/echo"
	"github.com/heronix/teacherdesk/apiclient"
	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/device"
	"github.com/heronix/teacherdesk/core/discipline"
	"github.com/heronix/teacherdesk/core/dismissal"
	"github.com/heronix/teacherdesk/core/poll"
	"github.com/heronix/teacherdesk/core/schedule"
	"github.com/heronix/teacherdesk/core/session"
	"github.com/heronix/teacherdesk/core/student"
	"github.com/heronix/teacherdesk/services/logsvc"
	localdb "github.com/heronix/teacherdesk/storage/local"
	syncsvc "github.com/heronix/teacherdesk/sync"
)

// wiring is everything the console API server needs, built either against the
// real backends or against in-memory dummies (-demo).
type wiring struct {
	sessionMgr    *session.Manager
	pollSvc       *poll.Service
	deviceSvc     *device.Service
	disciplineSvc *discipline.Service
	dismissalSvc  *dismissal.Service
	studentSvc    *student.Service
	scheduleSvc   *schedule.Service

	outbox    core.Outbox
	syncState syncsvc.SyncStateStore

	grades echoapi.GradeSource
	inbox  echoapi.InboxSource

	probes []namedProbe
}

type namedProbe struct {
	name  string
	probe syncsvc.Probe
}

func main() {
	demo := flag.Bool("demo", false, "run against in-memory dummy backends")
	flag.Parse()

	conf := core.NewConfig()
	errAndDie(conf.Validate())

	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// validation
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	var w *wiring
	if *demo {
		logger.Info("demo mode: in-memory backends, seeded data")
		w = demoWiring(conf, validate, logger)
	} else {
		db, err := localdb.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(localdb.Migrate(db))
		w = liveWiring(conf, db, validate, logger)
	}

	ctx := context.Background()

	// background machinery
	monitor := syncsvc.NewNetworkMonitor(conf.Refresh.Health, logger)
	for _, np := range w.probes {
		monitor.Watch(np.name, np.probe)
	}
	monitor.Start(ctx)

	autoSync := syncsvc.NewAutoSync(w.outbox, w.syncState, conf.Refresh.Sync, logger)
	autoSync.Register(core.OutboxDisciplineIncident, w.disciplineSvc.Replay)
	autoSync.Start(ctx)

	dismissalBoard := syncsvc.NewRefresher("dismissal board", conf.Refresh.Dismissal, w.dismissalSvc.Board, logger)
	dismissalBoard.Start(ctx)
	deviceBoard := syncsvc.NewRefresher("device board", conf.Refresh.Dismissal, w.deviceSvc.QueryAll, logger)
	deviceBoard.Start(ctx)

	// start the console API the UI shell polls
	app := echoapi.NewServer(
		&echoapi.Options{
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,

			SessionMgr:    w.sessionMgr,
			PollSvc:       w.pollSvc,
			DeviceSvc:     w.deviceSvc,
			DisciplineSvc: w.disciplineSvc,
			DismissalSvc:  w.dismissalSvc,
			StudentSvc:    w.studentSvc,
			ScheduleSvc:   w.scheduleSvc,

			Grades: w.grades,
			Inbox:  w.inbox,

			Monitor:  monitor,
			AutoSync: autoSync,

			DismissalBoard: dismissalBoard,
			DeviceBoard:    deviceBoard,
		},
	)
	app.Start()
}

// liveWiring builds the services against the remote backends and the local
// SQLite store.
func liveWiring(conf *core.Config, db *sqlx.DB, validate *validator.Validate, logger core.Logger) *wiring {
	credStore := localdb.NewCredentialRepository(db)
	studentRepo := localdb.NewStudentRepository(db)
	outbox := localdb.NewOutboxRepository(db)
	syncState := localdb.NewSyncStateRepository(db)

	// clients pull the bearer token from the session manager, which in turn
	// needs the auth client: break the loop with a late-bound closure
	var sessionMgr *session.Manager
	token := func() string {
		if sessionMgr == nil {
			return ""
		}
		return sessionMgr.Token()
	}
	authCl := apiclient.NewAuthClient(conf, token)
	adminCl := apiclient.NewAdminClient(conf, token)
	pollCl := apiclient.NewPollClient(conf, token)
	dismissalCl := apiclient.NewDismissalClient(conf, token)
	edgamesCl := apiclient.NewEdGamesClient(conf, token)
	talkCl := apiclient.NewTalkClient(conf, token)

	sessionMgr = session.NewManager(authCl, credStore, validate, logger)

	return &wiring{
		sessionMgr:    sessionMgr,
		pollSvc:       poll.NewService(pollCl, validate, logger),
		deviceSvc:     device.NewService(adminCl, validate, logger),
		disciplineSvc: discipline.NewService(adminCl, outbox, validate, logger),
		dismissalSvc:  dismissal.NewService(dismissalCl, conf.Dismissal.BusCapacities, logger),
		studentSvc:    student.NewService(studentRepo, adminCl, logger),
		scheduleSvc:   schedule.NewService(adminCl),

		outbox:    outbox,
		syncState: syncState,

		grades: edgamesCl,
		inbox:  talkCl,

		probes: []namedProbe{
			{"auth", authCl},
			{"admin", adminCl},
			{"polls", pollCl},
			{"dismissal", dismissalCl},
			{"edgames", edgamesCl},
			{"talk", talkCl},
		},
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
