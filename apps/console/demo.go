package main

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/device"
	"github.com/heronix/teacherdesk/core/discipline"
	"github.com/heronix/teacherdesk/core/dismissal"
	"github.com/heronix/teacherdesk/core/poll"
	"github.com/heronix/teacherdesk/core/schedule"
	"github.com/heronix/teacherdesk/core/session"
	"github.com/heronix/teacherdesk/core/student"
	dummygw "github.com/heronix/teacherdesk/storage/dummy"
)

// demoProbe reports every backend reachable.
type demoProbe struct{}

func (demoProbe) Ping(context.Context) error { return nil }

// demoWiring builds the services against seeded in-memory backends so the
// console can be exercised without a school network. Login with
// t1001 / passwd.
func demoWiring(conf *core.Config, validate *validator.Validate, logger core.Logger) *wiring {
	now := time.Now().UTC()

	authGw := dummygw.NewAuthGateway()
	authGw.Seed(session.Account{
		ID:         "acct-1",
		EmployeeID: "t1001",
		Name:       "Pat Rivera",
		Email:      "privera@heronix.example",
		Roles:      []string{session.RoleHomeroom, session.RoleDismissal},
	}, "passwd")

	rosterGw := dummygw.NewRosterGateway(
		[]student.RosterEntry{
			{StudentNumber: "stu-1", FullName: "Okafor, Amara", GradeLevel: "7", HomeroomCode: "7B", Guardian: "Ngozi Okafor"},
			{StudentNumber: "stu-2", FullName: "Nguyen, Bao", GradeLevel: "7", HomeroomCode: "7B", Guardian: "Linh Nguyen"},
			{StudentNumber: "stu-3", FullName: "Silva, Carla", GradeLevel: "7", HomeroomCode: "7B", Guardian: "Rui Silva"},
		},
		[]schedule.Period{
			{DayOfWeek: time.Monday, StartTime: "08:00", EndTime: "08:50", Course: "Math 7", Section: "7B", Room: "214"},
			{DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "09:50", Course: "Math 7", Section: "7C", Room: "214"},
		},
	)

	deviceGw := dummygw.NewDeviceGateway(
		device.Device{ID: "dev-1", Name: "CB-88-1021", Type: "LAPTOP", OS: "ChromeOS",
			Status: device.StatusPending, RegisteredAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour)},
		device.Device{ID: "dev-2", Name: "CB-88-1044", Type: "LAPTOP", OS: "ChromeOS",
			Status: device.StatusApproved, StudentID: null.StringFrom("stu-2"),
			RegisteredAt: now.Add(-48 * time.Hour), UpdatedAt: now.Add(-47 * time.Hour)},
	)

	dismissalGw := dummygw.NewDismissalGateway(
		dismissal.Event{ID: "ev-1", Type: dismissal.BusArrival, Status: dismissal.StatusPending,
			StudentID: "stu-1", StudentName: "Amara Okafor", BusNumber: null.StringFrom("12"), CreatedAt: now},
		dismissal.Event{ID: "ev-2", Type: dismissal.CarPickup, Status: dismissal.StatusPending,
			StudentID: "stu-2", StudentName: "Bao Nguyen", ParentName: null.StringFrom("Linh Nguyen"), CreatedAt: now},
		dismissal.Event{ID: "ev-3", Type: dismissal.Walker, Status: dismissal.StatusDeparted,
			StudentID: "stu-3", StudentName: "Carla Silva", CreatedAt: now.Add(-30 * time.Minute), DepartedAt: null.TimeFrom(now.Add(-10 * time.Minute))},
	)

	pollGw := dummygw.NewPollGateway()
	seedPoll(pollGw, validate, logger)

	outbox := dummygw.NewOutbox()

	return &wiring{
		sessionMgr:    session.NewManager(authGw, dummygw.NewCredentialStore(), validate, logger),
		pollSvc:       poll.NewService(pollGw, validate, logger),
		deviceSvc:     device.NewService(deviceGw, validate, logger),
		disciplineSvc: discipline.NewService(dummygw.NewDisciplineGateway(), outbox, validate, logger),
		dismissalSvc:  dismissal.NewService(dismissalGw, conf.Dismissal.BusCapacities, logger),
		studentSvc:    student.NewService(dummygw.NewStudentRepository(), rosterGw, logger),
		scheduleSvc:   schedule.NewService(rosterGw),

		outbox:    outbox,
		syncState: dummygw.NewSyncStateStore(),

		probes: []namedProbe{
			{"auth", demoProbe{}},
			{"admin", demoProbe{}},
			{"polls", demoProbe{}},
			{"dismissal", demoProbe{}},
		},
	}
}

func seedPoll(gw *dummygw.PollGateway, validate *validator.Validate, logger core.Logger) {
	svc := poll.NewService(gw, validate, logger)
	ctx := context.Background()

	created, err := svc.Create(ctx, "t1001", poll.NewPoll{
		Title:    "Lunch Survey",
		Audience: "STUDENTS",
		Questions: []poll.NewQuestion{
			{Text: "Favorite lunch?", Type: poll.MultipleChoice, Options: []string{"Pizza", "Tacos"}},
		},
	})
	if err != nil {
		logger.Warn("seeding demo poll", err)
		return
	}
	if _, err = svc.Publish(ctx, created.ID); err != nil {
		logger.Warn("publishing demo poll", err)
	}
}
