package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/device"
	"github.com/heronix/teacherdesk/core/discipline"
	"github.com/heronix/teacherdesk/core/dismissal"
	"github.com/heronix/teacherdesk/core/poll"
	"github.com/heronix/teacherdesk/core/schedule"
	"github.com/heronix/teacherdesk/core/session"
	"github.com/heronix/teacherdesk/core/student"
	dummygw "github.com/heronix/teacherdesk/storage/dummy"
	syncsvc "github.com/heronix/teacherdesk/sync"
)

type httpErr struct {
	Error string `json:"error"`
}

// deps exposes the dummy backends behind a test server so cases can seed and
// break them.
type deps struct {
	conf *core.Config

	authGw       *dummygw.AuthGateway
	pollGw       *dummygw.PollGateway
	deviceGw     *dummygw.DeviceGateway
	dismissalGw  *dummygw.DismissalGateway
	disciplineGw *dummygw.DisciplineGateway
	rosterGw     *dummygw.RosterGateway
	outbox       *dummygw.Outbox

	sessionMgr *session.Manager
	autosync   *syncsvc.AutoSync
}

func testConf() *core.Config {
	return &core.Config{
		TestMode:  true,
		AppName:   "Heronix Teacher Console",
		SecretKey: "secret",
		Console: core.ConsoleConfig{
			Addr:               "127.0.0.1:0",
			JWTExpirationDelta: 10 * time.Minute,
		},
		Refresh:   core.RefreshConfig{Dismissal: 15 * time.Second, Health: 30 * time.Second, Sync: time.Minute},
		Dismissal: core.DismissalConfig{BusCapacities: map[string]int{"12": 2}},
	}
}

func testServer(t *testing.T) (Server, *deps) {
	t.Helper()

	conf := testConf()
	logger := core.NopLogger{}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	d := &deps{
		conf:         conf,
		authGw:       dummygw.NewAuthGateway(),
		pollGw:       dummygw.NewPollGateway(),
		deviceGw:     dummygw.NewDeviceGateway(),
		dismissalGw:  dummygw.NewDismissalGateway(),
		disciplineGw: dummygw.NewDisciplineGateway(),
		rosterGw:     dummygw.NewRosterGateway(nil, nil),
		outbox:       dummygw.NewOutbox(),
	}
	d.authGw.Seed(session.Account{
		ID:         "acct-1",
		EmployeeID: "t1001",
		Name:       "Pat Rivera",
		Roles:      []string{session.RoleHomeroom},
	}, "passwd")

	d.sessionMgr = session.NewManager(d.authGw, dummygw.NewCredentialStore(), validate, logger)
	disciplineSvc := discipline.NewService(d.disciplineGw, d.outbox, validate, logger)

	monitor := syncsvc.NewNetworkMonitor(conf.Refresh.Health, logger)
	monitor.Watch("auth", d.authGw)
	monitor.CheckNow(context.Background())

	d.autosync = syncsvc.NewAutoSync(d.outbox, dummygw.NewSyncStateStore(), conf.Refresh.Sync, logger)
	d.autosync.Register(core.OutboxDisciplineIncident, disciplineSvc.Replay)

	srv := NewServer(&Options{
		Conf:           conf,
		DisableReqLogs: true,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,

		SessionMgr:    d.sessionMgr,
		PollSvc:       poll.NewService(d.pollGw, validate, logger),
		DeviceSvc:     device.NewService(d.deviceGw, validate, logger),
		DisciplineSvc: disciplineSvc,
		DismissalSvc:  dismissal.NewService(d.dismissalGw, conf.Dismissal.BusCapacities, logger),
		StudentSvc:    student.NewService(dummygw.NewStudentRepository(), d.rosterGw, logger),
		ScheduleSvc:   schedule.NewService(d.rosterGw),

		Monitor:  monitor,
		AutoSync: d.autosync,
	})
	return srv, d
}

// teacherToken mints a valid console JWT without going through login.
func teacherToken(t *testing.T, conf *core.Config) string {
	t.Helper()
	sess := session.Session{
		Account: session.Account{
			ID:         "acct-1",
			EmployeeID: "t1001",
			Name:       "Pat Rivera",
			Roles:      []string{session.RoleHomeroom},
		},
		StartedAt: time.Now().UTC(),
	}
	token, err := generateToken(getSessionClaims(sess, conf), conf)
	if err != nil {
		t.Fatalf("teacherToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func doJSON(t *testing.T, srv Server, method, path, token string, in, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if in != nil {
		var err error
		if data, err = json.Marshal(in); err != nil {
			t.Fatalf("marshalling request: %v", err)
		}
	}
	req, rec := newAuthRequest(method, path, token, data)
	srv.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s %s response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
