package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heronix/teacherdesk/core/discipline"
)

func referralBody() map[string]interface{} {
	return map[string]interface{}{
		"student_id":  "stu-1",
		"category":    discipline.CategoryDisruption,
		"severity":    discipline.SeverityMinor,
		"location":    "Room 214",
		"description": "Talking over the lesson repeatedly",
	}
}

func Test_incidentApi_submit(t *testing.T) {
	srv, d := testServer(t)
	token := teacherToken(t, d.conf)

	var res submitIncidentResponse
	rec := doJSON(t, srv, http.MethodPost, "/v1/incidents", token, referralBody(), &res)
	checkCode(t, rec, http.StatusAccepted)
	assert.False(t, res.Queued)

	incidents := d.disciplineGw.Incidents()
	if assert.Len(t, incidents, 1) {
		assert.Equal(t, "acct-1", incidents[0].ReportedBy)
		assert.NotEmpty(t, incidents[0].ID)
	}
}

func Test_incidentApi_submit_invalid(t *testing.T) {
	srv, d := testServer(t)
	token := teacherToken(t, d.conf)

	body := referralBody()
	body["severity"] = "EXTREME"

	var res map[string]string
	rec := doJSON(t, srv, http.MethodPost, "/v1/incidents", token, body, &res)
	checkCode(t, rec, http.StatusBadRequest)
	assert.Contains(t, res, "severity")
}

func Test_incidentApi_submit_queuesOffline(t *testing.T) {
	srv, d := testServer(t)
	token := teacherToken(t, d.conf)
	d.disciplineGw.Unavailable = true

	var res submitIncidentResponse
	rec := doJSON(t, srv, http.MethodPost, "/v1/incidents", token, referralBody(), &res)
	checkCode(t, rec, http.StatusAccepted)
	assert.True(t, res.Queued)
	assert.Empty(t, d.disciplineGw.Incidents())

	// the queued referral drains through a forced sync once the backend is back
	d.disciplineGw.Unavailable = false

	var status statusResponse
	rec = doJSON(t, srv, http.MethodPost, "/v1/status/sync", token, nil, &status)
	checkCode(t, rec, http.StatusOK)
	assert.Zero(t, status.PendingItems)
	assert.False(t, status.LastSyncTime.IsZero())

	if assert.Len(t, d.disciplineGw.Incidents(), 1) {
		assert.Equal(t, "acct-1", d.disciplineGw.Incidents()[0].ReportedBy)
	}
}

func Test_statusApi_status(t *testing.T) {
	srv, d := testServer(t)
	token := teacherToken(t, d.conf)

	var res statusResponse
	rec := doJSON(t, srv, http.MethodGet, "/v1/status", token, nil, &res)
	checkCode(t, rec, http.StatusOK)
	assert.True(t, res.Online)
	if assert.Len(t, res.Backends, 1) {
		assert.Equal(t, "auth", res.Backends[0].Name)
		assert.True(t, res.Backends[0].Online)
	}
	assert.Zero(t, res.PendingItems)
}
