package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_sessionApi_login(t *testing.T) {
	srv, _ := testServer(t)

	var res loginResponse
	rec := doJSON(t, srv, http.MethodPost, "/v1/session/login", "",
		map[string]string{"employee_id": "t1001", "password": "passwd"}, &res)

	checkCode(t, rec, http.StatusOK)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Pat Rivera", res.Session.Account.Name)
	assert.False(t, res.Session.Offline)

	// the minted token opens authed routes
	rec = doJSON(t, srv, http.MethodGet, "/v1/session", res.Token, nil, nil)
	checkCode(t, rec, http.StatusOK)
}

func Test_sessionApi_login_invalidCredentials(t *testing.T) {
	srv, _ := testServer(t)

	var res httpErr
	rec := doJSON(t, srv, http.MethodPost, "/v1/session/login", "",
		map[string]string{"employee_id": "t1001", "password": "wrong"}, &res)

	checkCode(t, rec, http.StatusBadRequest)
	assert.Equal(t, "invalid credentials", res.Error)
}

func Test_sessionApi_login_missingFields(t *testing.T) {
	srv, _ := testServer(t)

	var res map[string]string
	rec := doJSON(t, srv, http.MethodPost, "/v1/session/login", "",
		map[string]string{"employee_id": "", "password": ""}, &res)

	checkCode(t, rec, http.StatusBadRequest)
	assert.Contains(t, res, "employee_id")
	assert.Contains(t, res, "password")
}

func Test_sessionApi_offlineLogin(t *testing.T) {
	srv, d := testServer(t)

	// online login seeds the credential cache
	var res loginResponse
	rec := doJSON(t, srv, http.MethodPost, "/v1/session/login", "",
		map[string]string{"employee_id": "t1001", "password": "passwd"}, &res)
	checkCode(t, rec, http.StatusOK)

	d.sessionMgr.Logout()
	d.authGw.Unavailable = true

	rec = doJSON(t, srv, http.MethodPost, "/v1/session/login", "",
		map[string]string{"employee_id": "t1001", "password": "passwd"}, &res)
	checkCode(t, rec, http.StatusOK)
	assert.True(t, res.Session.Offline)
}

func Test_sessionApi_offlineLogin_noCache(t *testing.T) {
	srv, d := testServer(t)
	d.authGw.Unavailable = true

	var res httpErr
	rec := doJSON(t, srv, http.MethodPost, "/v1/session/login", "",
		map[string]string{"employee_id": "t1001", "password": "passwd"}, &res)

	checkCode(t, rec, http.StatusBadRequest)
	assert.Contains(t, res.Error, "no cached credential")
}

func Test_sessionApi_requiresToken(t *testing.T) {
	srv, _ := testServer(t)

	for _, path := range []string{"/v1/session", "/v1/polls", "/v1/roster", "/v1/status"} {
		rec := doJSON(t, srv, http.MethodGet, path, "", nil, nil)
		checkCode(t, rec, http.StatusUnauthorized)
	}
}

func Test_sessionApi_logout(t *testing.T) {
	srv, d := testServer(t)

	var res loginResponse
	doJSON(t, srv, http.MethodPost, "/v1/session/login", "",
		map[string]string{"employee_id": "t1001", "password": "passwd"}, &res)

	rec := doJSON(t, srv, http.MethodDelete, "/v1/session", res.Token, nil, nil)
	checkCode(t, rec, http.StatusNoContent)

	_, ok := d.sessionMgr.Current()
	assert.False(t, ok)
}
