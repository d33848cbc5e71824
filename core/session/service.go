package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

var (
	// errors
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoCachedCredential = errors.New("offline login unavailable: no cached credential")
)

type (
	// AuthGateway talks to the remote auth backend.
	AuthGateway interface {
		Login(ctx context.Context, employeeID, password string) (Account, string, error)
		Refresh(ctx context.Context, token string) (string, error)
		Ping(ctx context.Context) error
	}

	// CredentialStore persists the offline credential cache.
	CredentialStore interface {
		SaveCredential(ctx context.Context, cred CachedCredential) error
		GetCredential(ctx context.Context, employeeID string) (CachedCredential, error)
	}

	// Manager holds the console's current session. All methods are safe for
	// concurrent use.
	Manager struct {
		gw       AuthGateway
		creds    CredentialStore
		validate *validator.Validate
		log      core.Logger

		mu      sync.RWMutex
		current *Session
	}
)

func NewManager(gw AuthGateway, creds CredentialStore, validate *validator.Validate, log core.Logger) *Manager {
	return &Manager{gw: gw, creds: creds, validate: validate, log: log}
}

// Login authenticates against the auth backend. When the backend is
// unreachable it falls back to the local credential cache and opens an
// offline session instead.
func (m *Manager) Login(ctx context.Context, c Credentials) (Session, error) {
	if err := c.Validate(m.validate); err != nil {
		return Session{}, err
	}

	acct, token, err := m.gw.Login(ctx, c.EmployeeID, c.Password)
	if err != nil {
		if core.IsUnavailable(err) {
			return m.loginOffline(ctx, c)
		}
		return Session{}, err
	}

	sess := Session{
		Account:   acct,
		Token:     token,
		StartedAt: time.Now().UTC(),
	}
	m.setCurrent(sess)
	m.cacheCredential(ctx, c, acct)
	return sess, nil
}

func (m *Manager) loginOffline(ctx context.Context, c Credentials) (Session, error) {
	m.log.Warn("auth backend unreachable; attempting offline login", map[string]interface{}{"employee_id": c.EmployeeID})

	cached, err := m.creds.GetCredential(ctx, c.EmployeeID)
	if err != nil {
		return Session{}, ErrNoCachedCredential
	}
	if err = cached.CheckPassword(c.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	var acct Account
	if err = json.Unmarshal(cached.AccountJSON, &acct); err != nil {
		return Session{}, errors.Wrap(err, "decoding cached account")
	}

	sess := Session{
		Account:   acct,
		Offline:   true,
		StartedAt: time.Now().UTC(),
	}
	m.setCurrent(sess)
	return sess, nil
}

func (m *Manager) cacheCredential(ctx context.Context, c Credentials, acct Account) {
	acctJSON, err := json.Marshal(acct)
	if err != nil {
		m.log.Error("caching credential", errors.Wrap(err, "encoding account"))
		return
	}
	cred := CachedCredential{
		EmployeeID:  c.EmployeeID,
		AccountJSON: acctJSON,
		UpdatedAt:   time.Now().UTC(),
	}
	if err = cred.SetPassword(c.Password); err != nil {
		m.log.Error("caching credential", errors.Wrap(err, "hashing password"))
		return
	}
	if err = m.creds.SaveCredential(ctx, cred); err != nil {
		m.log.Error("caching credential", errors.Wrap(err, "saving credential"))
	}
}

// RefreshToken swaps the current remote token for a fresh one. Offline
// sessions carry no token and cannot be refreshed.
func (m *Manager) RefreshToken(ctx context.Context) error {
	sess, ok := m.Current()
	if !ok {
		return ErrNotAuthenticated
	}
	if sess.Offline {
		return nil
	}

	token, err := m.gw.Refresh(ctx, sess.Token)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Token = token
	}
	return nil
}

// Current returns a copy of the current session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Token returns the current remote bearer token or "" when logged out or
// offline. Used by the API clients to authenticate outgoing calls.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

func (m *Manager) setCurrent(sess Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &sess
}
