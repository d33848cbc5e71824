package dummygw

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/heronix/teacherdesk/core/session"
)

// AuthGateway is the in-memory stand-in for the auth backend. Accounts are
// keyed by employee ID with a plain-text password alongside.
type AuthGateway struct {
	mu       sync.RWMutex
	accounts map[string]seededAccount
	tokSeq   int

	Unavailable bool
}

type seededAccount struct {
	acct     session.Account
	password string
}

var _ session.AuthGateway = (*AuthGateway)(nil)

func NewAuthGateway() *AuthGateway {
	return &AuthGateway{accounts: make(map[string]seededAccount)}
}

func (gw *AuthGateway) Seed(acct session.Account, password string) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.accounts[acct.EmployeeID] = seededAccount{acct: acct, password: password}
}

func (gw *AuthGateway) Login(_ context.Context, employeeID, password string) (session.Account, string, error) {
	if gw.Unavailable {
		return session.Account{}, "", errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()

	seeded, ok := gw.accounts[employeeID]
	if !ok || seeded.password != password {
		return session.Account{}, "", session.ErrInvalidCredentials
	}
	seeded.acct.LastLogin = time.Now().UTC()
	gw.accounts[employeeID] = seeded
	gw.tokSeq++
	return seeded.acct, token(gw.tokSeq), nil
}

func (gw *AuthGateway) Refresh(_ context.Context, _ string) (string, error) {
	if gw.Unavailable {
		return "", errUnavailable
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.tokSeq++
	return token(gw.tokSeq), nil
}

func (gw *AuthGateway) Ping(_ context.Context) error {
	if gw.Unavailable {
		return errUnavailable
	}
	return nil
}

func token(seq int) string {
	return "dummy-token-" + strconv.Itoa(seq)
}

// CredentialStore is the in-memory stand-in for the offline credential cache.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]session.CachedCredential
}

var _ session.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{creds: make(map[string]session.CachedCredential)}
}

func (store *CredentialStore) SaveCredential(_ context.Context, cred session.CachedCredential) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.creds[cred.EmployeeID] = cred
	return nil
}

func (store *CredentialStore) GetCredential(_ context.Context, employeeID string) (session.CachedCredential, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if cred, ok := store.creds[employeeID]; ok {
		return cred, nil
	}
	return session.CachedCredential{}, session.ErrNoCachedCredential
}
