package session

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-playground/validator/v10"

	"github.com/heronix/teacherdesk/core"
)

// Roles assigned by the auth backend.
const (
	RoleTeacher    = "teacher:"
	RoleHomeroom   = "teacher:homeroom"
	RoleCounselor  = "teacher:counselor"
	RoleDeskAdmin  = "admin:"
	RoleDismissal  = "staff:dismissal"
)

// Account is the authenticated teacher as reported by the auth backend.
type Account struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	LastLogin  time.Time `json:"last_login"` // UTC
}

func (a Account) RoleStartsWith(prefix string) bool {
	for _, role := range a.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (a Account) IsTeacher() bool { return a.RoleStartsWith(RoleTeacher) }
func (a Account) IsAdmin() bool   { return a.RoleStartsWith(RoleDeskAdmin) }

// Session is the console's current authenticated state. Offline sessions are
// established against the cached credential when the auth backend cannot be
// reached; they carry no remote token.
type Session struct {
	Account   Account   `json:"account"`
	Token     string    `json:"-"`
	Offline   bool      `json:"offline"`
	StartedAt time.Time `json:"started_at"` // UTC
}

// Credentials is the login form input.
type Credentials struct {
	EmployeeID string `json:"employee_id" validate:"required,alphanum_"`
	Password   string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.EmployeeID = core.CleanString(c.EmployeeID, true /* lower */)
	return validate.Struct(c)
}

// CachedCredential is the bcrypt-hashed copy of the last successful online
// login, kept locally so the teacher can re-open the console while offline.
type CachedCredential struct {
	EmployeeID   string    `db:"employee_id"`
	PasswordHash []byte    `db:"password_hash"`
	AccountJSON  []byte    `db:"account"`
	UpdatedAt    time.Time `db:"updated_at"` // UTC
}

func (cc *CachedCredential) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cc.PasswordHash = hash
	return nil
}

func (cc CachedCredential) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(cc.PasswordHash, []byte(pwd))
}
