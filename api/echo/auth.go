package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/session"
)

const contextTokenKey = "consoleToken"

// Claims represents the console session transmitted via the local JWT. The
// UI shell receives it at login and presents it on every call.
type Claims struct {
	jwt.StandardClaims
	EmployeeID string `json:"employee_id,omitempty"`
	Name       string `json:"name,omitempty"`
	IsAdmin    bool   `json:"is_admin,omitempty"`
	Offline    bool   `json:"offline,omitempty"`
}

// configureAuth builds the local JWT middleware from config.
func configureAuth(conf *core.Config) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(jwtConfig(conf))
}

func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func getSessionClaims(sess session.Session, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   sess.Account.ID,
			ExpiresAt: now.Add(conf.Console.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		EmployeeID: sess.Account.EmployeeID,
		Name:       sess.Account.Name,
		IsAdmin:    sess.Account.IsAdmin(),
		Offline:    sess.Offline,
	}
}

// generateToken generates a signed JWT token string representing the console
// session claims.
func generateToken(claims *Claims, conf *core.Config) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
