package apiclient

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/session"
)

// AuthClient talks to the Heronix auth backend.
type AuthClient struct {
	*client
}

var _ session.AuthGateway = (*AuthClient)(nil)

func NewAuthClient(conf *core.Config, token TokenFunc) *AuthClient {
	return &AuthClient{newClient("auth", conf.Backends.Auth, conf.Backends.Timeout, token)}
}

type (
	loginRequest struct {
		EmployeeID string `json:"employee_id"`
		Password   string `json:"password"`
	}

	accountDTO struct {
		ID         string    `json:"id"`
		EmployeeID string    `json:"employee_id"`
		Name       string    `json:"name"`
		Email      string    `json:"email"`
		Roles      []string  `json:"roles"`
		LastLogin  time.Time `json:"last_login"`
	}

	loginResponse struct {
		Token   string     `json:"token"`
		Account accountDTO `json:"account"`
	}

	refreshResponse struct {
		Token string `json:"token"`
	}
)

func (dto accountDTO) toAccount() session.Account {
	return session.Account{
		ID:         dto.ID,
		EmployeeID: dto.EmployeeID,
		Name:       dto.Name,
		Email:      dto.Email,
		Roles:      dto.Roles,
		LastLogin:  dto.LastLogin,
	}
}

func (c *AuthClient) Login(ctx context.Context, employeeID, password string) (session.Account, string, error) {
	var res loginResponse
	err := c.post(ctx, "/auth/login", loginRequest{EmployeeID: employeeID, Password: password}, &res)
	if err != nil {
		if errors.Cause(err) == ErrUnauthorized {
			return session.Account{}, "", session.ErrInvalidCredentials
		}
		return session.Account{}, "", err
	}
	return res.Account.toAccount(), res.Token, nil
}

func (c *AuthClient) Refresh(ctx context.Context, token string) (string, error) {
	var res refreshResponse
	if err := c.post(ctx, "/auth/refresh", map[string]string{"token": token}, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}
