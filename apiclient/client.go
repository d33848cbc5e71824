// Package apiclient holds the HTTP clients for the remote Heronix backends.
// Each backend gets a typed client sharing the base JSON client below; all of
// them satisfy the gateway interfaces declared by the core packages.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

var (
	// errors
	ErrUnauthorized = errors.New("not authorized by backend")
	ErrNotFound     = errors.New("not found")
)

// TokenFunc supplies the current bearer token, or "" when logged out.
type TokenFunc func() string

type client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
	name    string
}

func newClient(name, baseURL string, timeout time.Duration, token TokenFunc) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
		name:    name,
	}
}

// Ping probes the backend's reachability endpoint. Any transport failure or
// non-2xx status counts as unreachable.
func (c *client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "%s: encoding request", c.name)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "%s: building request", c.name)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		// transport failure: the backend is unreachable as far as the console
		// is concerned
		return errors.Wrapf(core.ErrBackendUnavailable, "%s: %v", c.name, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err = json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "%s: decoding response", c.name)
		}
		return nil
	}
	return c.mapError(res)
}

// remoteError is the error body shape shared by the Heronix backends: either
// a plain message or a field->message map for validation failures.
type remoteError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (c *client) mapError(res *http.Response) error {
	var remote remoteError
	_ = json.NewDecoder(res.Body).Decode(&remote)

	switch res.StatusCode {
	case http.StatusBadRequest, http.StatusConflict:
		if len(remote.Fields) > 0 {
			flds := make([]core.FieldError, 0, len(remote.Fields))
			for f, msg := range remote.Fields {
				flds = append(flds, core.FieldError{Field: f, Error: msg})
			}
			return core.NewValidationError(errors.New(remote.Error), flds...)
		}
		if remote.Error != "" {
			return core.NewValidationError(errors.New(remote.Error))
		}
		return core.NewValidationError(errors.Errorf("%s: rejected request", c.name))
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrapf(ErrUnauthorized, "%s: status %d", c.name, res.StatusCode)
	case http.StatusNotFound:
		return errors.Wrapf(ErrNotFound, "%s", c.name)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return errors.Wrapf(core.ErrBackendUnavailable, "%s: status %d", c.name, res.StatusCode)
	default:
		return errors.Errorf("%s: unexpected status %d: %s", c.name, res.StatusCode, remote.Error)
	}
}
