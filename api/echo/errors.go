package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
	"github.com/heronix/teacherdesk/core/device"
	"github.com/heronix/teacherdesk/core/dismissal"
	"github.com/heronix/teacherdesk/core/poll"
	"github.com/heronix/teacherdesk/core/session"
	"github.com/heronix/teacherdesk/core/student"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how
// to render our error taxonomy: validation errors as 400 field maps, missing
// resources as 404, conflicting lifecycle requests as 409, unreachable
// backends as 503 with a transient message, everything else as a logged 500.
// signalShutdown is called whenever a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			code, message = mapDomainError(err)
			if code == http.StatusInternalServerError {
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func mapDomainError(err error) (int, interface{}) {
	switch errors.Cause(err) {
	case poll.ErrNotFound, device.ErrNotFound, dismissal.ErrNotFound:
		return http.StatusNotFound, errors.Cause(err).Error()
	case poll.ErrNotOpen, dismissal.ErrAlreadyDeparted:
		return http.StatusConflict, errors.Cause(err).Error()
	case session.ErrInvalidCredentials, session.ErrNoCachedCredential:
		return http.StatusBadRequest, errors.Cause(err).Error()
	case session.ErrNotAuthenticated:
		return http.StatusUnauthorized, errors.Cause(err).Error()
	case student.ErrEmptyRoster:
		return http.StatusServiceUnavailable, errors.Cause(err).Error()
	case core.ErrBackendUnavailable:
		// transient: the view shows the error and keeps its last snapshot
		return http.StatusServiceUnavailable, "backend unreachable; try again"
	default:
		return http.StatusInternalServerError, nil
	}
}
