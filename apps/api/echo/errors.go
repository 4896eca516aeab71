package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errTooManyAttempts      = echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")

	errInvalidInput = "invalid input"
)

var kindStatus = map[core.ErrorKind]int{
	core.KindValidation:          http.StatusBadRequest,
	core.KindAuthorizationDenied: http.StatusForbidden,
	core.KindNotFound:            http.StatusNotFound,
	core.KindLimitExceeded:       http.StatusUnprocessableEntity,
	core.KindResourceUnavailable: http.StatusConflict,
	core.KindPersistenceFailure:  http.StatusInternalServerError,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering every failure as a core.Result.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var res core.Result

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				origErr = &echo.HTTPError{Code: http.StatusUnauthorized, Message: origErr.Message}
			}
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
			code = origErr.Code
			res.Error = http.StatusText(code)
			if msg, ok := origErr.Message.(string); ok {
				res.Error = msg
			}
			if code == http.StatusForbidden {
				res.Kind = core.KindAuthorizationDenied
			}
		case validator.ValidationErrors:
			res.Fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				if translator != nil {
					res.Fields[vErr.Field()] = vErr.Translate(translator)
				} else {
					res.Fields[vErr.Field()] = vErr.Error()
				}
			}
			res.Error = errInvalidInput
			res.Kind = core.KindValidation
			code = http.StatusBadRequest
		default:
			res = core.Fail(err)
			code = kindStatus[res.Kind]
			if res.Kind != core.KindPersistenceFailure {
				break
			}

			// any other error is a server error
			msg := http.StatusText(http.StatusInternalServerError)
			var actor core.Actor
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				actor = claims.Actor()
			}
			logger.Error(msg, errors.Wrap(err, msg), actor)

			if !ctx.Echo().Debug {
				res.Error = msg
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
