package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "not_authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication_failed")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission_denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not_found")
	errSubmissionsLocked    = echo.NewHTTPError(http.StatusForbidden, "submissions_locked")
	errInvalidStatus        = echo.NewHTTPError(http.StatusBadRequest, "invalid_approval_status")
	errCodeExists           = echo.NewHTTPError(http.StatusBadRequest, "course_code_exists")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
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
			switch origErr {
			case student.ErrNotFound, catalog.ErrNotFound, schedule.ErrNotFound,
				approval.ErrNotFound, teacher.ErrNotFound:
				code = http.StatusNotFound
				message = errHttpNotFound.Message
			case catalog.ErrCodeExists:
				code = errCodeExists.Code
				message = errCodeExists.Message
			case approval.ErrInvalidStatus:
				code = errInvalidStatus.Code
				message = errInvalidStatus.Message
			case teacher.ErrBadCredentials:
				code = errAuthenticationFailed.Code
				message = errAuthenticationFailed.Message
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				logger.Error(msg, errors.Wrap(err, msg), contextActor(ctx))

				// shutting down...
				if core.IsShutdown(err) && signalShutdown != nil {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
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
