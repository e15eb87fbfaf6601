package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	msgUnauthorized       = "unauthorized"
	msgInternal           = "internal error"
	msgInvalidBody        = "invalid request body"
	msgAllFieldsRequired  = "all fields required"
	msgAlreadyUsed        = "nickname or email already used"
	msgRegistered         = "registration successful, you can now log in"
	msgBadCredentials     = "incorrect nickname or password"
	msgTooManyAttempts    = "too many login attempts, try again later"
	msgProgressRequired   = "subject and score required"
	msgQuizNotFound       = "quiz not found"
	msgCatalogUnavailable = "quiz catalog unavailable"
	msgMaterialNotFound   = "file not found"
)

// errorBody is the bare error shape used by the data endpoints.
type errorBody struct {
	Error string `json:"error"`
}

// resultBody is the shape used by register, login, logout and progress.
type resultBody struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// httpErrorHandler renders errors that escape handlers (unknown routes,
// wrong methods, recovered panics) as {"error": ...} without internals.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := msgInternal

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < http.StatusInternalServerError {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "unhandled error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorBody{Error: msg})
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "write error response", "error", err)
	}
}
