package middleware

import (
	"errors"
	"net/http"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/logger"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string             `json:"message"`
	Errors  []apperr.Violation `json:"errors,omitempty"`
}

const (
	msgInternal  = "internal server error"
	msgRetryable = "the operation was partially applied, retry the request"
)

// ErrorHandler is the echo.HTTPErrorHandler of the service. It writes one JSON
// response per failed request; a response already on the wire is left alone.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := translate(err)

	log := logger.FromEcho(c)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to write error response")
	}
}

func translate(err error) (int, ErrorResponse) {
	var (
		validationErr  *apperr.ValidationError
		authErr        *apperr.AuthenticationError
		notFoundErr    *apperr.NotFoundError
		conflictErr    *apperr.ConflictError
		persistenceErr *apperr.PersistenceError
		httpErr        *echo.HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Errors:  validationErr.Violations,
		}
	case errors.As(err, &authErr):
		if authErr.Forbidden {
			return http.StatusForbidden, ErrorResponse{Message: authErr.Reason}
		}
		return http.StatusUnauthorized, ErrorResponse{Message: authErr.Reason}
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, ErrorResponse{Message: notFoundErr.Error()}
	case errors.As(err, &conflictErr):
		return http.StatusConflict, ErrorResponse{Message: conflictErr.Message}
	case errors.As(err, &persistenceErr):
		if persistenceErr.Retryable {
			return http.StatusInternalServerError, ErrorResponse{Message: msgRetryable}
		}
		return http.StatusInternalServerError, ErrorResponse{Message: msgInternal}
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok || httpErr.Code >= http.StatusInternalServerError {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, ErrorResponse{Message: msg}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: msgInternal}
	}
}
