package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fwojciec/denote"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	denote.ECONFLICT:    http.StatusConflict,
	denote.EINVALID:     http.StatusBadRequest,
	denote.ENOTFOUND:    http.StatusNotFound,
	denote.EUNAVAILABLE: http.StatusServiceUnavailable,
	denote.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var status int
	var message string
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		status = ErrorStatusCode(denote.ErrorCode(err))
		message = denote.ErrorMessage(err)
	}

	if status >= http.StatusInternalServerError {
		req := c.Request()
		s.logger.Error("http error",
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"err", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: message})
}
