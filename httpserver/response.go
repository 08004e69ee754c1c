package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"moviehub/errs"
	"moviehub/movie"

	"github.com/labstack/echo/v4"
)

const (
	successMessage   = "OK"
	defaultErrorCode = "100500"
	invalidErrorCode = "100010"
)

type APIResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Result  interface{} `json:"result,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// MoviesResponse is the body of /api/fetch-movies. Movies is always an array.
type MoviesResponse struct {
	Message string         `json:"message,omitempty"`
	Movies  []movie.Record `json:"movies"`
}

// MessageResponse is used where the client expects no movies field.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeSuccess(c echo.Context, status int, result interface{}) error {
	return c.JSON(status, APIResponse{
		Code:    strconv.Itoa(status),
		Message: successMessage,
		Result:  result,
	})
}

func writeError(c echo.Context, status int, message, info string, err error) error {
	return c.JSON(status, APIResponse{
		Code:    errorCode(err, status),
		Message: message,
		Info:    info,
	})
}

func writeMovies(c echo.Context, status int, records []movie.Record) error {
	if records == nil {
		records = []movie.Record{}
	}
	return c.JSON(status, MoviesResponse{Movies: records})
}

func writeMoviesError(c echo.Context, status int, message string) error {
	return c.JSON(status, MoviesResponse{
		Message: message,
		Movies:  []movie.Record{},
	})
}

func errorCode(err error, status int) string {
	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return invalidErrorCode
	case errs.EINTERNAL:
		if status == 0 || status >= http.StatusInternalServerError {
			return defaultErrorCode
		}
	}

	if status != 0 {
		return fmt.Sprintf("100%03d", status)
	}
	return defaultErrorCode
}
