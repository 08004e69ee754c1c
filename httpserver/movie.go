package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"moviehub/errs"
	"moviehub/movie"
	"moviehub/pkg/sentry"

	"github.com/labstack/echo/v4"
)

const (
	msgConfigError   = "API configuration error. Please check server logs."
	msgInternalError = "Internal server error"
	msgInvalidBody   = "Invalid request body"
)

// RegisterMovieRoutes registers the proxy for every method; the handler
// itself answers 405 so the body and Allow header stay under our control.
func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.Any("/fetch-movies", s.handleFetchMovies)
}

// handleFetchMovies searches the movie database by year, page and genre.
// Success and upstream failures always carry a movies array.
func (s *Server) handleFetchMovies(c echo.Context) error {
	method := c.Request().Method
	if method != http.MethodPost {
		c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		return c.JSON(http.StatusMethodNotAllowed, MessageResponse{
			Message: fmt.Sprintf("Method %s Not Allowed", method),
		})
	}

	var req FetchMoviesRequest
	if err := c.Bind(&req); err != nil {
		return writeMoviesError(c, http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return writeMoviesError(c, http.StatusBadRequest, errs.ErrorMessage(err))
	}

	if s.MovieService == nil {
		s.Logger.Error("movie service not configured", "request_id", s.requestID(c))
		return c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgConfigError})
	}

	movies, err := s.MovieService.Search(c.Request().Context(), req.YearOrZero(), req.Page, req.Genre)
	if err != nil {
		return s.handleFetchMoviesError(c, req, err)
	}

	return writeMovies(c, http.StatusOK, movies)
}

func (s *Server) handleFetchMoviesError(c echo.Context, req FetchMoviesRequest, err error) error {
	logger := s.Logger.With("request_id", s.requestID(c), "error", err)

	var upErr *movie.UpstreamError
	switch {
	case errors.Is(err, movie.ErrAPINotConfigured):
		logger.Error("movie api is not configured")
		s.report(c, req, err)
		return c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgConfigError})

	case errors.As(err, &upErr):
		logger.Warn("upstream request failed", "status", upErr.StatusCode)
		if upErr.StatusCode >= http.StatusInternalServerError {
			s.report(c, req, err)
		}
		return writeMoviesError(c, upErr.StatusCode, "Failed to fetch movies: "+upErr.Status)

	case errs.ErrorCode(err) == errs.EINVALID:
		return writeMoviesError(c, http.StatusBadRequest, errs.ErrorMessage(err))

	default:
		logger.Error("fetch movies failed")
		s.report(c, req, err)
		return writeMoviesError(c, http.StatusInternalServerError, msgInternalError)
	}
}

// report sends err to sentry tagged with the request and its filters.
func (s *Server) report(c echo.Context, req FetchMoviesRequest, err error) {
	sentry.WithContext(c).
		WithTags(map[string]string{
			"request_id": s.requestID(c),
			"route":      c.Path(),
		}).
		WithExtras(map[string]interface{}{
			"page":  req.Page,
			"year":  req.YearOrZero(),
			"genre": req.Genre,
		}).
		Error(err)
}
