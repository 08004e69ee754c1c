package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// healthCheck reports liveness. movies is "unavailable" when the proxy was
// started without a movie service, in which case searches answer 500.
func (s *Server) healthCheck(c echo.Context) error {
	movies := "ready"
	if s.MovieService == nil {
		movies = "unavailable"
	}
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "OK",
		"movies": movies,
	})
}
