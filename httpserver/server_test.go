// nolint: funlen
package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"moviehub/errs"
	"moviehub/httpserver"
	"moviehub/movie"
	"moviehub/pkg/config"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Run("uses permissive defaults", func(t *testing.T) {
		server := httpserver.Default(testConfig())

		assert.NotNil(t, server.Router, "Router should be initialized")
		assert.Equal(t, ":8080", server.Addr, "Default address should be :8080")
		assert.Equal(t, []string{"*"}, server.AllowOrigins, "Default CORS should allow all origins")
		assert.NotNil(t, server.Logger)
	})

	t.Run("takes origins from config", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowOrigins = "https://a.example.com,https://b.example.com"

		server := httpserver.Default(cfg)

		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, server.AllowOrigins)
	})

	t.Run("accepts nil config", func(t *testing.T) {
		assert.NotNil(t, httpserver.Default(nil).Router)
	})
}

func TestServerStartAndShutdown(t *testing.T) {
	server := httpserver.Default(testConfig())
	port := allocateRandomPort(t)
	server.Addr = fmt.Sprintf("127.0.0.1:%d", port)

	errChan := startServerAsync(server)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthcheck", port))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assertServerStopsGracefully(t, server, errChan)
}

func TestRegisterGlobalMiddlewares(t *testing.T) {
	server := httpserver.Default(testConfig())
	addTestRoute(server)

	response := makeRequest(server, http.MethodGet, "/test", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Len(t, response.Header().Get(echo.HeaderXRequestID), 36, "Request ID should be a UUID")
	assert.NotEmpty(t, response.Header().Get("X-Content-Type-Options"), "Secure middleware should add headers")
}

func TestCORSConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		allowOrigins  []string
		requestOrigin string
		expectCORS    bool
	}{
		{
			name:          "wildcard allows all origins",
			allowOrigins:  []string{"*"},
			requestOrigin: "https://example.com",
			expectCORS:    true,
		},
		{
			name:          "specific origin is allowed",
			allowOrigins:  []string{"https://example.com"},
			requestOrigin: "https://example.com",
			expectCORS:    true,
		},
		{
			name:          "empty origins disables CORS",
			allowOrigins:  []string{},
			requestOrigin: "https://example.com",
			expectCORS:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Default() always has origins, so build the server by hand
			server := &httpserver.Server{
				Router:       echo.New(),
				AllowOrigins: tt.allowOrigins,
			}
			server.RegisterGlobalMiddlewares()
			addTestRoute(server)

			response := makeRequest(server, http.MethodGet, "/test", map[string]string{"Origin": tt.requestOrigin})

			corsHeader := response.Header().Get(echo.HeaderAccessControlAllowOrigin)
			if tt.expectCORS {
				assert.NotEmpty(t, corsHeader, "CORS header should be present")
			} else {
				assert.Empty(t, corsHeader, "CORS header should not be present")
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	server := httpserver.Default(cfg)

	first := makeRequest(server, http.MethodGet, "/healthcheck", nil)
	second := makeRequest(server, http.MethodGet, "/healthcheck", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestMiddlewareRecoveryBehavior(t *testing.T) {
	server := httpserver.Default(testConfig())
	server.Router.GET("/panic", func(c echo.Context) error {
		panic("test panic")
	})

	response := makeRequest(server, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, response.Code, "Should return 500 on panic")
}

func TestCustomErrorHandler(t *testing.T) {
	tests := []struct {
		name               string
		error              error
		expectedStatusCode int
		expectedCode       string
		expectedMessage    string
	}{
		{
			name:               "invalid error returns 400",
			error:              errs.Errorf(errs.EINVALID, "invalid input"),
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "100010",
			expectedMessage:    "invalid input",
		},
		{
			name:               "wrapped invalid query returns 400",
			error:              fmt.Errorf("search: %w", movie.ErrInvalidQuery),
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "100010",
			expectedMessage:    "invalid search query",
		},
		{
			name:               "missing api key hides its message",
			error:              movie.ErrAPINotConfigured,
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "100500",
			expectedMessage:    "Internal server error",
		},
		{
			name:               "internal error hides its message",
			error:              errs.Errorf(errs.EINTERNAL, "database connection failed"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "100500",
			expectedMessage:    "Internal server error",
		},
		{
			name:               "unknown error returns 500",
			error:              fmt.Errorf("wrapped error: %w", errors.New("original error")),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "100500",
			expectedMessage:    "Internal server error",
		},
		{
			name:               "context error returns 500",
			error:              context.DeadlineExceeded,
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "100500",
			expectedMessage:    "Internal server error",
		},
		{
			name:               "echo http error preserves status code",
			error:              echo.NewHTTPError(http.StatusForbidden, "forbidden"),
			expectedStatusCode: http.StatusForbidden,
			expectedCode:       "100403",
			expectedMessage:    "forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httpserver.Default(testConfig())
			server.Router.GET("/error", func(c echo.Context) error {
				return tt.error
			})

			response := makeRequest(server, http.MethodGet, "/error", nil)

			assert.Equal(t, tt.expectedStatusCode, response.Code)
			resp := decodeAPIResponse(t, response)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	server := httpserver.Default(&config.Config{})

	response := makeRequest(server, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, response.Code)
}

// Helper functions for test setup and assertions

func allocateRandomPort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	return port
}

func startServerAsync(server *httpserver.Server) chan error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()
	time.Sleep(100 * time.Millisecond) // Wait for server to start
	return errChan
}

func assertServerStopsGracefully(t *testing.T, server *httpserver.Server, errChan chan error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := server.Shutdown(ctx)
	assert.NoError(t, err, "Shutdown should complete without error")

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("Unexpected error during shutdown: %v", err)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Server did not stop within timeout")
	}
}

func makeRequest(server *httpserver.Server, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func addTestRoute(server *httpserver.Server) {
	server.Router.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "test")
	})
}
