package browse_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviehub/browse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func proxyStub(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/fetch-movies", r.URL.Path)
		if seen != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchMovies(t *testing.T) {
	t.Run("sends the wire query and decodes movies", func(t *testing.T) {
		var seen map[string]any
		srv := proxyStub(t, http.StatusOK, `{"movies":[{"id":"tt1"}]}`, &seen)
		client := browse.NewClient(srv.URL+"/", nil)

		got, err := client.FetchMovies(context.Background(), browse.Request{Page: 2, Genre: "Comedy"})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.JSONEq(t, `{"id":"tt1"}`, string(got[0]))
		assert.Equal(t, map[string]any{"page": float64(2), "year": nil, "genre": "Comedy"}, seen)
	})

	t.Run("absent movies decode as empty", func(t *testing.T) {
		srv := proxyStub(t, http.StatusOK, `{}`, nil)

		got, err := browse.NewClient(srv.URL, nil).FetchMovies(context.Background(), browse.Request{Page: 1})

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("non-2xx carries the proxy message", func(t *testing.T) {
		srv := proxyStub(t, http.StatusNotFound, `{"message":"Failed to fetch movies: Not Found","movies":[]}`, nil)

		_, err := browse.NewClient(srv.URL, nil).FetchMovies(context.Background(), browse.Request{Page: 1})

		var serr *browse.StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusNotFound, serr.Code)
		assert.Equal(t, "Not Found", serr.Text)
		assert.Equal(t, "Failed to fetch movies: Not Found", serr.Error())
	})

	t.Run("non-2xx without a message falls back to the status line", func(t *testing.T) {
		srv := proxyStub(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)

		_, err := browse.NewClient(srv.URL, nil).FetchMovies(context.Background(), browse.Request{Page: 1})

		var serr *browse.StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "Error: 502 Bad Gateway", serr.Error())
	})

	t.Run("unreachable proxy is a transport error", func(t *testing.T) {
		srv := proxyStub(t, http.StatusOK, `{}`, nil)
		url := srv.URL
		srv.Close()

		_, err := browse.NewClient(url, nil).FetchMovies(context.Background(), browse.Request{Page: 1})

		require.Error(t, err)
		var serr *browse.StatusError
		assert.False(t, errors.As(err, &serr))
	})

	t.Run("malformed success body", func(t *testing.T) {
		srv := proxyStub(t, http.StatusOK, `not json`, nil)

		_, err := browse.NewClient(srv.URL, nil).FetchMovies(context.Background(), browse.Request{Page: 1})

		assert.ErrorContains(t, err, "failed to decode response")
	})
}

func TestQueryRequest(t *testing.T) {
	tests := []struct {
		name  string
		query browse.Query
		want  browse.Request
	}{
		{"defaults", browse.Query{Page: 1, Genre: "All"}, browse.Request{Page: 1}},
		{"genre and year", browse.Query{Page: 3, Year: 2021, Genre: "Fantasy"}, browse.Request{Page: 3, Year: intPtr(2021), Genre: "Fantasy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Request())
		})
	}
}
