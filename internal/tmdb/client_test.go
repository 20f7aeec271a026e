package tmdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

var testMetrics = metrics.NewCollector("tmdb_test")

func newTestLogger() *logging.StructuredLogger {
	return logging.NewStructuredLogger("test", "0.0.0", logging.ParseLevel("info")).SetOutput(io.Discard)
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		RequestTimeout: time.Second,
		MaxRetries:     3,
		RetryBackoff:   0.001,
		RequestDelay:   0,
	}, newTestLogger(), testMetrics)
}

func moviePayload(id int64, title string) map[string]interface{} {
	return map[string]interface{}{
		"id":      id,
		"title":   title,
		"budget":  356000000,
		"revenue": 2797800564,
		"credits": map[string]interface{}{
			"cast": []interface{}{map[string]interface{}{"name": "Robert Downey Jr."}},
			"crew": []interface{}{map[string]interface{}{"name": "Anthony Russo", "job": "Director"}},
		},
	}
}

func TestGetMovie_SkipsInvalidID(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	raw, err := client.GetMovie(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Zero(t, atomic.LoadInt32(&calls), "sentinel id must not reach the API")
}

func TestGetMovie_ProjectsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/299534", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))

		json.NewEncoder(w).Encode(moviePayload(299534, "Avengers: Endgame"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	raw, err := client.GetMovie(context.Background(), 299534)
	require.NoError(t, err)
	require.NotNil(t, raw)

	// The payload's "id" is re-keyed to "movie_id".
	assert.Equal(t, float64(299534), raw["movie_id"])
	assert.Equal(t, "Avengers: Endgame", raw["title"])
	assert.NotNil(t, raw["credits"])
	assert.False(t, raw.Has("id"))
}

func TestGetMovie_NotFoundOmitted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	raw, err := client.GetMovie(context.Background(), 999999)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestGetMovie_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(moviePayload(19995, "Avatar"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	raw, err := client.GetMovie(context.Background(), 19995)
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, "Avatar", raw["title"])
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetMovie_ExhaustedRetriesOmitted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	raw, err := client.GetMovie(context.Background(), 19995)
	require.NoError(t, err)
	assert.Nil(t, raw)
	// Initial attempt plus MaxRetries.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestFetchMovies_MixedOutcomes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/404404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(moviePayload(299534, "Avengers: Endgame"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	rawMovies, result, err := client.FetchMovies(context.Background(), []int64{0, 299534, 404404})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, rawMovies, 1)
	assert.Equal(t, "Avengers: Endgame", rawMovies[0]["title"])
}

func TestFetchMovies_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(moviePayload(1, "Whatever"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.FetchMovies(ctx, []int64{299534})
	require.ErrorIs(t, err, context.Canceled)
}
