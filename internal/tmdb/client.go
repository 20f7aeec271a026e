package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"movie-platform/internal/models"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

// DefaultMovieIDs is the default fetch list. The leading 0 is a
// sentinel that must be skipped by the client.
var DefaultMovieIDs = []int64{
	0, 299534, 19995, 140607, 299536, 597, 135397, 420818,
	24428, 168259, 99861, 284054, 12445, 181808, 330457,
	351286, 109445, 321612, 260513,
}

// Config tunes the client's retry and pacing behavior.
type Config struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   float64
	RequestDelay   time.Duration
}

// Client fetches movie records from the catalog API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// FetchResult contains fetch statistics
type FetchResult struct {
	Requested int
	Fetched   int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// NewClient creates a new catalog API client
func NewClient(cfg Config, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// GetMovie fetches a single movie with its full credits. Invalid ids
// (<= 0), 404s and repeated failures yield (nil, nil): the movie is
// omitted from the batch rather than failing it.
func (c *Client) GetMovie(ctx context.Context, movieID int64) (models.RawMovie, error) {
	if movieID <= 0 {
		c.logger.Warn(ctx, "[FETCH_SKIP] Skipping invalid movie id", logging.Fields{
			"movie_id": movieID,
		})
		c.metrics.RecordFetchOutcome("skipped")
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/movie/%d", c.config.BaseURL, movieID)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("append_to_response", "credits")

	body, status, err := c.getWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		c.logger.Error(ctx, "[FETCH_ERROR] Request failed", logging.Fields{
			"movie_id": movieID,
		}, err)
		c.metrics.RecordFetchOutcome("failed")
		c.metrics.RecordFetchError("request_error")
		return nil, nil
	}

	if status == http.StatusNotFound {
		c.logger.Warn(ctx, "[FETCH_NOT_FOUND] Movie not found", logging.Fields{
			"movie_id": movieID,
		})
		c.metrics.RecordFetchOutcome("not_found")
		return nil, nil
	}

	if status != http.StatusOK {
		c.logger.Error(ctx, "[FETCH_ERROR] Unexpected status", logging.Fields{
			"movie_id": movieID,
			"status":   status,
		}, nil)
		c.metrics.RecordFetchOutcome("failed")
		c.metrics.RecordFetchError("status_error")
		return nil, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error(ctx, "[FETCH_ERROR] Failed to decode response", logging.Fields{
			"movie_id": movieID,
		}, err)
		c.metrics.RecordFetchOutcome("failed")
		c.metrics.RecordFetchError("decode_error")
		return nil, nil
	}

	c.logger.Info(ctx, "[FETCH_OK] Fetched movie", logging.Fields{
		"movie_id": movieID,
	})
	c.metrics.RecordFetchOutcome("success")

	return projectRawMovie(payload), nil
}

// FetchMovies fetches every requested movie serially with a politeness
// delay, omitting ids that were invalid, missing or failed.
func (c *Client) FetchMovies(ctx context.Context, movieIDs []int64) ([]models.RawMovie, *FetchResult, error) {
	startTime := time.Now()

	c.logger.Info(ctx, "[FETCH_START] Starting catalog fetch", logging.Fields{
		"requested": len(movieIDs),
	})

	result := &FetchResult{Requested: len(movieIDs)}
	rawMovies := make([]models.RawMovie, 0, len(movieIDs))

	for _, movieID := range movieIDs {
		if ctx.Err() != nil {
			return rawMovies, result, ctx.Err()
		}

		raw, err := c.GetMovie(ctx, movieID)
		if err != nil {
			return rawMovies, result, err
		}
		switch {
		case raw != nil:
			rawMovies = append(rawMovies, raw)
			result.Fetched++
		case movieID <= 0:
			result.Skipped++
		default:
			result.Failed++
		}

		time.Sleep(c.config.RequestDelay)
	}

	result.Duration = time.Since(startTime)
	c.metrics.FetchDuration.Observe(result.Duration.Seconds())

	c.logger.Info(ctx, "[FETCH_COMPLETE] Catalog fetch completed", logging.Fields{
		"requested":        result.Requested,
		"fetched":          result.Fetched,
		"skipped":          result.Skipped,
		"failed":           result.Failed,
		"duration_seconds": result.Duration.Seconds(),
	})

	return rawMovies, result, nil
}

// getWithRetry GETs the URL, retrying 429 and 5xx responses and
// transport errors with exponential backoff.
func (c *Client) getWithRetry(ctx context.Context, requestURL string) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(c.config.RetryBackoff, float64(attempt)) * float64(time.Second))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}

		body, status, err := c.get(ctx, requestURL)
		if err != nil {
			lastErr = err
			continue
		}

		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("retryable status %d", status)
			continue
		}

		return body, status, nil
	}

	return nil, 0, fmt.Errorf("request failed after %d retries: %w", c.config.MaxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// projectRawMovie re-keys a catalog response onto the pipeline's raw
// field set, discarding everything else.
func projectRawMovie(payload map[string]interface{}) models.RawMovie {
	raw := models.RawMovie{
		"movie_id": payload["id"],
	}
	for _, key := range models.RawFieldKeys {
		if key == "movie_id" {
			continue
		}
		raw[key] = payload[key]
	}
	return raw
}
