package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"movie-platform/internal/models"
	"movie-platform/internal/repository"
	"movie-platform/internal/services"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

// MovieHandler handles movie API endpoints
type MovieHandler struct {
	movieService     *services.MovieService
	analyticsService *services.AnalyticsService
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(
	movieService *services.MovieService,
	analyticsService *services.AnalyticsService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *MovieHandler {
	return &MovieHandler{
		movieService:     movieService,
		analyticsService: analyticsService,
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/movies").Observe(duration.Seconds())
	}()

	// Parse query parameters
	language := r.URL.Query().Get("original_language")
	minVotesStr := r.URL.Query().Get("min_vote_count")
	yearFromStr := r.URL.Query().Get("year_from")
	yearToStr := r.URL.Query().Get("year_to")
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	// Default pagination
	page := 1
	limit := 100

	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	offset := (page - 1) * limit

	// Build filter
	filter := repository.MovieFilter{
		Limit:  limit,
		Offset: offset,
	}

	if language != "" {
		filter.OriginalLanguage = &language
	}

	if minVotesStr != "" {
		minVotes, err := strconv.ParseFloat(minVotesStr, 64)
		if err != nil || minVotes < 0 {
			h.sendError(w, r, "invalid min_vote_count, expected non-negative number", http.StatusBadRequest)
			return
		}
		filter.MinVoteCount = &minVotes
	}

	if yearFromStr != "" {
		year, err := strconv.Atoi(yearFromStr)
		if err != nil {
			h.sendError(w, r, "invalid year_from, expected integer year", http.StatusBadRequest)
			return
		}
		filter.ReleaseYearFrom = &year
	}

	if yearToStr != "" {
		year, err := strconv.Atoi(yearToStr)
		if err != nil {
			h.sendError(w, r, "invalid year_to, expected integer year", http.StatusBadRequest)
			return
		}
		filter.ReleaseYearTo = &year
	}

	// Get movies
	movies, total, err := h.movieService.GetMovies(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_MOVIES_ERROR] Failed to get movies", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/movies")
		h.sendError(w, r, "failed to retrieve movies", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       movies,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/movies", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetMovie handles GET /api/movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/movies/{id}").Observe(duration.Seconds())
	}()

	movieID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.sendError(w, r, "invalid movie id, expected integer", http.StatusBadRequest)
		return
	}

	movie, err := h.movieService.GetMovie(ctx, movieID)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			h.sendError(w, r, notFound.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error(ctx, "[API_GET_MOVIE_ERROR] Failed to get movie", logging.Fields{
			"movie_id": movieID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/movies/{id}")
		h.sendError(w, r, "failed to retrieve movie", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/movies/{id}", "GET", "200")
	h.sendJSON(w, movie, http.StatusOK)
}

// GetKPIs handles GET /api/movies/kpis
func (h *MovieHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/movies/kpis").Observe(duration.Seconds())
	}()

	results, err := h.movieService.GetKPIResults(ctx)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_KPIS_ERROR] Failed to get KPI results", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/movies/kpis")
		h.sendError(w, r, "failed to retrieve KPI results", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/movies/kpis", "GET", "200")
	h.sendJSON(w, results, http.StatusOK)
}

// GetAnalytics handles GET /api/movies/analytics
func (h *MovieHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/movies/analytics").Observe(duration.Seconds())
	}()

	// The analytics view is computed over the whole persisted dataset;
	// the catalog is small enough to load in one page.
	movies, _, err := h.movieService.GetMovies(ctx, repository.MovieFilter{Limit: 10000})
	if err != nil {
		h.logger.Error(ctx, "[API_GET_ANALYTICS_ERROR] Failed to load dataset", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/movies/analytics")
		h.sendError(w, r, "failed to compute analytics", http.StatusInternalServerError)
		return
	}

	dataset := &models.Dataset{Columns: models.CanonicalColumns}
	for _, movie := range movies {
		dataset.Movies = append(dataset.Movies, *movie)
	}

	summary := h.analyticsService.Summarize(ctx, dataset)

	h.metrics.RecordAPIRequest("/api/movies/analytics", "GET", "200")
	h.sendJSON(w, summary, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *MovieHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// sendJSON sends a JSON response
func (h *MovieHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *MovieHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all movie API routes
func (h *MovieHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/movies", h.GetMovies).Methods("GET")
	router.HandleFunc("/api/movies/kpis", h.GetKPIs).Methods("GET")
	router.HandleFunc("/api/movies/analytics", h.GetAnalytics).Methods("GET")
	router.HandleFunc("/api/movies/{id:[0-9]+}", h.GetMovie).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
