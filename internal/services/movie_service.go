package services

import (
	"context"

	"movie-platform/internal/models"
	"movie-platform/internal/repository"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

// MovieService handles movie data operations
type MovieService struct {
	repo    repository.MovieRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewMovieService creates a new movie service
func NewMovieService(repo repository.MovieRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *MovieService {
	return &MovieService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetMovies retrieves movies with filtering
func (s *MovieService) GetMovies(ctx context.Context, filter repository.MovieFilter) ([]*models.Movie, int, error) {
	return s.repo.GetMovies(ctx, filter)
}

// GetMovie retrieves a single movie by identifier
func (s *MovieService) GetMovie(ctx context.Context, movieID int64) (*models.Movie, error) {
	return s.repo.GetMovie(ctx, movieID)
}

// GetKPIResults retrieves the persisted KPI results in table order
func (s *MovieService) GetKPIResults(ctx context.Context) ([]*models.KPIResult, error) {
	return s.repo.GetKPIResults(ctx)
}
