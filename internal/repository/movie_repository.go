package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"movie-platform/internal/models"
	"movie-platform/pkg/database"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

// MovieRepository provides data access for the canonical movie dataset
// and its KPI results.
type MovieRepository interface {
	// Movie operations
	UpsertMoviesBatch(ctx context.Context, movies []models.Movie) error
	GetMovie(ctx context.Context, movieID int64) (*models.Movie, error)
	GetMovies(ctx context.Context, filter MovieFilter) ([]*models.Movie, int, error)

	// KPI operations
	UpsertKPIResults(ctx context.Context, results []models.KPIResult) error
	GetKPIResults(ctx context.Context) ([]*models.KPIResult, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// MovieFilter defines filters for querying movies
type MovieFilter struct {
	OriginalLanguage *string
	MinVoteCount     *float64
	ReleaseYearFrom  *int
	ReleaseYearTo    *int
	Limit            int
	Offset           int
}

// movieRepository implements MovieRepository
type movieRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) MovieRepository {
	return &movieRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

const movieColumns = `
	movie_id, title, tagline, release_date, genres, collection,
	original_language, budget_formatted, revenue_formatted,
	budget_musd, revenue_musd, profit_musd, roi,
	production_companies, production_countries,
	vote_count, vote_average, popularity, runtime, overview,
	spoken_languages, poster_path, cast_names, cast_size, director, crew_size
`

const upsertMovieQuery = `
	INSERT INTO movies (
		movie_id, title, tagline, release_date, genres, collection,
		original_language, budget_formatted, revenue_formatted,
		budget_musd, revenue_musd, profit_musd, roi,
		production_companies, production_countries,
		vote_count, vote_average, popularity, runtime, overview,
		spoken_languages, poster_path, cast_names, cast_size, director, crew_size,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
	        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	ON CONFLICT (movie_id) DO UPDATE SET
		title = EXCLUDED.title,
		tagline = EXCLUDED.tagline,
		release_date = EXCLUDED.release_date,
		genres = EXCLUDED.genres,
		collection = EXCLUDED.collection,
		original_language = EXCLUDED.original_language,
		budget_formatted = EXCLUDED.budget_formatted,
		revenue_formatted = EXCLUDED.revenue_formatted,
		budget_musd = EXCLUDED.budget_musd,
		revenue_musd = EXCLUDED.revenue_musd,
		profit_musd = EXCLUDED.profit_musd,
		roi = EXCLUDED.roi,
		production_companies = EXCLUDED.production_companies,
		production_countries = EXCLUDED.production_countries,
		vote_count = EXCLUDED.vote_count,
		vote_average = EXCLUDED.vote_average,
		popularity = EXCLUDED.popularity,
		runtime = EXCLUDED.runtime,
		overview = EXCLUDED.overview,
		spoken_languages = EXCLUDED.spoken_languages,
		poster_path = EXCLUDED.poster_path,
		cast_names = EXCLUDED.cast_names,
		cast_size = EXCLUDED.cast_size,
		director = EXCLUDED.director,
		crew_size = EXCLUDED.crew_size,
		updated_at = EXCLUDED.updated_at
`

// UpsertMoviesBatch writes the whole canonical dataset in a single
// transaction; the dataset is rebuilt fully on every pipeline run.
func (r *movieRepository) UpsertMoviesBatch(ctx context.Context, movies []models.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.logger.Debug(ctx, "[REPO_BATCH_UPSERT] Batch upsert completed", logging.Fields{
			"count":       len(movies),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertMovieQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range movies {
		m := &movies[i]
		_, err := stmt.ExecContext(ctx,
			m.MovieID, m.Title, m.Tagline, m.ReleaseDate, m.Genres, m.Collection,
			m.OriginalLanguage, m.BudgetFormatted, m.RevenueFormatted,
			m.BudgetMUSD, m.RevenueMUSD, m.ProfitMUSD, m.ROI,
			m.ProductionCompanies, m.ProductionCountries,
			m.VoteCount, m.VoteAverage, m.Popularity, m.Runtime, m.Overview,
			m.SpokenLanguages, m.PosterPath, m.Cast, m.CastSize, m.Director, m.CrewSize,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert movie %d: %w", m.MovieID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetMovie retrieves a movie by identifier
func (r *movieRepository) GetMovie(ctx context.Context, movieID int64) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE movie_id = $1`

	var movie models.Movie
	err := r.db.GetContext(ctx, "get_movie", &movie, query, movieID)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "movie",
			ID:       fmt.Sprintf("%d", movieID),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return &movie, nil
}

// GetMovies retrieves movies with filtering and pagination
func (r *movieRepository) GetMovies(ctx context.Context, filter MovieFilter) ([]*models.Movie, int, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.OriginalLanguage != nil {
		query += fmt.Sprintf(" AND original_language = $%d", argNum)
		args = append(args, *filter.OriginalLanguage)
		argNum++
	}

	if filter.MinVoteCount != nil {
		query += fmt.Sprintf(" AND vote_count >= $%d", argNum)
		args = append(args, *filter.MinVoteCount)
		argNum++
	}

	if filter.ReleaseYearFrom != nil {
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM release_date) >= $%d", argNum)
		args = append(args, *filter.ReleaseYearFrom)
		argNum++
	}

	if filter.ReleaseYearTo != nil {
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM release_date) <= $%d", argNum)
		args = append(args, *filter.ReleaseYearTo)
		argNum++
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_movies", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	query += " ORDER BY popularity DESC NULLS LAST, movie_id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var movies []*models.Movie
	err = r.db.SelectContext(ctx, "get_movies", &movies, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get movies: %w", err)
	}

	return movies, totalCount, nil
}

// UpsertKPIResults replaces the persisted KPI table with the given
// results, preserving their declared order.
func (r *movieRepository) UpsertKPIResults(ctx context.Context, results []models.KPIResult) error {
	query := `
		INSERT INTO movie_kpis (kpi, movie, value, position, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (kpi) DO UPDATE SET
			movie = EXCLUDED.movie,
			value = EXCLUDED.value,
			position = EXCLUDED.position,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	for _, result := range results {
		_, err := r.db.ExecContext(ctx, "upsert_kpi", query,
			result.KPI, result.Movie, result.Value, result.Position, now)
		if err != nil {
			return fmt.Errorf("failed to upsert KPI %q: %w", result.KPI, err)
		}
	}

	return nil
}

// GetKPIResults retrieves all KPI results in their declared order
func (r *movieRepository) GetKPIResults(ctx context.Context) ([]*models.KPIResult, error) {
	query := `SELECT kpi, movie, value, position FROM movie_kpis ORDER BY position`

	var results []*models.KPIResult
	err := r.db.SelectContext(ctx, "get_kpis", &results, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get KPI results: %w", err)
	}

	return results, nil
}

// HealthCheck performs a repository health check
func (r *movieRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
