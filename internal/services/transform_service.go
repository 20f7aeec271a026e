package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"movie-platform/internal/models"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

// minNonNullFields is the data-quality floor: a canonical row survives
// only if at least this many of its fields are non-null.
const minNonNullFields = 10

const musdScale = 1_000_000

// TransformService turns raw catalog records into the canonical movie
// dataset. The transform is a pure function of its input; the injected
// logger and metrics only route diagnostics and never influence the
// returned dataset.
type TransformService struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// TransformResult contains transformation statistics
type TransformResult struct {
	InputRecords      int
	OutputRecords     int
	DroppedDuplicates int
	DroppedIdentity   int
	DroppedSparse     int
	CoercionFailures  map[string]int
	Duration          time.Duration
}

// NewTransformService creates a new transform service
func NewTransformService(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *TransformService {
	return &TransformService{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// rowCandidate is a canonical row before the identity and quality
// filters decide whether it survives.
type rowCandidate struct {
	id    *int64
	title *string
	row   models.Movie
}

// Transform runs the full transformation pipeline over a batch of raw
// records: credits extraction, entity flattening, type coercion,
// derived financials, duplicate removal, identity and quality filters,
// and projection onto the canonical column order. Individual malformed
// records are repaired to safe defaults, never raised.
func (s *TransformService) Transform(ctx context.Context, rawMovies []models.RawMovie) (*models.Dataset, *TransformResult) {
	startTime := time.Now()

	s.logger.Info(ctx, "[TRANSFORM_START] Starting movie transformation", logging.Fields{
		"initial_rows": len(rawMovies),
	})

	result := &TransformResult{
		InputRecords:     len(rawMovies),
		CoercionFailures: make(map[string]int),
	}

	sourceSeen := make(map[string]bool)
	candidates := make([]rowCandidate, 0, len(rawMovies))

	for _, raw := range rawMovies {
		for key := range raw {
			sourceSeen[key] = true
		}
		candidates = append(candidates, s.buildRow(ctx, raw, result))
	}

	// Duplicate identifiers collapse to the first occurrence.
	seen := make(map[int64]bool, len(candidates))
	movies := make([]models.Movie, 0, len(candidates))

	for _, c := range candidates {
		if c.id != nil {
			if seen[*c.id] {
				result.DroppedDuplicates++
				s.metrics.RecordTransformOutcome("dropped_duplicate", 1)
				continue
			}
			seen[*c.id] = true
		}

		if c.id == nil || c.title == nil {
			result.DroppedIdentity++
			s.metrics.RecordTransformOutcome("dropped_identity", 1)
			continue
		}

		if c.row.NonNullFieldCount() < minNonNullFields {
			result.DroppedSparse++
			s.metrics.RecordTransformOutcome("dropped_sparse", 1)
			continue
		}

		movies = append(movies, c.row)
	}

	result.OutputRecords = len(movies)
	result.Duration = time.Since(startTime)

	s.metrics.RecordTransformOutcome("kept", len(movies))
	s.metrics.TransformDuration.Observe(result.Duration.Seconds())

	columns := s.projectColumns(ctx, sourceSeen, len(rawMovies))

	s.logger.Info(ctx, "[TRANSFORM_COMPLETE] Transformation complete", logging.Fields{
		"final_rows":         result.OutputRecords,
		"dropped_duplicates": result.DroppedDuplicates,
		"dropped_identity":   result.DroppedIdentity,
		"dropped_sparse":     result.DroppedSparse,
		"coercion_failures":  result.CoercionFailures,
		"final_columns":      columns,
		"duration_ms":        result.Duration.Milliseconds(),
	})

	return &models.Dataset{Columns: columns, Movies: movies}, result
}

// buildRow converts one raw record into a canonical row candidate.
func (s *TransformService) buildRow(ctx context.Context, raw models.RawMovie, result *TransformResult) rowCandidate {
	credits := models.ExtractCredits(raw["credits"])

	id := s.coerceNumeric(ctx, raw, "movie_id", result)
	budget := s.coerceNumeric(ctx, raw, "budget", result)
	revenue := s.coerceNumeric(ctx, raw, "revenue", result)
	popularity := s.coerceNumeric(ctx, raw, "popularity", result)
	voteCount := s.coerceNumeric(ctx, raw, "vote_count", result)

	// A zero budget or revenue means "unknown", not "free".
	if budget != nil && *budget == 0 {
		budget = nil
	}
	if revenue != nil && *revenue == 0 {
		revenue = nil
	}

	var budgetMUSD, revenueMUSD, profitMUSD, roi *float64
	var budgetFormatted, revenueFormatted *string

	if budget != nil {
		v := *budget / musdScale
		budgetMUSD = &v
		f := models.FormatMUSD(v)
		budgetFormatted = &f
	}
	if revenue != nil {
		v := *revenue / musdScale
		revenueMUSD = &v
		f := models.FormatMUSD(v)
		revenueFormatted = &f
	}
	if budgetMUSD != nil && revenueMUSD != nil {
		p := *revenueMUSD - *budgetMUSD
		profitMUSD = &p

		if *budgetMUSD != 0 {
			r := p / *budgetMUSD
			if !math.IsInf(r, 0) && !math.IsNaN(r) {
				roi = &r
			}
		}
	}

	row := models.Movie{
		Tagline:             asNonEmptyString(raw["tagline"]),
		ReleaseDate:         parseReleaseDate(raw["release_date"]),
		Genres:              models.FlattenEntityList(raw["genres"]),
		Collection:          models.FlattenEntityName(raw["belongs_to_collection"]),
		OriginalLanguage:    asNonEmptyString(raw["original_language"]),
		BudgetFormatted:     budgetFormatted,
		RevenueFormatted:    revenueFormatted,
		BudgetMUSD:          budgetMUSD,
		RevenueMUSD:         revenueMUSD,
		ProfitMUSD:          profitMUSD,
		ROI:                 roi,
		ProductionCompanies: models.FlattenEntityList(raw["production_companies"]),
		ProductionCountries: models.FlattenEntityList(raw["production_countries"]),
		VoteCount:           voteCount,
		VoteAverage:         asFloat(raw["vote_average"]),
		Popularity:          popularity,
		Runtime:             asFloat(raw["runtime"]),
		Overview:            asNonEmptyString(raw["overview"]),
		SpokenLanguages:     models.FlattenEntityList(raw["spoken_languages"]),
		PosterPath:          asNonEmptyString(raw["poster_path"]),
		Cast:                credits.Cast,
		CastSize:            credits.CastSize,
		Director:            credits.Director,
		CrewSize:            credits.CrewSize,
	}

	candidate := rowCandidate{title: asNonEmptyString(raw["title"])}

	if id != nil {
		movieID := int64(*id)
		candidate.id = &movieID
		row.MovieID = movieID
	}
	if candidate.title != nil {
		row.Title = *candidate.title
	}

	candidate.row = row
	return candidate
}

// coerceNumeric coerces a raw field to a float. Coercion failure is
// silent: the value becomes null and the failure is counted for
// diagnostics only.
func (s *TransformService) coerceNumeric(ctx context.Context, raw models.RawMovie, key string, result *TransformResult) *float64 {
	value, ok := raw[key]
	if !ok || value == nil {
		return nil
	}

	if f := asFloat(value); f != nil {
		return f
	}

	if str, ok := value.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return &f
		}
	}

	result.CoercionFailures[key]++
	s.metrics.RecordCoercionFailure(key)
	s.logger.Debug(ctx, "[TRANSFORM_COERCE] Unparsable numeric value", logging.Fields{
		"field": key,
		"value": value,
	})

	return nil
}

// asFloat returns the value as a float when it already carries a
// numeric type.
func asFloat(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) {
			return nil
		}
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

// asNonEmptyString returns a pointer to the value when it is a
// non-empty string, nil otherwise. The catalog uses empty strings for
// absent text fields.
func asNonEmptyString(value interface{}) *string {
	str, ok := value.(string)
	if !ok || str == "" {
		return nil
	}
	return &str
}

// parseReleaseDate parses a raw release date; unparsable values become
// null.
func parseReleaseDate(value interface{}) *time.Time {
	str, ok := value.(string)
	if !ok || str == "" {
		return nil
	}
	t, err := time.Parse(models.ReleaseDateLayout, str)
	if err != nil {
		return nil
	}
	return &t
}

// projectColumns returns the canonical column order restricted to the
// columns whose source data appeared somewhere in the batch. An empty
// batch keeps the full schema.
func (s *TransformService) projectColumns(ctx context.Context, sourceSeen map[string]bool, inputRecords int) []string {
	if inputRecords == 0 {
		return append([]string(nil), models.CanonicalColumns...)
	}

	columns := make([]string, 0, len(models.CanonicalColumns))
	missing := make([]string, 0)

	for _, col := range models.CanonicalColumns {
		if columnSourcePresent(col, sourceSeen) {
			columns = append(columns, col)
		} else {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		s.logger.Warn(ctx, "[TRANSFORM_COLUMNS] Missing expected columns", logging.Fields{
			"missing": missing,
		})
	}

	return columns
}

// columnSourcePresent maps a canonical column to the raw field(s) it
// derives from.
func columnSourcePresent(col string, sourceSeen map[string]bool) bool {
	switch col {
	case "movie_id", "title":
		return true
	case "collection":
		return sourceSeen["belongs_to_collection"]
	case "budget_formatted", "budget_musd":
		return sourceSeen["budget"]
	case "revenue_formatted", "revenue_musd":
		return sourceSeen["revenue"]
	case "profit_musd", "roi":
		return sourceSeen["budget"] && sourceSeen["revenue"]
	case "cast", "cast_size", "director", "crew_size":
		return sourceSeen["credits"]
	default:
		return sourceSeen[col]
	}
}
