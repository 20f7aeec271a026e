package services

import (
	"context"
	"sort"
	"strings"

	"movie-platform/internal/models"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

// Movie type labels derived from collection membership.
const (
	MovieTypeFranchise  = "Franchise"
	MovieTypeStandalone = "Standalone"
)

// GenreROI is the average return on investment across movies whose
// primary genre matches, restricted to rows with a known budget.
type GenreROI struct {
	Genre  string  `json:"genre"`
	AvgROI float64 `json:"avg_roi"`
	Count  int     `json:"count"`
}

// YearCount is the number of releases in one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// AnalyticsSummary is the descriptive view served over the API in
// place of the original chart output.
type AnalyticsSummary struct {
	Movies     int         `json:"movies"`
	Franchise  int         `json:"franchise"`
	Standalone int         `json:"standalone"`
	GenreROI   []GenreROI  `json:"genre_roi"`
	YearCounts []YearCount `json:"year_counts"`
}

// AnalyticsService derives descriptive aggregates from the canonical
// dataset: release year, primary genre, franchise membership.
type AnalyticsService struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AnalyticsService {
	return &AnalyticsService{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// PrimaryGenre returns the first segment of a flattened genre string.
func PrimaryGenre(genres *string) *string {
	if genres == nil || *genres == "" {
		return nil
	}
	primary := strings.SplitN(*genres, models.NameDelimiter, 2)[0]
	return &primary
}

// MovieType labels a movie Franchise when it belongs to a collection,
// Standalone otherwise.
func MovieType(collection *string) string {
	if collection != nil {
		return MovieTypeFranchise
	}
	return MovieTypeStandalone
}

// Summarize computes the full analytics view over the dataset.
func (s *AnalyticsService) Summarize(ctx context.Context, dataset *models.Dataset) *AnalyticsSummary {
	s.logger.Info(ctx, "[ANALYTICS_START] Preparing analytics summary", logging.Fields{
		"movies": len(dataset.Movies),
	})

	summary := &AnalyticsSummary{
		Movies:     len(dataset.Movies),
		GenreROI:   s.genreROI(dataset),
		YearCounts: s.yearCounts(dataset),
	}

	for i := range dataset.Movies {
		if MovieType(dataset.Movies[i].Collection) == MovieTypeFranchise {
			summary.Franchise++
		} else {
			summary.Standalone++
		}
	}

	s.logger.Info(ctx, "[ANALYTICS_COMPLETE] Analytics summary prepared", logging.Fields{
		"genres": len(summary.GenreROI),
		"years":  len(summary.YearCounts),
	})

	return summary
}

// genreROI averages ROI per primary genre over rows with a known
// budget, sorted by average descending (genre name breaks ties).
func (s *AnalyticsService) genreROI(dataset *models.Dataset) []GenreROI {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for i := range dataset.Movies {
		movie := &dataset.Movies[i]
		if movie.BudgetMUSD == nil || movie.ROI == nil {
			continue
		}
		genre := PrimaryGenre(movie.Genres)
		if genre == nil {
			continue
		}
		sums[*genre] += *movie.ROI
		counts[*genre]++
	}

	result := make([]GenreROI, 0, len(sums))
	for genre, sum := range sums {
		result = append(result, GenreROI{
			Genre:  genre,
			AvgROI: sum / float64(counts[genre]),
			Count:  counts[genre],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgROI != result[j].AvgROI {
			return result[i].AvgROI > result[j].AvgROI
		}
		return result[i].Genre < result[j].Genre
	})

	return result
}

// yearCounts counts releases per calendar year, ascending.
func (s *AnalyticsService) yearCounts(dataset *models.Dataset) []YearCount {
	counts := make(map[int]int)

	for i := range dataset.Movies {
		if date := dataset.Movies[i].ReleaseDate; date != nil {
			counts[date.Year()]++
		}
	}

	result := make([]YearCount, 0, len(counts))
	for year, count := range counts {
		result = append(result, YearCount{Year: year, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Year < result[j].Year
	})

	return result
}
