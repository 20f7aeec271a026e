package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-platform/internal/models"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

// Aggregation direction for a KPI definition.
const (
	AggMax = "max"
	AggMin = "min"
)

// KPIDefinition declares how one metric is computed: the target
// column, the aggregation direction, and an optional threshold filter
// restricting eligible rows.
type KPIDefinition struct {
	Column    string
	Agg       string
	FilterCol string
	FilterVal float64
}

// HasFilter reports whether the definition restricts eligible rows.
func (d KPIDefinition) HasFilter() bool {
	return d.FilterCol != ""
}

// KPIOrder fixes the order metrics are computed and persisted in.
var KPIOrder = []string{
	"Highest Revenue",
	"Highest Budget",
	"Highest Profit",
	"Lowest Profit",
	"Highest ROI (Budget ≥10M)",
	"Lowest ROI (Budget ≥10M)",
	"Most Voted",
	"Highest Rated (Votes ≥10)",
	"Lowest Rated (Votes ≥10)",
	"Most Popular",
}

// KPIDefinitions is the canonical metric table.
var KPIDefinitions = map[string]KPIDefinition{
	"Highest Revenue": {Column: "revenue_musd", Agg: AggMax},
	"Highest Budget":  {Column: "budget_musd", Agg: AggMax},
	"Highest Profit":  {Column: "profit_musd", Agg: AggMax},
	"Lowest Profit":   {Column: "profit_musd", Agg: AggMin},
	"Highest ROI (Budget ≥10M)": {
		Column: "roi", Agg: AggMax, FilterCol: "budget_musd", FilterVal: 10,
	},
	"Lowest ROI (Budget ≥10M)": {
		Column: "roi", Agg: AggMin, FilterCol: "budget_musd", FilterVal: 10,
	},
	"Most Voted": {Column: "vote_count", Agg: AggMax},
	"Highest Rated (Votes ≥10)": {
		Column: "vote_average", Agg: AggMax, FilterCol: "vote_count", FilterVal: 10,
	},
	"Lowest Rated (Votes ≥10)": {
		Column: "vote_average", Agg: AggMin, FilterCol: "vote_count", FilterVal: 10,
	},
	"Most Popular": {Column: "popularity", Agg: AggMax},
}

// UnknownKPIError reports a metric name missing from the table.
type UnknownKPIError struct {
	Name string
}

func (e *UnknownKPIError) Error() string {
	return fmt.Sprintf("unknown KPI: %s", e.Name)
}

// MissingColumnsError reports every column a metric needs that the
// dataset lacks.
type MissingColumnsError struct {
	KPI     string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns for KPI %q: %s", e.KPI, strings.Join(e.Columns, ", "))
}

// KPIService computes summary metrics over the canonical dataset.
type KPIService struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewKPIService creates a new KPI service
func NewKPIService(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *KPIService {
	return &KPIService{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ComputeOne computes a single named metric over the dataset. Ties on
// the target column resolve to the first row in dataset order. An
// empty eligible subset yields a null-valued placeholder row, not an
// error.
func (s *KPIService) ComputeOne(ctx context.Context, dataset *models.Dataset, kpiName string) (models.KPIResult, error) {
	s.logger.Info(ctx, "[KPI_COMPUTE] Computing KPI", logging.Fields{
		"kpi": kpiName,
	})

	def, ok := KPIDefinitions[kpiName]
	if !ok {
		return models.KPIResult{}, &UnknownKPIError{Name: kpiName}
	}

	required := []string{"title", def.Column}
	if def.HasFilter() {
		required = append(required, def.FilterCol)
	}

	var missing []string
	for _, col := range required {
		if !dataset.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return models.KPIResult{}, &MissingColumnsError{KPI: kpiName, Columns: missing}
	}

	var winner *models.Movie
	var winnerValue float64
	eligible := 0

	for i := range dataset.Movies {
		movie := &dataset.Movies[i]

		if def.HasFilter() {
			fv, _ := movie.NumericField(def.FilterCol)
			if fv == nil || *fv < def.FilterVal {
				continue
			}
		}
		eligible++

		value, _ := movie.NumericField(def.Column)
		if value == nil {
			continue
		}

		if winner == nil ||
			(def.Agg == AggMax && *value > winnerValue) ||
			(def.Agg == AggMin && *value < winnerValue) {
			winner = movie
			winnerValue = *value
		}
	}

	if def.HasFilter() {
		s.logger.Debug(ctx, "[KPI_FILTER] Applied threshold filter", logging.Fields{
			"kpi":            kpiName,
			"filter_col":     def.FilterCol,
			"filter_val":     def.FilterVal,
			"remaining_rows": eligible,
		})
	}

	if winner == nil {
		s.logger.Warn(ctx, "[KPI_EMPTY] No eligible rows for KPI", logging.Fields{
			"kpi": kpiName,
		})
		s.metrics.RecordKPIOutcome("empty")
		return models.KPIResult{KPI: kpiName}, nil
	}

	title := winner.Title
	value := winnerValue

	s.logger.Info(ctx, "[KPI_RESULT] KPI computed", logging.Fields{
		"kpi":   kpiName,
		"movie": title,
		"value": value,
	})
	s.metrics.RecordKPIOutcome("success")

	return models.KPIResult{KPI: kpiName, Movie: &title, Value: &value}, nil
}

// ComputeAll computes every defined metric in declared order. A failed
// metric is logged and excluded from the output without aborting the
// rest.
func (s *KPIService) ComputeAll(ctx context.Context, dataset *models.Dataset) []models.KPIResult {
	startTime := time.Now()

	s.logger.Info(ctx, "[KPI_ALL_START] Computing all KPIs", logging.Fields{
		"movies": len(dataset.Movies),
		"kpis":   len(KPIOrder),
	})

	results := make([]models.KPIResult, 0, len(KPIOrder))
	for _, kpiName := range KPIOrder {
		result, err := s.ComputeOne(ctx, dataset, kpiName)
		if err != nil {
			s.logger.Error(ctx, "[KPI_ERROR] Failed to compute KPI", logging.Fields{
				"kpi": kpiName,
			}, err)
			s.metrics.RecordKPIOutcome("failed")
			continue
		}
		result.Position = len(results)
		results = append(results, result)
	}

	duration := time.Since(startTime)
	s.metrics.KPIComputationDuration.Observe(duration.Seconds())

	s.logger.Info(ctx, "[KPI_ALL_COMPLETE] KPI computation completed", logging.Fields{
		"computed":    len(results),
		"duration_ms": duration.Milliseconds(),
	})

	return results
}
