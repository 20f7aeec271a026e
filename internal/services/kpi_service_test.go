package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-platform/internal/models"
)

func fp(v float64) *float64 {
	return &v
}

func kpiDataset(movies ...models.Movie) *models.Dataset {
	return &models.Dataset{
		Columns: append([]string(nil), models.CanonicalColumns...),
		Movies:  movies,
	}
}

func TestComputeOne_HighestProfit(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	dataset := kpiDataset(
		models.Movie{MovieID: 1, Title: "A", ProfitMUSD: fp(30)},
		models.Movie{MovieID: 2, Title: "B", ProfitMUSD: fp(40)},
		models.Movie{MovieID: 3, Title: "C"},
	)

	result, err := svc.ComputeOne(context.Background(), dataset, "Highest Profit")
	require.NoError(t, err)

	assert.Equal(t, "Highest Profit", result.KPI)
	require.NotNil(t, result.Movie)
	assert.Equal(t, "B", *result.Movie)
	require.NotNil(t, result.Value)
	assert.Equal(t, 40.0, *result.Value)
}

func TestComputeOne_LowestProfit(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	dataset := kpiDataset(
		models.Movie{MovieID: 1, Title: "Flop", ProfitMUSD: fp(-120)},
		models.Movie{MovieID: 2, Title: "Hit", ProfitMUSD: fp(500)},
	)

	result, err := svc.ComputeOne(context.Background(), dataset, "Lowest Profit")
	require.NoError(t, err)
	require.NotNil(t, result.Movie)
	assert.Equal(t, "Flop", *result.Movie)
	assert.Equal(t, -120.0, *result.Value)
}

func TestComputeOne_ROIFilterExcludesSmallBudgets(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	// The shoestring production has a spectacular ROI but sits under
	// the 10M budget threshold.
	dataset := kpiDataset(
		models.Movie{MovieID: 1, Title: "Shoestring", BudgetMUSD: fp(0.5), ROI: fp(400)},
		models.Movie{MovieID: 2, Title: "Blockbuster", BudgetMUSD: fp(200), ROI: fp(5)},
		models.Movie{MovieID: 3, Title: "Exactly Ten", BudgetMUSD: fp(10), ROI: fp(8)},
	)

	result, err := svc.ComputeOne(context.Background(), dataset, "Highest ROI (Budget ≥10M)")
	require.NoError(t, err)
	require.NotNil(t, result.Movie)
	assert.Equal(t, "Exactly Ten", *result.Movie)
	assert.Equal(t, 8.0, *result.Value)
}

func TestComputeOne_TieFirstWins(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	dataset := kpiDataset(
		models.Movie{MovieID: 1, Title: "Earlier", RevenueMUSD: fp(100)},
		models.Movie{MovieID: 2, Title: "Later", RevenueMUSD: fp(100)},
	)

	result, err := svc.ComputeOne(context.Background(), dataset, "Highest Revenue")
	require.NoError(t, err)
	require.NotNil(t, result.Movie)
	assert.Equal(t, "Earlier", *result.Movie)
}

func TestComputeOne_UnknownKPI(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	_, err := svc.ComputeOne(context.Background(), kpiDataset(), "Best Catering")

	var unknownErr *UnknownKPIError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Best Catering", unknownErr.Name)
}

func TestComputeOne_MissingColumns(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	dataset := &models.Dataset{
		Columns: []string{"movie_id", "title"},
		Movies:  []models.Movie{{MovieID: 1, Title: "A"}},
	}

	_, err := svc.ComputeOne(context.Background(), dataset, "Highest ROI (Budget ≥10M)")

	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "Highest ROI (Budget ≥10M)", missingErr.KPI)
	assert.ElementsMatch(t, []string{"roi", "budget_musd"}, missingErr.Columns)
}

func TestComputeOne_EmptySubsetYieldsPlaceholder(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	dataset := kpiDataset(
		models.Movie{MovieID: 1, Title: "Small", BudgetMUSD: fp(2), ROI: fp(3)},
	)

	result, err := svc.ComputeOne(context.Background(), dataset, "Highest ROI (Budget ≥10M)")
	require.NoError(t, err)

	assert.Equal(t, "Highest ROI (Budget ≥10M)", result.KPI)
	assert.Nil(t, result.Movie)
	assert.Nil(t, result.Value)
}

func TestComputeOne_NullTargetValuesSkipped(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	dataset := kpiDataset(
		models.Movie{MovieID: 1, Title: "No Votes"},
		models.Movie{MovieID: 2, Title: "Some Votes", VoteCount: fp(10)},
	)

	result, err := svc.ComputeOne(context.Background(), dataset, "Most Voted")
	require.NoError(t, err)
	require.NotNil(t, result.Movie)
	assert.Equal(t, "Some Votes", *result.Movie)
}

func TestComputeAll_OrderAndPositions(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	dataset := kpiDataset(
		models.Movie{
			MovieID:     1,
			Title:       "Everything",
			BudgetMUSD:  fp(100),
			RevenueMUSD: fp(300),
			ProfitMUSD:  fp(200),
			ROI:         fp(2),
			VoteCount:   fp(500),
			VoteAverage: fp(8.1),
			Popularity:  fp(45),
		},
	)

	results := svc.ComputeAll(context.Background(), dataset)

	require.Len(t, results, len(KPIOrder))
	for i, result := range results {
		assert.Equal(t, KPIOrder[i], result.KPI)
		assert.Equal(t, i, result.Position)
	}
}

func TestComputeAll_SkipsFailedMetrics(t *testing.T) {
	svc := NewKPIService(newTestLogger(), testMetrics)

	// Without a popularity column, Most Popular cannot be computed and
	// is excluded; the remaining metrics keep consecutive positions.
	columns := make([]string, 0, len(models.CanonicalColumns))
	for _, col := range models.CanonicalColumns {
		if col != "popularity" {
			columns = append(columns, col)
		}
	}

	dataset := &models.Dataset{
		Columns: columns,
		Movies: []models.Movie{{
			MovieID:     1,
			Title:       "Everything",
			BudgetMUSD:  fp(100),
			RevenueMUSD: fp(300),
			ProfitMUSD:  fp(200),
			ROI:         fp(2),
			VoteCount:   fp(500),
			VoteAverage: fp(8.1),
		}},
	}

	results := svc.ComputeAll(context.Background(), dataset)

	require.Len(t, results, len(KPIOrder)-1)
	for i, result := range results {
		assert.NotEqual(t, "Most Popular", result.KPI)
		assert.Equal(t, i, result.Position)
	}
}
