package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-platform/internal/models"
)

func sp(s string) *string {
	return &s
}

func fp(v float64) *float64 {
	return &v
}

func TestWriteReadMovies_RoundTrip(t *testing.T) {
	date := time.Date(2019, 4, 24, 0, 0, 0, 0, time.UTC)

	dataset := &models.Dataset{
		Columns: models.CanonicalColumns,
		Movies: []models.Movie{
			{
				MovieID:          299534,
				Title:            "Avengers: Endgame",
				Tagline:          sp("Part of the journey is the end."),
				ReleaseDate:      &date,
				Genres:           sp("Adventure|Science Fiction"),
				Collection:       sp("The Avengers Collection"),
				OriginalLanguage: sp("en"),
				BudgetFormatted:  sp("$356.0M"),
				RevenueFormatted: sp("$2797.8M"),
				BudgetMUSD:       fp(356),
				RevenueMUSD:      fp(2797.800564),
				ProfitMUSD:       fp(2441.800564),
				ROI:              fp(6.8590),
				VoteCount:        fp(13948),
				VoteAverage:      fp(8.3),
				Popularity:       fp(50.2),
				Runtime:          fp(181),
				Cast:             "Robert Downey Jr.|Chris Evans",
				CastSize:         2,
				Director:         sp("Anthony Russo"),
				CrewSize:         2,
			},
			{
				// Mostly null row: only identity and credits fields.
				MovieID:  42,
				Title:    "Obscure Film",
				Cast:     "",
				CastSize: 0,
				CrewSize: 0,
			},
		},
	}

	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, WriteMovies(path, dataset))

	got, err := ReadMovies(path)
	require.NoError(t, err)

	assert.Equal(t, dataset.Columns, got.Columns)
	assert.Equal(t, dataset.Movies, got.Movies)
}

func TestWriteReadMovies_OmittedColumnsRoundTrip(t *testing.T) {
	// A dataset persisted without the budget-derived columns keeps the
	// narrower schema on read.
	dataset := &models.Dataset{
		Columns: []string{"movie_id", "title", "revenue_musd", "cast", "cast_size", "crew_size"},
		Movies: []models.Movie{
			{MovieID: 1, Title: "Narrow", RevenueMUSD: fp(12.5), Cast: "Someone", CastSize: 1},
		},
	}

	path := filepath.Join(t.TempDir(), "narrow.csv")
	require.NoError(t, WriteMovies(path, dataset))

	got, err := ReadMovies(path)
	require.NoError(t, err)

	assert.Equal(t, dataset.Columns, got.Columns)
	assert.Equal(t, dataset.Movies, got.Movies)
	assert.False(t, got.HasColumn("budget_musd"))
}

func TestWriteKPIResults_HeaderAndNulls(t *testing.T) {
	results := []models.KPIResult{
		{KPI: "Highest Revenue", Movie: sp("Avengers: Endgame"), Value: fp(2797.800564), Position: 0},
		{KPI: "Highest ROI (Budget ≥10M)", Position: 1},
	}

	path := filepath.Join(t.TempDir(), "kpis.csv")
	require.NoError(t, WriteKPIResults(path, results))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"KPI", "Movie", "Value"}, records[0])
	assert.Equal(t, []string{"Highest Revenue", "Avengers: Endgame", "2797.800564"}, records[1])
	// Placeholder row: null movie and value render as empty cells.
	assert.Equal(t, []string{"Highest ROI (Budget ≥10M)", "", ""}, records[2])
}

func TestReadKPIResults_RoundTrip(t *testing.T) {
	results := []models.KPIResult{
		{KPI: "Highest Revenue", Movie: sp("Avengers: Endgame"), Value: fp(2797.800564), Position: 0},
		{KPI: "Lowest Profit", Movie: sp("Expensive Flop"), Value: fp(-165.71), Position: 1},
		{KPI: "Most Popular", Position: 2},
	}

	path := filepath.Join(t.TempDir(), "kpis.csv")
	require.NoError(t, WriteKPIResults(path, results))

	got, err := ReadKPIResults(path)
	require.NoError(t, err)
	assert.Equal(t, results, got)
}

func TestWriteRawMovies_RoundTrip(t *testing.T) {
	rawMovies := []models.RawMovie{
		{
			"movie_id": float64(299534),
			"title":    "Avengers: Endgame",
			"budget":   float64(356000000),
			"genres": []interface{}{
				map[string]interface{}{"id": float64(12), "name": "Adventure"},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, WriteRawMovies(path, rawMovies))

	got, err := ReadRawMovies(path)
	require.NoError(t, err)
	assert.Equal(t, rawMovies, got)
}

func TestReadRawMovies_MissingFile(t *testing.T) {
	_, err := ReadRawMovies(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestWriteMovies_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "movies.csv")

	dataset := &models.Dataset{Columns: []string{"movie_id", "title"}}
	require.NoError(t, WriteMovies(path, dataset))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
