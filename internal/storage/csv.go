package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"movie-platform/internal/models"
)

// WriteMovies persists the canonical dataset as a CSV file. The header
// reproduces the dataset's column order; null fields render as empty
// cells.
func WriteMovies(path string, dataset *models.Dataset) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(dataset.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range dataset.Movies {
		record := make([]string, len(dataset.Columns))
		for j, col := range dataset.Columns {
			record[j] = movieCell(&dataset.Movies[i], col)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ReadMovies loads a canonical dataset back from a CSV file written by
// WriteMovies. Column presence is reconstructed from the header, so a
// dataset persisted without (say) budget columns round-trips without
// them.
func ReadMovies(path string) (*models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	dataset := &models.Dataset{Columns: header}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		var movie models.Movie
		for i, col := range header {
			if i >= len(record) {
				break
			}
			if err := setMovieCell(&movie, col, record[i]); err != nil {
				return nil, fmt.Errorf("row %d: %w", len(dataset.Movies)+1, err)
			}
		}
		dataset.Movies = append(dataset.Movies, movie)
	}

	return dataset, nil
}

// WriteKPIResults persists KPI results with exactly the three columns
// {KPI, Movie, Value}, one row per metric in table order.
func WriteKPIResults(path string, results []models.KPIResult) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"KPI", "Movie", "Value"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, result := range results {
		record := []string{result.KPI, "", ""}
		if result.Movie != nil {
			record[1] = *result.Movie
		}
		if result.Value != nil {
			record[2] = formatFloat(*result.Value)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ReadKPIResults loads KPI results from a CSV written by
// WriteKPIResults.
func ReadKPIResults(path string) ([]models.KPIResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open KPI file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var results []models.KPIResult
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) < 3 {
			continue
		}

		result := models.KPIResult{KPI: record[0], Position: len(results)}
		if record[1] != "" {
			movie := record[1]
			result.Movie = &movie
		}
		if record[2] != "" {
			value, err := strconv.ParseFloat(record[2], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid KPI value %q: %w", record[2], err)
			}
			result.Value = &value
		}
		results = append(results, result)
	}

	return results, nil
}

// movieCell renders one canonical column of a row as a CSV cell.
func movieCell(m *models.Movie, col string) string {
	switch col {
	case "movie_id":
		return strconv.FormatInt(m.MovieID, 10)
	case "title":
		return m.Title
	case "release_date":
		if m.ReleaseDate != nil {
			return m.ReleaseDate.Format(models.ReleaseDateLayout)
		}
		return ""
	case "cast":
		return m.Cast
	case "cast_size":
		return strconv.Itoa(m.CastSize)
	case "crew_size":
		return strconv.Itoa(m.CrewSize)
	}

	if value, ok := m.NumericField(col); ok {
		if value == nil {
			return ""
		}
		return formatFloat(*value)
	}

	if value := stringField(m, col); value != nil {
		return *value
	}
	return ""
}

// setMovieCell parses one CSV cell back into the canonical row.
func setMovieCell(m *models.Movie, col, cell string) error {
	switch col {
	case "movie_id":
		id, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid movie_id %q: %w", cell, err)
		}
		m.MovieID = id
		return nil
	case "title":
		m.Title = cell
		return nil
	case "release_date":
		if cell == "" {
			return nil
		}
		t, err := time.Parse(models.ReleaseDateLayout, cell)
		if err != nil {
			return fmt.Errorf("invalid release_date %q: %w", cell, err)
		}
		m.ReleaseDate = &t
		return nil
	case "cast":
		m.Cast = cell
		return nil
	case "cast_size", "crew_size":
		if cell == "" {
			return nil
		}
		n, err := strconv.Atoi(cell)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", col, cell, err)
		}
		if col == "cast_size" {
			m.CastSize = n
		} else {
			m.CrewSize = n
		}
		return nil
	}

	if cell == "" {
		return nil
	}

	switch col {
	case "budget_musd", "revenue_musd", "profit_musd", "roi",
		"vote_count", "vote_average", "popularity", "runtime":
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", col, cell, err)
		}
		setNumericField(m, col, &value)
	default:
		cellCopy := cell
		setStringField(m, col, &cellCopy)
	}
	return nil
}

func stringField(m *models.Movie, col string) *string {
	switch col {
	case "tagline":
		return m.Tagline
	case "genres":
		return m.Genres
	case "collection":
		return m.Collection
	case "original_language":
		return m.OriginalLanguage
	case "budget_formatted":
		return m.BudgetFormatted
	case "revenue_formatted":
		return m.RevenueFormatted
	case "production_companies":
		return m.ProductionCompanies
	case "production_countries":
		return m.ProductionCountries
	case "overview":
		return m.Overview
	case "spoken_languages":
		return m.SpokenLanguages
	case "poster_path":
		return m.PosterPath
	case "director":
		return m.Director
	}
	return nil
}

func setStringField(m *models.Movie, col string, value *string) {
	switch col {
	case "tagline":
		m.Tagline = value
	case "genres":
		m.Genres = value
	case "collection":
		m.Collection = value
	case "original_language":
		m.OriginalLanguage = value
	case "budget_formatted":
		m.BudgetFormatted = value
	case "revenue_formatted":
		m.RevenueFormatted = value
	case "production_companies":
		m.ProductionCompanies = value
	case "production_countries":
		m.ProductionCountries = value
	case "overview":
		m.Overview = value
	case "spoken_languages":
		m.SpokenLanguages = value
	case "poster_path":
		m.PosterPath = value
	case "director":
		m.Director = value
	}
}

func setNumericField(m *models.Movie, col string, value *float64) {
	switch col {
	case "budget_musd":
		m.BudgetMUSD = value
	case "revenue_musd":
		m.RevenueMUSD = value
	case "profit_musd":
		m.ProfitMUSD = value
	case "roi":
		m.ROI = value
	case "vote_count":
		m.VoteCount = value
	case "vote_average":
		m.VoteAverage = value
	case "popularity":
		m.Popularity = value
	case "runtime":
		m.Runtime = value
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// createFile creates the file after ensuring its directory exists.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}
