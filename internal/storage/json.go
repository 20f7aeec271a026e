package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"movie-platform/internal/models"
)

// WriteRawMovies persists the raw fetch output as a JSON array, the
// hand-off format between the fetch and transform stages.
func WriteRawMovies(path string, rawMovies []models.RawMovie) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(rawMovies); err != nil {
		return fmt.Errorf("failed to encode raw movies: %w", err)
	}
	return nil
}

// ReadRawMovies loads raw movie records from a JSON array file. A
// missing file is an error surfaced to the operator; the pipeline
// cannot transform without its input.
func ReadRawMovies(path string) ([]models.RawMovie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw dataset: %w", err)
	}

	var rawMovies []models.RawMovie
	if err := json.Unmarshal(data, &rawMovies); err != nil {
		return nil, fmt.Errorf("failed to parse raw dataset: %w", err)
	}
	return rawMovies, nil
}
