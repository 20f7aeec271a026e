package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"movie-platform/internal/config"
	"movie-platform/internal/models"
	"movie-platform/internal/repository"
	"movie-platform/internal/services"
	"movie-platform/internal/storage"
	"movie-platform/internal/tmdb"
	"movie-platform/pkg/database"
	"movie-platform/pkg/logging"
	"movie-platform/pkg/metrics"
)

func main() {
	// Parse command-line flags
	idsFlag := flag.String("ids", "", "Comma-separated movie ids to fetch (default: built-in list)")
	inputFlag := flag.String("input", "", "Path to a raw JSON file to transform instead of fetching")
	outDirFlag := flag.String("out-dir", "", "Output directory for pipeline artifacts (default: MOVIE_DATA_DIR)")
	persistFlag := flag.Bool("persist", false, "Upsert the transformed dataset and KPIs into PostgreSQL")
	skipKPIsFlag := flag.Bool("skip-kpis", false, "Skip the KPI computation stage")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("movie-pipeline", "1.0.0", logging.ParseLevel(cfg.App.LogLevel))

	ctx := context.Background()

	outDir := cfg.Paths.DataDir
	if *outDirFlag != "" {
		outDir = *outDirFlag
	}

	rawPath := filepath.Join(outDir, cfg.Paths.RawJSON)
	datasetPath := filepath.Join(outDir, cfg.Paths.TransformedCSV)
	kpiPath := filepath.Join(outDir, cfg.Paths.KPICSV)

	logger.Info(ctx, "[PIPELINE_START] Starting movie data pipeline", logging.Fields{
		"version":   "1.0.0",
		"out_dir":   outDir,
		"input":     *inputFlag,
		"persist":   *persistFlag,
		"skip_kpis": *skipKPIsFlag,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("movie_pipeline")

	// Stage 1: acquire raw records, either from the catalog API or from
	// a previously persisted raw JSON file.
	var rawMovies []models.RawMovie
	var fetchResult *tmdb.FetchResult

	if *inputFlag != "" {
		rawMovies, err = storage.ReadRawMovies(*inputFlag)
		if err != nil {
			logger.Fatal(ctx, "[PIPELINE_ERROR] Failed to load raw input", logging.Fields{
				"path": *inputFlag,
			}, err)
		}
	} else {
		if err := cfg.ValidateFetch(); err != nil {
			logger.Fatal(ctx, "[PIPELINE_ERROR] Fetch configuration invalid", logging.Fields{}, err)
		}

		movieIDs := tmdb.DefaultMovieIDs
		if *idsFlag != "" {
			movieIDs, err = parseMovieIDs(*idsFlag)
			if err != nil {
				logger.Fatal(ctx, "[PIPELINE_ERROR] Invalid -ids value", logging.Fields{
					"ids": *idsFlag,
				}, err)
			}
		}

		client := tmdb.NewClient(tmdb.Config{
			APIKey:         cfg.TMDB.APIKey,
			BaseURL:        cfg.TMDB.BaseURL,
			RequestTimeout: cfg.TMDB.RequestTimeout,
			MaxRetries:     cfg.TMDB.MaxRetries,
			RetryBackoff:   cfg.TMDB.RetryBackoff,
			RequestDelay:   cfg.TMDB.RequestDelay,
		}, logger, metricsCollector)

		rawMovies, fetchResult, err = client.FetchMovies(ctx, movieIDs)
		if err != nil {
			logger.Fatal(ctx, "[PIPELINE_ERROR] Catalog fetch failed", logging.Fields{}, err)
		}

		if err := storage.WriteRawMovies(rawPath, rawMovies); err != nil {
			logger.Fatal(ctx, "[PIPELINE_ERROR] Failed to write raw dataset", logging.Fields{
				"path": rawPath,
			}, err)
		}
	}

	// Stage 2: transform raw records into the canonical dataset.
	transformService := services.NewTransformService(logger, metricsCollector)
	dataset, transformResult := transformService.Transform(ctx, rawMovies)

	if err := storage.WriteMovies(datasetPath, dataset); err != nil {
		logger.Fatal(ctx, "[PIPELINE_ERROR] Failed to write dataset", logging.Fields{
			"path": datasetPath,
		}, err)
	}

	// Stage 3: compute the KPI report.
	var kpiResults []models.KPIResult
	if !*skipKPIsFlag {
		kpiService := services.NewKPIService(logger, metricsCollector)
		kpiResults = kpiService.ComputeAll(ctx, dataset)

		if err := storage.WriteKPIResults(kpiPath, kpiResults); err != nil {
			logger.Fatal(ctx, "[PIPELINE_ERROR] Failed to write KPI report", logging.Fields{
				"path": kpiPath,
			}, err)
		}
	}

	// Stage 4: optionally persist to PostgreSQL.
	if *persistFlag {
		dbConfig := &database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.Database,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		}

		db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[PIPELINE_ERROR] Failed to connect to database", logging.Fields{}, err)
		}
		defer db.Close()

		movieRepo := repository.NewMovieRepository(db, logger, metricsCollector)

		if err := movieRepo.UpsertMoviesBatch(ctx, dataset.Movies); err != nil {
			logger.Fatal(ctx, "[PIPELINE_ERROR] Failed to persist dataset", logging.Fields{}, err)
		}

		if len(kpiResults) > 0 {
			if err := movieRepo.UpsertKPIResults(ctx, kpiResults); err != nil {
				logger.Fatal(ctx, "[PIPELINE_ERROR] Failed to persist KPI results", logging.Fields{}, err)
			}
		}
	}

	// Print results
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("PIPELINE COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	if fetchResult != nil {
		fmt.Printf("Requested:          %d\n", fetchResult.Requested)
		fmt.Printf("Fetched:            %d\n", fetchResult.Fetched)
		fmt.Printf("Skipped:            %d\n", fetchResult.Skipped)
		fmt.Printf("Failed:             %d\n", fetchResult.Failed)
		fmt.Printf("Fetch Duration:     %v\n", fetchResult.Duration)
	}
	fmt.Printf("Input Records:      %d\n", transformResult.InputRecords)
	fmt.Printf("Output Records:     %d\n", transformResult.OutputRecords)
	fmt.Printf("Dropped Duplicates: %d\n", transformResult.DroppedDuplicates)
	fmt.Printf("Dropped Identity:   %d\n", transformResult.DroppedIdentity)
	fmt.Printf("Dropped Sparse:     %d\n", transformResult.DroppedSparse)
	fmt.Printf("Dataset:            %s\n", datasetPath)
	if !*skipKPIsFlag {
		fmt.Printf("KPI Report:         %s\n", kpiPath)
	}

	logger.Info(ctx, "[PIPELINE_COMPLETE] Pipeline completed successfully", logging.Fields{
		"input_records":  transformResult.InputRecords,
		"output_records": transformResult.OutputRecords,
		"kpis":           len(kpiResults),
		"persisted":      *persistFlag,
	})
}

// parseMovieIDs parses a comma-separated id list.
func parseMovieIDs(value string) ([]int64, error) {
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid movie id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no movie ids given")
	}
	return ids, nil
}
