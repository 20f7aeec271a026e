package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is empty because every field names its variable in full.
const EnvPrefix = ""

// Config holds all process-level configuration, supplied via
// environment variables (optionally from a .env file).
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	TMDB     TMDBConfig
	Paths    PathsConfig
}

type AppConfig struct {
	Env      string `envconfig:"MOVIE_APP_ENV" default:"dev"`
	LogLevel string `envconfig:"MOVIE_LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Host         string        `envconfig:"MOVIE_SERVER_HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"MOVIE_SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"MOVIE_SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"MOVIE_SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"MOVIE_SERVER_IDLE_TIMEOUT" default:"60s"`
}

type DatabaseConfig struct {
	Host            string        `envconfig:"MOVIE_DB_HOST" default:"localhost"`
	Port            int           `envconfig:"MOVIE_DB_PORT" default:"5432"`
	User            string        `envconfig:"MOVIE_DB_USER" default:"postgres"`
	Password        string        `envconfig:"MOVIE_DB_PASSWORD"`
	Database        string        `envconfig:"MOVIE_DB_NAME" default:"movies"`
	SSLMode         string        `envconfig:"MOVIE_DB_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"MOVIE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOVIE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOVIE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOVIE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// TMDBConfig configures the catalog API client. The credential is only
// required when the pipeline actually fetches; see ValidateFetch.
type TMDBConfig struct {
	APIKey         string        `envconfig:"API_KEY"`
	BaseURL        string        `envconfig:"BASE_URL" default:"https://api.themoviedb.org/3"`
	RequestTimeout time.Duration `envconfig:"MOVIE_FETCH_REQUEST_TIMEOUT" default:"5s"`
	MaxRetries     int           `envconfig:"MOVIE_FETCH_MAX_RETRIES" default:"3"`
	RetryBackoff   float64       `envconfig:"MOVIE_FETCH_RETRY_BACKOFF" default:"1.5"`
	RequestDelay   time.Duration `envconfig:"MOVIE_FETCH_REQUEST_DELAY" default:"200ms"`
}

// PathsConfig locates the flat-file stage boundaries.
type PathsConfig struct {
	DataDir        string `envconfig:"MOVIE_DATA_DIR" default:"./data"`
	RawJSON        string `envconfig:"MOVIE_RAW_JSON" default:"movies_raw.json"`
	TransformedCSV string `envconfig:"MOVIE_TRANSFORMED_CSV" default:"movies_transformed.csv"`
	KPICSV         string `envconfig:"MOVIE_KPI_CSV" default:"movie_kpis.csv"`
}

// LoadConfig reads configuration from the environment. A .env file in
// the working directory is loaded first when present; a missing file
// is not an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields every process needs.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive")
	}
	return nil
}

// ValidateFetch checks the fields the fetch stage needs. A missing API
// credential is fatal for that stage only.
func (c *Config) ValidateFetch() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("API_KEY not found in environment")
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("BASE_URL not found in environment")
	}
	return nil
}
