package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"goqmra/internal/errors"
	"goqmra/internal/risk"
)

// Config represents the complete application configuration
type Config struct {
	LogLevel   string           `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
	Server     ServerConfig     `validate:"required"`
	Simulation SimulationConfig `validate:"required"`
	Thresholds risk.Thresholds  `validate:"required"`
	Database   DatabaseConfig
	Data       DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// SimulationConfig holds Monte Carlo defaults applied when a scenario leaves
// them unset
type SimulationConfig struct {
	Iterations int           `validate:"gt=0,lte=10000000"`
	BatchSize  int           `validate:"gt=0"`
	Workers    int           `validate:"gt=0,lte=256"`
	Timeout    time.Duration `validate:"gt=0"`
	Seed       int64
}

// DatabaseConfig holds the optional postgres pathogen repository settings
type DatabaseConfig struct {
	URL string `validate:"omitempty,url"`
}

// DataConfig holds optional file inputs
type DataConfig struct {
	PathogenWorkbook string
	PathogenSheet    string
}

// LoadEnvFile loads variables from .env style files into the environment.
// Missing files are ignored; variables already set are kept.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "failed to load %s", p)
		}
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		LogLevel:   strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		Server:     *loadServerConfig(),
		Simulation: *loadSimulationConfig(),
		Thresholds: loadThresholds(),
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Data: DataConfig{
			PathogenWorkbook: getEnvOrDefault("PATHOGEN_WORKBOOK", ""),
			PathogenSheet:    getEnvOrDefault("PATHOGEN_SHEET", "pathogens"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		Iterations: getEnvIntOrDefault("QMRA_ITERATIONS", 10000),
		BatchSize:  getEnvIntOrDefault("QMRA_BATCH_SIZE", 1000),
		Workers:    getEnvIntOrDefault("QMRA_WORKERS", 4),
		Timeout:    getEnvDurationOrDefault("QMRA_TIMEOUT", 2*time.Minute),
		Seed:       int64(getEnvIntOrDefault("QMRA_SEED", 42)),
	}
}

func loadThresholds() risk.Thresholds {
	d := risk.DefaultThresholds()
	return risk.Thresholds{
		AnnualInfection: getEnvFloatOrDefault("QMRA_THRESHOLD_ANNUAL_INFECTION", d.AnnualInfection),
		AnnualIllness:   getEnvFloatOrDefault("QMRA_THRESHOLD_ANNUAL_ILLNESS", d.AnnualIllness),
		DrinkingWater:   getEnvFloatOrDefault("QMRA_THRESHOLD_DRINKING_WATER", d.DrinkingWater),
		PerEvent:        getEnvFloatOrDefault("QMRA_THRESHOLD_PER_EVENT", d.PerEvent),
		DALY:            getEnvFloatOrDefault("QMRA_THRESHOLD_DALY", d.DALY),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			parts := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				parts[i] = fe.Namespace() + " failed " + fe.Tag()
			}
			return errors.ConfigInvalid(strings.Join(parts, "; "))
		}
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
