package app

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config carries everything the pipeline needs. It is loaded once in main
// and passed down; no component reads the environment on its own.
type Config struct {
	Email    string
	Password string

	BusinessID string
	LocationID string

	DashboardURL string
	LoginURL     string
	SessionFile  string

	// Inclusive ISO date bounds for the calendar fetch.
	StartDate string
	EndDate   string

	SpreadsheetID     string
	GoogleCredentials []byte

	ArtifactsDir string

	Headless bool
	TestMode bool

	ScrapeDetails    bool
	ScrapeMembership bool
	ScrapeGallery    bool

	MaxLoginAttempts int
	LoginTimeout     time.Duration
	PageLoadTimeout  time.Duration
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig builds the pipeline configuration from the environment.
// Missing required values abort the run before any browser or API work starts.
func LoadConfig() Config {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	cfg := Config{
		Email:      GetRequiredEnv("BLVD_EMAIL"),
		Password:   GetRequiredEnv("BLVD_PASSWORD"),
		BusinessID: GetRequiredEnv("BLVD_BUSINESS_ID"),
		LocationID: GetRequiredEnv("BLVD_LOCATION_ID"),

		DashboardURL: GetEnvWithDefault("BLVD_DASHBOARD_URL", "https://dashboard.boulevard.io"),
		LoginURL:     GetEnvWithDefault("BLVD_LOGIN_URL", "https://dashboard.boulevard.io/login-v2"),
		SessionFile:  GetEnvWithDefault("SESSION_FILE", "session.json"),

		StartDate: GetEnvWithDefault("START_DATE", yesterday),
		EndDate:   GetEnvWithDefault("END_DATE", yesterday),

		SpreadsheetID: GetRequiredEnv("SPREADSHEET_ID"),

		ArtifactsDir: GetEnvWithDefault("ARTIFACTS_DIR", "."),

		Headless: GetBoolEnv("HEADLESS", true),
		TestMode: GetBoolEnv("TEST_MODE", false),

		ScrapeDetails:    GetBoolEnv("SCRAPE_DETAILS", true),
		ScrapeMembership: GetBoolEnv("SCRAPE_MEMBERSHIP", true),
		ScrapeGallery:    GetBoolEnv("SCRAPE_GALLERY", true),

		MaxLoginAttempts: 3,
		LoginTimeout:     30 * time.Second,
		PageLoadTimeout:  15 * time.Second,
	}

	cfg.GoogleCredentials = decodeCredentials(GetRequiredEnv("GOOGLE_CREDENTIALS_B64"))

	log.Debug().
		Str("start_date", cfg.StartDate).
		Str("end_date", cfg.EndDate).
		Bool("headless", cfg.Headless).
		Bool("test_mode", cfg.TestMode).
		Msg("Loaded configuration")

	return cfg
}

// decodeCredentials turns the base64 env blob into raw service-account JSON.
func decodeCredentials(encoded string) []byte {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Fatal().Err(err).Msg("GOOGLE_CREDENTIALS_B64 is not valid base64")
	}
	if !json.Valid(raw) {
		log.Fatal().Msg("GOOGLE_CREDENTIALS_B64 does not decode to JSON")
	}
	return raw
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolEnv fetches a boolean environment variable with a default fallback.
func GetBoolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "":
		return defaultValue
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
