package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	MediaPath    string
	MediaBaseURL string

	LogLevel  string
	LogFormat string

	GraderProvider string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	GradingTimeout time.Duration

	TTSProvider string
	TTSVoice    string
	AudioStore  string
	S3Bucket    string
	AWSRegion   string

	JWTSecret          string
	RateLimitPerMinute int
}

// Load reads configuration from the environment, after merging an optional
// .env file, with sensible defaults
func Load() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		// Variables already present in the environment win over the file.
		_ = godotenv.Load(envFile)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./dictee.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		MediaPath:    getEnv("MEDIA_PATH", "./media"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", "/media"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		GraderProvider: getEnv("GRADER_PROVIDER", "gemini"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-5-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		GradingTimeout: getEnvDuration("GRADING_TIMEOUT", 30*time.Second),

		TTSProvider: getEnv("TTS_PROVIDER", "translate"),
		TTSVoice:    getEnv("TTS_VOICE", "fr-FR-Standard-A"),
		AudioStore:  getEnv("AUDIO_STORE", "local"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		AWSRegion:   getEnv("AWS_REGION", "eu-west-3"),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
	}
}

// Validate reports settings that the selected providers cannot run without
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
	case "postgres", "postgresql", "pgx", "mysql":
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for database type %q", c.DatabaseType))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database type: %s", c.DatabaseType))
	}

	switch strings.ToLower(c.GraderProvider) {
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when GRADER_PROVIDER=gemini"))
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when GRADER_PROVIDER=openai"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported grader provider: %s", c.GraderProvider))
	}

	switch strings.ToLower(c.TTSProvider) {
	case "google-cloud", "translate", "none":
	default:
		errs = append(errs, fmt.Errorf("unsupported TTS provider: %s", c.TTSProvider))
	}

	switch strings.ToLower(c.AudioStore) {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when AUDIO_STORE=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported audio store: %s", c.AudioStore))
	}

	if c.GradingTimeout <= 0 {
		errs = append(errs, errors.New("GRADING_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
