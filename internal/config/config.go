package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Storage       StorageConfig
	Auth          AuthConfig
	LLM           LLMConfig
	Facial        FacialConfig
	Transcription TranscriptionConfig
	Pipeline      PipelineConfig
}

type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"required"`
}

type DatabaseConfig struct {
	Driver     string `validate:"oneof=postgres sqlite"`
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

type StorageConfig struct {
	UploadPath   string `validate:"required"`
	MaxVideoSize int64  `validate:"gt=0"`
}

type AuthConfig struct {
	JWTSecret string
}

// LLMConfig describes the completion endpoint shared by question generation
// and answer scoring. Provider "none" disables it.
type LLMConfig struct {
	Provider        string `validate:"oneof=ollama gemini none"`
	BaseURL         string `validate:"omitempty,url"`
	Model           string
	GeminiAPIKey    string
	GeminiModel     string
	QuestionTimeout time.Duration `validate:"gt=0"`
	ScoringTimeout  time.Duration `validate:"gt=0"`
	MaxRetries      int           `validate:"gte=0,lte=10"`
}

type FacialConfig struct {
	URL     string        `validate:"omitempty,url"`
	Timeout time.Duration `validate:"gt=0"`
}

type TranscriptionConfig struct {
	URL     string        `validate:"omitempty,url"`
	Timeout time.Duration `validate:"gt=0"`
}

type PipelineConfig struct {
	ScoringConcurrency int           `validate:"gte=1,lte=16"`
	Timeout            time.Duration `validate:"gt=0"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "interview_assessor"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "interview_assessor.db"),
		},
		Storage: StorageConfig{
			UploadPath:   getEnv("UPLOAD_PATH", "./uploads"),
			MaxVideoSize: getEnvAsInt64("MAX_VIDEO_SIZE", 200<<20),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
			BaseURL:         getEnv("LLM_BASE_URL", "http://localhost:11434"),
			Model:           getEnv("LLM_MODEL", "llama3"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			QuestionTimeout: getEnvAsDuration("LLM_QUESTION_TIMEOUT", "30s"),
			ScoringTimeout:  getEnvAsDuration("LLM_SCORING_TIMEOUT", "30s"),
			MaxRetries:      getEnvAsInt("LLM_MAX_RETRIES", 2),
		},
		Facial: FacialConfig{
			URL:     getEnv("FACIAL_SERVICE_URL", "http://127.0.0.1:5002"),
			Timeout: getEnvAsDuration("FACIAL_TIMEOUT", "2m"),
		},
		Transcription: TranscriptionConfig{
			URL:     getEnv("TRANSCRIPTION_SERVICE_URL", ""),
			Timeout: getEnvAsDuration("TRANSCRIPTION_TIMEOUT", "5m"),
		},
		Pipeline: PipelineConfig{
			ScoringConcurrency: getEnvAsInt("SCORING_CONCURRENCY", 3),
			Timeout:            getEnvAsDuration("PIPELINE_TIMEOUT", "10m"),
		},
	}
}

// Validate checks the loaded values before any collaborator is constructed.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.LLM.Provider == "gemini" && c.LLM.GeminiAPIKey == "" {
		return fmt.Errorf("invalid configuration: GEMINI_API_KEY is required for the gemini provider")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
