package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Detection DetectionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	CronSecret         string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini   string
	EmbedIdeaTopic string // embedding queue topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
}

// DetectionConfig carries every duplicate-detection and scoring threshold.
// Injected into the services so tests can vary values without globals.
type DetectionConfig struct {
	SimilarityThreshold    float64
	MinIdeasForDetection   int
	EmbeddingBackfillBatch int
	WorkspaceBatchSize     int
	BatchSleep             time.Duration
	ConcentrationRatio     float64
	ConcentrationMinVotes  int
	StrongThreshold        float64
	EmergingThreshold      float64
	ConfidenceCacheTTL     time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			CronSecret:         getEnv("CRON_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedIdeaTopic: getEnv("EMBED_IDEA_TOPIC_NAME", "EMBED_IDEA"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Detection: DetectionConfig{
			SimilarityThreshold:    getEnvAsFloat("DUPLICATE_SIMILARITY_THRESHOLD", 0.86),
			MinIdeasForDetection:   getEnvAsInt("MIN_IDEAS_FOR_DETECTION", 5),
			EmbeddingBackfillBatch: getEnvAsInt("EMBEDDING_BACKFILL_BATCH", 20),
			WorkspaceBatchSize:     getEnvAsInt("DETECTION_WORKSPACE_BATCH", 10),
			BatchSleep:             time.Duration(getEnvAsInt("DETECTION_BATCH_SLEEP_SECONDS", 2)) * time.Second,
			ConcentrationRatio:     getEnvAsFloat("VOTE_CONCENTRATION_RATIO", 0.60),
			ConcentrationMinVotes:  getEnvAsInt("VOTE_CONCENTRATION_MIN_VOTES", 10),
			StrongThreshold:        getEnvAsFloat("CONFIDENCE_STRONG_THRESHOLD", 70),
			EmergingThreshold:      getEnvAsFloat("CONFIDENCE_EMERGING_THRESHOLD", 40),
			ConfidenceCacheTTL:     time.Duration(getEnvAsInt("CONFIDENCE_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
