package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the assistant.
// Values come from environment variables with sensible defaults,
// so the server runs out of the box against local collaborators.
type Config struct {
	// HTTP
	Port          int
	PublicBaseURL string
	StaticDir     string

	// Organization
	CompanyName string

	// ChromaDB
	ChromaHost     string
	ChromaPort     int
	ChromaTenant   string
	ChromaDatabase string
	ChromaTimeout  time.Duration

	// Redis (document registry)
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// LM Studio (generation + embeddings)
	LLMBaseURL     string
	LLMModel       string
	EmbeddingModel string

	// Corpus layout
	Collection   string
	CleanedDir   string
	ArtifactsDir string

	// Pipeline tuning
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	ScoreThreshold float32
	MaxAnswerWords int

	// Audit
	AuditLogPath string
}

// Load reads configuration from the environment, falling back to defaults.
func Load() Config {
	return Config{
		Port:          envInt("PORT", 8080),
		PublicBaseURL: envStr("PUBLIC_BASE_URL", "http://localhost:8080"),
		StaticDir:     envStr("STATIC_DIR", "static"),

		CompanyName: envStr("COMPANY_NAME", "Verztec"),

		ChromaHost:     envStr("CHROMA_HOST", "localhost"),
		ChromaPort:     envInt("CHROMA_PORT", 8000),
		ChromaTenant:   envStr("CHROMA_TENANT", "default_tenant"),
		ChromaDatabase: envStr("CHROMA_DATABASE", "default_database"),
		ChromaTimeout:  30 * time.Second,

		RedisHost:     envStr("REDIS_HOST", "localhost"),
		RedisPort:     envInt("REDIS_PORT", 6379),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		LLMBaseURL:     envStr("LLM_BASE_URL", "http://localhost:1234/v1"),
		LLMModel:       envStr("LLM_MODEL", "llama-3.2-3b-instruct"),
		EmbeddingModel: envStr("EMBEDDING_MODEL", "text-embedding-bge-base-en-v1.5"),

		Collection:   envStr("COLLECTION_NAME", "hr-policies"),
		CleanedDir:   envStr("CLEANED_DIR", "data/cleaned"),
		ArtifactsDir: envStr("ARTIFACTS_DIR", "data/pdfs"),

		ChunkSize:      envInt("CHUNK_SIZE", 1000),
		ChunkOverlap:   envInt("CHUNK_OVERLAP", 200),
		TopK:           envInt("RETRIEVAL_TOP_K", 3),
		ScoreThreshold: envFloat32("SCORE_THRESHOLD", 0.38),
		MaxAnswerWords: envInt("MAX_ANSWER_WORDS", 300),

		AuditLogPath: envStr("AUDIT_LOG_PATH", "question_log.txt"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
