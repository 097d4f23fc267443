package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/w-h-a/finrag/retriever"
)

// Config carries every tunable the assistant recognizes. Values come from
// the environment, optionally seeded from a .env file; anything unset
// falls back to a default that works against a local stack.
type Config struct {
	Address string

	ChunkSize    int
	ChunkOverlap int

	Collection     string
	StoreBackend   string
	StoreLocation  string
	StoreApiKey    string
	VectorSize     int
	SessionScoping bool

	SummaryK       int
	SpecificK      int
	ScoreThreshold float32

	EmbedderProvider string
	EmbedderKey      string
	EmbedderModel    string

	GeneratorProvider string
	GeneratorKey      string
	GeneratorModel    string

	SystemPrompt string
}

// DepthPolicy translates the configured retrieval depths into the policy
// the retriever consumes.
func (c Config) DepthPolicy() retriever.DepthPolicy {
	return retriever.DepthPolicy{
		retriever.IntentSummary:  {K: c.SummaryK, ScoreThreshold: c.ScoreThreshold},
		retriever.IntentSpecific: {K: c.SpecificK, ScoreThreshold: c.ScoreThreshold},
	}
}

// Load reads the environment into a Config. A missing .env file is fine;
// explicit environment variables always win.
func Load(paths ...string) Config {
	_ = godotenv.Load(paths...)

	return Config{
		Address: stringOr("HTTP_ADDRESS", ":4000"),

		ChunkSize:    intOr("CHUNK_SIZE", 512),
		ChunkOverlap: intOr("CHUNK_OVERLAP", 50),

		Collection:     stringOr("COLLECTION_NAME", "finrag_clean_v1"),
		StoreBackend:   stringOr("STORE_BACKEND", "memory"),
		StoreLocation:  stringOr("STORE_LOCATION", ""),
		StoreApiKey:    stringOr("STORE_API_KEY", ""),
		VectorSize:     intOr("VECTOR_SIZE", 1536),
		SessionScoping: boolOr("SESSION_SCOPING", true),

		SummaryK:       intOr("K_SUMMARY", 5),
		SpecificK:      intOr("K_DEFAULT", 4),
		ScoreThreshold: floatOr("SCORE_THRESHOLD", 0.35),

		EmbedderProvider: stringOr("EMBEDDER_PROVIDER", "openai"),
		EmbedderKey:      stringOr("EMBEDDER_API_KEY", ""),
		EmbedderModel:    stringOr("EMBEDDER_MODEL", "text-embedding-3-small"),

		GeneratorProvider: stringOr("GENERATOR_PROVIDER", "openai"),
		GeneratorKey:      stringOr("GENERATOR_API_KEY", ""),
		GeneratorModel:    stringOr("GENERATOR_MODEL", "gpt-4o-mini"),

		SystemPrompt: stringOr("SYSTEM_PROMPT", ""),
	}
}

func stringOr(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && len(value) > 0 {
		return value
	}
	return fallback
}

func intOr(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func floatOr(key string, fallback float32) float32 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return fallback
	}
	return float32(parsed)
}

func boolOr(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
