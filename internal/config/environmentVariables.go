package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	ChunkWindow  = 800
	ChunkOverlap = 150

	//retrieval
	DefaultTopK = 5

	//vectorDB
	ChunkCollectionName                 = "insightqa"
	EmbeddingOutputDimensionality int32 = 1536
	QdrantConnectionTimeout             = 30 * time.Second
	QdrantHost                          = ""
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"
	EmbeddingBatchSize   = 100

	//llm
	GroqBaseURL         = "https://api.groq.com/openai/v1"
	GroqModelName       = "llama-3.1-8b-instant"
	GeminiModelName     = "gemini-2.5-flash"
	ModelTemperature    = 1.0
	MaxCompletionTokens = 1024

	//generation prompts are large, so the request timeout is minutes-scale
	GenerationTimeout = 5 * time.Minute
	IngestTimeout     = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 6 * time.Minute
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":8000"

	//uploads
	UploadLimitBytes = 32 << 20 //32mb
	AssetsDirName    = "assets"
	RegistryDirName  = "data"
)

// Env-backed settings are read through functions so a .env file loaded in
// main is picked up, instead of being frozen at package init.

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func GroqAPIKey() string {
	return os.Getenv("GROQ_API_KEY")
}

// LLMProviderName selects the chat backend: "groq" (default) or "gemini".
func LLMProviderName() string {
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		return p
	}
	return "groq"
}

func AuthToken() string {
	return os.Getenv("INSIGHTQA_AUTH_TOKEN")
}

// NoAuthBypass disables bearer auth when no token is configured, which keeps
// local development usable.
func NoAuthBypass() bool {
	return AuthToken() == ""
}

func QdrantHostOverride() (string, string) {
	return os.Getenv("QDRANT_HOST"), os.Getenv("QDRANT_PORT")
}
