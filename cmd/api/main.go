// @title           InsightQA API
// @version         1.0
// @description     Ingests project documents into per-knowledge-base vector indexes and generates grounded test cases and Selenium scripts.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/insightqa/insightqa/internal/config"
	"github.com/insightqa/insightqa/internal/data/kbstore"
	"github.com/insightqa/insightqa/internal/handlers"
	"github.com/insightqa/insightqa/internal/rag"
	"github.com/insightqa/insightqa/internal/rag/embedding/googleEmbedding"
	"github.com/insightqa/insightqa/internal/rag/llm"
	"github.com/insightqa/insightqa/internal/rag/llm/gemini"
	"github.com/insightqa/insightqa/internal/rag/llm/groq"
	"github.com/insightqa/insightqa/internal/rag/vectorDB/qdrantDB"
	"github.com/insightqa/insightqa/internal/server"
	"github.com/insightqa/insightqa/internal/storage"
	"github.com/insightqa/insightqa/pkg/logger_i"
)

var (
	listenAddr string
	dataRoot   string
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on the environment")
	}
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&dataRoot, "data-root", ".", "directory for the registry database and stored documents")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	registry, err := kbstore.NewStore(filepath.Join(dataRoot, config.RegistryDirName))
	if err != nil {
		logger.Error("Couldn't open the registry", "error", err)
		return
	}
	defer registry.Close()

	assets, err := storage.NewAssetStore(filepath.Join(dataRoot, config.AssetsDirName))
	if err != nil {
		logger.Error("Couldn't prepare the assets directory", "error", err)
		return
	}

	vectorDB, err := qdrantDB.NewClient(serviceContext)
	if err != nil {
		logger.Error("Couldn't reach Qdrant", "error", err)
		return
	}

	embeddingService, err := googleEmbedding.NewClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	if err != nil {
		logger.Error("Couldn't initialize the embedding client", "error", err)
		return
	}

	llmProvider, modelName, err := buildProvider(serviceContext)
	if err != nil {
		logger.Error("Couldn't initialize the LLM provider", "error", err)
		return
	}
	logger.Info("LLM provider ready", "provider", config.LLMProviderName(), "model", modelName)

	ragService := rag.NewService(registry, assets, vectorDB, embeddingService, llmProvider, modelName)
	h := handlers.NewHandlers(ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, h)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildProvider(ctx context.Context) (llm.Provider, string, error) {
	switch config.LLMProviderName() {
	case "gemini":
		provider, err := gemini.NewClient(ctx, config.GeminiModelName, config.GoogleAPIKey())
		return provider, config.GeminiModelName, err
	default:
		provider, err := groq.NewClient(config.GroqModelName, config.GroqAPIKey())
		return provider, config.GroqModelName, err
	}
}
