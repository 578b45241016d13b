package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"hr-assistant/internal/config"
	"hr-assistant/internal/db"
	"hr-assistant/internal/handlers"
	"hr-assistant/internal/repositories"
	"hr-assistant/internal/routes"
	"hr-assistant/internal/services"
)

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer wires the full question-answering pipeline behind an HTTP
// server. The registry endpoints degrade gracefully when Redis is down;
// chat requires ChromaDB and LM Studio only at request time, not at boot.
func NewServer() *http.Server {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)
	cfg := config.Load()

	llmService := services.NewLLMService(cfg.LLMBaseURL, cfg.LLMModel, cfg.EmbeddingModel)
	vectorRepo := initializeVectorRepository(cfg, logger)
	docRepo := initializeDocumentRepository(cfg, logger)

	intent := services.NewIntentClassifier(llmService, logger)
	evidence := services.NewEvidenceSelector(
		llmService,
		vectorRepo,
		cfg.Collection,
		cfg.ArtifactsDir,
		cfg.TopK,
		cfg.ScoreThreshold,
		logger,
	)
	synthesizer := services.NewAnswerSynthesizer(llmService, cfg.CompanyName, cfg.MaxAnswerWords, logger)
	audit := services.NewAuditLog(cfg.AuditLogPath)
	transcript := services.NewTranscript()

	chatService := services.NewChatService(
		intent,
		evidence,
		synthesizer,
		audit,
		transcript,
		cfg.CompanyName,
		cfg.PublicBaseURL,
		logger,
	)

	chatHandler := handlers.NewChatHandler(chatService, llmService, logger)

	var documentsHandler *handlers.DocumentsHandler
	if docRepo != nil {
		documentsHandler = handlers.NewDocumentsHandler(docRepo, vectorRepo, cfg.Collection, logger)
		logger.Println("✅ Document registry endpoints enabled")
	} else {
		logger.Println("⚠️  Document registry endpoints disabled - Redis not available")
	}

	h := &routes.Handlers{
		Health:    handlers.HealthCheckHandler,
		Home:      handlers.NewHomeHandler(cfg.StaticDir),
		Chat:      chatHandler,
		Documents: documentsHandler,
	}

	router := mux.NewRouter()

	// Add Swagger endpoints before the catch-all static routes
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("%s/swagger/doc.json", cfg.PublicBaseURL)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	routes.RegisterRoutes(router, h, cfg.ArtifactsDir, cfg.StaticDir)

	logger.Printf("✅ Assistant configured for %s (collection: %s, top-k: %d, threshold: %.2f)",
		cfg.CompanyName, cfg.Collection, cfg.TopK, cfg.ScoreThreshold)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: corsMiddleware(router),
	}
}

// initializeVectorRepository creates the ChromaDB-backed vector store.
// The client is always constructed; connectivity is probed only for the
// startup log, chat degrades per-request if the store goes away later.
func initializeVectorRepository(cfg config.Config, logger *log.Logger) repositories.VectorRepository {
	chromaConfig := db.ChromaDBConfig{
		Host:     cfg.ChromaHost,
		Port:     cfg.ChromaPort,
		Tenant:   cfg.ChromaTenant,
		Database: cfg.ChromaDatabase,
		Timeout:  cfg.ChromaTimeout,
	}
	logger.Printf("Connecting to ChromaDB: %s:%d", chromaConfig.Host, chromaConfig.Port)

	chromaClient := db.NewChromaDBClient(chromaConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := chromaClient.Heartbeat(ctx); err != nil {
		logger.Printf("⚠️  ChromaDB not reachable yet: %v", err)
		logger.Println("   Hint: Ensure ChromaDB is running (docker run -d -p 8000:8000 chromadb/chroma)")
	} else {
		logger.Println("✅ ChromaDB connected successfully")
	}

	return repositories.NewChromaVectorRepository(chromaClient)
}

// initializeDocumentRepository creates the Redis-backed document
// registry, or returns nil when Redis is unavailable.
func initializeDocumentRepository(cfg config.Config, logger *log.Logger) repositories.DocumentRepository {
	redisConfig := db.DefaultRedisConfig()
	redisConfig.Host = cfg.RedisHost
	redisConfig.Port = cfg.RedisPort
	redisConfig.Password = cfg.RedisPassword
	redisConfig.DB = cfg.RedisDB

	logger.Printf("Connecting to Redis: %s:%d (DB: %d)", redisConfig.Host, redisConfig.Port, redisConfig.DB)

	redisClient, err := db.NewRedisClient(redisConfig)
	if err != nil {
		logger.Printf("❌ Failed to create Redis client: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx); err != nil {
		logger.Printf("❌ Redis connection failed: %v", err)
		logger.Println("   Hint: Ensure Redis is running (docker run -d -p 6379:6379 redis:7-alpine)")
		return nil
	}
	logger.Println("✅ Redis connected successfully")

	return repositories.NewRedisDocumentRepository(redisClient.GetClient())
}
