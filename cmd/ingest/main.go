// Command ingest rebuilds the retrieval index from the cleaned policy
// corpus. It drops the existing collection, re-chunks and re-embeds
// every document, and refreshes the registry so the server and the
// index never disagree about what was ingested.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hr-assistant/internal/config"
	"hr-assistant/internal/db"
	"hr-assistant/internal/repositories"
	"hr-assistant/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	cfg := config.Load()

	cleanedDir := flag.String("cleaned", cfg.CleanedDir, "directory of cleaned policy documents")
	artifactsDir := flag.String("artifacts", cfg.ArtifactsDir, "directory of original policy artifacts")
	collection := flag.String("collection", cfg.Collection, "vector collection to rebuild")
	dryRun := flag.Bool("dry-run", false, "tag and chunk the corpus without writing anything")
	flag.Parse()

	logger := log.New(os.Stdout, "[INGEST] ", log.LstdFlags)
	ctx := context.Background()

	llmService := services.NewLLMService(cfg.LLMBaseURL, cfg.LLMModel, cfg.EmbeddingModel)
	splitter := services.NewTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	chromaClient := db.NewChromaDBClient(db.ChromaDBConfig{
		Host:     cfg.ChromaHost,
		Port:     cfg.ChromaPort,
		Tenant:   cfg.ChromaTenant,
		Database: cfg.ChromaDatabase,
		Timeout:  cfg.ChromaTimeout,
	})
	vectorRepo := repositories.NewChromaVectorRepository(chromaClient)

	docRepo := documentRepository(cfg, logger)

	ingestor := services.NewIngestor(
		splitter,
		llmService,
		vectorRepo,
		docRepo,
		*cleanedDir,
		*artifactsDir,
		*collection,
		logger,
	)

	if *dryRun {
		tagged, err := ingestor.TagChunks()
		if err != nil {
			logger.Fatalf("❌ Dry run failed: %v", err)
		}
		for _, chunk := range tagged {
			logger.Printf("chunk: type=%s source=%s title=%q len=%d",
				chunk.DocType, chunk.SourceFile, chunk.Title, len(chunk.Text))
		}
		logger.Printf("✅ Dry run complete: %d chunks", len(tagged))
		return
	}

	if err := chromaClient.Heartbeat(ctx); err != nil {
		logger.Fatalf("❌ ChromaDB not reachable: %v", err)
	}

	if err := ingestor.Run(ctx); err != nil {
		logger.Fatalf("❌ Ingestion failed: %v", err)
	}
}

// documentRepository connects the registry; ingestion still works
// without it, the /documents endpoints just stay empty.
func documentRepository(cfg config.Config, logger *log.Logger) repositories.DocumentRepository {
	redisConfig := db.DefaultRedisConfig()
	redisConfig.Host = cfg.RedisHost
	redisConfig.Port = cfg.RedisPort
	redisConfig.Password = cfg.RedisPassword
	redisConfig.DB = cfg.RedisDB

	redisClient, err := db.NewRedisClient(redisConfig)
	if err != nil {
		logger.Printf("⚠️  Redis unavailable, skipping registry: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx); err != nil {
		logger.Printf("⚠️  Redis unavailable, skipping registry: %v", err)
		return nil
	}

	return repositories.NewRedisDocumentRepository(redisClient.GetClient())
}
