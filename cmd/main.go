package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/agent"
	"github.com/motoria/dealer-agent/internal/catalog"
	"github.com/motoria/dealer-agent/internal/config"
	"github.com/motoria/dealer-agent/internal/conversation"
	"github.com/motoria/dealer-agent/internal/embedder"
	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/rag"
	"github.com/motoria/dealer-agent/internal/routes"
	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: Error loading .env file", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cleanup := utils.InitLogger(cfg.LogLevel)
	defer cleanup()

	utils.Zlog.Info("Starting application",
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.ServerPort))

	ctx := context.Background()

	var pg *catalog.PostgresClient
	var records []types.VehicleRecord
	switch cfg.CatalogSource {
	case "postgres":
		pg, err = catalog.NewPostgresClient(cfg.DatabaseURL)
		if err != nil {
			utils.Zlog.Error("Failed to create database client", zap.Error(err))
			os.Exit(1)
		}
		defer pg.Close()

		records, err = pg.LoadVehicles(ctx)
		if err != nil {
			utils.Zlog.Error("Failed to load catalog from database", zap.Error(err))
			os.Exit(1)
		}
	default:
		records, err = catalog.LoadCSV(cfg.CatalogCSVPath)
		if err != nil {
			utils.Zlog.Error("Failed to load catalog from CSV", zap.Error(err))
			os.Exit(1)
		}
	}

	store := catalog.NewStore(records)
	utils.Zlog.Info("Catalog loaded",
		zap.String("source", cfg.CatalogSource),
		zap.Int("vehicles", store.Len()))

	if len(cfg.GeminiAPIKeys) == 0 {
		utils.Zlog.Error("GEMINI_API_KEYS is required")
		os.Exit(1)
	}

	temperature := float32(0.2)
	provider, err := llm.NewMultiKeyChatModel(ctx, cfg.GeminiAPIKeys, cfg.ChatModel, &temperature, nil)
	if err != nil {
		utils.Zlog.Error("Failed to create chat model", zap.Error(err))
		os.Exit(1)
	}

	// Semantic retrieval is best-effort: when an index cannot be built the
	// handlers fall back to keyword search and a bare prompt.
	var knowledge rag.Retriever = rag.NewNoopRetriever()
	var semantic agent.VehicleRetriever

	emb, err := embedder.NewGeminiEmbedder(cfg.GeminiAPIKeys)
	if err != nil {
		utils.Zlog.Warn("Embedder unavailable, semantic retrieval disabled", zap.Error(err))
	} else {
		if idx, err := rag.NewKnowledgeIndex(ctx, cfg.KnowledgePath, emb); err != nil {
			utils.Zlog.Warn("Knowledge index unavailable", zap.Error(err))
		} else {
			knowledge = idx
		}

		if idx, err := rag.NewCatalogIndex(ctx, store.All(), emb); err != nil {
			utils.Zlog.Warn("Catalog index unavailable", zap.Error(err))
		} else {
			semantic = idx
		}
	}

	var conversations conversation.Store
	if cfg.RedisAddr != "" {
		redisStore, err := conversation.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			utils.Zlog.Error("Failed to connect to Redis", zap.Error(err))
			os.Exit(1)
		}
		conversations = redisStore
	} else {
		conversations = conversation.NewMemoryStore()
	}

	handlers := map[types.Intent]agent.Handler{
		types.IntentGeneral: agent.NewGeneralHandler(provider, knowledge, cfg.TopK),
		types.IntentCatalog: agent.NewCatalogHandler(provider, store, semantic, cfg.TopK),
		types.IntentFinance: agent.NewFinanceHandler(provider, store, cfg.AnnualRate),
	}

	pipeline := agent.NewPipeline(provider, handlers, conversations, cfg.HistoryTurns)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	routes.SetupRoutes(router, pipeline, store, pg)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Zlog.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Zlog.Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Zlog.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	utils.Zlog.Info("Server exited")
}
