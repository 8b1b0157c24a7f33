package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	LogLevel     string
	ServiceName  string
	Environment  string
	ServerPort   string
	GeminiAPIKeys []string
	ChatModel    string

	CatalogSource  string // csv | postgres
	CatalogCSVPath string
	DatabaseURL    string

	RedisAddr     string
	KnowledgePath string

	TopK         int
	HistoryTurns int
	AnnualRate   float64
}

func LoadConfig() (*Config, error) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "dealer-agent"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	chatModel := os.Getenv("CHAT_MODEL")
	if chatModel == "" {
		chatModel = "gemini-2.0-flash-lite"
	}

	// Load comma-separated Gemini API keys
	var geminiAPIKeys []string
	if keys := os.Getenv("GEMINI_API_KEYS"); keys != "" {
		for _, key := range strings.Split(keys, ",") {
			key = strings.TrimSpace(key)
			if key != "" {
				geminiAPIKeys = append(geminiAPIKeys, key)
			}
		}
	}

	catalogSource := os.Getenv("CATALOG_SOURCE")
	if catalogSource == "" {
		catalogSource = "csv"
	}
	if catalogSource != "csv" && catalogSource != "postgres" {
		return nil, errors.New("CATALOG_SOURCE must be csv or postgres")
	}

	catalogCSVPath := os.Getenv("CATALOG_CSV_PATH")
	if catalogCSVPath == "" {
		catalogCSVPath = "data/catalog.csv"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if catalogSource == "postgres" && databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required when CATALOG_SOURCE=postgres")
	}

	knowledgePath := os.Getenv("KNOWLEDGE_PATH")
	if knowledgePath == "" {
		knowledgePath = "data/company_info.md"
	}

	topK := 3 // default value
	if v := os.Getenv("TOP_K"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			topK = parsed
		}
	}

	historyTurns := 4 // default value
	if v := os.Getenv("HISTORY_TURNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			historyTurns = parsed
		}
	}

	annualRate := 0.10
	if v := os.Getenv("ANNUAL_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			annualRate = parsed
		}
	}

	return &Config{
		LogLevel:       logLevel,
		ServiceName:    serviceName,
		Environment:    environment,
		ServerPort:     serverPort,
		GeminiAPIKeys:  geminiAPIKeys,
		ChatModel:      chatModel,
		CatalogSource:  catalogSource,
		CatalogCSVPath: catalogCSVPath,
		DatabaseURL:    databaseURL,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KnowledgePath:  knowledgePath,
		TopK:           topK,
		HistoryTurns:   historyTurns,
		AnnualRate:     annualRate,
	}, nil
}
