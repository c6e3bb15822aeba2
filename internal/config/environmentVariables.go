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

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//data layout - the index file plus the per-document artifacts live here
	DataDir       = "./data"
	UploadDir     = DataDir + "/uploads"
	SamplesDir    = DataDir + "/samples"
	IndexFilePath = DataDir + "/index.json"

	//upload surface
	MaxUploadSizeBytes = 32 << 20 //32mb

	//ocr collaborator
	MistralBaseURL  = "https://api.mistral.ai/v1"
	MistralOCRModel = "mistral-ocr-latest"
	OcrCallTimeout  = 2 * time.Minute

	//structuring collaborator
	MistralChatModel     = "mistral-large-latest"
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	StructureCallTimeout = 90 * time.Second

	//a whole ingest or structure job must finish inside this window
	JobExecutionTimeout = 5 * time.Minute

	ModelTemperature float64 = 0.0

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore       = 0
	RedisStructureCache = 1

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
	//structuring answers are expensive - keep them around for a week
	RedisStructureCacheTTL = 7 * 24 * time.Hour
)

// secrets and deployment toggles come from the environment
var (
	MistralAPIKey = os.Getenv("MISTRAL_API_KEY")
	GeminiAPIKey  = os.Getenv("GEMINI_API_KEY")
	AuthToken     = os.Getenv("API_AUTH_TOKEN")
	NoAuthBypass  = os.Getenv("NO_AUTH") == "1"
	RedisPassword = os.Getenv("REDIS_PASSWORD")

	//"mistral" or "local"
	OcrProviderName = envOrDefault("OCR_PROVIDER", "mistral")
	//"mistral" or "gemini"
	StructureProviderName = envOrDefault("STRUCTURE_PROVIDER", "mistral")
)

func envOrDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
