// @title           DocFlow API
// @version         1.0
// @description     This API handles asynchronous document OCR, field extraction and keyword search
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/data/store"
	jobmodel "github.com/akolanti/DocFlowAPI/internal/domain/jobModel"
	"github.com/akolanti/DocFlowAPI/internal/handlers"
	"github.com/akolanti/DocFlowAPI/internal/index"
	"github.com/akolanti/DocFlowAPI/internal/job"
	"github.com/akolanti/DocFlowAPI/internal/ocr"
	"github.com/akolanti/DocFlowAPI/internal/ocr/local"
	ocrmistral "github.com/akolanti/DocFlowAPI/internal/ocr/mistral"
	"github.com/akolanti/DocFlowAPI/internal/pipeline"
	"github.com/akolanti/DocFlowAPI/internal/server"
	"github.com/akolanti/DocFlowAPI/internal/structure"
	"github.com/akolanti/DocFlowAPI/internal/structure/gemini"
	llmmistral "github.com/akolanti/DocFlowAPI/internal/structure/mistral"
	"github.com/akolanti/DocFlowAPI/internal/worker"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

var (
	listenAddr        string
	indexPath         string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&indexPath, "index-path", config.IndexFilePath, "path of the flat JSON index")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service, job store and structure cache
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
		StructureCache:    store.GetRedisStructureCache(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil || serviceConfig.StructureCache == nil {
		logger.Error("Redis stores are offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.StructureCache = store.InitInMemoryStructureCache()
	}
	service := job.InitJobService(serviceConfig)

	indexStore := index.NewStore(indexPath)

	ocrProvider := selectOcrProvider()
	llmProvider := selectStructureProvider(serviceContext)

	if ocrProvider == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "OcrProvider", ocrProvider != nil, "LLMProvider", llmProvider != nil)
		return
	}

	pipelineService := pipeline.NewService(ocrProvider, llmProvider, indexStore, serviceConfig.StructureCache, config.UploadDir, config.SamplesDir)

	handlers.InitHandlers(service, indexStore)

	//init worker pool
	worker.InitServices(service, pipelineService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func selectOcrProvider() ocr.Provider {
	if config.OcrProviderName == "local" {
		return local.GetLocalProvider()
	}
	return ocrmistral.GetMistralOCRClient(config.MistralAPIKey)
}

func selectStructureProvider(ctx context.Context) structure.Provider {
	if config.StructureProviderName == "gemini" {
		return gemini.GetGeminiClient(ctx, config.GeminiAPIKey, config.GeminiModelName)
	}
	return llmmistral.GetMistralChatClient(config.MistralAPIKey)
}
