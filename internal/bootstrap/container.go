package bootstrap

import (
	"log"

	"idea-board-be/internal/config"
	"idea-board-be/internal/controller"
	"idea-board-be/internal/pkg/logger"
	"idea-board-be/internal/repository/memory"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/internal/service"
	"idea-board-be/pkg/dedupe/confidence"
	dedupeEvents "idea-board-be/pkg/dedupe/events"
	"idea-board-be/pkg/embedding"

	pktNats "idea-board-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DuplicateController  controller.IDuplicateController
	ConfidenceController controller.IConfidenceController
	JobController        controller.IJobController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional infrastructure: domain events degrade to no-ops
	// when the broker is unreachable.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	eventPublisher := dedupeEvents.NewNatsPublisher(natsPub, sysLogger)

	// 3. Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	confidenceCache := memory.NewConfidenceCache(cfg.Detection.ConfidenceCacheTTL)

	// 4. Services
	embeddingService := service.NewEmbeddingService(
		uowFactory,
		embeddingProvider,
		sysLogger,
		cfg.Detection.EmbeddingBackfillBatch,
	)
	publisherService := service.NewPublisherService(cfg.Keys.EmbedIdeaTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedIdeaTopic,
		embeddingService,
		sysLogger,
	)

	detectionService := service.NewDetectionService(
		uowFactory,
		eventPublisher,
		sysLogger,
		cfg.Detection.SimilarityThreshold,
		cfg.Detection.MinIdeasForDetection,
	)
	mergeService := service.NewMergeService(uowFactory, confidenceCache, eventPublisher, sysLogger)

	scoringConfig := confidence.DefaultConfig()
	scoringConfig.StrongThreshold = cfg.Detection.StrongThreshold
	scoringConfig.EmergingThreshold = cfg.Detection.EmergingThreshold
	scoringConfig.ConcentrationRatio = cfg.Detection.ConcentrationRatio
	scoringConfig.ConcentrationMinVotes = cfg.Detection.ConcentrationMinVotes
	confidenceService := service.NewConfidenceService(uowFactory, confidenceCache, sysLogger, scoringConfig)

	batchService := service.NewBatchService(
		uowFactory,
		embeddingService,
		detectionService,
		sysLogger,
		cfg.Detection,
	)

	// 5. Controllers
	duplicateController := controller.NewDuplicateController(mergeService, detectionService)
	confidenceController := controller.NewConfidenceController(confidenceService)
	jobController := controller.NewJobController(
		batchService,
		embeddingService,
		publisherService,
		cfg.App.CronSecret,
	)

	return &Container{
		DuplicateController:  duplicateController,
		ConfidenceController: confidenceController,
		JobController:        jobController,
		ConsumerService:      consumerService,
		Logger:               sysLogger,
	}
}
