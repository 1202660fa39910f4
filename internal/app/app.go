package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectern/internal/common"
	"github.com/ternarybob/lectern/internal/handlers"
	"github.com/ternarybob/lectern/internal/interfaces"
	"github.com/ternarybob/lectern/internal/services/embeddings"
	"github.com/ternarybob/lectern/internal/services/ingest"
	"github.com/ternarybob/lectern/internal/services/llm"
	"github.com/ternarybob/lectern/internal/services/maintenance"
	"github.com/ternarybob/lectern/internal/services/pdf"
	"github.com/ternarybob/lectern/internal/services/pipeline"
	"github.com/ternarybob/lectern/internal/services/reasoning"
	"github.com/ternarybob/lectern/internal/services/retrieval"
	"github.com/ternarybob/lectern/internal/services/security"
	"github.com/ternarybob/lectern/internal/services/verification"
	"github.com/ternarybob/lectern/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// LLM services
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService

	// Pipeline stages
	SecurityGate        *security.Gate
	RetrievalService    *retrieval.Service
	ReasoningService    *reasoning.Service
	VerificationService *verification.Service
	AskService          interfaces.AskService

	// Ingestion services
	PDFExtractor  interfaces.PDFExtractor
	IngestService *ingest.Service

	// Background maintenance
	MaintenanceService *maintenance.Service

	// HTTP handlers
	AskHandler      *handlers.AskHandler
	DocumentHandler *handlers.DocumentHandler
	APIHandler      *handlers.APIHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize storage
	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	// Initialize LLM provider
	app.LLMService = llm.NewService(cfg, logger)

	embedInterval, err := time.ParseDuration(cfg.Ingest.EmbedRateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid embed_rate_limit %q: %w", cfg.Ingest.EmbedRateLimit, err)
	}
	app.EmbeddingService = embeddings.NewService(app.LLMService, embedInterval, logger)

	// Initialize pipeline stages
	app.SecurityGate = security.NewGate(app.LLMService, logger)
	app.RetrievalService = retrieval.NewService(
		app.EmbeddingService,
		storageManager.ChunkStorage(),
		cfg.Pipeline.TopChunks,
		cfg.Pipeline.MinScore,
		logger,
	)
	app.ReasoningService = reasoning.NewService(app.LLMService, logger)
	app.VerificationService = verification.NewService(app.LLMService, logger)
	app.AskService = pipeline.NewService(
		app.SecurityGate,
		app.RetrievalService,
		app.ReasoningService,
		app.VerificationService,
		storageManager.AuditStorage(),
		logger,
	)

	// Initialize ingestion
	app.PDFExtractor = pdf.NewExtractor(logger)
	app.IngestService = ingest.NewService(
		app.PDFExtractor,
		app.EmbeddingService,
		storageManager.DocumentStorage(),
		storageManager.ChunkStorage(),
		&cfg.Ingest,
		logger,
	)

	// Initialize background maintenance
	if cfg.Maintenance.Enabled {
		app.MaintenanceService = maintenance.NewService(storageManager, &cfg.Maintenance, logger)
	}

	// Initialize HTTP handlers
	app.AskHandler = handlers.NewAskHandler(app.AskService, logger)
	app.DocumentHandler = handlers.NewDocumentHandler(
		app.IngestService,
		storageManager.DocumentStorage(),
		cfg.Ingest.MaxUploadBytes,
		logger,
	)
	app.APIHandler = handlers.NewAPIHandler(storageManager.AuditStorage(), logger)

	logger.Info().
		Str("provider", string(cfg.LLM.DefaultProvider)).
		Str("storage_path", cfg.Storage.Badger.Path).
		Msg("Application initialized")

	return app, nil
}

// StartBackground starts background services that run alongside the HTTP
// server. Must be called after New and before serving traffic.
func (a *App) StartBackground() error {
	if a.MaintenanceService == nil {
		return nil
	}
	if err := a.MaintenanceService.Start(); err != nil {
		return fmt.Errorf("failed to start maintenance scheduler: %w", err)
	}
	return nil
}

// Close releases all application resources
func (a *App) Close() error {
	if a.MaintenanceService != nil {
		a.MaintenanceService.Stop()
	}

	if a.LLMService != nil {
		a.LLMService.Close()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
