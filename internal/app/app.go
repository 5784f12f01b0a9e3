package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"anonymizer/internal/blob"
	"anonymizer/internal/config"
	"anonymizer/internal/logger"
	"anonymizer/internal/repository/sqlite"
	"anonymizer/internal/route"
	"anonymizer/internal/service"
	"anonymizer/internal/service/ai"
	"anonymizer/internal/service/storage"
	"anonymizer/internal/service/websocket"
)

// App holds the wired pipeline shared by every entry point.
type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	hubService *websocket.HubService
	anonymizer *service.Anonymizer
}

// NewApp loads the configuration and wires the blob backend, scratch storage,
// model loader and event hub into an Anonymizer.
func NewApp(ctx context.Context, notifiers ...service.Notifier) (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	a := &App{
		config:     cfg,
		logger:     log,
		hubService: websocket.NewHubService(log),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	scratch := storage.NewScratchService(cfg, log, store)
	notifiers = append([]service.Notifier{a.hubService}, notifiers...)
	a.anonymizer = service.NewAnonymizer(cfg, log, scratch, ai.DarknetLoader{}, notifiers...)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (blob.Store, error) {
	switch a.config.BlobBackend {
	case "s3":
		store, err := blob.NewS3Store(ctx, blob.S3Options{
			Region:         a.config.AWSRegion,
			Endpoint:       a.config.S3Endpoint,
			ForcePathStyle: a.config.S3ForcePathStyle,
		})
		if err != nil {
			return nil, err
		}
		a.logger.Info("Using S3 blob backend")
		return store, nil

	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(a.config.DatabasePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := sqlite.New(a.config.DatabasePath)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.logger.Info("Using SQLite blob backend at %s", a.config.DatabasePath)
		return sqlite.NewBlobRepository(db), nil

	default:
		return nil, fmt.Errorf("unknown blob backend %q", a.config.BlobBackend)
	}
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() *logger.Logger {
	return a.logger
}

func (a *App) Anonymizer() *service.Anonymizer {
	return a.anonymizer
}

// Run serves the HTTP surface until the listener fails.
func (a *App) Run() error {
	go a.hubService.Run()

	router := route.SetupRoutes(a.anonymizer, a.hubService, a.config.InvokeToken, a.logger)

	a.logger.Info("Image anonymizer listening on :%d", a.config.Port)
	a.logger.Info("Model: %s (%s)", a.config.ModelPath, a.config.ConfigPath)
	a.logger.Info("Scratch directory: %s", a.config.ScratchDirectory)
	if a.config.InvokeToken == "" {
		a.logger.Warning("INVOKE_TOKEN is not set, endpoints are unauthenticated")
	}

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Close releases the database, if one was opened.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
