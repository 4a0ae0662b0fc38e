package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JasperZhi/hk-ipo-engine/internal/clients/deepseek"
	"github.com/JasperZhi/hk-ipo-engine/internal/clients/gemini"
	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/analysis"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/assistant"
	"github.com/JasperZhi/hk-ipo-engine/internal/services/insights"
	"github.com/JasperZhi/hk-ipo-engine/internal/storage"
)

// App holds the initialized configuration, storage, backend client and
// services. It is the shared core behind cmd/ipo-server and the tests.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	Backend          interfaces.AnalysisBackend
	AnalysisService  interfaces.AnalysisService
	AssistantService interfaces.AssistantService
	InsightsService  interfaces.InsightsService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration, opens storage, builds the configured analysis
// backend and wires all services. configPath may be empty, in which case
// IPO_CONFIG and the binary directory are consulted.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("IPO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "ipo-engine.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/ipo-engine.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	if config.Storage.Internal.Path != "" && !filepath.IsAbs(config.Storage.Internal.Path) {
		config.Storage.Internal.Path = filepath.Join(binDir, config.Storage.Internal.Path)
	}
	if config.Storage.Searches.Path != "" && !filepath.IsAbs(config.Storage.Searches.Path) {
		config.Storage.Searches.Path = filepath.Join(binDir, config.Storage.Searches.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	backend, err := buildBackend(ctx, config, storageManager, logger)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	analysisService := analysis.NewService(backend, storageManager.SearchLogStore(), logger)
	assistantService := assistant.NewService(backend, logger)
	insightsService := insights.NewService(storageManager.SearchLogStore(), logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		Backend:          backend,
		AnalysisService:  analysisService,
		AssistantService: assistantService,
		InsightsService:  insightsService,
		StartupTime:      startupStart,
	}

	logger.Info().
		Str("backend", config.Clients.Backend).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// buildBackend constructs the analysis backend named by the configuration.
// API keys are resolved from the environment, the system KV store and the
// config file, in that order.
func buildBackend(ctx context.Context, config *common.Config, storageManager interfaces.StorageManager, logger *common.Logger) (interfaces.AnalysisBackend, error) {
	kv := storageManager.InternalStore()

	switch config.Clients.Backend {
	case common.BackendDeepSeek:
		key, err := common.ResolveAPIKey(ctx, kv, "deepseek_api_key", config.Clients.DeepSeek.APIKey)
		if err != nil {
			return nil, fmt.Errorf("DeepSeek API key not configured: %w", err)
		}
		return deepseek.NewClient(key,
			deepseek.WithBaseURL(config.Clients.DeepSeek.BaseURL),
			deepseek.WithModel(config.Clients.DeepSeek.Model),
			deepseek.WithRateLimit(config.Clients.DeepSeek.RateLimit),
			deepseek.WithTimeout(config.Clients.DeepSeek.GetTimeout()),
			deepseek.WithLogger(logger),
		), nil
	default:
		key, err := common.ResolveAPIKey(ctx, kv, "gemini_api_key", config.Clients.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("Gemini API key not configured: %w", err)
		}
		client, err := gemini.NewClient(ctx, key,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return client, nil
	}
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
