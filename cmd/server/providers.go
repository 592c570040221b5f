package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/urban-jungle/backend/internal/advice"
	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/config"
	"github.com/urban-jungle/backend/internal/garden"
	"github.com/urban-jungle/backend/internal/logging"
	"github.com/urban-jungle/backend/internal/storage"
)

// configPath is the YAML config next to the executable unless
// URBAN_JUNGLE_CONFIG names another file.
func configPath() (string, error) {
	if p := os.Getenv("URBAN_JUNGLE_CONFIG"); p != "" {
		return p, nil
	}
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exePath), "urban-jungle.yaml"), nil
}

func provideConfig() (*config.AppConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return config.LoadConfig(path)
}

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	return logging.NewLogger(logging.ServiceName, cfg.Logging.Level)
}

func provideCatalog(cfg *config.AppConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", zap.Int("plants", cat.Len()), zap.String("path", cfg.Catalog.Path))
	return cat, nil
}

func provideBackend(lc fx.Lifecycle, cfg *config.AppConfig, logger *zap.Logger) (storage.Backend, error) {
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := backend.Close(); err != nil {
				logger.Error("failed to close storage", zap.Error(err))
				return err
			}
			return nil
		},
	})
	return backend, nil
}

func provideGarden(lc fx.Lifecycle, backend storage.Backend, cat *catalog.Catalog, cfg *config.AppConfig, logger *zap.Logger) *garden.Store {
	store := garden.NewStore(backend, cat,
		garden.WithDateLayout(cfg.Store.DateLayout),
		garden.WithLogger(logger.Named("garden")),
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.Load(ctx)
		},
	})
	return store
}

func provideAdvisor(cfg *config.AppConfig, cat *catalog.Catalog, logger *zap.Logger) (advice.Advisor, error) {
	names := make([]string, 0, cat.Len())
	for _, p := range cat.All() {
		names = append(names, p.Name)
	}

	advisor, err := advice.NewGeminiAdvisor(context.Background(), advice.GeminiConfig{
		APIKey:     cfg.Advice.APIKey,
		Model:      cfg.Advice.Model,
		PlantNames: names,
	}, logger.Named("advice"))
	if err != nil {
		return nil, err
	}
	return advisor, nil
}
