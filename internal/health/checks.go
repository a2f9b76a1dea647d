package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// NewHealthHandler checks only the backends the config actually uses.
func NewHealthHandler(cfg *config.Config, version string) (*health.Health, error) {

	var checks []health.Config

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		checks = append(checks, health.Config{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		})
	case config.StorageDriverFile:
		checks = append(checks, health.Config{
			Name:      "file-store",
			Timeout:   time.Second,
			SkipOnErr: false,
			Check:     fileCheck(cfg.Storage.FilePath),
		})
	}

	if cfg.UsesRedis() {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "tech-ecolab",
			Version: version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func fileCheck(path string) health.CheckFunc {
	return func(context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("file store unavailable: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("file store path %s is a directory", path)
		}
		return nil
	}
}
