package health

import (
	"fmt"
	"time"

	"github.com/andeanlabs/usdc-storefront/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "product-service",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: healthHttp.New(healthHttp.Config{
				URL: cfg.ProductService.BaseURL + "/api-staging/products",
			}),
		},
		{
			Name:      "payin-provider",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check: healthHttp.New(healthHttp.Config{
				URL: cfg.PayinProvider.BaseURL + "/api/accounts",
			}),
		},
	}

	if cfg.RedisConnect.Enabled {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: fmt.Sprintf("redis://%s/%d", cfg.RedisConnect.Addr, cfg.RedisConnect.DB),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "usdc-storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
