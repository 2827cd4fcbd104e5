// Package providers contains dependency injection providers for the
// BookMarket core.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookmarketapp/bookmarket-server/internal/config"
	"github.com/bookmarketapp/bookmarket-server/internal/logger"
	"github.com/bookmarketapp/bookmarket-server/internal/validation"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting BookMarket core",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"shards", cfg.Market.Shards,
		"search_enabled", cfg.Search.Enabled,
	)

	return log, nil
}

// ProvideValidator provides the command validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
