// Package di provides dependency injection configuration for the
// BookMarket core.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookmarketapp/bookmarket-server/internal/aggregate"
	"github.com/bookmarketapp/bookmarket-server/internal/command"
	"github.com/bookmarketapp/bookmarket-server/internal/config"
	"github.com/bookmarketapp/bookmarket-server/internal/di/providers"
	"github.com/bookmarketapp/bookmarket-server/internal/logger"
	"github.com/bookmarketapp/bookmarket-server/internal/pricing"
	"github.com/bookmarketapp/bookmarket-server/internal/recommend"
	"github.com/bookmarketapp/bookmarket-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Catalog and search
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Market
	do.Provide(injector, providers.ProvideShardSet)
	do.Provide(injector, providers.ProvideDispatcher)

	// Read models and pricing
	do.Provide(injector, providers.ProvideAggregateEngine)
	do.Provide(injector, providers.ProvidePricingPolicy)
	do.Provide(injector, providers.ProvideRecommendProvider)

	return injector
}

// Bootstrap initializes all services and returns once the market is ready
// to accept commands. This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.CatalogHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.ShardSet](injector)
	_ = do.MustInvoke[*command.Dispatcher](injector)
	_ = do.MustInvoke[*aggregate.Engine](injector)
	_ = do.MustInvoke[*pricing.Policy](injector)
	_ = do.MustInvoke[*recommend.Provider](injector)

	return nil
}
