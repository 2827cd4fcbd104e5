package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/bookmarketapp/bookmarket-server/internal/aggregate"
	"github.com/bookmarketapp/bookmarket-server/internal/command"
	"github.com/bookmarketapp/bookmarket-server/internal/config"
	"github.com/bookmarketapp/bookmarket-server/internal/logger"
	"github.com/bookmarketapp/bookmarket-server/internal/pricing"
	"github.com/bookmarketapp/bookmarket-server/internal/recommend"
	"github.com/bookmarketapp/bookmarket-server/internal/search"
	"github.com/bookmarketapp/bookmarket-server/internal/shard"
	"github.com/bookmarketapp/bookmarket-server/internal/store"
	"github.com/bookmarketapp/bookmarket-server/internal/validation"
)

// seedStride spaces the per-shard seeds derived from one configured seed.
const seedStride = 1_000_003

// CatalogHandle wraps the catalog store with shutdown capability.
type CatalogHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalog provides the shared book/customer catalog.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog initialized")
	return &CatalogHandle{Store: db}, nil
}

// SearchIndexHandle wraps the book search index with shutdown capability.
type SearchIndexHandle struct {
	*search.BookIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.BookIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the bleve book index and wires it into the
// catalog so book writes keep the index current. When search is disabled
// the handle is empty and the catalog indexes nothing.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalog := do.MustInvoke[*CatalogHandle](i)

	if !cfg.Search.Enabled {
		log.Info("Search index disabled")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewBookIndex(log.Logger)
	if err != nil {
		return nil, err
	}
	catalog.SetSearchIndexer(search.NewIndexer(index))

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{BookIndex: index}, nil
}

// ShardSet holds every market shard in stable id order.
type ShardSet struct {
	Shards []*shard.Store
}

// ProvideShardSet provides the market shards. A nonzero configured seed
// derives a distinct deterministic seed per shard; zero leaves each shard
// seeding from the clock.
func ProvideShardSet(i do.Injector) (*ShardSet, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	shards := make([]*shard.Store, 0, cfg.Market.Shards)
	for n := 0; n < cfg.Market.Shards; n++ {
		var seed int64
		if cfg.Market.RandomSeed != 0 {
			seed = cfg.Market.RandomSeed + int64(n)*seedStride
		}
		shards = append(shards, shard.New(fmt.Sprintf("shard-%d", n), shard.Options{
			Seed:             seed,
			RestockThreshold: cfg.Market.RestockThreshold,
			RestockQuantity:  cfg.Market.RestockQuantity,
			Logger:           log.Logger,
		}))
	}

	log.Info("Shards initialized",
		"count", len(shards),
		"restock_threshold", cfg.Market.RestockThreshold,
		"restock_quantity", cfg.Market.RestockQuantity,
	)
	return &ShardSet{Shards: shards}, nil
}

// ProvideDispatcher provides the command dispatcher.
func ProvideDispatcher(i do.Injector) (*command.Dispatcher, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	shardSet := do.MustInvoke[*ShardSet](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return command.NewDispatcher(catalog.Store, shardSet.Shards, v, log.Logger), nil
}

// ProvideAggregateEngine provides the cross-shard aggregation engine.
func ProvideAggregateEngine(i do.Injector) (*aggregate.Engine, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	shardSet := do.MustInvoke[*ShardSet](i)
	log := do.MustInvoke[*logger.Logger](i)

	readers := make([]aggregate.ShardReader, 0, len(shardSet.Shards))
	for _, s := range shardSet.Shards {
		readers = append(readers, s)
	}
	return aggregate.New(readers, catalog.Store, log.Logger), nil
}

// ProvidePricingPolicy provides the per-customer pricing policy.
func ProvidePricingPolicy(i do.Injector) (*pricing.Policy, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	shardSet := do.MustInvoke[*ShardSet](i)
	engine := do.MustInvoke[*aggregate.Engine](i)
	log := do.MustInvoke[*logger.Logger](i)

	stocks := make([]pricing.StockReader, 0, len(shardSet.Shards))
	for _, s := range shardSet.Shards {
		stocks = append(stocks, s)
	}
	return pricing.New(stocks, engine, catalog.Store, log.Logger), nil
}

// ProvideRecommendProvider provides the rating-overlap candidate provider.
func ProvideRecommendProvider(i do.Injector) (*recommend.Provider, error) {
	catalog := do.MustInvoke[*CatalogHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return recommend.New(catalog.Store, log.Logger), nil
}
