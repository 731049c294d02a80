package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-tracker/internal/config"
	"github.com/sells-group/lead-tracker/internal/fetcher"
	"github.com/sells-group/lead-tracker/internal/ingest"
	"github.com/sells-group/lead-tracker/internal/kv"
	"github.com/sells-group/lead-tracker/internal/leads"
	"github.com/sells-group/lead-tracker/internal/market"
	"github.com/sells-group/lead-tracker/internal/resilience"
	"github.com/sells-group/lead-tracker/internal/store"
)

// appEnv holds the wired components shared by every command.
type appEnv struct {
	Storage kv.Storage
	Store   *store.CompanyStore
	Leads   *leads.Service
	Market  *market.Client
}

// Close releases the storage backend.
func (e *appEnv) Close() {
	if e.Storage != nil {
		if err := e.Storage.Close(); err != nil {
			zap.L().Warn("close storage", zap.Error(err))
		}
	}
}

// initEnv validates cfg for mode and wires storage, store and clients.
func initEnv(c *config.Config, mode string) (*appEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	storage, err := kv.Open(c.Store.Driver, c.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open storage")
	}

	settings := resilience.Settings{
		MaxAttempts:      c.Resilience.MaxAttempts,
		FailureThreshold: c.Resilience.FailureThreshold,
		ResetTimeout:     time.Duration(c.Resilience.ResetTimeoutSecs) * time.Second,
	}

	src := ingest.NewClient(
		ingest.WithBaseURL(c.Ingest.BaseURL),
		ingest.WithQuantity(c.Ingest.Quantity),
		ingest.WithFetcher(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout: c.Ingest.Timeout(),
			Retry:   settings.Retry("ingest"),
		})),
		ingest.WithBreaker(settings.Breaker("ingest")),
	)

	mkt := market.NewClient(
		market.WithBaseURL(c.Market.BaseURL),
		market.WithSymbol(c.Market.Symbol),
		market.WithInterval(c.Market.Interval),
		market.WithWindows(c.Market.PriceDays, c.Market.ScatterDays),
		market.WithFetcher(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout: c.Market.Timeout(),
			Retry:   settings.Retry("market"),
		})),
		market.WithBreaker(settings.Breaker("market")),
	)

	st := store.New(storage, store.WithKey(c.Store.Key))
	return &appEnv{
		Storage: storage,
		Store:   st,
		Leads:   leads.New(st, src),
		Market:  mkt,
	}, nil
}

// load restores or fetches the collection. A failed fetch is logged and
// recorded in the store; commands carry on with whatever is loaded.
func (e *appEnv) load(ctx context.Context) {
	if err := e.Leads.Load(ctx); err != nil {
		zap.L().Warn("initial load failed", zap.Error(err))
	}
}
