// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/pkg/logger"
)

// DefaultETFSymbols is the ETF watchlist refreshed when no override is
// configured. Yahoo quotes B3-listed ETFs under the .SA suffix.
var DefaultETFSymbols = []string{
	"BOVA11.SA", "IVVB11.SA", "SMAL11.SA", "HASH11.SA", "GOLD11.SA",
	"NASD11.SA", "DIVO11.SA", "XFIX11.SA", "BOVV11.SA", "SPXI11.SA",
}

type equitySource interface {
	Stocks(ctx context.Context) ([]contracts.Instrument, error)
	FIIs(ctx context.Context) ([]contracts.Instrument, error)
	EnrichFIIs(ctx context.Context, instruments []contracts.Instrument)
}

type etfSource interface {
	ETFs(ctx context.Context, symbols []string) ([]contracts.Instrument, error)
}

type universeStore interface {
	Upsert(ctx context.Context, class contracts.AssetClass, instruments []contracts.Instrument) error
}

type snapshotCache interface {
	Invalidate(ctx context.Context, class contracts.AssetClass) error
}

// RefreshJob pulls every listed universe from its upstream source, persists
// it and drops the cached snapshots so the next request sees fresh data.
type RefreshJob struct {
	equities   equitySource
	etfs       etfSource
	store      universeStore
	cache      snapshotCache
	schedule   string
	etfSymbols []string
	log        *logger.Logger
}

func NewRefreshJob(equities equitySource, etfs etfSource, store universeStore, cache snapshotCache, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		equities:   equities,
		etfs:       etfs,
		store:      store,
		cache:      cache,
		schedule:   schedule,
		etfSymbols: DefaultETFSymbols,
		log:        log,
	}
}

func (j *RefreshJob) Name() string { return "universe_refresh" }

func (j *RefreshJob) Schedule() string { return j.schedule }

// Run refreshes stocks, FIIs and ETFs. The classes are independent, so a
// failing source aborts only its own class and the job reports the first
// error after trying all three.
func (j *RefreshJob) Run(ctx context.Context) error {
	var firstErr error

	if err := j.refreshStocks(ctx); err != nil {
		j.log.WithError(err).Error("Stock universe refresh failed")
		firstErr = err
	}
	if err := j.refreshFIIs(ctx); err != nil {
		j.log.WithError(err).Error("FII universe refresh failed")
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := j.refreshETFs(ctx); err != nil {
		j.log.WithError(err).Error("ETF universe refresh failed")
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (j *RefreshJob) refreshStocks(ctx context.Context) error {
	instruments, err := j.equities.Stocks(ctx)
	if err != nil {
		return fmt.Errorf("fetch stocks: %w", err)
	}
	return j.persist(ctx, contracts.ClassAcoes, instruments)
}

func (j *RefreshJob) refreshFIIs(ctx context.Context) error {
	instruments, err := j.equities.FIIs(ctx)
	if err != nil {
		return fmt.Errorf("fetch fiis: %w", err)
	}
	// Segment, vacancy and property count live on the fund pages.
	j.equities.EnrichFIIs(ctx, instruments)
	return j.persist(ctx, contracts.ClassFIIs, instruments)
}

func (j *RefreshJob) refreshETFs(ctx context.Context) error {
	instruments, err := j.etfs.ETFs(ctx, j.etfSymbols)
	if err != nil {
		return fmt.Errorf("fetch etfs: %w", err)
	}
	return j.persist(ctx, contracts.ClassETFs, instruments)
}

func (j *RefreshJob) persist(ctx context.Context, class contracts.AssetClass, instruments []contracts.Instrument) error {
	if len(instruments) == 0 {
		return fmt.Errorf("%s: upstream returned no rows, keeping previous universe", class)
	}

	if err := j.store.Upsert(ctx, class, instruments); err != nil {
		return fmt.Errorf("%s: persist universe: %w", class, err)
	}
	if err := j.cache.Invalidate(ctx, class); err != nil {
		j.log.WithError(err).Warnf("Snapshot cache invalidation failed for %s", class)
	}

	j.log.WithFields(map[string]interface{}{
		"class": string(class),
		"count": len(instruments),
	}).Info("Universe refreshed")
	return nil
}
