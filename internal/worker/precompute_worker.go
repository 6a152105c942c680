package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/oweme/settleup/internal/domain"
	"github.com/oweme/settleup/internal/observability"
	"github.com/oweme/settleup/internal/repository"
	"github.com/oweme/settleup/internal/service"
	"go.uber.org/zap"
)

// PrecomputeWorker warms the settlement result cache in the background.
// It periodically recomputes greedy settlements for groups with recent debt
// activity so that the first interactive request hits a warm cache.
// Failures are logged and counted, never fatal: the cache is a pure
// performance optimization.
type PrecomputeWorker struct {
	repo         *repository.Repository
	settlements  *service.SettlementService
	refCurrency  string
	pollInterval time.Duration
	lookback     time.Duration
	batchSize    int32
	stopCh       chan struct{}
}

// NewPrecomputeWorker creates a worker with default polling settings.
func NewPrecomputeWorker(repo *repository.Repository, settlements *service.SettlementService, refCurrency string) *PrecomputeWorker {
	return &PrecomputeWorker{
		repo:         repo,
		settlements:  settlements,
		refCurrency:  refCurrency,
		pollInterval: 5 * time.Minute,
		lookback:     24 * time.Hour,
		batchSize:    20,
		stopCh:       make(chan struct{}),
	}
}

// WithPollInterval sets how often the worker scans for active groups.
func (w *PrecomputeWorker) WithPollInterval(interval time.Duration) *PrecomputeWorker {
	w.pollInterval = interval
	return w
}

// WithLookback sets the activity window that makes a group eligible.
func (w *PrecomputeWorker) WithLookback(lookback time.Duration) *PrecomputeWorker {
	w.lookback = lookback
	return w
}

// WithBatchSize caps the number of groups warmed per run.
func (w *PrecomputeWorker) WithBatchSize(size int32) *PrecomputeWorker {
	w.batchSize = size
	return w
}

// Start runs the worker loop until Stop is called or the context is
// canceled.
func (w *PrecomputeWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if err := w.ProcessOnce(ctx); err != nil {
				zap.L().Warn("settlement precompute run failed", zap.Error(err))
				observability.ObserveWorkerRun("precompute", "error")
			} else {
				observability.ObserveWorkerRun("precompute", "ok")
			}
		}
	}
}

// Stop signals the worker to stop.
func (w *PrecomputeWorker) Stop() {
	close(w.stopCh)
}

// Run starts the worker in a goroutine and returns its stop function.
func (w *PrecomputeWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

// ProcessOnce warms the cache for one batch of recently active groups.
func (w *PrecomputeWorker) ProcessOnce(ctx context.Context) error {
	groups, err := w.repo.ListActiveGroups(ctx, time.Now().Add(-w.lookback), w.batchSize)
	if err != nil {
		return fmt.Errorf("list active groups: %w", err)
	}

	rates, err := w.repo.GetExchangeRates(ctx, w.refCurrency)
	if err != nil {
		return fmt.Errorf("load exchange rates: %w", err)
	}

	for _, groupID := range groups {
		records, err := w.repo.ListGroupDebts(ctx, groupID)
		if err != nil {
			zap.L().Warn("precompute skipped group", zap.String("group_id", groupID.String()), zap.Error(err))
			continue
		}
		if len(records) == 0 {
			continue
		}

		debts := make([]domain.Debt, 0, len(records))
		for _, rec := range records {
			debts = append(debts, domain.Debt{From: rec.FromUserID, To: rec.ToUserID, Amount: rec.Amount, Currency: rec.Currency})
		}

		if _, err := w.settlements.Compute(ctx, service.ComputeInput{
			Debts:    debts,
			Strategy: domain.StrategyGreedy,
			Rates:    rates,
		}); err != nil {
			zap.L().Warn("precompute failed for group", zap.String("group_id", groupID.String()), zap.Error(err))
		}
	}
	return nil
}

// String returns a string representation of the worker.
func (w *PrecomputeWorker) String() string {
	return fmt.Sprintf("PrecomputeWorker(interval=%v, lookback=%v, batch=%d)", w.pollInterval, w.lookback, w.batchSize)
}
