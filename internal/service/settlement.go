package service

import (
	"context"
	"encoding/json"

	"github.com/oweme/settleup/internal/cache"
	"github.com/oweme/settleup/internal/domain"
	"github.com/oweme/settleup/internal/engine"
	"github.com/oweme/settleup/internal/observability"
	"go.uber.org/zap"
)

// SettlementService runs the optimization pipeline. It is stateless and
// synchronous per call; the injected cache store is the only shared state
// between concurrent calls.
type SettlementService struct {
	cache cache.Store
}

func NewSettlementService(cacheStore cache.Store) *SettlementService {
	return &SettlementService{cache: cacheStore}
}

// ComputeInput carries everything one computation needs. Rates and
// friendships are immutable snapshots supplied by the caller; the engine
// never caches them across calls.
type ComputeInput struct {
	Debts               []domain.Debt
	Strategy            domain.Strategy
	Rates               domain.RateTable
	Friendships         domain.FriendshipStrengths
	PreferredCurrencies map[string]string
}

// Compute turns raw group debts into the smallest settlement list the chosen
// strategy produces. Pipeline: build graph, normalize currencies, cancel
// cycles, reduce to balances, then optimize (with a cache in front). The
// optional re-denomination step runs after the cached stage so cached values
// stay in the reference currency.
func (s *SettlementService) Compute(ctx context.Context, in ComputeInput) ([]domain.Settlement, error) {
	graph, err := engine.BuildGraph(in.Debts)
	if err != nil {
		observability.ObserveOptimization(string(in.Strategy), "invalid_input")
		return nil, err
	}

	normalized, err := engine.Normalize(graph, in.Rates)
	if err != nil {
		observability.ObserveOptimization(string(in.Strategy), "invalid_input")
		return nil, err
	}

	settlements, err := s.optimize(ctx, in.Strategy, normalized, in.Friendships, in.Rates.Reference)
	if err != nil {
		observability.ObserveOptimization(string(in.Strategy), "error")
		return nil, err
	}
	observability.ObserveOptimization(string(in.Strategy), "ok")
	observability.ObserveReduction(string(in.Strategy), len(graph.Debts), len(settlements))

	if len(in.PreferredCurrencies) > 0 {
		return engine.Redenominate(settlements, in.Rates, in.PreferredCurrencies)
	}
	return settlements, nil
}

// optimize runs the cached stage of the pipeline: everything downstream of
// normalization is a pure function of (strategy, normalized debts,
// friendship data), which is exactly what the cache key hashes. A miss must
// produce the identical result a hit would have returned.
func (s *SettlementService) optimize(ctx context.Context, strategy domain.Strategy, normalized domain.DebtGraph, friendships domain.FriendshipStrengths, currency string) ([]domain.Settlement, error) {
	key := cache.Key(strategy, normalized.Debts, friendships)

	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var cached []domain.Settlement
			if err := json.Unmarshal(payload, &cached); err == nil {
				observability.ObserveCache("hit")
				return cached, nil
			}
			zap.L().Warn("discarding undecodable settlement cache entry", zap.String("key", key))
		}
		observability.ObserveCache("miss")
	}

	simplified := engine.SimplifyCycles(normalized)
	balances, err := engine.ComputeBalances(simplified)
	if err != nil {
		return nil, err
	}

	settlements, err := engine.Optimize(strategy, balances, currency, friendships)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(settlements); err == nil {
			s.cache.Set(ctx, key, payload)
		}
	}
	return settlements, nil
}

// ExplainInput carries the inputs of an already-computed settlement plan.
type ExplainInput struct {
	Debts       []domain.Debt
	Settlements []domain.Settlement
	Strategy    domain.Strategy
	Rates       domain.RateTable
}

// Explain derives the visualization bundle for a (debts, settlements) pair.
// Read-only: it rebuilds the same normalized graph and balances the compute
// path used, then projects, so the explanation cannot drift from the
// computation.
func (s *SettlementService) Explain(ctx context.Context, in ExplainInput) (*engine.Explanation, error) {
	graph, err := engine.BuildGraph(in.Debts)
	if err != nil {
		return nil, err
	}

	normalized, err := engine.Normalize(graph, in.Rates)
	if err != nil {
		return nil, err
	}

	simplified := engine.SimplifyCycles(normalized)
	balances, err := engine.ComputeBalances(simplified)
	if err != nil {
		return nil, err
	}

	explanation := engine.Explain(normalized, balances, in.Settlements, in.Strategy)
	return &explanation, nil
}
