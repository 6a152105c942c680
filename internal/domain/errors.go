package domain

import "errors"

var (
	// ErrInvalidDebt marks malformed input such as self-debts. Always a
	// caller bug, never retried.
	ErrInvalidDebt = errors.New("invalid debt")

	// ErrUnbalancedGraph marks balances that do not sum to zero after
	// normalization. Indicates upstream data corruption and is never
	// silently corrected.
	ErrUnbalancedGraph = errors.New("unbalanced graph")

	// ErrUnknownCurrency marks a currency with no exchange rate in the
	// supplied snapshot. Raised before any optimization work begins.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidStrategy marks a strategy name outside the closed set.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrMixedCurrencies marks a graph that reached balance calculation
	// without being normalized to a single currency first.
	ErrMixedCurrencies = errors.New("mixed currencies in graph")
)
