package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// GraphNode is a participant annotated with its net balance.
type GraphNode struct {
	ID      string          `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// GraphLink is a directed payment edge.
type GraphLink struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Amount decimal.Decimal `json:"amount"`
}

// NetworkGraph is the node/link projection of a settlement plan.
type NetworkGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// FlowDiagram aggregates repeated (from, to) settlement pairs into one link
// each by summing their amounts.
type FlowDiagram struct {
	Nodes []string    `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// Explanation bundles the three read-only projections of one computation.
type Explanation struct {
	Strategy     domain.Strategy `json:"strategy"`
	NetworkGraph NetworkGraph    `json:"network_graph"`
	FlowDiagram  FlowDiagram     `json:"flow_diagram"`
	Narrative    []string        `json:"narrative"`
}

// Explain derives the visualization and narrative projections from an
// already-computed (graph, balances, settlements) triple. It performs no
// optimization of its own and never re-derives balances, so what is
// explained cannot drift from what was computed. Output ordering is fully
// deterministic: identical input yields byte-identical output.
func Explain(g domain.DebtGraph, balances domain.Balance, settlements []domain.Settlement, strategy domain.Strategy) Explanation {
	return Explanation{
		Strategy:     strategy,
		NetworkGraph: networkGraph(g, balances, settlements),
		FlowDiagram:  flowDiagram(g, settlements),
		Narrative:    narrative(g, balances, settlements, strategy),
	}
}

func networkGraph(g domain.DebtGraph, balances domain.Balance, settlements []domain.Settlement) NetworkGraph {
	nodes := make([]GraphNode, 0, len(g.Participants))
	for _, p := range sortedParticipants(g) {
		nodes = append(nodes, GraphNode{ID: p, Balance: balances[p]})
	}

	links := make([]GraphLink, 0, len(settlements))
	for _, s := range settlements {
		links = append(links, GraphLink{Source: s.From, Target: s.To, Amount: s.Amount})
	}
	return NetworkGraph{Nodes: nodes, Links: links}
}

func flowDiagram(g domain.DebtGraph, settlements []domain.Settlement) FlowDiagram {
	type pairKey struct{ from, to string }
	totals := make(map[pairKey]decimal.Decimal)
	for _, s := range settlements {
		k := pairKey{from: s.From, to: s.To}
		totals[k] = totals[k].Add(s.Amount)
	}

	keys := make([]pairKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})

	links := make([]GraphLink, 0, len(keys))
	for _, k := range keys {
		links = append(links, GraphLink{Source: k.from, Target: k.to, Amount: totals[k]})
	}
	return FlowDiagram{Nodes: sortedParticipants(g), Links: links}
}

func narrative(g domain.DebtGraph, balances domain.Balance, settlements []domain.Settlement, strategy domain.Strategy) []string {
	steps := []string{
		fmt.Sprintf("Original debt graph: %d debts across %d participants.", len(g.Debts), len(g.Participants)),
		"Net balances: " + describeBalances(g, balances) + ".",
		fmt.Sprintf("Applied the %s strategy.", strategy),
		fmt.Sprintf("Settled with %d payments.", len(settlements)),
	}

	if len(g.Debts) > 0 {
		orig := decimal.NewFromInt(int64(len(g.Debts)))
		final := decimal.NewFromInt(int64(len(settlements)))
		pct := orig.Sub(final).Div(orig).Mul(decimal.NewFromInt(100))
		steps = append(steps, fmt.Sprintf("Payment count changed by %s%% relative to the original debts.", pct.StringFixed(1)))
	}
	return steps
}

func describeBalances(g domain.DebtGraph, balances domain.Balance) string {
	parts := make([]string, 0, len(balances))
	for _, p := range sortedParticipants(g) {
		b := balances[p]
		switch {
		case domain.NearZero(b):
			parts = append(parts, fmt.Sprintf("%s is settled", p))
		case b.IsNegative():
			parts = append(parts, fmt.Sprintf("%s owes %s", p, b.Neg().StringFixed(2)))
		default:
			parts = append(parts, fmt.Sprintf("%s is owed %s", p, b.StringFixed(2)))
		}
	}
	return strings.Join(parts, ", ")
}

func sortedParticipants(g domain.DebtGraph) []string {
	out := append([]string(nil), g.Participants...)
	sort.Strings(out)
	return out
}
