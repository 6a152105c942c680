package engine

import (
	"sort"

	"github.com/oweme/settleup/internal/domain"
	"github.com/shopspring/decimal"
)

// SimplifyCycles cancels circular debt chains before balance reduction.
// A cycle nets to zero and must never generate a real transaction: the
// minimum edge weight in the cycle is subtracted from every edge in it and
// edges that reach zero are removed. Each pass strictly shrinks the edge
// set, so the loop terminates. Net balances are identical regardless of
// which cycle is processed first.
func SimplifyCycles(g domain.DebtGraph) domain.DebtGraph {
	weights := make(map[string]map[string]decimal.Decimal, len(g.Participants))
	currency := ""
	for _, d := range g.Debts {
		if weights[d.From] == nil {
			weights[d.From] = make(map[string]decimal.Decimal)
		}
		weights[d.From][d.To] = weights[d.From][d.To].Add(d.Amount)
		currency = d.Currency
	}

	for {
		cycle := findCycle(weights)
		if cycle == nil {
			break
		}
		cancelCycle(weights, cycle)
	}

	var edges []domain.Debt
	for from, outs := range weights {
		for to, amount := range outs {
			edges = append(edges, domain.Debt{From: from, To: to, Amount: amount, Currency: currency})
		}
	}
	sortDebts(edges)

	out := domain.NewDebtGraph(edges)
	// Participants with all debts cancelled still belong to the graph.
	out.Participants = append([]string(nil), g.Participants...)
	return out
}

// findCycle runs a depth-first search over the owes-edges and returns the
// first directed cycle discovered, as an ordered list of participant ids.
// Nodes and neighbors are visited in sorted order so discovery is
// deterministic.
func findCycle(weights map[string]map[string]decimal.Decimal) []string {
	nodes := make([]string, 0, len(weights))
	for n := range weights {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	visited := make(map[string]bool, len(nodes))
	for _, start := range nodes {
		if visited[start] {
			continue
		}
		onPath := make(map[string]int)
		if cycle := dfsCycle(weights, start, nil, onPath, visited); cycle != nil {
			return cycle
		}
	}
	return nil
}

func dfsCycle(weights map[string]map[string]decimal.Decimal, node string, path []string, onPath map[string]int, visited map[string]bool) []string {
	onPath[node] = len(path)
	path = append(path, node)

	outs := weights[node]
	neighbors := make([]string, 0, len(outs))
	for to := range outs {
		neighbors = append(neighbors, to)
	}
	sort.Strings(neighbors)

	for _, next := range neighbors {
		if idx, ok := onPath[next]; ok {
			cycle := make([]string, len(path)-idx)
			copy(cycle, path[idx:])
			return cycle
		}
		if visited[next] {
			continue
		}
		if cycle := dfsCycle(weights, next, path, onPath, visited); cycle != nil {
			return cycle
		}
	}

	delete(onPath, node)
	visited[node] = true
	return nil
}

// cancelCycle subtracts the cycle's minimum edge weight from every edge in
// the cycle and drops edges that reach zero.
func cancelCycle(weights map[string]map[string]decimal.Decimal, cycle []string) {
	minWeight := decimal.Decimal{}
	for i := range cycle {
		from, to := cycle[i], cycle[(i+1)%len(cycle)]
		w := weights[from][to]
		if i == 0 || w.LessThan(minWeight) {
			minWeight = w
		}
	}

	for i := range cycle {
		from, to := cycle[i], cycle[(i+1)%len(cycle)]
		remaining := weights[from][to].Sub(minWeight)
		if remaining.IsPositive() {
			weights[from][to] = remaining
			continue
		}
		delete(weights[from], to)
		if len(weights[from]) == 0 {
			delete(weights, from)
		}
	}
}
