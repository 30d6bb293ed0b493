package settlement

import (
	"sort"

	"jeongsan/internal/core"
)

// RawNetBalances collapses a ledger into one signed balance per person.
// Informational entries are discarded before summation. Every person
// appearing as payer or payee is present in the output, including those
// whose entries cancel to zero. The result is sorted descending by
// balance; ties keep discovery order.
func RawNetBalances(ledger []core.LedgerEntry) []core.NetBalance {
	balances := make(map[string]int64)
	var order []string
	touch := func(id string) {
		if _, ok := balances[id]; !ok {
			balances[id] = 0
			order = append(order, id)
		}
	}

	for _, e := range ledger {
		if e.Informational() {
			continue
		}
		touch(e.From)
		touch(e.To)
		balances[e.From] -= e.Amount.Won
		balances[e.To] += e.Amount.Won
	}

	out := make([]core.NetBalance, 0, len(order))
	for _, id := range order {
		out = append(out, core.NetBalance{MemberID: id, Amount: balances[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// AdjustCustodian subtracts the pooled-fund balance from the fund
// custodian's raw balance, separating their custodial holdings from their
// personal settlement position. The adjustment is presentational: the
// underlying ledger is untouched and the list is re-sorted with the
// adjusted value.
func AdjustCustodian(balances []core.NetBalance, custodianID string, fundBalance int64) []core.NetBalance {
	if custodianID == "" {
		return balances
	}
	out := make([]core.NetBalance, len(balances))
	copy(out, balances)
	for i := range out {
		if out[i].MemberID == custodianID {
			out[i].Amount -= fundBalance
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}
