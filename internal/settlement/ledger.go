package settlement

import (
	"jeongsan/internal/core"
)

// BuildLedger assembles the full transaction list for a period:
//
//  1. the informational external→custodian fund inflow (audit display
//     only, excluded later from netting),
//  2. the distribution payouts from the resolver,
//  3. transfer entries, with the seeded fixed transfer included only when
//     both parties are still registered and any user entry duplicating
//     its exact (from, to, amount) triple dropped,
//  4. fund usage entries, paid by the fund custodian.
//
// Entry order never affects balances; the builder performs no validation
// beyond what ingestion already guaranteed.
func BuildLedger(
	cfg core.PeriodConfig,
	dist []core.LedgerEntry,
	transfers []core.TransferEntry,
	usages []core.FundUsageEntry,
	members []core.Member,
) []core.LedgerEntry {
	registered := make(map[string]bool, len(members))
	for _, m := range members {
		registered[m.ID] = true
	}

	ledger := make([]core.LedgerEntry, 0, 1+len(dist)+len(transfers)+len(usages))

	custodian := cfg.HubCollectorID
	if custodian != "" && cfg.FixedFundAmount.Won > 0 {
		ledger = append(ledger, core.LedgerEntry{
			From:   core.ExternalParty,
			To:     custodian,
			Amount: cfg.FixedFundAmount,
			Kind:   core.KindInflow,
			Reason: "fixed fund inflow",
		})
	}

	ledger = append(ledger, dist...)

	var fixed []core.TransferEntry
	for _, t := range transfers {
		if t.Fixed {
			fixed = append(fixed, t)
		}
	}
	for _, t := range transfers {
		switch {
		case t.Fixed:
			if !registered[t.FromID] || !registered[t.ToID] {
				continue
			}
			ledger = append(ledger, core.LedgerEntry{
				From:   t.FromID,
				To:     t.ToID,
				Amount: t.Amount,
				Kind:   core.KindFixedTransfer,
				Reason: transferReason("fixed transfer", t.Memo),
			})
		default:
			if duplicatesFixed(t, fixed) {
				continue
			}
			ledger = append(ledger, core.LedgerEntry{
				From:   t.FromID,
				To:     t.ToID,
				Amount: t.Amount,
				Kind:   core.KindTransfer,
				Reason: transferReason("transfer", t.Memo),
			})
		}
	}

	for _, u := range usages {
		if custodian == "" {
			// Without a custodian there is nobody to charge the withdrawal
			// to; the entry stays in the store and reappears once a hub
			// collector is configured.
			continue
		}
		ledger = append(ledger, core.LedgerEntry{
			From:   custodian,
			To:     u.WhoID,
			Amount: u.Amount,
			Kind:   core.KindFundUsage,
			Reason: transferReason("fund usage", u.Memo),
		})
	}

	return ledger
}

func duplicatesFixed(t core.TransferEntry, fixed []core.TransferEntry) bool {
	for _, f := range fixed {
		if t.SameTriple(f) {
			return true
		}
	}
	return false
}

func transferReason(prefix, memo string) string {
	if memo == "" {
		return prefix
	}
	return prefix + ": " + memo
}
