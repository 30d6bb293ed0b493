// Package settlement turns one period's raw income records and operator
// configuration into a transaction ledger, net balances per member, a
// star-topology payment plan and the pooled-fund balance. Every
// computation is a pure pass over inputs handed in explicitly; the record
// store is the only stateful boundary.
package settlement

import (
	"jeongsan/internal/core"
)

// groupOrder fixes the iteration order so repeated computations emit the
// ledger in the same sequence. Balances are order-independent either way.
var groupOrder = []core.DistributionGroup{
	core.GroupHub,
	core.GroupFund,
	core.GroupInsuredHub,
	core.GroupDirect,
}

var groupLabels = map[core.DistributionGroup]string{
	core.GroupHub:        "hub collection payout",
	core.GroupFund:       "fund payout",
	core.GroupInsuredHub: "insured collection payout",
	core.GroupDirect:     "direct collection payout",
}

// Warning flags a recoverable condition found during distribution, such
// as a group with no designated collector. The affected group is skipped
// and the rest of the settlement remains valid.
type Warning struct {
	Group  core.DistributionGroup `json:"group"`
	Reason string                 `json:"reason"`
}

// DistributionResult carries the resolver output: the payout entries, the
// total emitted per group and any warnings.
type DistributionResult struct {
	Entries  []core.LedgerEntry
	Totals   map[core.DistributionGroup]int64
	Warnings []Warning
}

// GroupLabel returns the ledger reason string for a distribution group.
func GroupLabel(g core.DistributionGroup) string {
	return groupLabels[g]
}

// Distribute aggregates the period's income by distribution group and
// member and emits one collector→member payout entry per aggregate.
//
// Groups whose collector is unset or unresolvable are skipped with a
// warning. Self-payouts (the collector earning at their own group) are
// dropped silently; identity is matched by id and, as a fallback, by
// whitespace-normalized display name. For insured-only groups, uninsured
// income never enters the aggregate.
func Distribute(
	recs []core.IncomeRecord,
	members []core.Member,
	locations []core.Location,
	cfg core.PeriodConfig,
	directCollectorName string,
) DistributionResult {
	res := DistributionResult{
		Totals: make(map[core.DistributionGroup]int64, len(groupOrder)),
	}

	locByID := make(map[string]core.Location, len(locations))
	for _, l := range locations {
		locByID[l.ID] = l
	}
	nameByID := make(map[string]string, len(members))
	for _, m := range members {
		nameByID[m.ID] = core.NormalizeName(m.DisplayName)
	}

	// Aggregate per group preserving first-seen member order.
	type aggregate struct {
		order []string
		sums  map[string]int64
	}
	byGroup := make(map[core.DistributionGroup]*aggregate, len(groupOrder))
	for _, r := range recs {
		loc, ok := locByID[r.LocationID]
		if !ok {
			// Reference data drift; the record stays in the store but has
			// no distribution rule to follow.
			res.Warnings = append(res.Warnings, Warning{
				Reason: "income record references unknown location " + r.LocationID,
			})
			continue
		}
		if loc.Group.InsuredOnly() && loc.Category != core.CategoryInsured {
			continue
		}
		agg := byGroup[loc.Group]
		if agg == nil {
			agg = &aggregate{sums: make(map[string]int64)}
			byGroup[loc.Group] = agg
		}
		if _, seen := agg.sums[r.MemberID]; !seen {
			agg.order = append(agg.order, r.MemberID)
		}
		agg.sums[r.MemberID] += r.Amount.Won
	}

	for _, g := range groupOrder {
		agg := byGroup[g]
		if agg == nil {
			continue
		}
		collector, ok := collectorFor(g, cfg, members, directCollectorName)
		if !ok {
			res.Warnings = append(res.Warnings, Warning{
				Group:  g,
				Reason: "no collector configured; group skipped",
			})
			continue
		}
		collectorName := nameByID[collector]
		for _, memberID := range agg.order {
			if memberID == collector {
				continue
			}
			if n := nameByID[memberID]; n != "" && n == collectorName {
				continue
			}
			amount := agg.sums[memberID]
			res.Entries = append(res.Entries, core.LedgerEntry{
				From:   collector,
				To:     memberID,
				Amount: core.Money{Won: amount},
				Kind:   core.KindDistribution,
				Reason: groupLabels[g],
			})
			res.Totals[g] += amount
		}
	}
	return res
}

// collectorFor resolves the member who physically collects a group's
// revenue. The hub collector also acts as custodian of the pooled fund,
// so the fund group routes through the same person. The direct group's
// collector is a fixed member identified by name in configuration.
func collectorFor(
	g core.DistributionGroup,
	cfg core.PeriodConfig,
	members []core.Member,
	directCollectorName string,
) (string, bool) {
	switch g {
	case core.GroupHub, core.GroupFund:
		return cfg.HubCollectorID, cfg.HubCollectorID != ""
	case core.GroupInsuredHub:
		return cfg.SecondaryCollector, cfg.SecondaryCollector != ""
	case core.GroupDirect:
		want := core.NormalizeName(directCollectorName)
		if want == "" {
			return "", false
		}
		for _, m := range members {
			if core.NormalizeName(m.DisplayName) == want {
				return m.ID, true
			}
		}
		return "", false
	}
	return "", false
}
