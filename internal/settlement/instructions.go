package settlement

import (
	"jeongsan/internal/core"
)

// Instructions converts net balances into a star-topology payment plan
// centered on the hub: everyone with a positive balance is paid by the
// hub, everyone negative pays the hub, zero balances emit nothing.
//
// This is deliberately not a minimal pairwise netting: routing everything
// through the person who physically holds the collected cash keeps the
// monthly settlement operationally simple.
func Instructions(balances []core.NetBalance, hubID string) []core.PaymentInstruction {
	if hubID == "" {
		return nil
	}
	var out []core.PaymentInstruction
	for _, b := range balances {
		if b.MemberID == hubID || b.MemberID == core.ExternalParty {
			continue
		}
		switch {
		case b.Amount > 0:
			out = append(out, core.PaymentInstruction{
				From:   hubID,
				To:     b.MemberID,
				Amount: core.Money{Won: b.Amount},
			})
		case b.Amount < 0:
			out = append(out, core.PaymentInstruction{
				From:   b.MemberID,
				To:     hubID,
				Amount: core.Money{Won: -b.Amount},
			})
		}
	}
	return out
}
