package core

const (
	// KindDistribution entries redistribute collected revenue from a group
	// collector to the member who earned it.
	KindDistribution EntryKind = "distribution"

	// KindInflow is the informational external payment into the pooled
	// fund. It is shown on the ledger but excluded from net balances.
	KindInflow EntryKind = "inflow"

	KindTransfer      EntryKind = "transfer"
	KindFixedTransfer EntryKind = "fixed-transfer"
	KindFundUsage     EntryKind = "fund-usage"
)

type (
	EntryKind string

	// LedgerEntry is one directed money movement within a period. Entries
	// are derived on every computation and never persisted directly.
	LedgerEntry struct {
		From   string    `json:"from"`
		To     string    `json:"to"`
		Amount Money     `json:"amount"`
		Kind   EntryKind `json:"kind"`
		Reason string    `json:"reason,omitempty"`
	}

	// NetBalance is the signed settlement position of one member. Positive
	// means the member is owed money, negative means the member owes.
	NetBalance struct {
		MemberID string `json:"member_id"`
		Amount   int64  `json:"amount_won"`
	}

	// PaymentInstruction directs one member to pay another to realize the
	// net balances through the hub.
	PaymentInstruction struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount Money  `json:"amount"`
	}
)

// Informational reports whether the entry is excluded from net-balance
// summation.
func (e LedgerEntry) Informational() bool {
	return e.Kind == KindInflow
}
