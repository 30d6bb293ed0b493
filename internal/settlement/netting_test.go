package settlement

import (
	"testing"

	"jeongsan/internal/core"
)

func TestRawNetBalances(t *testing.T) {
	ledger := []core.LedgerEntry{
		{From: core.ExternalParty, To: "carol", Amount: core.Money{Won: 1000}, Kind: core.KindInflow},
		{From: "carol", To: "alice", Amount: core.Money{Won: 300}, Kind: core.KindDistribution},
		{From: "carol", To: "bob", Amount: core.Money{Won: 200}, Kind: core.KindDistribution},
		{From: "carol", To: "dave", Amount: core.Money{Won: 400}, Kind: core.KindFixedTransfer},
		{From: "dave", To: "carol", Amount: core.Money{Won: 400}, Kind: core.KindTransfer},
	}

	balances := RawNetBalances(ledger)

	byID := make(map[string]int64, len(balances))
	var sum int64
	for _, b := range balances {
		byID[b.MemberID] = b.Amount
		sum += b.Amount
	}

	// The informational inflow never touches balances, so carol only owes
	// what she paid out minus what dave returned.
	if byID["carol"] != -500 {
		t.Errorf("carol = %d, want -500", byID["carol"])
	}
	if byID["alice"] != 300 || byID["bob"] != 200 {
		t.Errorf("alice/bob = %d/%d, want 300/200", byID["alice"], byID["bob"])
	}
	// Dave's entries cancel but he still appears.
	dave, ok := byID["dave"]
	if !ok {
		t.Fatal("dave missing from balances")
	}
	if dave != 0 {
		t.Errorf("dave = %d, want 0", dave)
	}
	if _, ok := byID[core.ExternalParty]; ok {
		t.Error("external party leaked into balances")
	}

	if sum != 0 {
		t.Errorf("balances sum to %d, want 0", sum)
	}

	for i := 1; i < len(balances); i++ {
		if balances[i-1].Amount < balances[i].Amount {
			t.Fatalf("balances not sorted descending: %v", balances)
		}
	}
}

func TestRawNetBalancesEmptyLedger(t *testing.T) {
	if got := RawNetBalances(nil); len(got) != 0 {
		t.Fatalf("empty ledger produced balances: %v", got)
	}
}

func TestAdjustCustodian(t *testing.T) {
	raw := []core.NetBalance{
		{MemberID: "alice", Amount: 400},
		{MemberID: "carol", Amount: -1050},
	}

	adjusted := AdjustCustodian(raw, "carol", 850)

	if raw[1].Amount != -1050 {
		t.Fatal("input mutated")
	}
	byID := map[string]int64{}
	for _, b := range adjusted {
		byID[b.MemberID] = b.Amount
	}
	if byID["carol"] != -1900 {
		t.Errorf("carol adjusted = %d, want -1900", byID["carol"])
	}
	if byID["alice"] != 400 {
		t.Errorf("alice changed to %d", byID["alice"])
	}

	// No custodian means nothing to separate.
	same := AdjustCustodian(raw, "", 850)
	for i := range same {
		if same[i] != raw[i] {
			t.Fatalf("adjustment applied without custodian: %v", same)
		}
	}
}
