package settlement

import (
	"testing"

	"jeongsan/internal/core"
)

func period202507() core.Period { return core.Period{Year: 2025, Month: 7} }

func TestBuildLedgerFundInflow(t *testing.T) {
	cfg := core.PeriodConfig{
		Period:          period202507(),
		FixedFundAmount: core.Money{Won: 1000},
		HubCollectorID:  "carol",
	}

	ledger := BuildLedger(cfg, nil, nil, nil, testMembers)
	if len(ledger) != 1 {
		t.Fatalf("got %d entries, want 1", len(ledger))
	}
	e := ledger[0]
	if e.Kind != core.KindInflow || e.From != core.ExternalParty || e.To != "carol" || e.Amount.Won != 1000 {
		t.Fatalf("unexpected inflow entry %+v", e)
	}
	if !e.Informational() {
		t.Fatal("inflow must be informational")
	}

	// No custodian: nobody to receive the inflow.
	noCustodian := cfg
	noCustodian.HubCollectorID = ""
	if got := BuildLedger(noCustodian, nil, nil, nil, testMembers); len(got) != 0 {
		t.Fatalf("inflow emitted without custodian: %v", got)
	}

	// Zero fund amount: nothing flows in.
	zeroFund := cfg
	zeroFund.FixedFundAmount = core.Money{}
	if got := BuildLedger(zeroFund, nil, nil, nil, testMembers); len(got) != 0 {
		t.Fatalf("inflow emitted for zero fund: %v", got)
	}
}

func TestBuildLedgerFixedTransfer(t *testing.T) {
	cfg := core.PeriodConfig{Period: period202507()}
	transfers := []core.TransferEntry{
		{ID: 1, Period: period202507(), FromID: "carol", ToID: "dave", Amount: core.Money{Won: 400}, Fixed: true},
	}

	ledger := BuildLedger(cfg, nil, transfers, nil, testMembers)
	if len(ledger) != 1 {
		t.Fatalf("got %d entries, want 1", len(ledger))
	}
	if ledger[0].Kind != core.KindFixedTransfer {
		t.Fatalf("kind = %q, want fixed-transfer", ledger[0].Kind)
	}

	// A fixed transfer naming an unregistered party is suppressed.
	gone := []core.TransferEntry{
		{ID: 1, Period: period202507(), FromID: "carol", ToID: "stranger", Amount: core.Money{Won: 400}, Fixed: true},
	}
	if got := BuildLedger(cfg, nil, gone, nil, testMembers); len(got) != 0 {
		t.Fatalf("fixed transfer with unregistered party emitted: %v", got)
	}
}

func TestBuildLedgerDropsDuplicateOfFixed(t *testing.T) {
	cfg := core.PeriodConfig{Period: period202507()}
	transfers := []core.TransferEntry{
		{ID: 1, Period: period202507(), FromID: "carol", ToID: "dave", Amount: core.Money{Won: 400}, Fixed: true},
		// Operator re-entered the same payment by hand.
		{ID: 2, Period: period202507(), FromID: "carol", ToID: "dave", Amount: core.Money{Won: 400}},
		// Different amount is a genuine extra transfer.
		{ID: 3, Period: period202507(), FromID: "carol", ToID: "dave", Amount: core.Money{Won: 100}, Memo: "lunch"},
	}

	ledger := BuildLedger(cfg, nil, transfers, nil, testMembers)
	if len(ledger) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(ledger), ledger)
	}
	if ledger[0].Kind != core.KindFixedTransfer {
		t.Fatalf("first entry kind = %q", ledger[0].Kind)
	}
	if ledger[1].Kind != core.KindTransfer || ledger[1].Amount.Won != 100 {
		t.Fatalf("second entry = %+v", ledger[1])
	}
	if ledger[1].Reason != "transfer: lunch" {
		t.Fatalf("reason = %q", ledger[1].Reason)
	}
}

func TestBuildLedgerFundUsage(t *testing.T) {
	cfg := core.PeriodConfig{Period: period202507(), HubCollectorID: "carol"}
	usages := []core.FundUsageEntry{
		{ID: 1, Period: period202507(), WhoID: "bob", Amount: core.Money{Won: 50}, Memo: "supplies"},
	}

	ledger := BuildLedger(cfg, nil, nil, usages, testMembers)
	if len(ledger) != 1 {
		t.Fatalf("got %d entries, want 1", len(ledger))
	}
	e := ledger[0]
	if e.From != "carol" || e.To != "bob" || e.Kind != core.KindFundUsage {
		t.Fatalf("unexpected usage entry %+v", e)
	}
	if e.Reason != "fund usage: supplies" {
		t.Fatalf("reason = %q", e.Reason)
	}

	// Usage without a custodian has nobody to charge.
	noCustodian := core.PeriodConfig{Period: period202507()}
	if got := BuildLedger(noCustodian, nil, nil, usages, testMembers); len(got) != 0 {
		t.Fatalf("usage emitted without custodian: %v", got)
	}
}
