package settlement

import (
	"context"
	"fmt"

	"jeongsan/internal/core"
	"jeongsan/internal/records"
)

// Reader is the read-only slice of the record store the engine consumes.
type Reader interface {
	records.IncomeReader
	records.ReferenceReader
	ListTransfers(ctx context.Context, p core.Period) ([]core.TransferEntry, error)
	ListFundUsage(ctx context.Context, p core.Period) ([]core.FundUsageEntry, error)
	GetPeriodConfig(ctx context.Context, p core.Period) (core.PeriodConfig, error)
}

// Result is one full settlement view for a period. It is recomputed from
// scratch on every request; nothing here is persisted or mutated in
// place.
type Result struct {
	Period       core.Period               `json:"period"`
	Ledger       []core.LedgerEntry        `json:"ledger"`
	Balances     []core.NetBalance         `json:"balances"`
	Instructions []core.PaymentInstruction `json:"instructions"`
	FundBalance  int64                     `json:"fund_balance"`
	Warnings     []Warning                 `json:"warnings,omitempty"`
}

// Engine computes settlements by re-reading all period inputs from the
// record store. It holds no state of its own beyond the store handle and
// the configured direct-group collector name.
type Engine struct {
	store           Reader
	directCollector string
}

func NewEngine(store Reader, directCollectorName string) *Engine {
	return &Engine{
		store:           store,
		directCollector: directCollectorName,
	}
}

// Compute assembles the complete settlement view for a period. An empty
// period yields an empty ledger and zero balances, not an error; a group
// without a collector yields a warning alongside the rest of the output.
func (e *Engine) Compute(ctx context.Context, p core.Period) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	cfg, err := e.store.GetPeriodConfig(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("get period config %s: %w", p, err)
	}
	recs, err := e.store.ListIncome(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("list income %s: %w", p, err)
	}
	members, err := e.store.ListMembers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list members: %w", err)
	}
	locations, err := e.store.ListLocations(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list locations: %w", err)
	}
	transfers, err := e.store.ListTransfers(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("list transfers %s: %w", p, err)
	}
	usages, err := e.store.ListFundUsage(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("list fund usage %s: %w", p, err)
	}

	dist := Distribute(recs, members, locations, cfg, e.directCollector)
	ledger := BuildLedger(cfg, dist.Entries, transfers, usages, members)
	fund := FundBalance(cfg, dist.Totals[core.GroupFund], usages)
	raw := RawNetBalances(ledger)
	balances := AdjustCustodian(raw, cfg.HubCollectorID, fund)

	warnings := dist.Warnings
	if cfg.HubCollectorID == "" && len(usages) > 0 {
		// The withdrawals still reduce the fund balance; they just have
		// nobody to be charged to on the ledger.
		warnings = append(warnings, Warning{
			Group:  core.GroupFund,
			Reason: "no fund custodian configured; fund usage entries omitted from ledger",
		})
	}

	return Result{
		Period:       p,
		Ledger:       ledger,
		Balances:     balances,
		Instructions: Instructions(balances, cfg.HubCollectorID),
		FundBalance:  fund,
		Warnings:     warnings,
	}, nil
}

// ComputeLedger returns the period's transaction list.
func (e *Engine) ComputeLedger(ctx context.Context, p core.Period) ([]core.LedgerEntry, error) {
	res, err := e.Compute(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Ledger, nil
}

// ComputeNetBalances returns the adjusted signed balance per member,
// sorted descending.
func (e *Engine) ComputeNetBalances(ctx context.Context, p core.Period) ([]core.NetBalance, error) {
	res, err := e.Compute(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Balances, nil
}

// ComputePaymentInstructions returns the hub-centered payment plan.
func (e *Engine) ComputePaymentInstructions(ctx context.Context, p core.Period) ([]core.PaymentInstruction, error) {
	res, err := e.Compute(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Instructions, nil
}

// ComputeFundBalance returns the pooled-fund residual for the period.
func (e *Engine) ComputeFundBalance(ctx context.Context, p core.Period) (int64, error) {
	res, err := e.Compute(ctx, p)
	if err != nil {
		return 0, err
	}
	return res.FundBalance, nil
}
