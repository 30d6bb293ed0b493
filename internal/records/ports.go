// Package records defines the ports between the settlement engine and the
// record store. The engine only ever reads through these interfaces;
// mutations are forwarded to the store unchanged.
package records

import (
	"context"

	"jeongsan/internal/core"
)

type (
	IncomeReader interface {
		// ListIncome returns all income records dated inside the period.
		ListIncome(ctx context.Context, p core.Period) ([]core.IncomeRecord, error)
	}

	IncomeWriter interface {
		// AddIncome validates and stores one income record, returning its
		// reference. Invalid amounts are rejected here, at the boundary.
		AddIncome(ctx context.Context, r core.IncomeRecord) (string, error)
	}

	ReferenceReader interface {
		ListMembers(ctx context.Context) ([]core.Member, error)
		ListLocations(ctx context.Context) ([]core.Location, error)
	}

	ConfigStore interface {
		// GetPeriodConfig returns the configuration for a period, creating
		// and persisting the default (including the seeded fixed transfer)
		// on first access.
		GetPeriodConfig(ctx context.Context, p core.Period) (core.PeriodConfig, error)
		UpsertPeriodConfig(ctx context.Context, cfg core.PeriodConfig) error
	}

	TransferStore interface {
		ListTransfers(ctx context.Context, p core.Period) ([]core.TransferEntry, error)
		AddTransfer(ctx context.Context, t core.TransferEntry) (int64, error)
		UpdateTransfer(ctx context.Context, t core.TransferEntry) error
		DeleteTransfer(ctx context.Context, id int64) error
	}

	FundUsageStore interface {
		ListFundUsage(ctx context.Context, p core.Period) ([]core.FundUsageEntry, error)
		AddFundUsage(ctx context.Context, u core.FundUsageEntry) (int64, error)
		UpdateFundUsage(ctx context.Context, u core.FundUsageEntry) error
		DeleteFundUsage(ctx context.Context, id int64) error
	}

	// Store is the full record-store surface consumed by the service layer.
	Store interface {
		IncomeReader
		IncomeWriter
		ReferenceReader
		ConfigStore
		TransferStore
		FundUsageStore
	}
)

// Defaults hold the compiled-in or configured values used when a period is
// first touched: the fund amount and the recurring fixed transfer that is
// seeded as a flagged entry rather than hard-coded into the ledger.
type Defaults struct {
	FundAmount    int64
	FixedFromName string
	FixedToName   string
	FixedAmount   int64
}
