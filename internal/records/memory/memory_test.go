package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"jeongsan/internal/core"
	"jeongsan/internal/records"
)

var seedMembers = []core.Member{
	{ID: "carol", DisplayName: "Carol Park"},
	{ID: "dave", DisplayName: "Dave Choi"},
}

var seedLocations = []core.Location{
	{ID: "hub-src", DisplayName: "Main Clinic", Category: core.CategoryInsured, Group: core.GroupHub},
}

func newTestStore() *Store {
	return New(records.Defaults{
		FundAmount:    1000000,
		FixedFromName: "Carol Park",
		FixedToName:   "Dave Choi",
		FixedAmount:   400000,
	}, seedMembers, seedLocations)
}

func TestAddIncomeValidation(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	rec := core.IncomeRecord{
		Date:       time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		MemberID:   "carol",
		LocationID: "hub-src",
		Amount:     core.Money{Won: 500},
	}
	ref, err := store.AddIncome(ctx, rec)
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
	if ref == "" {
		t.Fatal("empty reference returned")
	}

	bad := rec
	bad.Amount = core.Money{Won: -1}
	if _, err := store.AddIncome(ctx, bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("negative amount error = %v, want ErrInvalidAmount", err)
	}

	ghost := rec
	ghost.MemberID = "nobody"
	if _, err := store.AddIncome(ctx, ghost); !errors.Is(err, core.ErrUnknownMember) {
		t.Fatalf("unknown member error = %v, want ErrUnknownMember", err)
	}

	noLoc := rec
	noLoc.LocationID = "nowhere"
	if _, err := store.AddIncome(ctx, noLoc); !errors.Is(err, core.ErrUnknownLocation) {
		t.Fatalf("unknown location error = %v, want ErrUnknownLocation", err)
	}
}

func TestListIncomeFiltersByPeriod(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := store.AddIncome(ctx, core.IncomeRecord{
			Date: d, MemberID: "carol", LocationID: "hub-src", Amount: core.Money{Won: 100},
		}); err != nil {
			t.Fatalf("add income: %v", err)
		}
	}

	july, err := store.ListIncome(ctx, core.Period{Year: 2025, Month: 7})
	if err != nil {
		t.Fatalf("list income: %v", err)
	}
	if len(july) != 2 {
		t.Fatalf("got %d july records, want 2", len(july))
	}
}

func TestGetPeriodConfigCreatesDefaultAndSeedsFixedTransfer(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	p := core.Period{Year: 2025, Month: 7}

	cfg, err := store.GetPeriodConfig(ctx, p)
	if err != nil {
		t.Fatalf("get period config: %v", err)
	}
	if cfg.FixedFundAmount.Won != 1000000 {
		t.Fatalf("default fund amount = %d", cfg.FixedFundAmount.Won)
	}
	if cfg.HubCollectorID != "" {
		t.Fatalf("default hub collector = %q, want unset", cfg.HubCollectorID)
	}

	transfers, err := store.ListTransfers(ctx, p)
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(transfers) != 1 {
		t.Fatalf("got %d seeded transfers, want 1", len(transfers))
	}
	seeded := transfers[0]
	if !seeded.Fixed || seeded.FromID != "carol" || seeded.ToID != "dave" || seeded.Amount.Won != 400000 {
		t.Fatalf("unexpected seeded transfer %+v", seeded)
	}

	// Second touch must not seed again.
	if _, err := store.GetPeriodConfig(ctx, p); err != nil {
		t.Fatalf("second get: %v", err)
	}
	transfers, _ = store.ListTransfers(ctx, p)
	if len(transfers) != 1 {
		t.Fatalf("fixed transfer seeded twice: %v", transfers)
	}
}

func TestSeedSkippedWhenPartiesUnresolvable(t *testing.T) {
	store := New(records.Defaults{
		FundAmount:    1000000,
		FixedFromName: "Carol Park",
		FixedToName:   "Someone Else",
		FixedAmount:   400000,
	}, seedMembers, seedLocations)
	ctx := context.Background()
	p := core.Period{Year: 2025, Month: 7}

	if _, err := store.GetPeriodConfig(ctx, p); err != nil {
		t.Fatalf("get period config: %v", err)
	}
	transfers, _ := store.ListTransfers(ctx, p)
	if len(transfers) != 0 {
		t.Fatalf("transfer seeded with unresolvable party: %v", transfers)
	}
}

func TestTransferCRUD(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	p := core.Period{Year: 2025, Month: 7}

	id, err := store.AddTransfer(ctx, core.TransferEntry{
		Period: p, FromID: "carol", ToID: "dave", Amount: core.Money{Won: 100},
	})
	if err != nil {
		t.Fatalf("add transfer: %v", err)
	}

	if err := store.UpdateTransfer(ctx, core.TransferEntry{
		ID: id, Period: p, FromID: "carol", ToID: "dave", Amount: core.Money{Won: 200}, Memo: "updated",
	}); err != nil {
		t.Fatalf("update transfer: %v", err)
	}

	transfers, _ := store.ListTransfers(ctx, p)
	if len(transfers) != 1 || transfers[0].Amount.Won != 200 {
		t.Fatalf("update not applied: %v", transfers)
	}

	if err := store.DeleteTransfer(ctx, id); err != nil {
		t.Fatalf("delete transfer: %v", err)
	}
	if err := store.DeleteTransfer(ctx, id); err == nil {
		t.Fatal("double delete succeeded")
	}
}

func TestUpdateTransferRejectsFixedEntry(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	p := core.Period{Year: 2025, Month: 7}

	if _, err := store.GetPeriodConfig(ctx, p); err != nil {
		t.Fatalf("get period config: %v", err)
	}
	transfers, _ := store.ListTransfers(ctx, p)
	if len(transfers) != 1 || !transfers[0].Fixed {
		t.Fatalf("expected one seeded fixed transfer, got %v", transfers)
	}
	seeded := transfers[0]

	// A user edit never carries the fixed flag; it must not be able to
	// rewrite the seeded entry.
	err := store.UpdateTransfer(ctx, core.TransferEntry{
		ID: seeded.ID, Period: p, FromID: "carol", ToID: "dave", Amount: core.Money{Won: 1},
	})
	if err == nil {
		t.Fatal("fixed transfer update accepted")
	}

	transfers, _ = store.ListTransfers(ctx, p)
	got := transfers[0]
	if !got.Fixed || got.Amount.Won != seeded.Amount.Won || got.Memo != seeded.Memo {
		t.Fatalf("fixed transfer rewritten: %+v", got)
	}

	// Deleting the seeded entry stays allowed; that is how a period opts
	// out of the recurring transfer.
	if err := store.DeleteTransfer(ctx, seeded.ID); err != nil {
		t.Fatalf("delete fixed transfer: %v", err)
	}
	transfers, _ = store.ListTransfers(ctx, p)
	if len(transfers) != 0 {
		t.Fatalf("fixed transfer not deleted: %v", transfers)
	}
}

func TestFundUsageCRUD(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	p := core.Period{Year: 2025, Month: 7}

	id, err := store.AddFundUsage(ctx, core.FundUsageEntry{
		Period: p, WhoID: "dave", Amount: core.Money{Won: 50000}, Memo: "dinner",
	})
	if err != nil {
		t.Fatalf("add fund usage: %v", err)
	}

	if err := store.UpdateFundUsage(ctx, core.FundUsageEntry{
		ID: id, Period: p, WhoID: "dave", Amount: core.Money{Won: 60000},
	}); err != nil {
		t.Fatalf("update fund usage: %v", err)
	}

	usages, _ := store.ListFundUsage(ctx, p)
	if len(usages) != 1 || usages[0].Amount.Won != 60000 {
		t.Fatalf("update not applied: %v", usages)
	}

	if err := store.DeleteFundUsage(ctx, id); err != nil {
		t.Fatalf("delete fund usage: %v", err)
	}
	usages, _ = store.ListFundUsage(ctx, p)
	if len(usages) != 0 {
		t.Fatalf("usage not deleted: %v", usages)
	}
}
