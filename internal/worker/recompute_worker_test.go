package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jeongsan/internal/amqp"
	"jeongsan/internal/core"
	"jeongsan/internal/records"
	"jeongsan/internal/records/memory"
	"jeongsan/internal/settlement"
)

type memorySnapshots struct {
	keys     []string
	payloads [][]byte
}

func (m *memorySnapshots) SaveSnapshot(_ context.Context, periodKey string, payload []byte) error {
	m.keys = append(m.keys, periodKey)
	m.payloads = append(m.payloads, payload)
	return nil
}

type recordingMirror struct {
	reports []settlement.Result
	names   []map[string]string
	err     error
}

func (m *recordingMirror) AppendReport(_ context.Context, res settlement.Result, memberNames map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, res)
	m.names = append(m.names, memberNames)
	return nil
}

func newTestWorker() (*RecomputeWorker, *memorySnapshots, *memory.Store) {
	members := []core.Member{
		{ID: "carol", DisplayName: "Carol Park"},
		{ID: "alice", DisplayName: "Alice Kim"},
	}
	locations := []core.Location{
		{ID: "hub-src", DisplayName: "Main Clinic", Category: core.CategoryInsured, Group: core.GroupHub},
	}
	store := memory.New(records.Defaults{FundAmount: 1000}, members, locations)
	engine := settlement.NewEngine(store, "")
	snaps := &memorySnapshots{}
	return NewRecomputeWorker(engine, snaps, store, nil), snaps, store
}

func TestHandleDirtyMessageSavesSnapshot(t *testing.T) {
	w, snaps, store := newTestWorker()
	ctx := context.Background()
	p := core.Period{Year: 2025, Month: 7}

	if err := store.UpsertPeriodConfig(ctx, core.PeriodConfig{
		Period:          p,
		FixedFundAmount: core.Money{Won: 1000},
		HubCollectorID:  "carol",
	}); err != nil {
		t.Fatalf("upsert config: %v", err)
	}
	if _, err := store.AddIncome(ctx, core.IncomeRecord{
		Date:       time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		MemberID:   "alice",
		LocationID: "hub-src",
		Amount:     core.Money{Won: 300},
	}); err != nil {
		t.Fatalf("add income: %v", err)
	}

	msg := amqp.NewPeriodDirtyMessage(p.Key(), "income added")
	if err := w.HandleDirtyMessage(ctx, msg); err != nil {
		t.Fatalf("handle dirty message: %v", err)
	}

	if len(snaps.keys) != 1 || snaps.keys[0] != "2025-07" {
		t.Fatalf("snapshot keys = %v, want [2025-07]", snaps.keys)
	}

	var res settlement.Result
	if err := json.Unmarshal(snaps.payloads[0], &res); err != nil {
		t.Fatalf("snapshot payload not a settlement result: %v", err)
	}
	if res.Period != p {
		t.Fatalf("snapshot period = %v, want %v", res.Period, p)
	}
	if res.FundBalance != 1000 {
		t.Fatalf("snapshot fund balance = %d, want 1000", res.FundBalance)
	}
	if len(res.Instructions) == 0 {
		t.Fatal("snapshot carries no instructions")
	}
}

func TestHandleDirtyMessageDropsInvalidPeriod(t *testing.T) {
	w, snaps, _ := newTestWorker()

	msg := amqp.NewPeriodDirtyMessage("not-a-period", "noise")
	if err := w.HandleDirtyMessage(context.Background(), msg); err != nil {
		t.Fatalf("invalid period must be dropped, not requeued: %v", err)
	}
	if len(snaps.keys) != 0 {
		t.Fatalf("snapshot saved for invalid period: %v", snaps.keys)
	}
}

func TestRecomputeMirrorsReport(t *testing.T) {
	members := []core.Member{{ID: "carol", DisplayName: "Carol Park"}}
	store := memory.New(records.Defaults{FundAmount: 1000}, members, nil)
	engine := settlement.NewEngine(store, "")
	snaps := &memorySnapshots{}
	reports := &recordingMirror{}
	w := NewRecomputeWorker(engine, snaps, store, reports)

	p := core.Period{Year: 2025, Month: 7}
	if err := w.Recompute(context.Background(), p); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	if len(reports.reports) != 1 {
		t.Fatalf("got %d mirrored reports, want 1", len(reports.reports))
	}
	if reports.reports[0].Period != p {
		t.Fatalf("mirrored period = %v, want %v", reports.reports[0].Period, p)
	}
	if reports.names[0]["carol"] != "Carol Park" {
		t.Fatalf("member names not passed to mirror: %v", reports.names[0])
	}

	// Mirror failures never block the snapshot.
	reports.err = context.DeadlineExceeded
	if err := w.Recompute(context.Background(), p); err != nil {
		t.Fatalf("recompute with failing mirror: %v", err)
	}
	if len(snaps.keys) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps.keys))
	}
}

func TestRecomputeCurrent(t *testing.T) {
	w, snaps, _ := newTestWorker()

	if err := w.RecomputeCurrent(context.Background()); err != nil {
		t.Fatalf("recompute current: %v", err)
	}
	if len(snaps.keys) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps.keys))
	}
	if snaps.keys[0] != core.PeriodOf(time.Now()).Key() {
		t.Fatalf("snapshot key = %q, want current period", snaps.keys[0])
	}
}
