package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"jeongsan/internal/amqp"
	"jeongsan/internal/core"
	"jeongsan/internal/mirror"
	"jeongsan/internal/records"
	"jeongsan/internal/settlement"
)

// SnapshotSaver persists computed settlement payloads for the audit
// trail.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, periodKey string, payload []byte) error
}

// RecomputeWorker reacts to dirty-period notifications: it recomputes the
// settlement from scratch, appends an audit snapshot and mirrors the
// report when a mirror is configured.
type RecomputeWorker struct {
	engine    *settlement.Engine
	snapshots SnapshotSaver
	refs      records.ReferenceReader
	mirror    mirror.ReportWriter
}

func NewRecomputeWorker(
	engine *settlement.Engine,
	snapshots SnapshotSaver,
	refs records.ReferenceReader,
	reportMirror mirror.ReportWriter,
) *RecomputeWorker {
	return &RecomputeWorker{
		engine:    engine,
		snapshots: snapshots,
		refs:      refs,
		mirror:    reportMirror,
	}
}

// HandleDirtyMessage processes one dirty-period notification from AMQP.
func (w *RecomputeWorker) HandleDirtyMessage(ctx context.Context, msg *amqp.PeriodDirtyMessage) error {
	p, err := core.ParsePeriod(msg.PeriodKey)
	if err != nil {
		// Unparseable keys would requeue forever; log and drop.
		slog.ErrorContext(ctx, "Dropping dirty message with invalid period",
			"period", msg.PeriodKey, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Recomputing settlement",
		"period", p.Key(), "trigger", msg.Reason)

	return w.Recompute(ctx, p)
}

// Recompute performs one full settlement pass for a period and persists
// the result.
func (w *RecomputeWorker) Recompute(ctx context.Context, p core.Period) error {
	res, err := w.engine.Compute(ctx, p)
	if err != nil {
		return fmt.Errorf("compute settlement %s: %w", p, err)
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal settlement %s: %w", p, err)
	}

	if err := w.snapshots.SaveSnapshot(ctx, p.Key(), payload); err != nil {
		return fmt.Errorf("save snapshot %s: %w", p, err)
	}

	for _, warn := range res.Warnings {
		slog.WarnContext(ctx, "Settlement warning",
			"period", p.Key(), "group", string(warn.Group), "reason", warn.Reason)
	}

	if w.mirror != nil {
		if err := w.mirrorReport(ctx, res); err != nil {
			// Snapshot is already durable; the mirror can catch up on the
			// next recompute.
			slog.ErrorContext(ctx, "Failed to mirror settlement report",
				"period", p.Key(), "error", err)
		}
	}

	slog.InfoContext(ctx, "Settlement recomputed",
		"period", p.Key(),
		"ledger_entries", len(res.Ledger),
		"instructions", len(res.Instructions),
		"fund_balance", res.FundBalance)

	return nil
}

// RecomputeCurrent is the periodic backstop for missed messages: it
// recomputes the period containing now.
func (w *RecomputeWorker) RecomputeCurrent(ctx context.Context) error {
	return w.Recompute(ctx, core.PeriodOf(time.Now()))
}

func (w *RecomputeWorker) mirrorReport(ctx context.Context, res settlement.Result) error {
	members, err := w.refs.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName
	}
	return w.mirror.AppendReport(ctx, res, names)
}
