package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"jeongsan/internal/core"
	"jeongsan/internal/records"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable record store. It implements
// records.Store plus the settlement snapshot audit trail used by the
// worker.
type SQLiteRepository struct {
	db       *sql.DB
	defaults records.Defaults
}

func NewSQLiteRepository(dbPath string, defaults records.Defaults) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, defaults: defaults}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListIncome(ctx context.Context, p core.Period) ([]core.IncomeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, member_id, location_id, amount_won, memo
		 FROM income_records WHERE date LIKE ? ORDER BY date, id`,
		p.Key()+"-%")
	if err != nil {
		return nil, fmt.Errorf("list income %s: %w", p, err)
	}
	defer rows.Close()

	var out []core.IncomeRecord
	for rows.Next() {
		var (
			dateStr string
			rec     core.IncomeRecord
		)
		if err := rows.Scan(&dateStr, &rec.MemberID, &rec.LocationID, &rec.Amount.Won, &rec.Memo); err != nil {
			return nil, fmt.Errorf("scan income record: %w", err)
		}
		rec.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse income date %q: %w", dateStr, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddIncome(ctx context.Context, rec core.IncomeRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income_records (date, member_id, location_id, amount_won, memo)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Date.Format("2006-01-02"), rec.MemberID, rec.LocationID, rec.Amount.Won, rec.Memo)
	if err != nil {
		return "", fmt.Errorf("insert income record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("income record id: %w", err)
	}

	slog.InfoContext(ctx, "Income record saved",
		"id", id,
		"member_id", rec.MemberID,
		"location_id", rec.LocationID,
		"amount_won", rec.Amount.Won)

	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRepository) ListMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_name FROM members ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []core.Member
	for rows.Next() {
		var m core.Member
		if err := rows.Scan(&m.ID, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListLocations(ctx context.Context) ([]core.Location, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_name, category, dist_group FROM locations ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []core.Location
	for rows.Next() {
		var l core.Location
		if err := rows.Scan(&l.ID, &l.DisplayName, &l.Category, &l.Group); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetPeriodConfig(ctx context.Context, p core.Period) (core.PeriodConfig, error) {
	cfg := core.PeriodConfig{Period: p}
	err := r.db.QueryRowContext(ctx,
		`SELECT fixed_fund_amount, hub_collector_id, secondary_collector_id
		 FROM period_configs WHERE period_key = ?`, p.Key()).
		Scan(&cfg.FixedFundAmount.Won, &cfg.HubCollectorID, &cfg.SecondaryCollector)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.PeriodConfig{}, fmt.Errorf("get period config %s: %w", p, err)
	}

	// First access: create the default and seed the fixed transfer.
	cfg.FixedFundAmount = core.Money{Won: r.defaults.FundAmount}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO period_configs (period_key, fixed_fund_amount) VALUES (?, ?)`,
		p.Key(), cfg.FixedFundAmount.Won); err != nil {
		return core.PeriodConfig{}, fmt.Errorf("create default period config %s: %w", p, err)
	}
	if err := r.seedFixedTransfer(ctx, p); err != nil {
		slog.WarnContext(ctx, "Fixed transfer not seeded", "period", p.Key(), "error", err)
	}
	slog.InfoContext(ctx, "Default period config created", "period", p.Key(), "fund_amount", cfg.FixedFundAmount.Won)
	return cfg, nil
}

func (r *SQLiteRepository) UpsertPeriodConfig(ctx context.Context, cfg core.PeriodConfig) error {
	if err := cfg.Period.Validate(); err != nil {
		return err
	}
	if err := cfg.FixedFundAmount.Validate(); err != nil {
		return fmt.Errorf("period config %s: %w", cfg.Period, err)
	}
	// Route through GetPeriodConfig so first-touch seeding still happens.
	if _, err := r.GetPeriodConfig(ctx, cfg.Period); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE period_configs
		 SET fixed_fund_amount = ?, hub_collector_id = ?, secondary_collector_id = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE period_key = ?`,
		cfg.FixedFundAmount.Won, cfg.HubCollectorID, cfg.SecondaryCollector, cfg.Period.Key())
	if err != nil {
		return fmt.Errorf("upsert period config %s: %w", cfg.Period, err)
	}
	return nil
}

func (r *SQLiteRepository) ListTransfers(ctx context.Context, p core.Period) ([]core.TransferEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, from_id, to_id, amount_won, memo, fixed
		 FROM transfer_entries WHERE period_key = ? ORDER BY id`, p.Key())
	if err != nil {
		return nil, fmt.Errorf("list transfers %s: %w", p, err)
	}
	defer rows.Close()

	var out []core.TransferEntry
	for rows.Next() {
		t := core.TransferEntry{Period: p}
		var fixed int64
		if err := rows.Scan(&t.ID, &t.FromID, &t.ToID, &t.Amount.Won, &t.Memo, &fixed); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		t.Fixed = fixed != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddTransfer(ctx context.Context, t core.TransferEntry) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transfer_entries (period_key, from_id, to_id, amount_won, memo, fixed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Period.Key(), t.FromID, t.ToID, t.Amount.Won, t.Memo, boolToInt(t.Fixed))
	if err != nil {
		return 0, fmt.Errorf("insert transfer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transfer id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateTransfer(ctx context.Context, t core.TransferEntry) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transfer_entries SET from_id = ?, to_id = ?, amount_won = ?, memo = ?
		 WHERE id = ? AND fixed = 0`,
		t.FromID, t.ToID, t.Amount.Won, t.Memo, t.ID)
	if err != nil {
		return fmt.Errorf("update transfer %d: %w", t.ID, err)
	}
	return requireRow(res, "transfer", t.ID)
}

func (r *SQLiteRepository) DeleteTransfer(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transfer_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transfer %d: %w", id, err)
	}
	return requireRow(res, "transfer", id)
}

func (r *SQLiteRepository) ListFundUsage(ctx context.Context, p core.Period) ([]core.FundUsageEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, who_id, amount_won, memo
		 FROM fund_usage_entries WHERE period_key = ? ORDER BY id`, p.Key())
	if err != nil {
		return nil, fmt.Errorf("list fund usage %s: %w", p, err)
	}
	defer rows.Close()

	var out []core.FundUsageEntry
	for rows.Next() {
		u := core.FundUsageEntry{Period: p}
		if err := rows.Scan(&u.ID, &u.WhoID, &u.Amount.Won, &u.Memo); err != nil {
			return nil, fmt.Errorf("scan fund usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddFundUsage(ctx context.Context, u core.FundUsageEntry) (int64, error) {
	if err := u.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fund_usage_entries (period_key, who_id, amount_won, memo)
		 VALUES (?, ?, ?, ?)`,
		u.Period.Key(), u.WhoID, u.Amount.Won, u.Memo)
	if err != nil {
		return 0, fmt.Errorf("insert fund usage: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fund usage id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateFundUsage(ctx context.Context, u core.FundUsageEntry) error {
	if err := u.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE fund_usage_entries SET who_id = ?, amount_won = ?, memo = ? WHERE id = ?`,
		u.WhoID, u.Amount.Won, u.Memo, u.ID)
	if err != nil {
		return fmt.Errorf("update fund usage %d: %w", u.ID, err)
	}
	return requireRow(res, "fund usage", u.ID)
}

func (r *SQLiteRepository) DeleteFundUsage(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fund_usage_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fund usage %d: %w", id, err)
	}
	return requireRow(res, "fund usage", id)
}

// SaveSnapshot appends one computed settlement payload for the audit
// trail kept by the worker.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, periodKey string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settlement_snapshots (period_key, payload) VALUES (?, ?)`,
		periodKey, string(payload))
	if err != nil {
		return fmt.Errorf("save settlement snapshot %s: %w", periodKey, err)
	}
	slog.InfoContext(ctx, "Settlement snapshot saved", "period", periodKey, "bytes", len(payload))
	return nil
}

// LatestSnapshot returns the newest snapshot payload for a period, or
// sql.ErrNoRows when none was recorded yet.
func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, periodKey string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM settlement_snapshots WHERE period_key = ?
		 ORDER BY id DESC LIMIT 1`, periodKey).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot %s: %w", periodKey, err)
	}
	return []byte(payload), nil
}

// UpsertMember inserts or renames a member. Reference lists are owned by
// the store, not the engine.
func (r *SQLiteRepository) UpsertMember(ctx context.Context, m core.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (id, display_name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name`,
		m.ID, m.DisplayName)
	if err != nil {
		return fmt.Errorf("upsert member %s: %w", m.ID, err)
	}
	return nil
}

// UpsertLocation inserts or updates a revenue source, including its
// distribution-group assignment.
func (r *SQLiteRepository) UpsertLocation(ctx context.Context, l core.Location) error {
	if err := l.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (id, display_name, category, dist_group) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   display_name = excluded.display_name,
		   category = excluded.category,
		   dist_group = excluded.dist_group`,
		l.ID, l.DisplayName, l.Category, l.Group)
	if err != nil {
		return fmt.Errorf("upsert location %s: %w", l.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) seedFixedTransfer(ctx context.Context, p core.Period) error {
	if r.defaults.FixedAmount <= 0 {
		return nil
	}
	from, err := r.memberIDByName(ctx, r.defaults.FixedFromName)
	if err != nil {
		return err
	}
	to, err := r.memberIDByName(ctx, r.defaults.FixedToName)
	if err != nil {
		return err
	}
	if from == "" || to == "" {
		return fmt.Errorf("fixed transfer parties not registered (%q -> %q)",
			r.defaults.FixedFromName, r.defaults.FixedToName)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO transfer_entries (period_key, from_id, to_id, amount_won, memo, fixed)
		 VALUES (?, ?, ?, ?, 'recurring', 1)`,
		p.Key(), from, to, r.defaults.FixedAmount)
	if err != nil {
		return fmt.Errorf("seed fixed transfer %s: %w", p, err)
	}
	return nil
}

func (r *SQLiteRepository) memberIDByName(ctx context.Context, name string) (string, error) {
	want := core.NormalizeName(name)
	if want == "" {
		return "", nil
	}
	members, err := r.ListMembers(ctx)
	if err != nil {
		return "", err
	}
	for _, m := range members {
		if core.NormalizeName(m.DisplayName) == want {
			return m.ID, nil
		}
	}
	return "", nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d not found", what, id)
	}
	return nil
}
