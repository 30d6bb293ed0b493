package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jeongsan/internal/cache"
	"jeongsan/internal/core"
	"jeongsan/internal/records"
	"jeongsan/internal/settlement"
)

// Publisher is the outbound notification port. A nil publisher disables
// notifications without changing any other behavior.
type Publisher interface {
	PublishPeriodDirty(ctx context.Context, periodKey, reason string) error
}

// SettlementService orchestrates settlement reads through a small result
// cache and forwards mutations to the record store. Every mutation
// invalidates the affected period and notifies the recompute worker.
type SettlementService struct {
	store     records.Store
	engine    *settlement.Engine
	publisher Publisher
	results   *cache.LRUCache[settlement.Result]
}

func NewSettlementService(store records.Store, engine *settlement.Engine, publisher Publisher) *SettlementService {
	return &SettlementService{
		store:     store,
		engine:    engine,
		publisher: publisher,
		results:   cache.NewLRUCache[settlement.Result](24, 5*time.Minute),
	}
}

// RegisterCaches attaches the service's result cache to a cleanup
// manager.
func (s *SettlementService) RegisterCaches(m *cache.Manager) {
	m.Register(s.results)
}

// Settlement returns the full settlement view for a period, recomputing
// it on cache miss.
func (s *SettlementService) Settlement(ctx context.Context, p core.Period) (settlement.Result, error) {
	if res, found := s.results.Get(p.Key()); found {
		slog.DebugContext(ctx, "Settlement cache hit", "period", p.Key())
		return res, nil
	}
	res, err := s.engine.Compute(ctx, p)
	if err != nil {
		return settlement.Result{}, fmt.Errorf("compute settlement %s: %w", p, err)
	}
	s.results.Set(p.Key(), res)
	return res, nil
}

func (s *SettlementService) Ledger(ctx context.Context, p core.Period) ([]core.LedgerEntry, error) {
	res, err := s.Settlement(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Ledger, nil
}

func (s *SettlementService) NetBalances(ctx context.Context, p core.Period) ([]core.NetBalance, error) {
	res, err := s.Settlement(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Balances, nil
}

func (s *SettlementService) PaymentInstructions(ctx context.Context, p core.Period) ([]core.PaymentInstruction, error) {
	res, err := s.Settlement(ctx, p)
	if err != nil {
		return nil, err
	}
	return res.Instructions, nil
}

func (s *SettlementService) FundBalance(ctx context.Context, p core.Period) (int64, error) {
	res, err := s.Settlement(ctx, p)
	if err != nil {
		return 0, err
	}
	return res.FundBalance, nil
}

func (s *SettlementService) Members(ctx context.Context) ([]core.Member, error) {
	return s.store.ListMembers(ctx)
}

func (s *SettlementService) Locations(ctx context.Context) ([]core.Location, error) {
	return s.store.ListLocations(ctx)
}

func (s *SettlementService) PeriodConfig(ctx context.Context, p core.Period) (core.PeriodConfig, error) {
	return s.store.GetPeriodConfig(ctx, p)
}

func (s *SettlementService) Transfers(ctx context.Context, p core.Period) ([]core.TransferEntry, error) {
	return s.store.ListTransfers(ctx, p)
}

func (s *SettlementService) FundUsage(ctx context.Context, p core.Period) ([]core.FundUsageEntry, error) {
	return s.store.ListFundUsage(ctx, p)
}

// AddIncome stores a record through the ingestion boundary; validation
// failures surface here, before the engine can ever see the record.
func (s *SettlementService) AddIncome(ctx context.Context, r core.IncomeRecord) (string, error) {
	ref, err := s.store.AddIncome(ctx, r)
	if err != nil {
		return "", fmt.Errorf("add income: %w", err)
	}
	s.markDirty(ctx, core.PeriodOf(r.Date), "income added")
	return ref, nil
}

func (s *SettlementService) UpsertPeriodConfig(ctx context.Context, cfg core.PeriodConfig) error {
	if err := s.store.UpsertPeriodConfig(ctx, cfg); err != nil {
		return fmt.Errorf("upsert period config: %w", err)
	}
	s.markDirty(ctx, cfg.Period, "period config changed")
	return nil
}

func (s *SettlementService) AddTransfer(ctx context.Context, t core.TransferEntry) (int64, error) {
	id, err := s.store.AddTransfer(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("add transfer: %w", err)
	}
	s.markDirty(ctx, t.Period, "transfer added")
	return id, nil
}

func (s *SettlementService) UpdateTransfer(ctx context.Context, t core.TransferEntry) error {
	if err := s.store.UpdateTransfer(ctx, t); err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	s.markDirty(ctx, t.Period, "transfer updated")
	return nil
}

func (s *SettlementService) DeleteTransfer(ctx context.Context, p core.Period, id int64) error {
	if err := s.store.DeleteTransfer(ctx, id); err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	s.markDirty(ctx, p, "transfer deleted")
	return nil
}

func (s *SettlementService) AddFundUsage(ctx context.Context, u core.FundUsageEntry) (int64, error) {
	id, err := s.store.AddFundUsage(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("add fund usage: %w", err)
	}
	s.markDirty(ctx, u.Period, "fund usage added")
	return id, nil
}

func (s *SettlementService) UpdateFundUsage(ctx context.Context, u core.FundUsageEntry) error {
	if err := s.store.UpdateFundUsage(ctx, u); err != nil {
		return fmt.Errorf("update fund usage: %w", err)
	}
	s.markDirty(ctx, u.Period, "fund usage updated")
	return nil
}

func (s *SettlementService) DeleteFundUsage(ctx context.Context, p core.Period, id int64) error {
	if err := s.store.DeleteFundUsage(ctx, id); err != nil {
		return fmt.Errorf("delete fund usage: %w", err)
	}
	s.markDirty(ctx, p, "fund usage deleted")
	return nil
}

// markDirty drops the cached result and notifies the worker. Notification
// failures are logged, never propagated; the local state is already
// consistent.
func (s *SettlementService) markDirty(ctx context.Context, p core.Period, reason string) {
	s.results.Delete(p.Key())
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPeriodDirty(ctx, p.Key(), reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish period dirty message",
			"period", p.Key(), "reason", reason, "error", err)
	}
}
