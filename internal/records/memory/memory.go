// Package memory provides an in-memory record store used by tests and as
// the default development backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"jeongsan/internal/core"
	"jeongsan/internal/records"
)

type Store struct {
	mu        sync.Mutex
	defaults  records.Defaults
	members   []core.Member
	locations []core.Location
	incomes   []core.IncomeRecord
	configs   map[string]core.PeriodConfig
	transfers []core.TransferEntry
	usages    []core.FundUsageEntry
	nextID    int64
}

func New(defaults records.Defaults, members []core.Member, locations []core.Location) *Store {
	return &Store{
		defaults:  defaults,
		members:   append([]core.Member(nil), members...),
		locations: append([]core.Location(nil), locations...),
		configs:   make(map[string]core.PeriodConfig),
		nextID:    1,
	}
}

func (s *Store) ListIncome(_ context.Context, p core.Period) ([]core.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.IncomeRecord
	for _, r := range s.incomes {
		if p.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out, nil
}

// AddIncome validates the record at the boundary; invalid amounts never
// reach the settlement engine.
func (s *Store) AddIncome(_ context.Context, r core.IncomeRecord) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.memberExists(r.MemberID) {
		return "", fmt.Errorf("income record: %w %s", core.ErrUnknownMember, r.MemberID)
	}
	if !s.locationExists(r.LocationID) {
		return "", fmt.Errorf("income record: %w %s", core.ErrUnknownLocation, r.LocationID)
	}
	s.incomes = append(s.incomes, r)
	return fmt.Sprintf("mem:%d", len(s.incomes)), nil
}

func (s *Store) ListMembers(_ context.Context) ([]core.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Member(nil), s.members...), nil
}

func (s *Store) ListLocations(_ context.Context) ([]core.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Location(nil), s.locations...), nil
}

// GetPeriodConfig returns the period configuration, creating the default
// on first access. The default carries the configured fund amount and
// seeds the fixed recurring transfer as a flagged entry when both parties
// resolve to registered members.
func (s *Store) GetPeriodConfig(_ context.Context, p core.Period) (core.PeriodConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[p.Key()]; ok {
		return cfg, nil
	}
	cfg := core.PeriodConfig{
		Period:          p,
		FixedFundAmount: core.Money{Won: s.defaults.FundAmount},
	}
	s.configs[p.Key()] = cfg
	s.seedFixedTransferLocked(p)
	return cfg, nil
}

func (s *Store) UpsertPeriodConfig(_ context.Context, cfg core.PeriodConfig) error {
	if err := cfg.Period.Validate(); err != nil {
		return err
	}
	if err := cfg.FixedFundAmount.Validate(); err != nil {
		return fmt.Errorf("period config %s: %w", cfg.Period, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[cfg.Period.Key()]; !ok {
		s.seedFixedTransferLocked(cfg.Period)
	}
	s.configs[cfg.Period.Key()] = cfg
	return nil
}

func (s *Store) ListTransfers(_ context.Context, p core.Period) ([]core.TransferEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.TransferEntry
	for _, t := range s.transfers {
		if t.Period == p {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) AddTransfer(_ context.Context, t core.TransferEntry) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.transfers = append(s.transfers, t)
	return t.ID, nil
}

func (s *Store) UpdateTransfer(_ context.Context, t core.TransferEntry) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transfers {
		if s.transfers[i].ID != t.ID {
			continue
		}
		// The seeded fixed transfer is never user-editable; deleting it is
		// the only way to disable it for a period.
		if s.transfers[i].Fixed {
			return fmt.Errorf("transfer %d not found", t.ID)
		}
		s.transfers[i] = t
		return nil
	}
	return fmt.Errorf("transfer %d not found", t.ID)
}

func (s *Store) DeleteTransfer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transfers {
		if s.transfers[i].ID == id {
			s.transfers = append(s.transfers[:i], s.transfers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transfer %d not found", id)
}

func (s *Store) ListFundUsage(_ context.Context, p core.Period) ([]core.FundUsageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.FundUsageEntry
	for _, u := range s.usages {
		if u.Period == p {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) AddFundUsage(_ context.Context, u core.FundUsageEntry) (int64, error) {
	if err := u.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	s.usages = append(s.usages, u)
	return u.ID, nil
}

func (s *Store) UpdateFundUsage(_ context.Context, u core.FundUsageEntry) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.usages {
		if s.usages[i].ID == u.ID {
			s.usages[i] = u
			return nil
		}
	}
	return fmt.Errorf("fund usage %d not found", u.ID)
}

func (s *Store) DeleteFundUsage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.usages {
		if s.usages[i].ID == id {
			s.usages = append(s.usages[:i], s.usages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fund usage %d not found", id)
}

func (s *Store) seedFixedTransferLocked(p core.Period) {
	from := s.memberIDByNameLocked(s.defaults.FixedFromName)
	to := s.memberIDByNameLocked(s.defaults.FixedToName)
	if from == "" || to == "" || s.defaults.FixedAmount <= 0 {
		return
	}
	s.transfers = append(s.transfers, core.TransferEntry{
		ID:     s.nextID,
		Period: p,
		FromID: from,
		ToID:   to,
		Amount: core.Money{Won: s.defaults.FixedAmount},
		Memo:   "recurring",
		Fixed:  true,
	})
	s.nextID++
}

func (s *Store) memberIDByNameLocked(name string) string {
	want := core.NormalizeName(name)
	if want == "" {
		return ""
	}
	for _, m := range s.members {
		if core.NormalizeName(m.DisplayName) == want {
			return m.ID
		}
	}
	return ""
}

func (s *Store) memberExists(id string) bool {
	for _, m := range s.members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) locationExists(id string) bool {
	for _, l := range s.locations {
		if l.ID == id {
			return true
		}
	}
	return false
}
