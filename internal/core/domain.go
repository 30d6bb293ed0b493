package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Location categories. Every revenue source carries exactly one.
	CategoryInsured   Category = "insured"
	CategoryUninsured Category = "uninsured"

	// Distribution groups. Group membership is an explicit attribute of a
	// location, never inferred from its display name.
	GroupHub        DistributionGroup = "hub"
	GroupFund       DistributionGroup = "fund"
	GroupInsuredHub DistributionGroup = "insured-hub"
	GroupDirect     DistributionGroup = "direct"

	// ExternalParty marks the payer of the informational fund inflow. It is
	// never a registered member and is excluded from net balances.
	ExternalParty = "external"
)

type (
	Category          string
	DistributionGroup string

	Money struct {
		Won int64 `json:"won"`
	}

	Member struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}

	// Location is a named revenue source. Category and Group are permanent
	// attributes maintained as reference data.
	Location struct {
		ID          string            `json:"id"`
		DisplayName string            `json:"display_name"`
		Category    Category          `json:"category"`
		Group       DistributionGroup `json:"group"`
	}

	IncomeRecord struct {
		Date       time.Time `json:"date"`
		MemberID   string    `json:"member_id"`
		LocationID string    `json:"location_id"`
		Amount     Money     `json:"amount"`
		Memo       string    `json:"memo,omitempty"`
	}

	// PeriodConfig holds the operator choices for one settlement period.
	// A default instance is created on first access to a period.
	PeriodConfig struct {
		Period             Period `json:"period"`
		FixedFundAmount    Money  `json:"fixed_fund_amount"`
		HubCollectorID     string `json:"hub_collector_id"`
		SecondaryCollector string `json:"secondary_collector"`
	}

	// TransferEntry is an ad-hoc peer-to-peer payment logged for a period.
	// Fixed marks the recurring transfer seeded from configuration; it is
	// displayed as built-in and never duplicated against an identical
	// user-entered row.
	TransferEntry struct {
		ID     int64  `json:"id"`
		Period Period `json:"period"`
		FromID string `json:"from_id"`
		ToID   string `json:"to_id"`
		Amount Money  `json:"amount"`
		Memo   string `json:"memo,omitempty"`
		Fixed  bool   `json:"fixed"`
	}

	// FundUsageEntry is a withdrawal from the pooled fund, always paid by
	// the fund custodian to Who.
	FundUsageEntry struct {
		ID     int64  `json:"id"`
		Period Period `json:"period"`
		WhoID  string `json:"who_id"`
		Amount Money  `json:"amount"`
		Memo   string `json:"memo,omitempty"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidCategory = errors.New("invalid category")
	ErrUnknownMember   = errors.New("unknown member")
	ErrUnknownLocation = errors.New("unknown location")
	ErrEmptyName       = errors.New("empty name")
)

// Valid reports whether g is one of the recognized distribution groups.
func (g DistributionGroup) Valid() bool {
	switch g {
	case GroupHub, GroupFund, GroupInsuredHub, GroupDirect:
		return true
	}
	return false
}

// InsuredOnly reports whether only insured-category income in this group
// participates in settlement. Uninsured income at such sources stays with
// the collector and is never redistributed.
func (g DistributionGroup) InsuredOnly() bool {
	return g == GroupInsuredHub
}

func (c Category) Valid() bool {
	return c == CategoryInsured || c == CategoryUninsured
}

func (m Money) Validate() error {
	if m.Won < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsZero reports whether the amount is exactly zero won.
func (m Money) IsZero() bool { return m.Won == 0 }

func (mb Member) Validate() error {
	if strings.TrimSpace(mb.ID) == "" {
		return fmt.Errorf("member: %w (id)", ErrEmptyName)
	}
	if strings.TrimSpace(mb.DisplayName) == "" {
		return fmt.Errorf("member %s: %w (display name)", mb.ID, ErrEmptyName)
	}
	return nil
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("location: %w (id)", ErrEmptyName)
	}
	if strings.TrimSpace(l.DisplayName) == "" {
		return fmt.Errorf("location %s: %w (display name)", l.ID, ErrEmptyName)
	}
	if !l.Category.Valid() {
		return fmt.Errorf("location %s: %w (%q)", l.ID, ErrInvalidCategory, l.Category)
	}
	if !l.Group.Valid() {
		return fmt.Errorf("location %s: invalid distribution group %q", l.ID, l.Group)
	}
	return nil
}

// Validate enforces the ingestion invariants. Records that fail here must
// never reach the settlement engine.
func (r IncomeRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("income record: date cannot be zero")
	}
	if strings.TrimSpace(r.MemberID) == "" {
		return fmt.Errorf("income record: %w", ErrUnknownMember)
	}
	if strings.TrimSpace(r.LocationID) == "" {
		return fmt.Errorf("income record: %w", ErrUnknownLocation)
	}
	if err := r.Amount.Validate(); err != nil {
		return fmt.Errorf("income record (member=%s location=%s): %w", r.MemberID, r.LocationID, err)
	}
	return nil
}

func (t TransferEntry) Validate() error {
	if strings.TrimSpace(t.FromID) == "" || strings.TrimSpace(t.ToID) == "" {
		return fmt.Errorf("transfer: %w", ErrUnknownMember)
	}
	if err := t.Amount.Validate(); err != nil {
		return fmt.Errorf("transfer %s->%s: %w", t.FromID, t.ToID, err)
	}
	return nil
}

func (u FundUsageEntry) Validate() error {
	if strings.TrimSpace(u.WhoID) == "" {
		return fmt.Errorf("fund usage: %w", ErrUnknownMember)
	}
	if err := u.Amount.Validate(); err != nil {
		return fmt.Errorf("fund usage for %s: %w", u.WhoID, err)
	}
	return nil
}

// SameTriple reports whether two transfers carry the identical
// (from, to, amount) triple. Used to avoid double counting a user entry
// that duplicates the seeded fixed transfer.
func (t TransferEntry) SameTriple(o TransferEntry) bool {
	return t.FromID == o.FromID && t.ToID == o.ToID && t.Amount == o.Amount
}

// NormalizeName collapses internal whitespace and trims the ends, so that
// identity comparison by display name survives formatting differences.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
