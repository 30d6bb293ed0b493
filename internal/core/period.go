package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period identifies one settlement month. Its key form is "YYYY-MM".
type Period struct {
	Year  int
	Month int
}

// ParsePeriod parses a "YYYY-MM" key.
func ParsePeriod(key string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(key), "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, key)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, key)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, key)
	}
	if year < 2000 || year > 9999 {
		return Period{}, fmt.Errorf("%w: %q (year out of range)", ErrInvalidPeriod, key)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Key returns the canonical "YYYY-MM" form.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 || p.Year < 2000 || p.Year > 9999 {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, p.Key())
	}
	return nil
}

func (p Period) String() string { return p.Key() }

// MarshalJSON encodes the period as its "YYYY-MM" key.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Key())
}

func (p *Period) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err != nil {
		return err
	}
	parsed, err := ParsePeriod(key)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
