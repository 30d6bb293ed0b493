package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{input: "2025-07", want: Period{Year: 2025, Month: 7}},
		{input: " 2025-12 ", want: Period{Year: 2025, Month: 12}},
		{input: "2025-00", wantErr: true},
		{input: "2025-13", wantErr: true},
		{input: "1999-01", wantErr: true},
		{input: "2025", wantErr: true},
		{input: "abcd-ef", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q) = %v, want error", tt.input, got)
			} else if !errors.Is(err, ErrInvalidPeriod) {
				t.Errorf("ParsePeriod(%q) error = %v, want ErrInvalidPeriod", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPeriodKey(t *testing.T) {
	p := Period{Year: 2025, Month: 7}
	if got := p.Key(); got != "2025-07" {
		t.Fatalf("Key() = %q, want 2025-07", got)
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{Year: 2025, Month: 7}
	inside := time.Date(2025, 7, 31, 23, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	if !p.Contains(inside) {
		t.Errorf("Contains(%v) = false, want true", inside)
	}
	if p.Contains(outside) {
		t.Errorf("Contains(%v) = true, want false", outside)
	}
}

func TestPeriodOf(t *testing.T) {
	ts := time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)
	if got := PeriodOf(ts); got != (Period{Year: 2025, Month: 2}) {
		t.Fatalf("PeriodOf(%v) = %v", ts, got)
	}
}

func TestPeriodJSON(t *testing.T) {
	p := Period{Year: 2025, Month: 3}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2025-03"` {
		t.Fatalf("Marshal = %s, want \"2025-03\"", data)
	}

	var back Period
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != p {
		t.Fatalf("round trip = %v, want %v", back, p)
	}

	if err := json.Unmarshal([]byte(`"2025-99"`), &back); err == nil {
		t.Fatal("Unmarshal accepted an invalid period key")
	}
}
